// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package ulapi

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/urbanlogiq/london-travel-time/lib/netutil"
	"github.com/urbanlogiq/london-travel-time/lib/objectid"
)

// Format is the representation the data catalog renders a worklog in.
type Format string

const (
	// FormatDefault omits the format parameter; the catalog responds
	// with an Arrow IPC stream.
	FormatDefault Format = ""

	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name. "none" and the empty string select
// FormatDefault.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "none":
		return FormatDefault, nil
	case "xlsx", "csv", "json":
		return Format(name), nil
	default:
		return FormatDefault, fmt.Errorf("ulapi: unknown result format %q (want xlsx, csv, json, or none)", name)
	}
}

// Download describes a worklog written to disk.
type Download struct {
	// Path is the written file: the output directory joined with the
	// name from the response's Content-Disposition header.
	Path string

	// Bytes is the size of the written file.
	Bytes int64

	// Digest is the hex BLAKE3-256 hash of the file contents.
	Digest string
}

// DownloadWorklog streams the data of worklog into directory. The file
// name comes from the response's Content-Disposition header; a missing
// or unusable header is an error wrapping netutil.ErrContentDisposition
// and nothing is written. An existing file of the same name is
// replaced atomically.
func (client *Client) DownloadWorklog(ctx context.Context, token string, worklog objectid.ID, format Format, directory string) (*Download, error) {
	endpoint := client.endpoint("datacatalog", "stream", worklog.String())
	if format != FormatDefault {
		endpoint += "?" + url.Values{"format": {string(format)}}.Encode()
	}

	response, err := client.request(ctx, http.MethodGet, endpoint, client.apiHeaders(token), nil)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	filename, err := netutil.FilenameFromContentDisposition(response.Header.Get("Content-Disposition"))
	if err != nil {
		return nil, fmt.Errorf("ulapi: worklog %s: %w", worklog, err)
	}

	body, err := netutil.DecodedBody(response)
	if err != nil {
		return nil, fmt.Errorf("ulapi: worklog %s: %w", worklog, err)
	}
	defer body.Close()

	path := filepath.Join(directory, filename)
	written, digest, err := writeFileAtomic(path, body)
	if err != nil {
		return nil, fmt.Errorf("ulapi: writing worklog %s: %w", worklog, err)
	}

	client.logger.Info("downloaded worklog",
		"worklog_id", worklog.String(),
		"format", string(format),
		"path", path,
		"bytes", written,
		"blake3", digest,
	)
	return &Download{Path: path, Bytes: written, Digest: digest}, nil
}

// writeFileAtomic copies source into a temporary file beside path,
// syncs it, and renames it into place. Returns the byte count and hex
// BLAKE3 digest of what was written.
func writeFileAtomic(path string, source io.Reader) (int64, string, error) {
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, "", err
	}
	temporaryPath := file.Name()

	hasher := blake3.New()
	written, err := io.Copy(io.MultiWriter(file, hasher), source)
	if err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return 0, "", err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return 0, "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return 0, "", err
	}
	if err := os.Chmod(temporaryPath, 0o644); err != nil {
		os.Remove(temporaryPath)
		return 0, "", err
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return 0, "", err
	}

	return written, hex.EncodeToString(hasher.Sum(nil)), nil
}
