// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package ulapi

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/urbanlogiq/london-travel-time/lib/netutil"
	"github.com/urbanlogiq/london-travel-time/lib/objectid"
	"github.com/urbanlogiq/london-travel-time/lib/testutil"
)

func blake3Hex(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestDownloadWorklog(t *testing.T) {
	worklog := objectid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301")
	payload := []byte("PK\x03\x04 spreadsheet bytes")

	var path, format string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		path = request.URL.Path
		format = request.URL.Query().Get("format")
		writer.Header().Set("Content-Disposition", `attachment; filename="travel_time.xlsx"`)
		writer.Write(payload)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	directory := t.TempDir()
	download, err := client.DownloadWorklog(context.Background(), testToken, worklog, FormatXLSX, directory)
	if err != nil {
		t.Fatalf("DownloadWorklog: %v", err)
	}

	if path != "/v1/api/ulv2/datacatalog/stream/3f2504e0-4f89-11d3-9a0c-0305e82c3301" {
		t.Errorf("path = %q", path)
	}
	if format != "xlsx" {
		t.Errorf("format = %q, want xlsx", format)
	}
	if download.Path != filepath.Join(directory, "travel_time.xlsx") {
		t.Errorf("Path = %q", download.Path)
	}
	if download.Bytes != int64(len(payload)) {
		t.Errorf("Bytes = %d, want %d", download.Bytes, len(payload))
	}
	if download.Digest != blake3Hex(payload) {
		t.Errorf("Digest = %s, want %s", download.Digest, blake3Hex(payload))
	}

	written, err := os.ReadFile(download.Path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.Equal(written, payload) {
		t.Errorf("file contents = %q, want %q", written, payload)
	}

	if names := testutil.DirNames(t, directory); !slices.Equal(names, []string{"travel_time.xlsx"}) {
		t.Errorf("output directory = %v, want only the result (temp file left behind?)", names)
	}
}

func TestDownloadWorklogDefaultFormat(t *testing.T) {
	var rawQuery string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		rawQuery = request.URL.RawQuery
		writer.Header().Set("Content-Disposition", "attachment; filename=result.arrow")
		writer.Write([]byte("arrow"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.DownloadWorklog(context.Background(), testToken, objectid.New(), FormatDefault, t.TempDir()); err != nil {
		t.Fatalf("DownloadWorklog: %v", err)
	}
	if rawQuery != "" {
		t.Errorf("query = %q, want none for the default format", rawQuery)
	}
}

func TestDownloadWorklogZstd(t *testing.T) {
	payload := bytes.Repeat([]byte("node,start,end,minutes\n"), 200)
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := encoder.EncodeAll(payload, nil)
	encoder.Close()

	var acceptEncoding string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		acceptEncoding = request.Header.Get("Accept-Encoding")
		writer.Header().Set("Content-Disposition", `attachment; filename="result.csv"`)
		writer.Header().Set("Content-Encoding", "zstd")
		writer.Write(compressed)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:    server.URL + "/v1/api/ulv2",
		TokenURL:   server.URL + "/token",
		HTTPClient: server.Client(),
		AcceptZstd: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	download, err := client.DownloadWorklog(context.Background(), testToken, objectid.New(), FormatCSV, t.TempDir())
	if err != nil {
		t.Fatalf("DownloadWorklog: %v", err)
	}
	if acceptEncoding != "zstd" {
		t.Errorf("Accept-Encoding = %q, want zstd", acceptEncoding)
	}
	written, _ := os.ReadFile(download.Path)
	if !bytes.Equal(written, payload) {
		t.Errorf("decoded file has %d bytes, want %d", len(written), len(payload))
	}
	if download.Digest != blake3Hex(payload) {
		t.Error("digest is not over the decoded contents")
	}
}

func TestDownloadWorklogMissingContentDisposition(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("data"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	directory := t.TempDir()
	_, err := client.DownloadWorklog(context.Background(), testToken, objectid.New(), FormatJSON, directory)
	if !errors.Is(err, netutil.ErrContentDisposition) {
		t.Fatalf("error = %v, want ErrContentDisposition", err)
	}

	if names := testutil.DirNames(t, directory); len(names) != 0 {
		t.Errorf("output directory = %v, want it empty", names)
	}
}

func TestDownloadWorklogRejectsTraversal(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Disposition", `attachment; filename="../escape.csv"`)
		writer.Write([]byte("data"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	directory := filepath.Join(t.TempDir(), "out")
	if err := os.Mkdir(directory, 0o755); err != nil {
		t.Fatal(err)
	}
	_, err := client.DownloadWorklog(context.Background(), testToken, objectid.New(), FormatCSV, directory)
	if !errors.Is(err, netutil.ErrContentDisposition) {
		t.Fatalf("error = %v, want ErrContentDisposition", err)
	}
	if _, err := os.Stat(filepath.Join(directory, "..", "escape.csv")); !os.IsNotExist(err) {
		t.Errorf("file written outside the output directory (stat error %v)", err)
	}
}

func TestDownloadWorklogNotFound(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		http.NotFound(writer, request)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.DownloadWorklog(context.Background(), testToken, objectid.New(), FormatXLSX, t.TempDir())
	if !IsNotFound(err) {
		t.Fatalf("error = %v, want a 404 RequestError", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"", FormatDefault, false},
		{"none", FormatDefault, false},
		{"xlsx", FormatXLSX, false},
		{"csv", FormatCSV, false},
		{"json", FormatJSON, false},
		{"XLSX", FormatDefault, true},
		{"parquet", FormatDefault, true},
	}
	for _, test := range tests {
		got, err := ParseFormat(test.name)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, want error %v", test.name, err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", test.name, got, test.want)
		}
	}
}

func TestDownloadWorklogSlowStream(t *testing.T) {
	chunk := bytes.Repeat([]byte("x"), 1024)
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Disposition", `attachment; filename="result.csv"`)
		flusher := writer.(http.Flusher)
		for range 6 {
			writer.Write(chunk)
			flusher.Flush()
			time.Sleep(100 * time.Millisecond)
		}
	}))
	defer server.Close()

	// The whole transfer takes about twice the request timeout.
	client, err := NewClient(Config{
		BaseURL:        server.URL + "/v1/api/ulv2",
		TokenURL:       server.URL + "/token",
		HTTPClient:     server.Client(),
		RequestTimeout: 300 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	download, err := client.DownloadWorklog(context.Background(), testToken, objectid.New(), FormatCSV, t.TempDir())
	if err != nil {
		t.Fatalf("DownloadWorklog: %v", err)
	}
	if download.Bytes != 6*1024 {
		t.Errorf("Bytes = %d, want %d", download.Bytes, 6*1024)
	}
}
