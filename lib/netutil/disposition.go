// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// ErrContentDisposition is wrapped by every error returned from
// FilenameFromContentDisposition.
var ErrContentDisposition = errors.New("malformed content-disposition")

// FilenameFromContentDisposition returns the file name carried by a
// Content-Disposition header value such as
//
//	attachment; filename="3f2504e0-4f89-11d3-9a0c-0305e82c3301.xlsx"
//
// The RFC 6266 form is parsed with mime.ParseMediaType. Values that
// fail strict parsing fall back to the text after the first "=", with
// surrounding quotes removed, which is what the data catalog has been
// observed to send.
//
// The name must be a bare file name: values containing a path
// separator, or naming "." or "..", are rejected so the download cannot
// escape the output directory.
func FilenameFromContentDisposition(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: header is empty", ErrContentDisposition)
	}

	var filename string
	if _, parameters, err := mime.ParseMediaType(value); err == nil {
		filename = parameters["filename"]
	} else {
		_, after, found := strings.Cut(value, "=")
		if !found {
			return "", fmt.Errorf("%w: %q has no filename parameter", ErrContentDisposition, value)
		}
		filename = strings.Trim(strings.TrimSpace(after), `"`)
	}

	if filename == "" {
		return "", fmt.Errorf("%w: %q has an empty filename", ErrContentDisposition, value)
	}
	if filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filepath.Base(filename) != filename {
		return "", fmt.Errorf("%w: filename %q is not a bare file name", ErrContentDisposition, filename)
	}
	return filename, nil
}
