// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urbanlogiq/london-travel-time/lib/objectid"
	"github.com/urbanlogiq/london-travel-time/lib/paramtable"
	"github.com/urbanlogiq/london-travel-time/lib/testutil"
)

func TestLoadFile_JSONC(t *testing.T) {
	path := testutil.WriteFile(t, "config.json", `{
	// Issued with the API account.
	"client_id": "a1b2c3",
	"username": "analyst@example.org",
	"password": "secret",
	"schematic": "0f8fad5b-d9cb-469f-a165-70867728950e",
	"realm": "london",
	/* Tune polling for long jobs. */
	"poll_timeout": "2h",
	"params_compression": "zstd",
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.ClientID != "a1b2c3" || cfg.Username != "analyst@example.org" || cfg.Password != "secret" {
		t.Errorf("credentials = %q %q %q", cfg.ClientID, cfg.Username, cfg.Password)
	}
	if cfg.Realm != "london" {
		t.Errorf("realm = %q", cfg.Realm)
	}
	if cfg.PollTimeout.Std() != 2*time.Hour {
		t.Errorf("poll_timeout = %v", cfg.PollTimeout.Std())
	}
	if cfg.RequestTimeout != 0 {
		t.Errorf("request_timeout = %v, want unset", cfg.RequestTimeout.Std())
	}

	id, err := cfg.SchematicID()
	if err != nil {
		t.Fatalf("SchematicID: %v", err)
	}
	if id != objectid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e") {
		t.Errorf("schematic = %s", id)
	}
	compression, err := cfg.Compression()
	if err != nil || compression != paramtable.CompressionZstd {
		t.Errorf("Compression = %v, %v", compression, err)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	path := testutil.WriteFile(t, "config.yaml", `
client_id: a1b2c3
username: analyst@example.org
schematic: 0f8fad5bd9cb469fa16570867728950e
realm: london
api_base_url: https://staging.urbanlogiq.ca/v1/api/ulv2
request_timeout: 90s
poll_initial_interval: 1s
poll_max_interval: 30s
accept_zstd: true
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.APIBaseURL != "https://staging.urbanlogiq.ca/v1/api/ulv2" {
		t.Errorf("api_base_url = %q", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout.Std() != 90*time.Second {
		t.Errorf("request_timeout = %v", cfg.RequestTimeout.Std())
	}
	if cfg.PollInitialInterval.Std() != time.Second || cfg.PollMaxInterval.Std() != 30*time.Second {
		t.Errorf("poll intervals = %v, %v", cfg.PollInitialInterval.Std(), cfg.PollMaxInterval.Std())
	}
	if !cfg.AcceptZstd {
		t.Error("accept_zstd = false")
	}
	if cfg.Password != "" {
		t.Errorf("password = %q, want empty", cfg.Password)
	}
}

func TestLoadFile_MissingKeys(t *testing.T) {
	path := testutil.WriteFile(t, "config.json", `{"username": "analyst"}`)

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("LoadFile accepted a config without required keys")
	}
	for _, key := range []string{"client_id", "schematic", "realm"} {
		if !strings.Contains(err.Error(), key+" is required") {
			t.Errorf("error does not mention %s: %v", key, err)
		}
	}
	if strings.Contains(err.Error(), "username is required") {
		t.Errorf("error reports a key that is present: %v", err)
	}
}

func TestLoadFile_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bad schematic",
			content: `{"client_id":"c","username":"u","schematic":"not-an-id","realm":"r"}`,
			want:    "schematic",
		},
		{
			name:    "bad compression",
			content: `{"client_id":"c","username":"u","schematic":"0f8fad5bd9cb469fa16570867728950e","realm":"r","params_compression":"gzip"}`,
			want:    "params_compression",
		},
		{
			name:    "bad duration",
			content: `{"client_id":"c","username":"u","schematic":"0f8fad5bd9cb469fa16570867728950e","realm":"r","poll_timeout":"soon"}`,
			want:    "soon",
		},
		{
			name:    "numeric duration",
			content: `{"client_id":"c","username":"u","schematic":"0f8fad5bd9cb469fa16570867728950e","realm":"r","poll_timeout":30}`,
			want:    "duration must be a string",
		},
		{
			name:    "negative duration",
			content: `{"client_id":"c","username":"u","schematic":"0f8fad5bd9cb469fa16570867728950e","realm":"r","request_timeout":"-1s"}`,
			want:    "request_timeout must not be negative",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := LoadFile(testutil.WriteFile(t, "config.json", test.content))
			if err == nil {
				t.Fatal("LoadFile succeeded")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error = %v, want it to mention %q", err, test.want)
			}
		})
	}
}

func TestLoadFile_ExpandsCredentials(t *testing.T) {
	t.Setenv("TRAVEL_TIME_PASSWORD", "from-env")
	path := testutil.WriteFile(t, "config.json", `{
	"client_id": "c",
	"username": "${TRAVEL_TIME_USER:-analyst}",
	"password": "${TRAVEL_TIME_PASSWORD}",
	"schematic": "0f8fad5bd9cb469fa16570867728950e",
	"realm": "${NOT_EXPANDED}"
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Password != "from-env" {
		t.Errorf("password = %q", cfg.Password)
	}
	if cfg.Username != "analyst" {
		t.Errorf("username = %q, want the default", cfg.Username)
	}
	if cfg.Realm != "${NOT_EXPANDED}" {
		t.Errorf("realm = %q, want it left as written", cfg.Realm)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist", err)
	}
}
