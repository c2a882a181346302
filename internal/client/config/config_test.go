package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	want := &Config{
		BaseURL:        "https://reqres.in/api",
		RequestTimeout: 30 * time.Second,
		DBPath:         "userconsole.db",
		LogLevel:       "warn",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Files(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"yaml", "cfg.yaml", "base_url: http://localhost:8080/api\napi_key: reqres-free-v1\nrequest_timeout: 5s\nlog_file: console.log\n"},
		{"json", "cfg.json", `{"base_url":"http://localhost:8080/api","api_key":"reqres-free-v1","request_timeout":"5s","log_file":"console.log"}`},
		{"toml", "cfg.toml", "base_url = \"http://localhost:8080/api\"\napi_key = \"reqres-free-v1\"\nrequest_timeout = \"5s\"\nlog_file = \"console.log\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, tt.file, tt.body)

			cfg, err := Load([]string{"-c", path})
			require.NoError(t, err)

			want := &Config{
				BaseURL:        "http://localhost:8080/api",
				APIKey:         "reqres-free-v1",
				RequestTimeout: 5 * time.Second,
				DBPath:         "userconsole.db",
				LogLevel:       "warn",
				LogFile:        "console.log",
			}
			if diff := cmp.Diff(want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTemp(t, "cfg.yaml", "base_url: http://file/api\ndb_path: file.db\nlog_level: warn\n")
	t.Setenv("USERCONSOLE_DB_PATH", "env.db")
	t.Setenv("USERCONSOLE_LOG_LEVEL", "debug")
	t.Setenv("USERCONSOLE_REQUEST_TIMEOUT", "12s")

	cfg, err := Load([]string{"-config", path, "-a", "http://flag/api", "-x", "ignored"})
	require.NoError(t, err)

	assert.Equal(t, "http://flag/api", cfg.BaseURL)
	assert.Equal(t, "env.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load([]string{"-a", "http://127.0.0.1:8080/api", "-t", "10", "-d", "/tmp/console.db"})
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080/api", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "/tmp/console.db", cfg.DBPath)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
	}{
		{"bad timeout flag", func(*testing.T) []string { return []string{"-t", "abc"} }},
		{"zero timeout", func(*testing.T) []string { return []string{"-t", "0"} }},
		{"missing file", func(*testing.T) []string { return []string{"-c", "/definitely/not/here.yaml"} }},
		{"unsupported extension", func(t *testing.T) []string { return []string{"-c", writeTemp(t, "cfg.ini", "a=b")} }},
		{"invalid json", func(t *testing.T) []string { return []string{"-c", writeTemp(t, "cfg.json", "{ not json")} }},
		{"empty base url", func(*testing.T) []string { return []string{"-a", ""} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args(t))
			assert.Error(t, err)
		})
	}
}
