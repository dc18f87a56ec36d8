package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"asset-library/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	for _, key := range []string{
		"ASSET_LIBRARY_CONFIG", "ASSET_LIBRARY_DIR", "ASSET_LIBRARY_CATALOG_BACKEND",
		"ASSET_LIBRARY_BIND", "METRICS_ENABLED", "METRICS_BIND", "LOG_HEALTH_CHECKS",
		"LOG_LEVEL", "FFMPEG_PATH", "FFPROBE_PATH",
	} {
		t.Setenv(key, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(home); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(home, ".config", "asset-library", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}

	wantLibrary := filepath.Join(home, ".local", "share", "asset-library")
	if cfg.Paths.LibraryDir != wantLibrary {
		t.Fatalf("library dir = %q, want %q", cfg.Paths.LibraryDir, wantLibrary)
	}
	if cfg.Catalog.Backend != config.BackendSQLite {
		t.Fatalf("backend = %q, want sqlite", cfg.Catalog.Backend)
	}
	if cfg.Thumbnails.MaxDimension != 512 {
		t.Fatalf("max dimension = %d, want 512", cfg.Thumbnails.MaxDimension)
	}
	if cfg.CodecTimeout() != 60*time.Second {
		t.Fatalf("codec timeout = %v, want 60s", cfg.CodecTimeout())
	}
	if cfg.Ingest.BatchSize != 10 {
		t.Fatalf("batch size = %d, want 10", cfg.Ingest.BatchSize)
	}
	if cfg.Server.Bind != "127.0.0.1:7878" {
		t.Fatalf("bind = %q", cfg.Server.Bind)
	}
	if cfg.Server.MetricsEnabled {
		t.Fatal("metrics should be disabled by default")
	}
	if cfg.CatalogPath() != filepath.Join(wantLibrary, "catalog.db") {
		t.Fatalf("catalog path = %q", cfg.CatalogPath())
	}
	if cfg.LockPath() != filepath.Join(wantLibrary, ".catalog.lock") {
		t.Fatalf("lock path = %q", cfg.LockPath())
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")

	content := `
[paths]
library_dir = "~/lib"

[catalog]
backend = "BADGER"

[thumbnails]
max_dimension = 256
renderer_command = ["fbx-preview", "--size", "512"]

[ingest]
batch_size = 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ASSET_LIBRARY_BIND", "127.0.0.1:9000")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Paths.LibraryDir != filepath.Join(home, "lib") {
		t.Fatalf("library dir = %q", cfg.Paths.LibraryDir)
	}
	if cfg.Catalog.Backend != config.BackendBadger {
		t.Fatalf("backend = %q, want badger", cfg.Catalog.Backend)
	}
	if cfg.CatalogPath() != filepath.Join(home, "lib", "catalog.badger") {
		t.Fatalf("catalog path = %q", cfg.CatalogPath())
	}
	if cfg.Thumbnails.MaxDimension != 256 {
		t.Fatalf("max dimension = %d", cfg.Thumbnails.MaxDimension)
	}
	if strings.Join(cfg.Thumbnails.RendererCommand, " ") != "fbx-preview --size 512" {
		t.Fatalf("renderer command = %v", cfg.Thumbnails.RendererCommand)
	}
	if cfg.Ingest.BatchSize != 4 {
		t.Fatalf("batch size = %d", cfg.Ingest.BatchSize)
	}
	if cfg.Server.Bind != "127.0.0.1:9000" {
		t.Fatalf("bind = %q, want env override", cfg.Server.Bind)
	}
	if !cfg.Server.MetricsEnabled {
		t.Fatal("expected METRICS_ENABLED to enable metrics")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "unknown backend", content: "[catalog]\nbackend = \"postgres\"\n", want: "catalog.backend"},
		{name: "bad bind", content: "[server]\nbind = \"nope\"\n", want: "server.bind"},
		{name: "bad level", content: "[logging]\nlevel = \"chatty\"\n", want: "logging.level"},
		{name: "unknown key", content: "[paths]\nstaging_dir = \"/x\"\n", want: "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := isolate(t)
			path := filepath.Join(home, "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	isolate(t)

	var parsed config.Config
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &parsed); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}

	def := config.Default()
	if parsed.Catalog != def.Catalog {
		t.Errorf("sample catalog = %+v, default %+v", parsed.Catalog, def.Catalog)
	}
	if parsed.Ingest != def.Ingest {
		t.Errorf("sample ingest = %+v, default %+v", parsed.Ingest, def.Ingest)
	}
	if parsed.Server != def.Server {
		t.Errorf("sample server = %+v, default %+v", parsed.Server, def.Server)
	}
	if parsed.Thumbnails.MaxDimension != def.Thumbnails.MaxDimension ||
		parsed.Thumbnails.CodecTimeout != def.Thumbnails.CodecTimeout {
		t.Errorf("sample thumbnails = %+v, default %+v", parsed.Thumbnails, def.Thumbnails)
	}
}

func TestWriteSample(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "nested", "config.toml")

	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample returned error: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected second WriteSample to refuse overwrite")
	}

	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("Load(sample) exists=%v err=%v", exists, err)
	}
}
