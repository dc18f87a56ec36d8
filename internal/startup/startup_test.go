package startup

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"asset-library/internal/config"

	"github.com/gorilla/mux"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestPrepareLibrary(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(t.TempDir(), "nested", "library")

	if err := PrepareLibrary(&cfg); err != nil {
		t.Fatalf("PrepareLibrary() error = %v", err)
	}
	info, err := os.Stat(cfg.Paths.LibraryDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("library dir not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.LibraryDir, ".write-test")); !os.IsNotExist(err) {
		t.Error("write test file left behind")
	}
}

func TestPrepareLibrary_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "library")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Paths.LibraryDir = file
	if err := PrepareLibrary(&cfg); err == nil {
		t.Fatal("expected error when library path is a file")
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/assets", "api/assets"},
		{"/api/{kind}/{id}/export", "api/{kind}"},
		{"/health", "health"},
		{"/", ""},
	}

	for _, tt := range tests {
		if got := getRouteGroup(tt.path); got != tt.want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestGetRoutes(t *testing.T) {
	router := mux.NewRouter()
	noop := func(http.ResponseWriter, *http.Request) {}
	router.HandleFunc("/api/{kind}", noop).Methods(http.MethodGet).Name("list")
	router.HandleFunc("/api/{kind}/{id}", noop).Methods(http.MethodPatch, http.MethodDelete)

	routes, err := GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes() error = %v", err)
	}
	if len(routes) != 3 {
		t.Fatalf("got %d routes, want 3: %+v", len(routes), routes)
	}
	if routes[0].Name != "list" || routes[0].Path != "/api/{kind}" {
		t.Errorf("first route = %+v", routes[0])
	}
}
