package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"
)

type recordingObserver struct {
	mu       sync.Mutex
	ops      []string
	attempts int
	success  int
	failures int
	stale    int
}

func (r *recordingObserver) ObserveOperation(volume, operation string, _ float64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.ops = append(r.ops, volume+"/"+operation+"/"+status)
}

func (r *recordingObserver) ObserveRetryAttempt(string, string) { r.attempts++ }
func (r *recordingObserver) ObserveRetrySuccess(string, string) { r.success++ }
func (r *recordingObserver) ObserveRetryFailure(string, string) { r.failures++ }
func (r *recordingObserver) ObserveStaleError(string, string)   { r.stale++ }

func withObserver(t *testing.T) *recordingObserver {
	t.Helper()
	obs := &recordingObserver{}
	prev := defaultObserver
	SetObserver(obs)
	t.Cleanup(func() { SetObserver(prev) })
	return obs
}

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 50*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 50ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 500*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 500ms", config.MaxBackoff)
	}
	if config.VolumeResolver != nil {
		t.Error("VolumeResolver should be nil by default")
	}
}

func TestIsNFSStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "ESTALE error", err: syscall.ESTALE, want: true},
		{name: "wrapped ESTALE", err: &os.PathError{Op: "stat", Path: "/x", Err: syscall.ESTALE}, want: true},
		{name: "ENOENT error", err: syscall.ENOENT, want: false},
		{name: "generic error", err: os.ErrNotExist, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNFSStaleError(tt.err); got != tt.want {
				t.Errorf("isNFSStaleError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVolumeResolver_Resolve(t *testing.T) {
	vr := NewVolumeResolver(map[string]string{
		"assets":     "/library/assets",
		"textures":   "/library/textures",
		"stockshots": "/library/stockshots",
		"catalog":    "/library",
	})

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "assets root", path: "/library/assets", want: "assets"},
		{name: "asset entry", path: "/library/assets/4b1e/model.fbx", want: "assets"},
		{name: "texture entry", path: "/library/textures/9f00/albedo.png", want: "textures"},
		{name: "stockshot frame", path: "/library/stockshots/aa/take.0001.exr", want: "stockshots"},
		{name: "catalog file falls to parent", path: "/library/catalog.db", want: "catalog"},
		{name: "prefix without separator", path: "/library/assetsX/file", want: "catalog"},
		{name: "outside every volume", path: "/tmp/file", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vr.Resolve(tt.path); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestVolumeResolver_Resolve_NilResolver(t *testing.T) {
	var vr *VolumeResolver
	if got := vr.Resolve("/anything"); got != "unknown" {
		t.Errorf("nil resolver Resolve() = %q, want unknown", got)
	}
}

func TestRetryConfig_ResolveVolume(t *testing.T) {
	prev := defaultResolver
	t.Cleanup(func() { SetDefaultVolumeResolver(prev) })

	SetDefaultVolumeResolver(NewVolumeResolver(map[string]string{"assets": "/lib/assets"}))

	config := DefaultRetryConfig()
	if got := config.resolveVolume("/lib/assets/x"); got != "assets" {
		t.Errorf("default resolver: got %q, want assets", got)
	}

	config.VolumeResolver = NewVolumeResolver(map[string]string{"textures": "/lib/assets"})
	if got := config.resolveVolume("/lib/assets/x"); got != "textures" {
		t.Errorf("config resolver: got %q, want textures", got)
	}
}

func TestStatWithRetry_Success(t *testing.T) {
	obs := withObserver(t)
	path := filepath.Join(t.TempDir(), "model.fbx")
	if err := os.WriteFile(path, []byte("fbx"), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := StatWithRetry(path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("StatWithRetry() error = %v", err)
	}
	if info.Size() != 3 {
		t.Errorf("Size() = %d, want 3", info.Size())
	}
	if len(obs.ops) != 1 || obs.ops[0] != "unknown/stat/ok" {
		t.Errorf("observed ops = %v", obs.ops)
	}
}

func TestStatWithRetry_NotExist(t *testing.T) {
	obs := withObserver(t)
	_, err := StatWithRetry(filepath.Join(t.TempDir(), "missing"), DefaultRetryConfig())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error = %v, want ErrNotExist", err)
	}
	if obs.attempts != 0 || obs.stale != 0 {
		t.Errorf("non-stale error must not retry: attempts=%d stale=%d", obs.attempts, obs.stale)
	}
}

func TestReadDirWithRetry(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := ReadDirWithRetry(dir, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("ReadDirWithRetry() error = %v", err)
	}
	if len(entries) != 2 || entries[0].Name() != "a.png" {
		t.Errorf("entries = %v", entries)
	}
}

func TestWithRetry_RecoversFromStaleHandle(t *testing.T) {
	obs := withObserver(t)
	calls := 0

	got, err := withRetry("stat", "/x", fastRetry(), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, syscall.ESTALE
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("withRetry() error = %v", err)
	}
	if got != 42 || calls != 3 {
		t.Errorf("got %d after %d calls, want 42 after 3", got, calls)
	}
	if obs.stale != 2 || obs.attempts != 2 || obs.success != 1 || obs.failures != 0 {
		t.Errorf("observer = %+v", obs)
	}
}

func TestWithRetry_GivesUp(t *testing.T) {
	obs := withObserver(t)
	calls := 0

	_, err := withRetry("readdir", "/x", fastRetry(), func() (struct{}, error) {
		calls++
		return struct{}{}, syscall.ESTALE
	})
	if !errors.Is(err, syscall.ESTALE) {
		t.Fatalf("error = %v, want ESTALE", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	if obs.failures != 1 || obs.attempts != 3 {
		t.Errorf("observer = %+v", obs)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()

	ok, err := Exists(dir, DefaultRetryConfig())
	if err != nil || !ok {
		t.Errorf("Exists(dir) = %v, %v", ok, err)
	}

	ok, err = Exists(filepath.Join(dir, "nope"), DefaultRetryConfig())
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v", ok, err)
	}
}

func BenchmarkVolumeResolver_Resolve(b *testing.B) {
	vr := NewVolumeResolver(map[string]string{
		"assets":     "/library/assets",
		"textures":   "/library/textures",
		"stockshots": "/library/stockshots",
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		vr.Resolve("/library/stockshots/abc/take.0001.exr")
	}
}
