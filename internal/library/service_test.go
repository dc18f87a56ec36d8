package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"asset-library/internal/assettypes"
	"asset-library/internal/catalog"
	"asset-library/internal/ingest"
	"asset-library/internal/store"
)

type fakeThumbs struct {
	mu       sync.Mutex
	fail     bool
	renderer bool
	calls    int
}

func (f *fakeThumbs) write(dir string) bool {
	f.mu.Lock()
	f.calls++
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return false
	}
	return os.WriteFile(store.ThumbnailPath(dir), []byte("png"), 0o644) == nil
}

func (f *fakeThumbs) ForFile(_ context.Context, _, dir string) bool { return f.write(dir) }

func (f *fakeThumbs) ForSequence(_ context.Context, _ []string, dir string) bool {
	return f.write(dir)
}

func (f *fakeThumbs) ForModel(_ context.Context, _, dir string) bool { return f.write(dir) }

func (f *fakeThumbs) SaveEncoded(dir string, data []byte) error {
	if string(data) != "png" {
		return assettypes.ErrDecode
	}
	if !f.write(dir) {
		return errors.New("write failed")
	}
	return nil
}

func (f *fakeThumbs) HasRenderer() bool { return f.renderer }

type env struct {
	svc    *Service
	store  *store.Store
	thumbs *fakeThumbs
	src    string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	lib := t.TempDir()
	st := store.New(lib)
	cat, err := catalog.Open(context.Background(), catalog.Options{
		Backend: "badger",
		Path:    filepath.Join(lib, "catalog.badger"),
	}, st)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { cat.Close() })

	thumbs := &fakeThumbs{}
	return &env{
		svc:    New(st, cat, thumbs, 2),
		store:  st,
		thumbs: thumbs,
		src:    t.TempDir(),
	}
}

func (e *env) files(t *testing.T, names ...string) []string {
	t.Helper()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(e.src, name)
		if err := os.WriteFile(paths[i], []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func (e *env) texture(t *testing.T, names ...string) catalog.Record {
	t.Helper()
	res := e.svc.SaveTexture(context.Background(), ingest.TextureRequest{Files: e.files(t, names...)})
	if !res.Success || res.Item == nil {
		t.Fatalf("SaveTexture() = %+v", res)
	}
	return *res.Item
}

func TestRenameRoundTrip(t *testing.T) {
	e := newEnv(t)
	rec := e.texture(t, "brick.png", "brick_normal.png")

	res := e.svc.Rename(context.Background(), assettypes.KindTexture, rec.ID, "X")
	if !res.Success {
		t.Fatalf("Rename() = %+v", res)
	}

	list, err := e.svc.List(context.Background(), assettypes.KindTexture)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List() returned %d records, want 1", len(list))
	}
	got := list[0]
	if got.Name != "X" {
		t.Errorf("Name = %q, want X", got.Name)
	}
	got.Name = rec.Name
	got.ThumbnailPath = ""
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt changed: %v != %v", got.CreatedAt, rec.CreatedAt)
	}
	got.CreatedAt = rec.CreatedAt
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("other fields changed:\n got %+v\nwant %+v", got, rec)
	}
}

func TestRenameFailures(t *testing.T) {
	e := newEnv(t)
	rec := e.texture(t, "a.png")

	tests := []struct {
		name string
		id   string
		to   string
	}{
		{"empty name", rec.ID, "   "},
		{"unknown id", "00000000-0000-4000-8000-000000000000", "X"},
		{"malformed id", "../../etc", "X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.svc.Rename(context.Background(), assettypes.KindTexture, tt.id, tt.to)
			if res.Success || res.Canceled || res.Error == "" {
				t.Errorf("Rename() = %+v, want a failure", res)
			}
		})
	}
}

func TestDeleteRemovesBothSides(t *testing.T) {
	e := newEnv(t)
	rec := e.texture(t, "a.png")
	keep := e.texture(t, "b.png")

	if res := e.svc.Delete(context.Background(), assettypes.KindTexture, rec.ID); !res.Success {
		t.Fatalf("Delete() = %+v", res)
	}

	ids, err := e.store.ListExistingIDs(assettypes.KindTexture)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ids[rec.ID]; ok {
		t.Error("entry directory still exists")
	}
	list, err := e.svc.List(context.Background(), assettypes.KindTexture)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Errorf("List() = %+v, want only %s", list, keep.ID)
	}

	res := e.svc.Delete(context.Background(), assettypes.KindTexture, rec.ID)
	if res.Success || res.Error == "" {
		t.Errorf("second Delete() = %+v, want not-found failure", res)
	}
}

func TestListPrunesMissingDirectories(t *testing.T) {
	e := newEnv(t)
	gone := e.texture(t, "a.png")
	kept := e.texture(t, "b.png")

	if err := os.RemoveAll(filepath.Join(e.store.Root(assettypes.KindTexture), gone.ID)); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		list, err := e.svc.List(context.Background(), assettypes.KindTexture)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 || list[0].ID != kept.ID {
			t.Errorf("pass %d: List() = %+v, want only %s", i, list, kept.ID)
		}
	}

	counts, err := e.svc.EntryCounts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if counts["textures"] != 1 || counts["assets"] != 0 {
		t.Errorf("EntryCounts() = %v", counts)
	}
}

func TestImportAsset(t *testing.T) {
	e := newEnv(t)
	paths := e.files(t, "Chair.fbx", "albedo.png", "rough.exr", "notes.obj")

	t.Run("model picker dismissed", func(t *testing.T) {
		res := e.svc.ImportAsset(context.Background(), NewStaticPicker())
		if !res.Canceled || res.Success {
			t.Errorf("ImportAsset() = %+v, want canceled", res)
		}
	})

	t.Run("texture picker dismissed", func(t *testing.T) {
		res := e.svc.ImportAsset(context.Background(), NewStaticPicker(paths[:1]))
		if !res.Success || res.FBXPath != paths[0] || len(res.TexturePaths) != 0 || res.DefaultName != "Chair" {
			t.Errorf("ImportAsset() = %+v", res)
		}
	})

	t.Run("model with textures", func(t *testing.T) {
		res := e.svc.ImportAsset(context.Background(), NewStaticPicker(paths[:1], paths[1:3]))
		if !res.Success || !reflect.DeepEqual(res.TexturePaths, paths[1:3]) {
			t.Errorf("ImportAsset() = %+v", res)
		}
	})

	t.Run("not a model", func(t *testing.T) {
		res := e.svc.ImportAsset(context.Background(), NewStaticPicker(paths[3:]))
		if res.Success || res.Canceled || res.Error == "" {
			t.Errorf("ImportAsset() = %+v, want failure", res)
		}
	})

	t.Run("picker error", func(t *testing.T) {
		res := e.svc.ImportAsset(context.Background(), errPicker{errors.New("dialog crashed")})
		if res.Error != "dialog crashed" {
			t.Errorf("ImportAsset() = %+v", res)
		}
		res = e.svc.ImportAsset(context.Background(), errPicker{assettypes.ErrCanceled})
		if !res.Canceled {
			t.Errorf("ImportAsset() = %+v, want canceled", res)
		}
	})
}

func TestImportTextures(t *testing.T) {
	e := newEnv(t)
	paths := e.files(t, "brick_albedo.png", "brick_normal.png")

	tests := []struct {
		name   string
		picker FilePicker
		check  func(t *testing.T, res FileSelection)
	}{
		{
			name:   "picker dismissed",
			picker: NewStaticPicker(),
			check: func(t *testing.T, res FileSelection) {
				if !res.Canceled || res.Success || len(res.Files) != 0 {
					t.Errorf("ImportTextures() = %+v, want canceled", res)
				}
			},
		},
		{
			name:   "picker error",
			picker: errPicker{errors.New("dialog crashed")},
			check: func(t *testing.T, res FileSelection) {
				if res.Success || res.Error != "dialog crashed" {
					t.Errorf("ImportTextures() = %+v, want failure", res)
				}
			},
		},
		{
			name:   "texture set",
			picker: NewStaticPicker(paths),
			check: func(t *testing.T, res FileSelection) {
				if !res.Success || !reflect.DeepEqual(res.Files, paths) || res.DefaultName != "brick_albedo" || res.FrameCount != 2 {
					t.Errorf("ImportTextures() = %+v", res)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, e.svc.ImportTextures(context.Background(), tt.picker))
		})
	}

	sel := e.svc.ImportTextures(context.Background(), NewStaticPicker(paths))
	saved := e.svc.SaveTexture(context.Background(), ingest.TextureRequest{Name: sel.DefaultName, Files: sel.Files})
	if !saved.Success || saved.Item.Name != "brick_albedo" || len(saved.Item.Files) != 2 {
		t.Errorf("SaveTexture() = %+v", saved)
	}
}

type errPicker struct{ err error }

func (p errPicker) PickFiles(context.Context, string, []Filter, bool) ([]string, error) {
	return nil, p.err
}

func TestImportStockshotDetectsSequence(t *testing.T) {
	e := newEnv(t)
	paths := e.files(t, "shot.10.png", "shot.2.png", "shot.1.png")

	res := e.svc.ImportStockshot(context.Background(), NewStaticPicker(paths[1:2]))
	if !res.Success || res.Type != assettypes.StockshotSequence || res.FrameCount != 3 || res.DefaultName != "shot" {
		t.Fatalf("ImportStockshot() = %+v", res)
	}
	want := []string{paths[2], paths[1], paths[0]}
	if !reflect.DeepEqual(res.Files, want) {
		t.Errorf("Files = %v, want %v", res.Files, want)
	}

	saved := e.svc.SaveStockshot(context.Background(), ingest.StockshotRequest{
		Selection: res.Selection(),
	}, nil)
	if !saved.Success || saved.Item.FrameCount != 3 {
		t.Fatalf("SaveStockshot() = %+v", saved)
	}

	if res := e.svc.ImportStockshot(context.Background(), NewStaticPicker()); !res.Canceled {
		t.Errorf("dismissed picker: %+v", res)
	}
}

func TestSaveFailureIsStructured(t *testing.T) {
	e := newEnv(t)
	res := e.svc.SaveTexture(context.Background(), ingest.TextureRequest{Files: []string{filepath.Join(e.src, "missing.png")}})
	if res.Success || res.Item != nil || res.Error == "" {
		t.Errorf("SaveTexture() = %+v, want failure with message", res)
	}
	ids, err := e.store.ListExistingIDs(assettypes.KindTexture)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("%d entries left behind", len(ids))
	}
}

func TestExport(t *testing.T) {
	e := newEnv(t)
	rec := e.texture(t, "a.png", "b.png")

	if res := e.svc.Export(context.Background(), assettypes.KindTexture, rec.ID, StaticSaveLocation("")); !res.Canceled {
		t.Errorf("Export() with dismissed picker = %+v, want canceled", res)
	}

	dest := filepath.Join(t.TempDir(), "out.zip")
	res := e.svc.Export(context.Background(), assettypes.KindTexture, rec.ID, StaticSaveLocation(dest))
	if !res.Success || res.Files != 2 || res.Path != dest {
		t.Fatalf("Export() = %+v", res)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("archive missing: %v", err)
	}

	if res := e.svc.Export(context.Background(), assettypes.KindTexture, "00000000-0000-4000-8000-000000000000", StaticSaveLocation(dest)); res.Success {
		t.Error("Export() of unknown id should fail")
	}
}

func TestSuggestedArchiveName(t *testing.T) {
	tests := map[string]string{
		"Chair":      "Chair.zip",
		"a/b":        "a_b.zip",
		"  ":         "export.zip",
		"..":         "export.zip",
		"Hero Shot!": "Hero Shot!.zip",
	}
	for in, want := range tests {
		if got := suggestedArchiveName(in); got != want {
			t.Errorf("suggestedArchiveName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestThumbnailFallsBackToFirstStill(t *testing.T) {
	e := newEnv(t)
	e.thumbs.fail = true
	rec := e.texture(t, "notes.txt", "rough.exr", "albedo.png")
	dir := filepath.Join(e.store.Root(assettypes.KindTexture), rec.ID)

	path, err := e.svc.Thumbnail(context.Background(), assettypes.KindTexture, rec.ID)
	if err != nil {
		t.Fatalf("Thumbnail() error = %v", err)
	}
	if path != filepath.Join(dir, "albedo.png") {
		t.Errorf("Thumbnail() = %q, want the first common still", path)
	}

	e.thumbs.fail = false
	result, err := e.svc.RebuildThumbnails(context.Background(), assettypes.KindTexture, false)
	if err != nil {
		t.Fatalf("RebuildThumbnails() error = %v", err)
	}
	if result.Generated != 1 {
		t.Errorf("RebuildThumbnails() = %+v, want 1 generated", result)
	}

	path, err = e.svc.Thumbnail(context.Background(), assettypes.KindTexture, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if path != store.ThumbnailPath(dir) {
		t.Errorf("Thumbnail() = %q, want thumbnail.png", path)
	}

	result, err = e.svc.RebuildThumbnails(context.Background(), assettypes.KindTexture, false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped != 1 || result.Generated != 0 {
		t.Errorf("second RebuildThumbnails() = %+v, want 1 skipped", result)
	}

	if _, err := e.svc.Thumbnail(context.Background(), assettypes.KindTexture, "not-an-id"); !errors.Is(err, assettypes.ErrNotFound) {
		t.Errorf("Thumbnail(bad id) error = %v, want ErrNotFound", err)
	}
}

func TestModelThumbnails(t *testing.T) {
	e := newEnv(t)
	paths := e.files(t, "chair.fbx")
	saved := e.svc.SaveAsset(context.Background(), ingest.AssetRequest{FBXPath: paths[0]})
	if !saved.Success {
		t.Fatalf("SaveAsset() = %+v", saved)
	}
	id := saved.Item.ID

	if res := e.svc.RenderModelThumbnail(context.Background(), id); res.Success || res.Error == "" {
		t.Errorf("RenderModelThumbnail() without renderer = %+v", res)
	}

	if res := e.svc.SetModelThumbnail(context.Background(), id, []byte("junk")); res.Success {
		t.Errorf("SetModelThumbnail(junk) = %+v, want failure", res)
	}
	if res := e.svc.SetModelThumbnail(context.Background(), id, []byte("png")); !res.Success {
		t.Errorf("SetModelThumbnail() = %+v", res)
	}

	e.thumbs.renderer = true
	if res := e.svc.RenderModelThumbnail(context.Background(), id); !res.Success {
		t.Errorf("RenderModelThumbnail() = %+v", res)
	}

	result, err := e.svc.RebuildThumbnails(context.Background(), assettypes.KindAsset, true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Generated != 1 {
		t.Errorf("forced RebuildThumbnails() = %+v, want 1 generated", result)
	}
}
