package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asset-library/internal/assettypes"
	"asset-library/internal/catalog"
)

type cliTestEnv struct {
	configPath string
	libraryDir string
	srcDir     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("ASSET_LIBRARY_DIR", "")
	t.Setenv("ASSET_LIBRARY_CATALOG_BACKEND", "")

	env := &cliTestEnv{
		configPath: filepath.Join(base, "config.toml"),
		libraryDir: filepath.Join(base, "library"),
		srcDir:     filepath.Join(base, "src"),
	}
	if err := os.MkdirAll(env.srcDir, 0o755); err != nil {
		t.Fatal(err)
	}

	content := fmt.Sprintf("[paths]\nlibrary_dir = %q\n\n[catalog]\nbackend = \"badger\"\n\n"+
		"[thumbnails]\nffmpeg_path = \"/nonexistent/ffmpeg\"\nffprobe_path = \"/nonexistent/ffprobe\"\n",
		env.libraryDir)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) writePNG(t *testing.T, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for x := 0; x < 64; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(e.srcDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader("y\n"))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func listJSON(t *testing.T, env *cliTestEnv, kind string) []catalog.Record {
	t.Helper()
	out, _, err := runCLI(t, []string{"list", kind, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("list %s: %v", kind, err)
	}
	var records []catalog.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode list output %q: %v", out, err)
	}
	return records
}

func TestTextureLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	albedo := env.writePNG(t, "brick_albedo.png")
	normal := env.writePNG(t, "brick_normal.png")

	out, _, err := runCLI(t, []string{"import", "texture", albedo, normal, "--name", "Brick"}, env.configPath)
	if err != nil {
		t.Fatalf("import texture: %v", err)
	}
	requireContains(t, out, `Imported texture "Brick"`)

	records := listJSON(t, env, "textures")
	if len(records) != 1 || records[0].FileCount != 2 || records[0].ThumbnailPath == "" {
		t.Fatalf("records = %+v", records)
	}
	id := records[0].ID

	out, _, err = runCLI(t, []string{"list", "textures"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, id)
	requireContains(t, out, "2 files")

	if _, _, err := runCLI(t, []string{"rename", "textures", id, "Old Brick"}, env.configPath); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if got := listJSON(t, env, "texture")[0].Name; got != "Old Brick" {
		t.Errorf("name after rename = %q", got)
	}

	dest := filepath.Join(t.TempDir(), "brick.zip")
	out, _, err = runCLI(t, []string{"export", "textures", id, dest}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Exported 2 files")
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("archive missing: %v", err)
	}

	if _, _, err := runCLI(t, []string{"delete", "textures", id}, env.configPath); err == nil {
		t.Error("delete without --yes succeeded on a non-terminal stdin")
	}
	if _, _, err := runCLI(t, []string{"delete", "textures", id, "--yes"}, env.configPath); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := listJSON(t, env, "textures"); len(got) != 0 {
		t.Errorf("records after delete = %+v", got)
	}
	if _, err := os.Stat(filepath.Join(env.libraryDir, "textures", id)); !os.IsNotExist(err) {
		t.Errorf("entry directory still present: %v", err)
	}
}

func TestImportStockshotSequence(t *testing.T) {
	env := setupCLITestEnv(t)
	first := env.writePNG(t, "smoke.0001.png")
	env.writePNG(t, "smoke.0002.png")
	env.writePNG(t, "smoke.0010.png")

	_, stderr, err := runCLI(t, []string{"import", "stockshot", first}, env.configPath)
	if err != nil {
		t.Fatalf("import stockshot: %v", err)
	}
	requireContains(t, stderr, "Copying files (3/3)")

	records := listJSON(t, env, "stockshots")
	if len(records) != 1 {
		t.Fatalf("records = %+v", records)
	}
	rec := records[0]
	if rec.Type != assettypes.StockshotSequence || rec.FrameCount != 3 || rec.Name != "smoke" {
		t.Errorf("record = %+v", rec)
	}
	want := []string{"smoke.0001.png", "smoke.0002.png", "smoke.0010.png"}
	for i, name := range want {
		if i >= len(rec.Files) || rec.Files[i] != name {
			t.Fatalf("files = %v, want %v", rec.Files, want)
		}
	}
}

func TestImportAssetAndThumbnail(t *testing.T) {
	env := setupCLITestEnv(t)
	model := filepath.Join(env.srcDir, "chair.fbx")
	if err := os.WriteFile(model, []byte("Kaydara FBX Binary"), 0o644); err != nil {
		t.Fatal(err)
	}
	tex := env.writePNG(t, "chair_diffuse.png")

	if _, _, err := runCLI(t, []string{"import", "asset", "--fbx", model, "-t", tex}, env.configPath); err != nil {
		t.Fatalf("import asset: %v", err)
	}
	records := listJSON(t, env, "assets")
	if len(records) != 1 || records[0].FBXFileName != "chair.fbx" || records[0].TextureCount != 1 {
		t.Fatalf("records = %+v", records)
	}

	preview := env.writePNG(t, "preview.png")
	if _, _, err := runCLI(t, []string{"thumbnail", "set", records[0].ID, preview}, env.configPath); err != nil {
		t.Fatalf("thumbnail set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.libraryDir, "assets", records[0].ID, "thumbnail.png")); err != nil {
		t.Errorf("thumbnail missing: %v", err)
	}

	out, _, err := runCLI(t, []string{"thumbnail", "rebuild", "assets", "--force"}, env.configPath)
	if err != nil {
		t.Fatalf("thumbnail rebuild: %v", err)
	}
	requireContains(t, out, "Skipped")
}

func TestCommandErrors(t *testing.T) {
	env := setupCLITestEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown kind", []string{"list", "meshes"}, "unknown asset kind"},
		{"not a model", []string{"import", "asset", "--fbx", env.writePNG(t, "x.png")}, "is not an FBX file"},
		{"missing entry", []string{"rename", "assets", "6f1c1e52-9a51-4c8e-bb0c-6f3c1f1d2a10", "X"}, "not found"},
		{"missing image", []string{"thumbnail", "set", "id", filepath.Join(env.srcDir, "none.png")}, "read image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args, env.configPath)
			if err == nil {
				t.Fatal("expected an error")
			}
			requireContains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigInitAndVersion(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Error("second config init overwrote the file")
	}

	out, _, err = runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "assetctl ")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		kind assettypes.Kind
		rec  catalog.Record
		want string
	}{
		{assettypes.KindAsset, catalog.Record{FBXFileName: "a.fbx", TextureCount: 1}, "a.fbx, 1 texture"},
		{assettypes.KindAsset, catalog.Record{FBXFileName: "a.fbx"}, "a.fbx, 0 textures"},
		{assettypes.KindTexture, catalog.Record{FileCount: 4}, "4 files"},
		{assettypes.KindStockshot, catalog.Record{Type: assettypes.StockshotVideo}, "video"},
		{assettypes.KindStockshot, catalog.Record{Type: assettypes.StockshotSequence, FrameCount: 48}, "sequence, 48 frames"},
	}

	for _, tt := range tests {
		if got := describe(tt.kind, tt.rec); got != tt.want {
			t.Errorf("describe(%s, %+v) = %q, want %q", tt.kind, tt.rec, got, tt.want)
		}
	}
}
