package assettypes

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"assets", KindAsset, false},
		{"asset", KindAsset, false},
		{"Textures", KindTexture, false},
		{"texture", KindTexture, false},
		{" stockshots ", KindStockshot, false},
		{"stockshot", KindStockshot, false},
		{"videos", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range Kinds {
		if !k.Valid() {
			t.Errorf("%q.Valid() = false", k)
		}
	}
	if Kind("other").Valid() {
		t.Error(`Kind("other").Valid() = true`)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want SourceClass
	}{
		{"/in/clip.MOV", SourceVideo},
		{"clip.mp4", SourceVideo},
		{"albedo.png", SourceStill},
		{"albedo.JPEG", SourceStill},
		{"sky.hdr", SourceWideGamut},
		{"take.0001.exr", SourceWideGamut},
		{"decal.tga", SourceWideGamut},
		{"scan.tiff", SourceWideGamut},
		{"chair.fbx", SourceModel},
		{"notes.txt", SourceOther},
		{"noext", SourceOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsImageAndVideo(t *testing.T) {
	if !IsImage("a.exr") || !IsImage("a.png") {
		t.Error("IsImage should accept exr and png")
	}
	if IsImage("a.mp4") {
		t.Error("IsImage accepted a video")
	}
	if !IsVideo("a.webm") || IsVideo("a.png") {
		t.Error("IsVideo misclassified")
	}
}

func TestGetMimeType(t *testing.T) {
	if got := GetMimeType("thumb.PNG"); got != "image/png" {
		t.Errorf("GetMimeType(thumb.PNG) = %q", got)
	}
	if got := GetMimeType("mesh.fbx"); got != "application/octet-stream" {
		t.Errorf("GetMimeType(mesh.fbx) = %q", got)
	}
}

func TestExtensionList(t *testing.T) {
	got := ExtensionList(map[string]bool{".png": true, ".jpg": true, ".exr": true})
	want := []string{"exr", "jpg", "png"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtensionList = %v, want %v", got, want)
	}
}

func TestStorageError(t *testing.T) {
	err := NewStorageError("mkdir", "/lib/assets/x", fs.ErrPermission)

	if !errors.Is(err, ErrStorage) {
		t.Error("errors.Is(err, ErrStorage) = false")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("StorageError does not unwrap to its cause")
	}

	var se *StorageError
	if !errors.As(err, &se) || se.Op != "mkdir" {
		t.Errorf("errors.As failed or wrong op: %+v", se)
	}

	if NewStorageError("mkdir", "/x", nil) != nil {
		t.Error("NewStorageError(nil) should return nil")
	}
}
