package loader

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempOBJ(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeTempPNG(t *testing.T, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadCachesByPath(t *testing.T) {
	path := writeTempOBJ(t, "heart.obj", triangleOBJ)
	l := NewLoader(BackendTypeOBJ)

	first, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load (cached): %v", err)
	}
	if first != second {
		t.Fatal("second Load should return the cached model")
	}
	if got := l.Get(path); got != first {
		t.Fatal("Get should return the cached model")
	}
	if first.Name() != "heart" {
		t.Fatalf("got model name %q, want heart", first.Name())
	}
	if first.VertexCount() != 3 {
		t.Fatalf("got %d vertices, want 3", first.VertexCount())
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	l := NewLoader(BackendTypeOBJ)
	if _, err := l.Load("model.gltf"); err == nil {
		t.Fatal("expected unsupported format error for .gltf")
	}
}

func TestLoadReaderCachesByName(t *testing.T) {
	l := NewLoader(BackendTypeOBJ)

	m, err := l.LoadReader("lung", strings.NewReader(triangleOBJ))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if got := l.Get("lung"); got != m {
		t.Fatal("Get should return the model cached by LoadReader")
	}
	if len(l.Models()) != 1 {
		t.Fatalf("got %d cached models, want 1", len(l.Models()))
	}
}

func TestLoadWithTextureAttachesTexture(t *testing.T) {
	meshPath := writeTempOBJ(t, "torso.obj", triangleOBJ)
	texPath := writeTempPNG(t, "torso.png")
	l := NewLoader(BackendTypeOBJ, WithWorkers(2))

	m, err := l.LoadWithTexture(meshPath, texPath)
	if err != nil {
		t.Fatalf("LoadWithTexture: %v", err)
	}
	tex := m.Texture()
	if tex == nil {
		t.Fatal("model should carry the decoded texture")
	}
	if tex.Width != 2 || tex.Height != 2 {
		t.Fatalf("got texture %dx%d, want 2x2", tex.Width, tex.Height)
	}
	if len(tex.Pixels) != 2*2*4 {
		t.Fatalf("got %d texture bytes, want 16", len(tex.Pixels))
	}
}

func TestLoadWithTextureSurfacesMeshError(t *testing.T) {
	texPath := writeTempPNG(t, "skin.png")
	l := NewLoader(BackendTypeOBJ)

	if _, err := l.LoadWithTexture(filepath.Join(t.TempDir(), "missing.obj"), texPath); err == nil {
		t.Fatal("expected error for missing mesh file")
	}
}

func TestLoadAllPreservesOrder(t *testing.T) {
	first := writeTempOBJ(t, "a.obj", triangleOBJ)
	second := writeTempOBJ(t, "b.obj", triangleOBJ)
	l := NewLoader(BackendTypeOBJ, WithWorkers(2))

	models, err := l.LoadAll(first, second)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("got %d models, want 2", len(models))
	}
	if models[0].Name() != "a" || models[1].Name() != "b" {
		t.Fatalf("got order %q, %q; want input order a, b", models[0].Name(), models[1].Name())
	}
}

func TestLoadAllSurfacesFirstError(t *testing.T) {
	good := writeTempOBJ(t, "good.obj", triangleOBJ)
	l := NewLoader(BackendTypeOBJ)

	if _, err := l.LoadAll(good, filepath.Join(t.TempDir(), "absent.obj")); err == nil {
		t.Fatal("expected error when one path in the batch is missing")
	}
}

func TestWithModelPrePopulatesCache(t *testing.T) {
	l := NewLoader(BackendTypeOBJ)
	seeded, err := l.LoadReader("seed", strings.NewReader(triangleOBJ))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}

	l2 := NewLoader(BackendTypeOBJ, WithModel("seed", seeded))
	if got := l2.Get("seed"); got != seeded {
		t.Fatal("WithModel should pre-populate the cache")
	}
}
