package assets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, testImage(w, h)); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
}

func writeBMP(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := bmp.Encode(f, testImage(w, h)); err != nil {
		t.Fatalf("failed to encode bmp: %v", err)
	}
}

func TestTextureLibrary_Resolve(t *testing.T) {
	primary := t.TempDir()
	secondary := t.TempDir()
	writePNG(t, filepath.Join(primary, "brick.png"), 4, 4)
	writeBMP(t, filepath.Join(secondary, "stone.bmp"), 2, 2)
	writePNG(t, filepath.Join(secondary, "brick.png"), 8, 8)
	writePNG(t, filepath.Join(secondary, "exact.tex"), 1, 1)

	lib := NewTextureLibrary([]string{primary}, []string{".png", ".bmp"})
	lib.AddDir(secondary)

	tests := []struct {
		ref  string
		want string
	}{
		{"brick", filepath.Join(primary, "brick.png")},
		{"stone", filepath.Join(secondary, "stone.bmp")},
		{"exact.tex", filepath.Join(secondary, "exact.tex")},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := lib.Resolve(tt.ref)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.ref, got, tt.want)
			}
		})
	}
}

func TestTextureLibrary_ResolveMissing(t *testing.T) {
	lib := NewTextureLibrary([]string{t.TempDir()}, []string{".png"})

	for _, ref := range []string{"", "nothing"} {
		if _, err := lib.Resolve(ref); !errors.Is(err, ErrTextureNotFound) {
			t.Errorf("Resolve(%q): expected ErrTextureNotFound, got %v", ref, err)
		}
	}
}

func TestTextureLibrary_Load(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "brick.png"), 4, 2)
	writeBMP(t, filepath.Join(dir, "stone.bmp"), 3, 5)

	lib := NewTextureLibrary([]string{dir}, []string{".png", ".bmp"})

	img, err := lib.Load("brick")
	if err != nil {
		t.Fatalf("Load brick failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("expected 4x2 image, got %dx%d", b.Dx(), b.Dy())
	}

	img, err = lib.Load("stone")
	if err != nil {
		t.Fatalf("Load stone failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 5 {
		t.Errorf("expected 3x5 image, got %dx%d", b.Dx(), b.Dy())
	}

	// Second lookup is served from cache.
	if _, err := lib.Load("BRICK"); err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	hits, misses := lib.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("expected 1 hit 2 misses, got %d hits %d misses", hits, misses)
	}
}

func TestTextureLibrary_LoadErrorsAreCached(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not an image"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	lib := NewTextureLibrary([]string{dir}, []string{".png"})

	if _, err := lib.Load("broken"); !errors.Is(err, ErrTextureDecode) {
		t.Errorf("expected ErrTextureDecode, got %v", err)
	}
	if _, err := lib.Load("missing"); !errors.Is(err, ErrTextureNotFound) {
		t.Errorf("expected ErrTextureNotFound, got %v", err)
	}

	// Adding the file afterwards does not help until the cache is cleared.
	writePNG(t, filepath.Join(dir, "missing.png"), 1, 1)
	if _, err := lib.Load("missing"); !errors.Is(err, ErrTextureNotFound) {
		t.Errorf("expected cached ErrTextureNotFound, got %v", err)
	}

	lib.Clear()
	if _, err := lib.Load("missing"); err != nil {
		t.Errorf("expected load after Clear to succeed, got %v", err)
	}
}

func TestCache(t *testing.T) {
	c := NewCache()

	if _, ok := c.Get("a"); ok {
		t.Error("expected miss on empty cache")
	}
	c.Set("a", Entry{Err: ErrTextureNotFound})
	entry, ok := c.Get("a")
	if !ok || !errors.Is(entry.Err, ErrTextureNotFound) {
		t.Errorf("expected cached error entry, got %+v %v", entry, ok)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit 1 miss, got %d/%d", hits, misses)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Error("expected empty cache after Clear")
	}
	if hits, misses := c.Stats(); hits != 0 || misses != 0 {
		t.Errorf("expected reset stats, got %d/%d", hits, misses)
	}
}

func TestTextureLibrary_LoadTGA(t *testing.T) {
	dir := t.TempDir()
	// 1x1 uncompressed 24-bit TGA holding a red pixel.
	data := make([]byte, 18, 21)
	data[2] = 2
	data[12], data[14], data[16] = 1, 1, 24
	data = append(data, 0, 0, 255)
	if err := os.WriteFile(filepath.Join(dir, "red.tga"), data, 0644); err != nil {
		t.Fatalf("failed to write tga: %v", err)
	}

	lib := NewTextureLibrary([]string{dir}, []string{".png", ".tga"})
	img, err := lib.Load("red")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("expected red pixel, got %d %d %d", r>>8, g>>8, b>>8)
	}
}
