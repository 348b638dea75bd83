package preview

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"terramesh/internal/world"
)

func TestRenderSizeAndColours(t *testing.T) {
	s := world.NewSampler(world.DefaultTerrainConfig())
	img, err := Render(s, Options{OriginX: -32, OriginZ: -32, Width: 64, Height: 48, Scale: 3})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 192 || b.Dy() != 144 {
		t.Fatalf("bounds %v, want 192x144", b)
	}
	// Every block maps to three identical pixels per axis.
	for _, p := range [][2]int{{0, 0}, {10, 20}, {63, 47}} {
		want := img.RGBAAt(p[0]*3, p[1]*3)
		if got := img.RGBAAt(p[0]*3+2, p[1]*3+2); got != want {
			t.Errorf("block %v not scaled uniformly: %v vs %v", p, got, want)
		}
		if want.A != 255 {
			t.Errorf("pixel %v is transparent", p)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	s := world.NewSampler(world.DefaultTerrainConfig())
	opts := Options{OriginX: 100, OriginZ: -50, Width: 32, Height: 32}
	a, err := Render(s, opts)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	b, _ := Render(world.NewSampler(world.DefaultTerrainConfig()), opts)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("previews differ at byte %d", i)
		}
	}
}

func TestRenderRejectsEmptyArea(t *testing.T) {
	if _, err := Render(world.NewSampler(world.DefaultTerrainConfig()), Options{Width: 0, Height: 5}); err == nil {
		t.Errorf("expected error for empty area")
	}
}

func TestWritePNG(t *testing.T) {
	img, err := Render(world.NewSampler(world.DefaultTerrainConfig()), Options{Width: 8, Height: 8, Scale: 2})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "preview.png")
	if err := WritePNG(path, img); err != nil {
		t.Fatalf("WritePNG error: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds().Dx() != 16 {
		t.Errorf("decoded width %d", decoded.Bounds().Dx())
	}
	if err := WritePNG(filepath.Join(t.TempDir(), "missing", "x.png"), img); err == nil {
		t.Errorf("expected error for missing directory")
	}
}
