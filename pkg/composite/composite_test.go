package composite

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/hlstatsx/heatmaps/pkg/errors"
	"github.com/hlstatsx/heatmaps/pkg/model"
)

var (
	blue = color.NRGBA{B: 255, A: 255}
	red  = color.NRGBA{R: 255, A: 255}
)

func TestGeometryFor(t *testing.T) {
	cfg := model.MapConfig{CropX1: 10, CropX2: 110, CropY1: 5, CropY2: 105, ThumbW: 0.5, ThumbH: 0.25}
	g := GeometryFor(cfg, 200, 200)

	if !g.HasCrop {
		t.Fatal("HasCrop = false")
	}
	if g.Crop != image.Rect(10, 5, 110, 105) {
		t.Errorf("Crop = %v, want (10,5)-(110,105)", g.Crop)
	}
	if !g.HasThumb || g.ThumbWidth != 100 || g.ThumbHeight != 50 {
		t.Errorf("thumb = %v %dx%d, want 100x50", g.HasThumb, g.ThumbWidth, g.ThumbHeight)
	}

	none := GeometryFor(model.MapConfig{CropX1: 10, CropX2: 50}, 200, 200)
	if none.HasCrop || none.HasThumb {
		t.Errorf("expected no crop and no thumb, got %v", none)
	}
}

func TestThumbnailSize(t *testing.T) {
	tests := []struct {
		name         string
		fw, fh       float64
		baseW, baseH int
		wantW, wantH int
	}{
		{"half and quarter", 0.5, 0.25, 200, 200, 100, 50},
		{"rounds to nearest", 0.333, 0.667, 100, 100, 33, 67},
		{"rounds half up", 0.005, 0.5, 100, 10, 1, 5},
		{"clamps to one pixel", 0.001, 0.001, 100, 100, 1, 1},
		{"full size", 1, 1, 640, 480, 640, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ThumbnailSize(tt.fw, tt.fh, tt.baseW, tt.baseH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ThumbnailSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestOver(t *testing.T) {
	base := imaging.New(4, 4, blue)
	heat := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	heat.SetNRGBA(1, 2, red)

	out, err := Over(base, heat)
	if err != nil {
		t.Fatalf("Over() error: %v", err)
	}
	if got := out.NRGBAAt(1, 2); got != red {
		t.Errorf("opaque overlay pixel = %v, want %v", got, red)
	}
	if got := out.NRGBAAt(0, 0); got != blue {
		t.Errorf("transparent overlay pixel = %v, want base %v", got, blue)
	}
	if got := base.NRGBAAt(1, 2); got != blue {
		t.Error("Over modified the base image")
	}
}

func TestOverSizeMismatch(t *testing.T) {
	_, err := Over(imaging.New(4, 4, blue), image.NewNRGBA(image.Rect(0, 0, 3, 4)))
	if err == nil {
		t.Fatal("Over() should reject mismatched sizes")
	}
	if !errors.Is(err, errors.ErrCodeComposite) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeComposite)
	}
}

func TestComposeCropGeometry(t *testing.T) {
	base := imaging.New(200, 200, blue)
	base.SetNRGBA(10, 5, red)
	base.SetNRGBA(109, 104, red)
	heat := image.NewNRGBA(image.Rect(0, 0, 200, 200))

	cfg := model.MapConfig{CropX1: 10, CropX2: 110, CropY1: 5, CropY2: 105}
	out, err := Compose(base, heat, GeometryFor(cfg, 200, 200))
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}

	if b := out.Full.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("cropped size = %dx%d, want 100x100", b.Dx(), b.Dy())
	}
	if got := out.Full.NRGBAAt(0, 0); got != red {
		t.Errorf("crop origin = %v, want marker from (10,5)", got)
	}
	if got := out.Full.NRGBAAt(99, 99); got != red {
		t.Errorf("crop far corner = %v, want marker from (109,104)", got)
	}
	if got := out.Full.NRGBAAt(1, 0); got != blue {
		t.Errorf("crop (1,0) = %v, want base colour", got)
	}
	if out.Thumb != nil {
		t.Error("no thumbnail configured but one was produced")
	}
}

func TestComposeThumbnailIgnoresCrop(t *testing.T) {
	base := imaging.New(200, 200, blue)
	heat := image.NewNRGBA(image.Rect(0, 0, 200, 200))

	for _, cfg := range []model.MapConfig{
		{ThumbW: 0.5, ThumbH: 0.25},
		{ThumbW: 0.5, ThumbH: 0.25, CropX1: 10, CropX2: 110, CropY1: 5, CropY2: 105},
	} {
		out, err := Compose(base, heat, GeometryFor(cfg, 200, 200))
		if err != nil {
			t.Fatalf("Compose() error: %v", err)
		}
		if out.Thumb == nil {
			t.Fatal("thumbnail missing")
		}
		if b := out.Thumb.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
			t.Errorf("crop %v: thumbnail = %dx%d, want 100x50", cfg.HasCrop(), b.Dx(), b.Dy())
		}
	}
}

func TestSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	if err := Save(imaging.New(7, 3, red), path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 7 || b.Dy() != 3 {
		t.Errorf("reopened size = %dx%d, want 7x3", b.Dx(), b.Dy())
	}

	// Saving again overwrites.
	if err := Save(imaging.New(2, 2, blue), path); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}
	img, err = Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 {
		t.Errorf("file was not overwritten, width %d", b.Dx())
	}
}

func TestSaveDoesNotCreateDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	err := Save(imaging.New(1, 1, red), path)
	if err == nil {
		t.Fatal("Save() into a missing directory should fail")
	}
	if !errors.Is(err, errors.ErrCodeImageWrite) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeImageWrite)
	}
	if _, statErr := os.Stat(filepath.Dir(path)); !os.IsNotExist(statErr) {
		t.Error("Save created the missing directory")
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "nope.png"))
	if !errors.Is(err, errors.ErrCodeMissingImage) {
		t.Errorf("missing file code = %v, want %v", errors.GetCode(err), errors.ErrCodeMissingImage)
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Open(garbage)
	if !errors.Is(err, errors.ErrCodeImageRead) {
		t.Errorf("garbage file code = %v, want %v", errors.GetCode(err), errors.ErrCodeImageRead)
	}
}

func TestOpenUnreachablePath(t *testing.T) {
	dir := t.TempDir()

	// A regular file where the game directory should be.
	game := filepath.Join(dir, "insurgency")
	if err := os.WriteFile(game, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(filepath.Join(game, "ministry.png"))
	if !errors.Is(err, errors.ErrCodeMissingImage) {
		t.Errorf("not-a-directory code = %v, want %v (%v)", errors.GetCode(err), errors.ErrCodeMissingImage, err)
	}
}
