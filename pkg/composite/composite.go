// Package composite overlays a rendered density field onto a map's base image
// and derives the full-size and thumbnail outputs.
//
// All image work goes through github.com/disintegration/imaging. Operations
// return fresh images; inputs are never modified.
package composite

import (
	"fmt"
	"image"
	"math"
	"os"

	"github.com/disintegration/imaging"

	"github.com/hlstatsx/heatmaps/pkg/errors"
	"github.com/hlstatsx/heatmaps/pkg/model"
)

// Geometry is the crop and thumbnail layout derived from a map config and
// the base image size.
type Geometry struct {
	// Crop is the rectangle kept from the composited image.
	// Only meaningful when HasCrop is set.
	Crop    image.Rectangle
	HasCrop bool

	// ThumbWidth and ThumbHeight are scaled from the uncropped base image,
	// independent of any crop. Only meaningful when HasThumb is set.
	ThumbWidth  int
	ThumbHeight int
	HasThumb    bool
}

// GeometryFor derives the output geometry for cfg on a baseW×baseH image.
// The crop rectangle is taken verbatim; an inverted rectangle is the
// config's problem, not corrected here.
func GeometryFor(cfg model.MapConfig, baseW, baseH int) Geometry {
	var g Geometry
	if cfg.HasCrop() {
		g.HasCrop = true
		g.Crop = image.Rectangle{
			Min: image.Pt(cfg.CropX1, cfg.CropY1),
			Max: image.Pt(cfg.CropX2, cfg.CropY2),
		}
	}
	if cfg.HasThumbnail() {
		g.HasThumb = true
		g.ThumbWidth, g.ThumbHeight = ThumbnailSize(cfg.ThumbW, cfg.ThumbH, baseW, baseH)
	}
	return g
}

// ThumbnailSize scales the base size by the given fractions, rounding to the
// nearest pixel. Each side is at least one pixel so a tiny fraction cannot
// turn into imaging's "preserve aspect ratio" zero.
func ThumbnailSize(fw, fh float64, baseW, baseH int) (int, int) {
	w := int(math.Round(fw * float64(baseW)))
	h := int(math.Round(fh * float64(baseH)))
	return max(w, 1), max(h, 1)
}

// Open decodes the base image at path. A path that cannot be reached at all
// (missing file, a path component that is not a directory, a directory that
// cannot be searched) is reported with MISSING_IMAGE. A file that exists but
// cannot be read or decoded is IMAGE_READ.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		if !exists(path) {
			return nil, errors.Wrap(errors.ErrCodeMissingImage, err, "base image %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeImageRead, err, "read base image %s", path)
	}
	return img, nil
}

// exists reports whether path resolves to a file system entry.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Over draws overlay on top of base at the origin with the "over" operator.
// Both images must have the same dimensions.
func Over(base, overlay image.Image) (*image.NRGBA, error) {
	bb, ob := base.Bounds(), overlay.Bounds()
	if bb.Dx() != ob.Dx() || bb.Dy() != ob.Dy() {
		return nil, errors.New(errors.ErrCodeComposite,
			"overlay %dx%d does not match base image %dx%d", ob.Dx(), ob.Dy(), bb.Dx(), bb.Dy())
	}
	return imaging.Overlay(base, overlay, image.Pt(0, 0), 1.0), nil
}

// Crop returns the part of img inside r, re-origined at (0,0).
func Crop(img image.Image, r image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, r)
}

// Thumbnail resamples img to exactly w×h with the Lanczos filter.
func Thumbnail(img image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Save encodes img as PNG at path, replacing any existing file. Missing
// parent directories are not created.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrap(errors.ErrCodeImageWrite, err, "write %s", path)
	}
	return nil
}

// Output holds the images produced for one map.
type Output struct {
	Full  *image.NRGBA
	Thumb *image.NRGBA // nil when no thumbnail is configured
}

// Compose overlays the heat image on base, applies the crop and derives the
// thumbnail from the cropped result.
func Compose(base, heat image.Image, g Geometry) (*Output, error) {
	full, err := Over(base, heat)
	if err != nil {
		return nil, err
	}
	if g.HasCrop {
		full = Crop(full, g.Crop)
	}

	out := &Output{Full: full}
	if g.HasThumb {
		out.Thumb = Thumbnail(full, g.ThumbWidth, g.ThumbHeight)
	}
	return out, nil
}

// String describes the geometry for log output.
func (g Geometry) String() string {
	s := "full"
	if g.HasCrop {
		s = fmt.Sprintf("crop %v", g.Crop)
	}
	if g.HasThumb {
		s += fmt.Sprintf(", thumb %dx%d", g.ThumbWidth, g.ThumbHeight)
	}
	return s
}
