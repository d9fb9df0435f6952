// Package transform maps world positions recorded by the game server onto
// pixel coordinates of a map's base image.
//
// The mapping per axis is
//
//	pixel = | ((offset * (flip ? -1 : 1)) - pos) / scale - 1 |
//
// computed in float64 and truncated toward zero. The -1 bias and the order of
// flip, divide and bias are calibrated against the overview images shipped
// with hlstats and must not be reordered.
//
// Bounds are checked before the optional rotate swap, with a strict greater
// than: a pixel equal to the image width or height is accepted.
package transform

import (
	"fmt"
	"math"

	"github.com/hlstatsx/heatmaps/pkg/errors"
	"github.com/hlstatsx/heatmaps/pkg/model"
)

// Params are the per-map transform parameters.
type Params struct {
	OffsetX float64
	OffsetY float64
	FlipX   bool
	FlipY   bool
	Rotate  bool
	Scale   float64
}

// FromConfig extracts transform parameters from a map config row.
func FromConfig(c model.MapConfig) Params {
	return Params{
		OffsetX: c.OffsetX,
		OffsetY: c.OffsetY,
		FlipX:   c.FlipX,
		FlipY:   c.FlipY,
		Rotate:  c.Rotate,
		Scale:   c.Scale,
	}
}

// Point is a pixel coordinate in base image space.
type Point struct {
	X, Y uint
}

// OutOfBoundsError describes a position that maps outside the base image.
// It carries everything needed to diagnose a misconfigured transform.
type OutOfBoundsError struct {
	PosX, PosY float64
	X, Y       float64 // truncated pixel values before the rotate swap
	Params     Params
	Width      int
	Height     int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("position %g,%g maps to %g,%g outside %dx%d (offset: %g,%g flip: %t,%t scale: %g)",
		e.PosX, e.PosY, e.X, e.Y, e.Width, e.Height,
		e.Params.OffsetX, e.Params.OffsetY, e.Params.FlipX, e.Params.FlipY, e.Params.Scale)
}

// Transformer applies one map's parameters against fixed image bounds.
// It holds no mutable state and is safe to reuse.
type Transformer struct {
	params Params
	width  int
	height int
}

// New creates a transformer for an image of width×height pixels.
// A zero, negative or non-finite scale is rejected since every position would
// divide into an undefined pixel.
func New(p Params, width, height int) (*Transformer, error) {
	if p.Scale == 0 || math.IsNaN(p.Scale) || math.IsInf(p.Scale, 0) || p.Scale < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid scale %g", p.Scale)
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid image size %dx%d", width, height)
	}
	return &Transformer{params: p, width: width, height: height}, nil
}

// Apply maps a world position to a pixel. It returns an error coded
// OUT_OF_BOUNDS, wrapping an *OutOfBoundsError, when x > width or y > height.
func (t *Transformer) Apply(px, py float64) (Point, error) {
	x := Axis(t.params.OffsetX, t.params.FlipX, px, t.params.Scale)
	y := Axis(t.params.OffsetY, t.params.FlipY, py, t.params.Scale)

	if math.IsNaN(x) || math.IsNaN(y) || x > float64(t.width) || y > float64(t.height) {
		oob := &OutOfBoundsError{
			PosX: px, PosY: py,
			X: x, Y: y,
			Params: t.params,
			Width:  t.width,
			Height: t.height,
		}
		return Point{}, errors.Wrap(errors.ErrCodeOutOfBounds, oob, "coordinate outside bounds")
	}

	p := Point{X: uint(x), Y: uint(y)}
	if t.params.Rotate {
		p.X, p.Y = p.Y, p.X
	}
	return p, nil
}

// Axis computes one truncated pixel coordinate. The result is a whole,
// non-negative float64 so callers can bounds check it before converting.
func Axis(offset float64, flip bool, pos, scale float64) float64 {
	sign := 1.0
	if flip {
		sign = -1.0
	}
	return math.Trunc(math.Abs((offset*sign-pos)/scale - 1))
}
