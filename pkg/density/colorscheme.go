package density

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorScheme maps normalised density in [0,1] onto colours. Index 0 is used
// for zero density and the last index for the field maximum.
type ColorScheme []color.NRGBA

// schemeSize is the number of entries in generated schemes.
const schemeSize = 256

// gradientStop is one keypoint of a colour gradient.
type gradientStop struct {
	col colorful.Color
	pos float64
}

// heatStops run from deep blue through green and yellow to red.
var heatStops = []gradientStop{
	{colorful.Color{R: 0.00, G: 0.00, B: 0.50}, 0.00},
	{colorful.Color{R: 0.00, G: 0.30, B: 1.00}, 0.20},
	{colorful.Color{R: 0.00, G: 0.85, B: 0.85}, 0.40},
	{colorful.Color{R: 0.20, G: 0.90, B: 0.20}, 0.60},
	{colorful.Color{R: 1.00, G: 0.90, B: 0.00}, 0.80},
	{colorful.Color{R: 0.90, G: 0.05, B: 0.00}, 1.00},
}

// colorAt interpolates the stops in Lab space.
func colorAt(stops []gradientStop, t float64) colorful.Color {
	for i := 0; i < len(stops)-1; i++ {
		a, b := stops[i], stops[i+1]
		if a.pos <= t && t <= b.pos {
			return a.col.BlendLab(b.col, (t-a.pos)/(b.pos-a.pos)).Clamped()
		}
	}
	return stops[len(stops)-1].col
}

// newGradientScheme builds a scheme from stops, ramping alpha from fully
// transparent at zero to opaque at opaqueAt.
func newGradientScheme(stops []gradientStop, opaqueAt float64) ColorScheme {
	cs := make(ColorScheme, schemeSize)
	for i := range cs {
		t := float64(i) / float64(schemeSize-1)
		r, g, b := colorAt(stops, t).RGB255()
		a := math.Round(255 * math.Min(1, t/opaqueAt))
		cs[i] = color.NRGBA{R: r, G: g, B: b, A: uint8(a)}
	}
	return cs
}

var defaultScheme = newGradientScheme(heatStops, 0.6)

// DefaultColorScheme returns the blue-to-red heat ramp used by default.
// The returned slice is shared and must not be modified.
func DefaultColorScheme() ColorScheme {
	return defaultScheme
}
