// Package density accumulates point samples into a 2D density field and
// renders it as an RGBA heat image.
//
// A Field is sized to the base image it will be composited onto. Each call to
// AddPoint stamps a small radial kernel centred on the pixel; RenderRGBA
// normalises the accumulated values against the field maximum and maps them
// through a ColorScheme. Zero density maps to the first colour of the scheme,
// which is fully transparent in the default scheme, so untouched pixels leave
// the base image visible.
//
// Rendering is deterministic: the same sequence of points rendered through
// the same stamp and scheme produces byte-identical output, and rendering does
// not modify the field.
//
// # Lifecycle
//
//	f, err := density.New(w, h)
//	if err != nil {
//	    return err // allocation failures are fatal
//	}
//	defer f.Release()
//	f.AddPoint(x, y)
//	rgba := f.RenderRGBA()
package density
