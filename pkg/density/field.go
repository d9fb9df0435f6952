package density

import (
	"image"

	"github.com/hlstatsx/heatmaps/pkg/errors"
)

// MaxPixels bounds the size of a field. Overview images are at most a few
// thousand pixels per side; anything beyond this is treated as a failed
// allocation rather than attempted.
const MaxPixels = 1 << 26

// Option configures a Field.
type Option func(*Field)

// WithStamp sets the kernel stamped for each point.
func WithStamp(s *Stamp) Option {
	return func(f *Field) {
		if s != nil {
			f.stamp = s
		}
	}
}

// Field is a width×height accumulator of point samples.
// It is not safe for concurrent use.
type Field struct {
	width  int
	height int
	buf    []float32
	max    float32
	points int

	stamp  *Stamp
	scheme ColorScheme
}

// New allocates a zeroed field. Non-positive or oversized dimensions return
// an ALLOCATION error.
func New(width, height int, opts ...Option) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeAllocation, "cannot allocate %dx%d density field", width, height)
	}
	if width > MaxPixels/height {
		return nil, errors.New(errors.ErrCodeAllocation, "density field %dx%d exceeds %d pixels", width, height, MaxPixels)
	}

	f := &Field{
		width:  width,
		height: height,
		buf:    make([]float32, width*height),
		stamp:  DefaultStamp(),
		scheme: DefaultColorScheme(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Width returns the field width in pixels.
func (f *Field) Width() int { return f.width }

// Height returns the field height in pixels.
func (f *Field) Height() int { return f.height }

// Points returns the number of samples accepted so far.
func (f *Field) Points() int { return f.points }

// Max returns the highest accumulated value.
func (f *Field) Max() float32 { return f.max }

// AddPoint stamps one sample centred on (x, y). Points outside
// [0,width)×[0,height) are ignored and not counted.
func (f *Field) AddPoint(x, y uint) {
	if f.buf == nil || x >= uint(f.width) || y >= uint(f.height) {
		return
	}
	f.points++

	s := f.stamp
	cx, cy := int(x), int(y)

	// Clip the stamp against the field edges.
	x0, y0 := cx-s.radius, cy-s.radius
	sx0, sy0 := 0, 0
	if x0 < 0 {
		sx0 = -x0
		x0 = 0
	}
	if y0 < 0 {
		sy0 = -y0
		y0 = 0
	}
	x1 := min(cx+s.radius+1, f.width)
	y1 := min(cy+s.radius+1, f.height)

	for fy, sy := y0, sy0; fy < y1; fy, sy = fy+1, sy+1 {
		row := f.buf[fy*f.width : (fy+1)*f.width]
		srow := s.buf[sy*s.size : (sy+1)*s.size]
		for fx, sx := x0, sx0; fx < x1; fx, sx = fx+1, sx+1 {
			row[fx] += srow[sx]
			if row[fx] > f.max {
				f.max = row[fx]
			}
		}
	}
}

// RenderRGBA renders the field into a new width*height*4 byte buffer of
// non-premultiplied RGBA pixels. It returns nil after Release.
func (f *Field) RenderRGBA() []byte {
	if f.buf == nil {
		return nil
	}
	out := make([]byte, len(f.buf)*4)
	last := float32(len(f.scheme) - 1)

	for i, v := range f.buf {
		if f.max > 0 {
			v /= f.max
		}
		v = min(max(v, 0), 1)
		c := f.scheme[int(last*v+0.5)]
		out[i*4+0] = c.R
		out[i*4+1] = c.G
		out[i*4+2] = c.B
		out[i*4+3] = c.A
	}
	return out
}

// RenderImage renders the field as an *image.NRGBA backed by RenderRGBA's
// buffer. It returns nil after Release.
func (f *Field) RenderImage() *image.NRGBA {
	pix := f.RenderRGBA()
	if pix == nil {
		return nil
	}
	return &image.NRGBA{
		Pix:    pix,
		Stride: f.width * 4,
		Rect:   image.Rect(0, 0, f.width, f.height),
	}
}

// Release drops the accumulation buffer. Further AddPoint calls are ignored
// and renders return nil. Releasing twice is a no-op.
func (f *Field) Release() {
	f.buf = nil
	f.max = 0
}
