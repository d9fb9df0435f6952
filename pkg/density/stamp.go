package density

import "math"

// DefaultRadius is the radius in pixels of the default stamp.
const DefaultRadius = 4

// Stamp is a square kernel added to the field for every point.
type Stamp struct {
	radius int
	size   int
	buf    []float32
}

// NewStamp creates a radial stamp with linear falloff: 1 at the centre,
// reaching 0 at radius pixels. A radius below 1 yields a single pixel stamp.
func NewStamp(radius int) *Stamp {
	if radius < 0 {
		radius = 0
	}
	size := 2*radius + 1
	s := &Stamp{radius: radius, size: size, buf: make([]float32, size*size)}

	if radius == 0 {
		s.buf[0] = 1
		return s
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x - radius)
			dy := float64(y - radius)
			d := math.Sqrt(dx*dx+dy*dy) / float64(radius)
			s.buf[y*size+x] = float32(math.Max(0, 1-d))
		}
	}
	return s
}

// DefaultStamp returns the stamp used when no WithStamp option is given.
func DefaultStamp() *Stamp {
	return defaultStamp
}

var defaultStamp = NewStamp(DefaultRadius)

// Radius returns the stamp radius.
func (s *Stamp) Radius() int { return s.radius }
