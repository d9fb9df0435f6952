package transform

import (
	stderrors "errors"
	"testing"

	"github.com/hlstatsx/heatmaps/pkg/errors"
	"github.com/hlstatsx/heatmaps/pkg/model"
)

func mustNew(t *testing.T, p Params, w, h int) *Transformer {
	t.Helper()
	tr, err := New(p, w, h)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return tr
}

func TestAxis(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		flip   bool
		pos    float64
		scale  float64
		want   float64
	}{
		{"identity negative position", 0, false, -50, 1, 49},
		{"positive position mirrors through abs", 0, false, 50, 1, 51},
		{"offset shifts origin", 1000, false, 500, 1, 499},
		{"scale divides before bias", 1000, false, 200, 4, 199},
		{"flip negates offset", 1000, true, -1500, 1, 499},
		{"fraction truncates toward zero", 0, false, -10.9, 1, 9},
		{"negative result fraction truncates", 0, false, 0.5, 1, 1},
		{"scale below one", 0, false, -10, 0.5, 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Axis(tt.offset, tt.flip, tt.pos, tt.scale); got != tt.want {
				t.Errorf("Axis(%g, %t, %g, %g) = %g, want %g", tt.offset, tt.flip, tt.pos, tt.scale, got, tt.want)
			}
		})
	}
}

func TestApplyDeterministic(t *testing.T) {
	tr := mustNew(t, Params{OffsetX: 3120.5, OffsetY: -1876, FlipY: true, Scale: 6.2}, 1024, 1024)

	first, err1 := tr.Apply(-410, 220)
	for i := 0; i < 100; i++ {
		got, err := tr.Apply(-410, 220)
		if (err == nil) != (err1 == nil) || got != first {
			t.Fatalf("Apply is not deterministic: %v/%v vs %v/%v", got, err, first, err1)
		}
	}
}

func TestFlipInvariance(t *testing.T) {
	positions := []float64{-2000, -37.5, 0, 12, 640.25, 1800}
	offsets := []float64{-900, 0, 450.5, 2048}

	for _, off := range offsets {
		for _, pos := range positions {
			flipped := Axis(off, true, pos, 3)
			plain := Axis(-off, false, pos, 3)
			if flipped != plain {
				t.Errorf("offset %g pos %g: flipped %g != negated offset %g", off, pos, flipped, plain)
			}
		}
	}
}

func TestRotateSwapsAxes(t *testing.T) {
	base := Params{OffsetX: 500, OffsetY: -300, FlipX: true, Scale: 2}
	rotated := base
	rotated.Rotate = true

	plain := mustNew(t, base, 2000, 2000)
	rot := mustNew(t, rotated, 2000, 2000)

	for _, pos := range [][2]float64{{-600, 100}, {-1200, -400}, {0, 0}, {250, 33}} {
		a, err := plain.Apply(pos[0], pos[1])
		if err != nil {
			t.Fatalf("plain Apply(%v) error: %v", pos, err)
		}
		b, err := rot.Apply(pos[0], pos[1])
		if err != nil {
			t.Fatalf("rotated Apply(%v) error: %v", pos, err)
		}
		if a.X != b.Y || a.Y != b.X {
			t.Errorf("pos %v: plain %v, rotated %v; want swapped", pos, a, b)
		}
	}
}

func TestBoundsCheckedBeforeRotate(t *testing.T) {
	// x=80 fits the 100 wide image but would not fit the 50 high one after
	// swapping; the check runs on the unswapped values.
	tr := mustNew(t, Params{Scale: 1, Rotate: true}, 100, 50)

	p, err := tr.Apply(-81, -11)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if p.X != 10 || p.Y != 80 {
		t.Errorf("Apply() = %v, want {10 80}", p)
	}
}

func TestBoundary(t *testing.T) {
	tr := mustNew(t, Params{Scale: 1}, 100, 100)

	tests := []struct {
		name    string
		px, py  float64
		wantErr bool
	}{
		{"inside", -50, -50, false},
		{"x equals width accepted", -101, -50, false},
		{"y equals height accepted", -50, -101, false},
		{"x equals width plus one rejected", -102, -50, true},
		{"y equals height plus one rejected", -50, -102, true},
		{"origin", -1, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Apply(tt.px, tt.py)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply(%g, %g) error = %v, wantErr %v", tt.px, tt.py, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeOutOfBounds) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeOutOfBounds)
			}
		})
	}
}

func TestOutOfBoundsErrorDetails(t *testing.T) {
	p := Params{OffsetX: 10, OffsetY: 20, FlipX: true, Scale: 2}
	tr := mustNew(t, p, 64, 32)

	_, err := tr.Apply(-500, 0)
	if err == nil {
		t.Fatal("expected out of bounds error")
	}

	var oob *OutOfBoundsError
	if !stderrors.As(err, &oob) {
		t.Fatalf("error %v does not wrap *OutOfBoundsError", err)
	}
	if oob.PosX != -500 || oob.Width != 64 || oob.Height != 32 || oob.Params != p {
		t.Errorf("unexpected details: %+v", oob)
	}
	if errors.IsFatal(err) {
		t.Error("out of bounds must be local to the map")
	}
}

func TestSinglePointScenario(t *testing.T) {
	cfg := model.MapConfig{Scale: 1}
	tr := mustNew(t, FromConfig(cfg), 100, 100)

	// The bias makes the world origin land on pixel 49 for a position of -50.
	p, err := tr.Apply(-50, -50)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if p != (Point{X: 49, Y: 49}) {
		t.Errorf("Apply(-50,-50) = %v, want {49 49}", p)
	}

	// A positive position mirrors through the absolute value.
	p, err = tr.Apply(50, 50)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if p != (Point{X: 51, Y: 51}) {
		t.Errorf("Apply(50,50) = %v, want {51 51}", p)
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		w, h int
	}{
		{"zero scale", Params{Scale: 0}, 10, 10},
		{"negative scale", Params{Scale: -1}, 10, 10},
		{"zero width", Params{Scale: 1}, 0, 10},
		{"zero height", Params{Scale: 1}, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.p, tt.w, tt.h); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := model.MapConfig{OffsetX: 1, OffsetY: 2, FlipX: true, FlipY: false, Rotate: true, Scale: 3.5, Days: 30}
	want := Params{OffsetX: 1, OffsetY: 2, FlipX: true, Rotate: true, Scale: 3.5}
	if got := FromConfig(cfg); got != want {
		t.Errorf("FromConfig() = %+v, want %+v", got, want)
	}
}
