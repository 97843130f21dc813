package rtnn

import (
	stdmath "math"
	"testing"

	"github.com/ajroetker/go-rtnn/rtnn/backend"
)

// An impulse through a dilated kernel reads the taps back at
// dilation-spaced steps.
func TestConv1DImpulseResponse(t *testing.T) {
	cv := NewConv1DWithEngine[float32](1, 1, 3, 2, backend.Scalar[float32]{})
	cv.SetWeights([][][]float32{{{0.5, -0.25, 0.125}}})
	cv.SetBias([]float32{0})

	want := map[int]float32{0: 0.5, 2: -0.25, 4: 0.125}
	out := make([]float32, 1)
	for step := 0; step < 8; step++ {
		in := []float32{0}
		if step == 0 {
			in[0] = 1
		}
		cv.Forward(in, out)
		if w := want[step]; out[0] != w {
			t.Errorf("step %d: out = %v, want %v", step, out[0], w)
		}
	}
}

func TestConv1DKnownValues(t *testing.T) {
	// Two input channels, one output, two taps, no dilation:
	// out(t) = 1*x0(t) + 2*x1(t) + 3*x0(t-1) + 4*x1(t-1) + 0.5
	cv := NewConv1DWithEngine[float32](2, 1, 2, 1, backend.Scalar[float32]{})
	cv.SetWeights([][][]float32{{
		{1, 3},
		{2, 4},
	}})
	cv.SetBias([]float32{0.5})

	frames := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	want := []float32{
		1*1 + 2*0 + 0.5,
		2*1 + 3*1 + 0.5,
		1 + 2 + 4 + 0.5,
	}
	out := make([]float32, 1)
	for step, in := range frames {
		cv.Forward(in, out)
		if stdmath.Abs(float64(out[0]-want[step])) > 1e-6 {
			t.Errorf("step %d: out = %v, want %v", step, out[0], want[step])
		}
	}
}

func TestConv1DResetClearsHistory(t *testing.T) {
	cv := NewConv1DWithEngine[float32](1, 1, 3, 1, backend.Scalar[float32]{})
	cv.SetWeights([][][]float32{{{1, 1, 1}}})
	cv.SetBias([]float32{0})

	out := make([]float32, 1)
	for step := 0; step < 5; step++ {
		cv.Forward([]float32{1}, out)
	}
	cv.Reset()

	// Fresh history: the first output sees only the new frame.
	cv.Forward([]float32{1}, out)
	if out[0] != 1 {
		t.Errorf("after reset: out = %v, want 1", out[0])
	}
}

func TestConv1DSettersRoundTrip(t *testing.T) {
	cv := NewConv1D[float64](2, 3, 2, 1)
	w := make([][][]float64, 3)
	for o := range w {
		w[o] = make([][]float64, 2)
		for i := range w[o] {
			w[o][i] = make([]float64, 2)
			for j := range w[o][i] {
				w[o][i][j] = float64(o*100 + i*10 + j)
			}
		}
	}
	cv.SetWeights(w)

	for o := range w {
		for i := range w[o] {
			for j := range w[o][i] {
				if got := cv.Weight(o, i, j); got != w[o][i][j] {
					t.Errorf("Weight(%d,%d,%d) = %v, want %v", o, i, j, got, w[o][i][j])
				}
			}
		}
	}

	if cv.KernelSize() != 2 || cv.Dilation() != 1 {
		t.Errorf("KernelSize/Dilation = %d/%d, want 2/1", cv.KernelSize(), cv.Dilation())
	}
}

func TestConv1DBadConstruction(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"zero kernel", func() { NewConv1D[float32](1, 1, 0, 1) }},
		{"zero dilation", func() { NewConv1D[float32](1, 1, 2, 0) }},
		{"negative size", func() { NewConv1D[float32](-1, 1, 2, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("no panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestConv1DCloneIndependence(t *testing.T) {
	cv := NewConv1DWithEngine[float32](1, 1, 2, 1, backend.Scalar[float32]{})
	cv.SetWeights([][][]float32{{{1, 2}}})
	cv.SetBias([]float32{0})

	out := make([]float32, 1)
	cv.Forward([]float32{3}, out)

	c := cv.Clone()
	a := make([]float32, 1)
	b := make([]float32, 1)
	cv.Forward([]float32{5}, a)
	c.Forward([]float32{5}, b)
	if a[0] != b[0] {
		t.Fatalf("clone lost history: original %v, clone %v", a[0], b[0])
	}

	cv.Reset()
	cv.Forward([]float32{5}, a)
	c.Forward([]float32{5}, b)
	if a[0] == b[0] {
		t.Error("clone shared state with original")
	}
}

func TestConv1DForwardAllocs(t *testing.T) {
	cv := NewConv1DWithEngine[float32](4, 4, 3, 2, backend.Scalar[float32]{})
	in := make([]float32, 4)
	out := make([]float32, 4)
	if n := testing.AllocsPerRun(100, func() { cv.Forward(in, out) }); n != 0 {
		t.Errorf("Forward allocated %v times per run, want 0", n)
	}
}
