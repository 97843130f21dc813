package rtnn

import (
	stdmath "math"
	"testing"

	"github.com/ajroetker/go-rtnn/rtnn/backend"
)

// With every parameter zero except the candidate input weight, one
// step from the zero state works out by hand: i = f = o = 1/2,
// g = tanh(1), c1 = tanh(1)/2, h1 = tanh(tanh(1)/2)/2.
func TestLSTMSingleStepCandidate(t *testing.T) {
	want := float32(stdmath.Tanh(stdmath.Tanh(1)/2) / 2)

	l := NewLSTMWithEngine[float32](1, 1, backend.Scalar[float32]{})
	l.SetWVals([][]float32{{0, 0, 1, 0}})

	out := make([]float32, 1)
	l.Forward([]float32{1}, out)
	if stdmath.Abs(float64(out[0]-want)) > 1e-4 {
		t.Errorf("h1 = %v, want %v", out[0], want)
	}
}

func TestLSTMZeroParamsHoldZero(t *testing.T) {
	l := NewLSTM[float32](2, 3)
	in := []float32{1, -1}
	out := make([]float32, 3)
	for step := 0; step < 6; step++ {
		l.Forward(in, out)
		for i, v := range out {
			if v != 0 {
				t.Fatalf("step %d: out[%d] = %v with all-zero parameters", step, i, v)
			}
		}
	}
}

func fillLSTM(l *LSTM[float32]) {
	n := l.OutSize()
	w := make([][]float32, l.InSize())
	for i := range w {
		w[i] = make([]float32, 4*n)
		for k := range w[i] {
			w[i][k] = float32((i+k)%5)*0.1 - 0.2
		}
	}
	u := make([][]float32, n)
	for j := range u {
		u[j] = make([]float32, 4*n)
		for k := range u[j] {
			u[j][k] = float32((j+2*k)%7)*0.05 - 0.15
		}
	}
	b := [][]float32{make([]float32, 4*n), make([]float32, 4*n)}
	for k := 0; k < 4*n; k++ {
		b[0][k] = float32(k%3) * 0.1
		b[1][k] = -float32(k%4) * 0.05
	}
	l.SetWVals(w)
	l.SetUVals(u)
	l.SetBVals(b)
}

func testLSTMStream(l *LSTM[float32], steps int) []float32 {
	in := make([]float32, l.InSize())
	out := make([]float32, l.OutSize())
	rec := make([]float32, 0, steps*l.OutSize())
	for t := 0; t < steps; t++ {
		for i := range in {
			in[i] = float32(t%5)*0.3 - 0.6
		}
		l.Forward(in, out)
		rec = append(rec, out...)
	}
	return rec
}

func TestLSTMResetRestoresInitialState(t *testing.T) {
	l := NewLSTMWithEngine[float32](2, 3, backend.Scalar[float32]{})
	fillLSTM(l)
	l.PrepareFractional(1.5)

	first := testLSTMStream(l, 16)
	l.Reset()
	second := testLSTMStream(l, 16)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after reset: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestLSTMEnginesAgree(t *testing.T) {
	sc := NewLSTMWithEngine[float32](2, 4, backend.Scalar[float32]{})
	hw := NewLSTMWithEngine[float32](2, 4, backend.Highway[float32]{})
	fillLSTM(sc)
	fillLSTM(hw)

	a := testLSTMStream(sc, 32)
	b := testLSTMStream(hw, 32)
	for i := range a {
		if diff := stdmath.Abs(float64(a[i] - b[i])); diff > 2e-3 {
			t.Fatalf("sample %d: scalar=%v highway=%v diff=%v", i, a[i], b[i], diff)
		}
	}
}

func TestLSTMSettersRoundTrip(t *testing.T) {
	l := NewLSTM[float64](1, 2)
	w := [][]float64{{1, 2, 3, 4, 5, 6, 7, 8}}
	u := [][]float64{
		{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8},
		{-0.1, -0.2, -0.3, -0.4, -0.5, -0.6, -0.7, -0.8},
	}
	b := [][]float64{
		{0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07, 0.08},
		{0.11, 0.12, 0.13, 0.14, 0.15, 0.16, 0.17, 0.18},
	}
	l.SetWVals(w)
	l.SetUVals(u)
	l.SetBVals(b)

	for i := range w {
		for k := range w[i] {
			if got := l.WVal(i, k); got != w[i][k] {
				t.Errorf("WVal(%d,%d) = %v, want %v", i, k, got, w[i][k])
			}
		}
	}
	for j := range u {
		for k := range u[j] {
			if got := l.UVal(j, k); got != u[j][k] {
				t.Errorf("UVal(%d,%d) = %v, want %v", j, k, got, u[j][k])
			}
		}
	}
	for row := range b {
		for k := range b[row] {
			if got := l.BVal(row, k); got != b[row][k] {
				t.Errorf("BVal(%d,%d) = %v, want %v", row, k, got, b[row][k])
			}
		}
	}
}

func TestLSTMCloneIndependence(t *testing.T) {
	l := NewLSTMWithEngine[float32](2, 3, backend.Scalar[float32]{})
	fillLSTM(l)
	_ = testLSTMStream(l, 8)

	c := l.Clone()
	la := testLSTMStream(l, 8)
	ca := testLSTMStream(c, 8)
	for i := range la {
		if la[i] != ca[i] {
			t.Fatalf("sample %d: original %v, clone %v", i, la[i], ca[i])
		}
	}
}

func TestLSTMForwardAllocs(t *testing.T) {
	l := NewLSTMWithEngine[float32](4, 8, backend.Scalar[float32]{})
	fillLSTM(l)
	l.Prepare(2)

	in := make([]float32, 4)
	out := make([]float32, 8)
	if n := testing.AllocsPerRun(100, func() { l.Forward(in, out) }); n != 0 {
		t.Errorf("Forward allocated %v times per run, want 0", n)
	}
}
