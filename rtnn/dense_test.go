// Copyright 2026 go-rtnn Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rtnn

import (
	stdmath "math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-rtnn/rtnn/backend"
)

func TestDenseKnownValues(t *testing.T) {
	tests := []struct {
		name    string
		weights [][]float32
		bias    []float32
		in      []float32
		want    []float32
	}{
		{
			name:    "1x2 affine",
			weights: [][]float32{{1, 2}},
			bias:    []float32{0.5},
			in:      []float32{3, 4},
			want:    []float32{11.5},
		},
		{
			name: "identity 3x3",
			weights: [][]float32{
				{1, 0, 0},
				{0, 1, 0},
				{0, 0, 1},
			},
			bias: []float32{0, 0, 0},
			in:   []float32{5, -7, 9},
			want: []float32{5, -7, 9},
		},
		{
			name: "2x3 with bias",
			weights: [][]float32{
				{1, 2, 3},
				{-1, 0, 1},
			},
			bias: []float32{1, -1},
			in:   []float32{2, 0, -2},
			want: []float32{-3, -5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDenseWithEngine[float32](len(tt.in), len(tt.want), backend.Scalar[float32]{})
			d.SetWeights(tt.weights)
			d.SetBias(tt.bias)

			out := make([]float32, len(tt.want))
			d.Forward(tt.in, out)
			for i := range out {
				if stdmath.Abs(float64(out[i]-tt.want[i])) > 1e-6 {
					t.Errorf("out[%d] = %v, want %v", i, out[i], tt.want[i])
				}
			}
		})
	}
}

// A dense layer is stateless: repeated identical inputs produce
// bit-identical outputs and Reset changes nothing.
func TestDenseStateless(t *testing.T) {
	d := NewDense[float32](4, 3)
	d.SetWeightsFlat([]float32{
		0.1, 0.2, 0.3, 0.4,
		-0.1, -0.2, -0.3, -0.4,
		1, 0, -1, 0,
	})
	d.SetBias([]float32{0.5, -0.5, 0})

	in := []float32{1, -2, 3, -4}
	first := make([]float32, 3)
	d.Forward(in, first)

	for run := 0; run < 5; run++ {
		d.Reset()
		out := make([]float32, 3)
		d.Forward(in, out)
		for i := range out {
			if out[i] != first[i] {
				t.Fatalf("run %d: out[%d] = %v, first %v", run, i, out[i], first[i])
			}
		}
	}
}

func TestDenseSettersRoundTrip(t *testing.T) {
	d := NewDense[float64](3, 2)
	w := [][]float64{
		{1.5, -2.5, 3.5},
		{0.25, 0.5, -0.75},
	}
	b := []float64{0.125, -0.375}
	d.SetWeights(w)
	d.SetBias(b)

	for j := range w {
		for i := range w[j] {
			if got := d.Weight(j, i); got != w[j][i] {
				t.Errorf("Weight(%d,%d) = %v, want %v", j, i, got, w[j][i])
			}
		}
		if got := d.Bias(j); got != b[j] {
			t.Errorf("Bias(%d) = %v, want %v", j, got, b[j])
		}
	}
}

func TestDenseSetWeightsMatrix(t *testing.T) {
	d := NewDense[float64](2, 2)
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	d.SetWeightsMatrix(m)
	d.SetBias([]float64{0, 0})

	in := []float64{1, 1}
	out := make([]float64, 2)
	d.Forward(in, out)

	// Oracle: gonum computes the same product.
	var want mat.VecDense
	want.MulVec(m, mat.NewVecDense(2, in))
	for i := range out {
		if stdmath.Abs(out[i]-want.AtVec(i)) > 1e-12 {
			t.Errorf("out[%d] = %v, gonum says %v", i, out[i], want.AtVec(i))
		}
	}
}

func TestDenseSetterPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*Dense[float32])
	}{
		{"weight rows", func(d *Dense[float32]) { d.SetWeights([][]float32{{1, 2}}) }},
		{"weight cols", func(d *Dense[float32]) { d.SetWeights([][]float32{{1}, {2}}) }},
		{"flat length", func(d *Dense[float32]) { d.SetWeightsFlat([]float32{1, 2, 3}) }},
		{"bias length", func(d *Dense[float32]) { d.SetBias([]float32{1, 2, 3}) }},
		{"matrix shape", func(d *Dense[float32]) { d.SetWeightsMatrix(mat.NewDense(3, 3, nil)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDense[float32](2, 2)
			defer func() {
				if recover() == nil {
					t.Error("no panic on mismatched dimensions")
				}
			}()
			tt.fn(d)
		})
	}
}

func TestDenseNegativeSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic on negative size")
		}
	}()
	NewDense[float32](-1, 2)
}

func TestDenseClone(t *testing.T) {
	d := NewDense[float32](2, 1)
	d.SetWeights([][]float32{{1, 2}})
	d.SetBias([]float32{0.5})

	c := d.Clone()
	d.SetBias([]float32{100})

	out := make([]float32, 1)
	c.Forward([]float32{3, 4}, out)
	if stdmath.Abs(float64(out[0]-11.5)) > 1e-6 {
		t.Errorf("clone affected by mutation of original: out = %v, want 11.5", out[0])
	}
}

func TestDenseForwardAllocs(t *testing.T) {
	d := NewDenseWithEngine[float32](16, 8, backend.Scalar[float32]{})
	in := make([]float32, 16)
	out := make([]float32, 8)
	for i := range in {
		in[i] = float32(i) * 0.1
	}

	if n := testing.AllocsPerRun(100, func() { d.Forward(in, out) }); n != 0 {
		t.Errorf("Forward allocated %v times per run, want 0", n)
	}
}
