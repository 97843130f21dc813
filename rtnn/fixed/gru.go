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

package fixed

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-rtnn/rtnn"
	"github.com/ajroetker/go-rtnn/rtnn/backend"
)

// GRU is the compile-time sized gated recurrent unit. Parameter
// layout, gate order and the state transition match rtnn.GRU; see
// there for the algebra. Out() returns the hidden state after the
// step, delayed when Prepare or PrepareFractional has armed
// sample-rate correction.
type GRU[T backend.Floats, E backend.Engine[T]] struct {
	base
	eng E

	w []T // [3*out, in+1] row-major
	u []T // [3*out, out+1] row-major

	h     []T
	xExt  []T // in+1, last slot pinned to 1
	hExt  []T // out+1, last slot pinned to 1
	wx    []T
	uh    []T
	gates []T
	hNew  []T

	delay *rtnn.DelayLine[T]
}

func NewGRU[T backend.Floats, E backend.Engine[T]](inSize, outSize int) *GRU[T, E] {
	checkSize(inSize, "input size")
	checkSize(outSize, "output size")
	g := &GRU[T, E]{
		base:  base{inSize: inSize, outSize: outSize, name: "gru"},
		w:     backend.AlignedSlice[T](3 * outSize * (inSize + 1)),
		u:     backend.AlignedSlice[T](3 * outSize * (outSize + 1)),
		h:     backend.AlignedSlice[T](outSize),
		xExt:  backend.AlignedSlice[T](inSize + 1),
		hExt:  backend.AlignedSlice[T](outSize + 1),
		wx:    backend.AlignedSlice[T](3 * outSize),
		uh:    backend.AlignedSlice[T](3 * outSize),
		gates: backend.AlignedSlice[T](3 * outSize),
		hNew:  backend.AlignedSlice[T](outSize),
	}
	g.xExt[inSize] = 1
	g.hExt[outSize] = 1
	return g
}

func (g *GRU[T, E]) Forward(in []T) {
	n := g.outSize
	copy(g.xExt, in[:g.inSize])
	copy(g.hExt, g.h)

	g.eng.MatVec(g.w, 3*n, g.inSize+1, g.xExt, g.wx)
	g.eng.MatVec(g.u, 3*n, n+1, g.hExt, g.uh)

	for i := 0; i < 2*n; i++ {
		g.gates[i] = g.wx[i] + g.uh[i]
	}
	g.eng.Sigmoid(g.gates[:2*n], g.gates[:2*n])
	r := g.gates[:n]
	z := g.gates[n : 2*n]

	cand := g.gates[2*n : 3*n]
	for i := 0; i < n; i++ {
		cand[i] = g.wx[2*n+i] + r[i]*g.uh[2*n+i]
	}
	g.eng.Tanh(cand, cand)

	for i := 0; i < n; i++ {
		g.hNew[i] = (1-z[i])*cand[i] + z[i]*g.h[i]
	}

	if g.delay != nil {
		g.delay.Process(g.hNew, g.h)
	} else {
		copy(g.h, g.hNew)
	}
}

// Out returns the hidden state. The slice is owned by the layer and
// overwritten by every Forward.
func (g *GRU[T, E]) Out() []T { return g.h }

// Reset zeroes the hidden state and any delay slots.
func (g *GRU[T, E]) Reset() {
	clear(g.h)
	if g.delay != nil {
		g.delay.Reset()
	}
}

// Prepare inserts a whole-step delay into the state feedback path.
func (g *GRU[T, E]) Prepare(delaySamples int) {
	g.delay = rtnn.NewDelayLine[T](g.outSize)
	g.delay.Prepare(delaySamples)
}

// PrepareFractional inserts an interpolating delay into the state
// feedback path.
func (g *GRU[T, E]) PrepareFractional(delaySamples T) {
	g.delay = rtnn.NewDelayLine[T](g.outSize)
	g.delay.PrepareFractional(delaySamples)
}

// SetWVals copies the input kernel from trainer layout [in][3*out].
func (g *GRU[T, E]) SetWVals(w [][]T) {
	if len(w) != g.inSize {
		panic("rtnn: gru kernel rows mismatch")
	}
	cols := g.inSize + 1
	for i, row := range w {
		if len(row) != 3*g.outSize {
			panic("rtnn: gru kernel cols mismatch")
		}
		for k, v := range row {
			g.w[k*cols+i] = v
		}
	}
}

// SetUVals copies the recurrent kernel from trainer layout [out][3*out].
func (g *GRU[T, E]) SetUVals(u [][]T) {
	if len(u) != g.outSize {
		panic("rtnn: gru recurrent rows mismatch")
	}
	cols := g.outSize + 1
	for j, row := range u {
		if len(row) != 3*g.outSize {
			panic("rtnn: gru recurrent cols mismatch")
		}
		for k, v := range row {
			g.u[k*cols+j] = v
		}
	}
}

// SetBVals copies the two bias rows into the matrices' bias columns.
func (g *GRU[T, E]) SetBVals(b [][]T) {
	if len(b) != 2 {
		panic("rtnn: gru bias rows mismatch")
	}
	if len(b[0]) != 3*g.outSize || len(b[1]) != 3*g.outSize {
		panic("rtnn: gru bias cols mismatch")
	}
	wCols := g.inSize + 1
	uCols := g.outSize + 1
	for k := 0; k < 3*g.outSize; k++ {
		g.w[k*wCols+g.inSize] = b[0][k]
		g.u[k*uCols+g.outSize] = b[1][k]
	}
}

// SetWValsMatrix is SetWVals from a gonum matrix of shape (in, 3*out).
func (g *GRU[T, E]) SetWValsMatrix(m mat.Matrix) {
	r, c := m.Dims()
	if r != g.inSize || c != 3*g.outSize {
		panic("rtnn: gru kernel matrix shape mismatch")
	}
	cols := g.inSize + 1
	for i := 0; i < r; i++ {
		for k := 0; k < c; k++ {
			g.w[k*cols+i] = T(m.At(i, k))
		}
	}
}

// SetUValsMatrix is SetUVals from a gonum matrix of shape (out, 3*out).
func (g *GRU[T, E]) SetUValsMatrix(m mat.Matrix) {
	r, c := m.Dims()
	if r != g.outSize || c != 3*g.outSize {
		panic("rtnn: gru recurrent matrix shape mismatch")
	}
	cols := g.outSize + 1
	for j := 0; j < r; j++ {
		for k := 0; k < c; k++ {
			g.u[k*cols+j] = T(m.At(j, k))
		}
	}
}

func (g *GRU[T, E]) WVal(i, k int) T { return g.w[k*(g.inSize+1)+i] }
func (g *GRU[T, E]) UVal(j, k int) T { return g.u[k*(g.outSize+1)+j] }

func (g *GRU[T, E]) BVal(row, k int) T {
	if row == 0 {
		return g.w[k*(g.inSize+1)+g.inSize]
	}
	return g.u[k*(g.outSize+1)+g.outSize]
}
