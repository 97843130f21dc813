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
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-rtnn/rtnn/backend"
)

// GRU is the runtime-sized gated recurrent unit.
//
// All three gates are evaluated through two combined matrices so the
// whole step costs two matrix-vector products:
//
//	W: [3*out, in+1]  input kernel, gate blocks stacked by rows
//	U: [3*out, out+1] recurrent kernel, same stacking
//
// Row blocks are, in order: reset gate r, update gate z, candidate n.
// That ordering is part of the parameter format; weights exported from
// a trainer with a different gate order must be re-blocked before
// loading, and nothing here can detect when they were not.
//
// The trailing column of each matrix holds that gate's bias. Forward
// multiplies against extended vectors carrying a literal 1 in their
// last slot, which folds the bias add into the product:
//
//	W * [x 1] = Wx + b,  U * [h 1] = Uh + b
//
// The extension slots are written once at construction and never
// touched again.
//
// The state transition, with ⊙ the element-wise product:
//
//	r = σ(Wr*x̂ + Ur*ĥ)
//	z = σ(Wz*x̂ + Uz*ĥ)
//	n = tanh(Wn*x̂ + r ⊙ (Un*ĥ))
//	h' = (1-z) ⊙ n + z ⊙ h
//
// Prepare and PrepareFractional insert a DelayLine into the state
// feedback path for models run at a sample rate other than the one
// they were trained at.
type GRU[T backend.Floats] struct {
	layerBase
	eng backend.Engine[T]

	w []T // [3*out, in+1] row-major
	u []T // [3*out, out+1] row-major

	h     []T // hidden state, out
	xExt  []T // in+1, last slot pinned to 1
	hExt  []T // out+1, last slot pinned to 1
	wx    []T // W*x̂ scratch, 3*out
	uh    []T // U*ĥ scratch, 3*out
	gates []T // r, z, n blocks, 3*out
	hNew  []T // undelayed next state, out

	delay *DelayLine[T]
}

// NewGRU builds a GRU with zero parameters on the engine Default
// selects for this host. Panics if a size is negative.
func NewGRU[T backend.Floats](inSize, outSize int) *GRU[T] {
	return NewGRUWithEngine[T](inSize, outSize, backend.Default[T]())
}

// NewGRUWithEngine is NewGRU on an explicit engine.
func NewGRUWithEngine[T backend.Floats](inSize, outSize int, eng backend.Engine[T]) *GRU[T] {
	checkSize(inSize, "input size")
	checkSize(outSize, "output size")
	g := &GRU[T]{
		layerBase: layerBase{inSize: inSize, outSize: outSize, name: "gru"},
		eng:       eng,
		w:         make([]T, 3*outSize*(inSize+1)),
		u:         make([]T, 3*outSize*(outSize+1)),
		h:         make([]T, outSize),
		xExt:      make([]T, inSize+1),
		hExt:      make([]T, outSize+1),
		wx:        make([]T, 3*outSize),
		uh:        make([]T, 3*outSize),
		gates:     make([]T, 3*outSize),
		hNew:      make([]T, outSize),
	}
	g.xExt[inSize] = 1
	g.hExt[outSize] = 1
	return g
}

func (g *GRU[T]) Forward(in, out []T) {
	n := g.outSize
	copy(g.xExt, in[:g.inSize])
	copy(g.hExt, g.h)

	g.eng.MatVec(g.w, 3*n, g.inSize+1, g.xExt, g.wx)
	g.eng.MatVec(g.u, 3*n, n+1, g.hExt, g.uh)

	// r and z share one sigmoid pass over the first two gate blocks.
	for i := 0; i < 2*n; i++ {
		g.gates[i] = g.wx[i] + g.uh[i]
	}
	g.eng.Sigmoid(g.gates[:2*n], g.gates[:2*n])
	r := g.gates[:n]
	z := g.gates[n : 2*n]

	// The reset gate scales only the recurrent half of the candidate.
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
	copy(out[:n], g.h)
}

// Reset zeroes the hidden state and any delay slots. Parameters are
// untouched.
func (g *GRU[T]) Reset() {
	clear(g.h)
	if g.delay != nil {
		g.delay.Reset()
	}
}

// Prepare inserts a whole-step delay into the state feedback path.
// Prepare(0) leaves behavior identical to an unprepared layer.
func (g *GRU[T]) Prepare(delaySamples int) {
	g.delay = NewDelayLine[T](g.outSize)
	g.delay.Prepare(delaySamples)
}

// PrepareFractional inserts an interpolating delay into the state
// feedback path, for rate ratios that are not whole numbers.
func (g *GRU[T]) PrepareFractional(delaySamples T) {
	g.delay = NewDelayLine[T](g.outSize)
	g.delay.PrepareFractional(delaySamples)
}

// Clone returns a deep copy: parameters, state and delay contents are
// all duplicated, and the copy shares no storage with the receiver.
func (g *GRU[T]) Clone() *GRU[T] {
	c := &GRU[T]{
		layerBase: g.layerBase,
		eng:       g.eng,
		w:         make([]T, len(g.w)),
		u:         make([]T, len(g.u)),
		h:         make([]T, len(g.h)),
		xExt:      make([]T, len(g.xExt)),
		hExt:      make([]T, len(g.hExt)),
		wx:        make([]T, len(g.wx)),
		uh:        make([]T, len(g.uh)),
		gates:     make([]T, len(g.gates)),
		hNew:      make([]T, len(g.hNew)),
	}
	copy(c.w, g.w)
	copy(c.u, g.u)
	copy(c.h, g.h)
	copy(c.xExt, g.xExt)
	copy(c.hExt, g.hExt)
	if g.delay != nil {
		c.delay = g.delay.Clone()
	}
	return c
}

// SetWVals copies the input kernel from trainer layout: w[i][k] is
// the weight from input i to stacked gate row k, transposed into the
// combined matrix. The bias column is left alone; SetBVals owns it.
// Panics if any dimension disagrees with the layer's sizes.
func (g *GRU[T]) SetWVals(w [][]T) {
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

// SetUVals copies the recurrent kernel from trainer layout: u[j][k]
// is the weight from state element j to stacked gate row k.
func (g *GRU[T]) SetUVals(u [][]T) {
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

// SetBVals copies the two bias rows into the matrices' bias columns:
// b[0] lands in W's trailing column, b[1] in U's.
func (g *GRU[T]) SetBVals(b [][]T) {
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
func (g *GRU[T]) SetWValsMatrix(m mat.Matrix) {
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
func (g *GRU[T]) SetUValsMatrix(m mat.Matrix) {
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

// WVal returns the input-kernel weight SetWVals(w) stored from
// w[i][k]. The bias column is read through BVal, not here.
func (g *GRU[T]) WVal(i, k int) T { return g.w[k*(g.inSize+1)+i] }

// UVal returns the recurrent-kernel weight SetUVals(u) stored from
// u[j][k].
func (g *GRU[T]) UVal(j, k int) T { return g.u[k*(g.outSize+1)+j] }

// BVal returns the bias SetBVals(b) stored from b[row][k].
func (g *GRU[T]) BVal(row, k int) T {
	if row == 0 {
		return g.w[k*(g.inSize+1)+g.inSize]
	}
	return g.u[k*(g.outSize+1)+g.outSize]
}
