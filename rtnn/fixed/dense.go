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

	"github.com/ajroetker/go-rtnn/rtnn/backend"
)

// Dense is the compile-time sized affine layer: Out() = W*in + b.
type Dense[T backend.Floats, E backend.Engine[T]] struct {
	base
	eng     E
	weights []T // outSize rows of inSize
	bias    []T
	outs    []T
}

func NewDense[T backend.Floats, E backend.Engine[T]](inSize, outSize int) *Dense[T, E] {
	checkSize(inSize, "input size")
	checkSize(outSize, "output size")
	return &Dense[T, E]{
		base:    base{inSize: inSize, outSize: outSize, name: "dense"},
		weights: backend.AlignedSlice[T](outSize * inSize),
		bias:    backend.AlignedSlice[T](outSize),
		outs:    backend.AlignedSlice[T](outSize),
	}
}

func (d *Dense[T, E]) Forward(in []T) {
	d.eng.MatVec(d.weights, d.outSize, d.inSize, in, d.outs)
	for j := 0; j < d.outSize; j++ {
		d.outs[j] += d.bias[j]
	}
}

// Out returns the layer's output buffer. The slice is owned by the
// layer and overwritten by every Forward.
func (d *Dense[T, E]) Out() []T { return d.outs }

func (d *Dense[T, E]) Reset() {}

// SetWeights copies w, indexed [out][in], into the layer.
func (d *Dense[T, E]) SetWeights(w [][]T) {
	if len(w) != d.outSize {
		panic("rtnn: dense weight rows mismatch")
	}
	for j, row := range w {
		if len(row) != d.inSize {
			panic("rtnn: dense weight cols mismatch")
		}
		copy(d.weights[j*d.inSize:], row)
	}
}

// SetWeightsFlat copies a row-major [out*in] slice into the layer.
func (d *Dense[T, E]) SetWeightsFlat(w []T) {
	if len(w) != d.outSize*d.inSize {
		panic("rtnn: dense weight length mismatch")
	}
	copy(d.weights, w)
}

// SetWeightsMatrix copies a gonum matrix of shape (out, in) into the
// layer's preallocated storage.
func (d *Dense[T, E]) SetWeightsMatrix(m mat.Matrix) {
	r, c := m.Dims()
	if r != d.outSize || c != d.inSize {
		panic("rtnn: dense weight matrix shape mismatch")
	}
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			d.weights[j*d.inSize+i] = T(m.At(j, i))
		}
	}
}

// SetBias copies b, of length out, into the layer.
func (d *Dense[T, E]) SetBias(b []T) {
	if len(b) != d.outSize {
		panic("rtnn: dense bias length mismatch")
	}
	copy(d.bias, b)
}

func (d *Dense[T, E]) Weight(j, i int) T { return d.weights[j*d.inSize+i] }
func (d *Dense[T, E]) Bias(j int) T      { return d.bias[j] }
