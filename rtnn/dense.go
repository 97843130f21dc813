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

// Dense is the runtime-sized affine layer: out = W*in + b with W of
// shape [out, in] in row-major order. It is stateless; Reset is a
// no-op and Forward is a pure function of its input.
type Dense[T backend.Floats] struct {
	layerBase
	eng     backend.Engine[T]
	weights []T // outSize rows of inSize
	bias    []T
}

// NewDense builds a dense layer with zero weights on the engine
// Default selects for this host. Panics if a size is negative.
func NewDense[T backend.Floats](inSize, outSize int) *Dense[T] {
	return NewDenseWithEngine[T](inSize, outSize, backend.Default[T]())
}

// NewDenseWithEngine is NewDense on an explicit engine.
func NewDenseWithEngine[T backend.Floats](inSize, outSize int, eng backend.Engine[T]) *Dense[T] {
	checkSize(inSize, "input size")
	checkSize(outSize, "output size")
	return &Dense[T]{
		layerBase: layerBase{inSize: inSize, outSize: outSize, name: "dense"},
		eng:       eng,
		weights:   make([]T, outSize*inSize),
		bias:      make([]T, outSize),
	}
}

func (d *Dense[T]) Forward(in, out []T) {
	d.eng.MatVec(d.weights, d.outSize, d.inSize, in, out)
	for j := 0; j < d.outSize; j++ {
		out[j] += d.bias[j]
	}
}

func (d *Dense[T]) Reset() {}

// Clone returns a deep copy sharing nothing with the receiver.
func (d *Dense[T]) Clone() *Dense[T] {
	c := &Dense[T]{
		layerBase: d.layerBase,
		eng:       d.eng,
		weights:   make([]T, len(d.weights)),
		bias:      make([]T, len(d.bias)),
	}
	copy(c.weights, d.weights)
	copy(c.bias, d.bias)
	return c
}

// SetWeights copies w, indexed [out][in], into the layer. Panics if
// any dimension disagrees with the layer's sizes.
func (d *Dense[T]) SetWeights(w [][]T) {
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
func (d *Dense[T]) SetWeightsFlat(w []T) {
	if len(w) != d.outSize*d.inSize {
		panic("rtnn: dense weight length mismatch")
	}
	copy(d.weights, w)
}

// SetWeightsMatrix copies a gonum matrix of shape (out, in) into the
// layer, converting element type as needed.
func (d *Dense[T]) SetWeightsMatrix(m mat.Matrix) {
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
func (d *Dense[T]) SetBias(b []T) {
	if len(b) != d.outSize {
		panic("rtnn: dense bias length mismatch")
	}
	copy(d.bias, b)
}

// Weight returns W[j][i] as stored, mirroring SetWeights indexing.
func (d *Dense[T]) Weight(j, i int) T { return d.weights[j*d.inSize+i] }

// Bias returns b[j].
func (d *Dense[T]) Bias(j int) T { return d.bias[j] }
