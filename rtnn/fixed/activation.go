// SPDX-License-Identifier: Apache-2.0

package fixed

import "github.com/ajroetker/go-rtnn/rtnn/backend"

// Compile-time sized activations. Stateless; Reset is a no-op on all
// of them.

type Tanh[T backend.Floats, E backend.Engine[T]] struct {
	base
	eng  E
	outs []T
}

func NewTanh[T backend.Floats, E backend.Engine[T]](size int) *Tanh[T, E] {
	checkSize(size, "activation size")
	return &Tanh[T, E]{
		base: base{inSize: size, outSize: size, name: "tanh"},
		outs: backend.AlignedSlice[T](size),
	}
}

func (a *Tanh[T, E]) Forward(in []T) { a.eng.Tanh(in[:a.inSize], a.outs) }
func (a *Tanh[T, E]) Out() []T       { return a.outs }
func (a *Tanh[T, E]) Reset()         {}

type Sigmoid[T backend.Floats, E backend.Engine[T]] struct {
	base
	eng  E
	outs []T
}

func NewSigmoid[T backend.Floats, E backend.Engine[T]](size int) *Sigmoid[T, E] {
	checkSize(size, "activation size")
	return &Sigmoid[T, E]{
		base: base{inSize: size, outSize: size, name: "sigmoid"},
		outs: backend.AlignedSlice[T](size),
	}
}

func (a *Sigmoid[T, E]) Forward(in []T) { a.eng.Sigmoid(in[:a.inSize], a.outs) }
func (a *Sigmoid[T, E]) Out() []T       { return a.outs }
func (a *Sigmoid[T, E]) Reset()         {}

// ReLU carries the engine parameter only so chains read uniformly; the
// clamp itself is a scalar loop.
type ReLU[T backend.Floats, E backend.Engine[T]] struct {
	base
	outs []T
}

func NewReLU[T backend.Floats, E backend.Engine[T]](size int) *ReLU[T, E] {
	checkSize(size, "activation size")
	return &ReLU[T, E]{
		base: base{inSize: size, outSize: size, name: "relu"},
		outs: backend.AlignedSlice[T](size),
	}
}

func (a *ReLU[T, E]) Forward(in []T) {
	for i := 0; i < a.inSize; i++ {
		if in[i] > 0 {
			a.outs[i] = in[i]
		} else {
			a.outs[i] = 0
		}
	}
}

func (a *ReLU[T, E]) Out() []T { return a.outs }
func (a *ReLU[T, E]) Reset()   {}

type Softmax[T backend.Floats, E backend.Engine[T]] struct {
	base
	eng  E
	outs []T
}

func NewSoftmax[T backend.Floats, E backend.Engine[T]](size int) *Softmax[T, E] {
	checkSize(size, "activation size")
	return &Softmax[T, E]{
		base: base{inSize: size, outSize: size, name: "softmax"},
		outs: backend.AlignedSlice[T](size),
	}
}

func (a *Softmax[T, E]) Forward(in []T) {
	n := a.inSize
	if n == 0 {
		return
	}

	// Shifting by the max keeps every exponent non-positive.
	maxv := in[0]
	for i := 1; i < n; i++ {
		if in[i] > maxv {
			maxv = in[i]
		}
	}
	for i := 0; i < n; i++ {
		a.outs[i] = in[i] - maxv
	}
	a.eng.Exp(a.outs[:n], a.outs[:n])

	var sum T
	for i := 0; i < n; i++ {
		sum += a.outs[i]
	}
	inv := 1 / sum
	for i := 0; i < n; i++ {
		a.outs[i] *= inv
	}
}

func (a *Softmax[T, E]) Out() []T { return a.outs }
func (a *Softmax[T, E]) Reset()   {}
