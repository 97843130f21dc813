// SPDX-License-Identifier: Apache-2.0

package rtnn

import "github.com/ajroetker/go-rtnn/rtnn/backend"

// Activation layers map a vector to one of the same size. All of them
// are stateless, report IsActivation() == true, and tolerate in == out.

type TanhActivation[T backend.Floats] struct {
	layerBase
	eng backend.Engine[T]
}

func NewTanhActivation[T backend.Floats](size int) *TanhActivation[T] {
	return NewTanhActivationWithEngine[T](size, backend.Default[T]())
}

func NewTanhActivationWithEngine[T backend.Floats](size int, eng backend.Engine[T]) *TanhActivation[T] {
	checkSize(size, "activation size")
	return &TanhActivation[T]{
		layerBase: layerBase{inSize: size, outSize: size, name: "tanh"},
		eng:       eng,
	}
}

func (a *TanhActivation[T]) Forward(in, out []T) { a.eng.Tanh(in[:a.inSize], out[:a.inSize]) }
func (a *TanhActivation[T]) Reset()              {}
func (a *TanhActivation[T]) IsActivation() bool  { return true }

func (a *TanhActivation[T]) Clone() *TanhActivation[T] {
	c := *a
	return &c
}

type SigmoidActivation[T backend.Floats] struct {
	layerBase
	eng backend.Engine[T]
}

func NewSigmoidActivation[T backend.Floats](size int) *SigmoidActivation[T] {
	return NewSigmoidActivationWithEngine[T](size, backend.Default[T]())
}

func NewSigmoidActivationWithEngine[T backend.Floats](size int, eng backend.Engine[T]) *SigmoidActivation[T] {
	checkSize(size, "activation size")
	return &SigmoidActivation[T]{
		layerBase: layerBase{inSize: size, outSize: size, name: "sigmoid"},
		eng:       eng,
	}
}

func (a *SigmoidActivation[T]) Forward(in, out []T) { a.eng.Sigmoid(in[:a.inSize], out[:a.inSize]) }
func (a *SigmoidActivation[T]) Reset()              {}
func (a *SigmoidActivation[T]) IsActivation() bool  { return true }

func (a *SigmoidActivation[T]) Clone() *SigmoidActivation[T] {
	c := *a
	return &c
}

// ReLUActivation clamps negatives to zero. It is a bare comparison
// loop, so it carries no engine.
type ReLUActivation[T backend.Floats] struct {
	layerBase
}

func NewReLUActivation[T backend.Floats](size int) *ReLUActivation[T] {
	checkSize(size, "activation size")
	return &ReLUActivation[T]{
		layerBase: layerBase{inSize: size, outSize: size, name: "relu"},
	}
}

func (a *ReLUActivation[T]) Forward(in, out []T) {
	for i := 0; i < a.inSize; i++ {
		if in[i] > 0 {
			out[i] = in[i]
		} else {
			out[i] = 0
		}
	}
}

func (a *ReLUActivation[T]) Reset()             {}
func (a *ReLUActivation[T]) IsActivation() bool { return true }

func (a *ReLUActivation[T]) Clone() *ReLUActivation[T] {
	c := *a
	return &c
}

type SoftmaxActivation[T backend.Floats] struct {
	layerBase
	eng backend.Engine[T]
}

func NewSoftmaxActivation[T backend.Floats](size int) *SoftmaxActivation[T] {
	return NewSoftmaxActivationWithEngine[T](size, backend.Default[T]())
}

func NewSoftmaxActivationWithEngine[T backend.Floats](size int, eng backend.Engine[T]) *SoftmaxActivation[T] {
	checkSize(size, "activation size")
	return &SoftmaxActivation[T]{
		layerBase: layerBase{inSize: size, outSize: size, name: "softmax"},
		eng:       eng,
	}
}

func (a *SoftmaxActivation[T]) Forward(in, out []T) {
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
		out[i] = in[i] - maxv
	}
	a.eng.Exp(out[:n], out[:n])

	var sum T
	for i := 0; i < n; i++ {
		sum += out[i]
	}
	inv := 1 / sum
	for i := 0; i < n; i++ {
		out[i] *= inv
	}
}

func (a *SoftmaxActivation[T]) Reset()             {}
func (a *SoftmaxActivation[T]) IsActivation() bool { return true }

func (a *SoftmaxActivation[T]) Clone() *SoftmaxActivation[T] {
	c := *a
	return &c
}
