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

package backend

import (
	stdmath "math"

	"github.com/chewxy/math32"
)

// Scalar is the portable pure-Go engine. It is the reference every other
// engine is tested against, and the engine of choice when the host has no
// usable vector unit. float32 nonlinearities stay in 32-bit arithmetic via
// math32 instead of round-tripping through float64.
type Scalar[T Floats] struct{}

func (Scalar[T]) Dot(a, b []T) T {
	n := min(len(a), len(b))
	var acc T
	for i := 0; i < n; i++ {
		acc += a[i] * b[i]
	}
	return acc
}

func (Scalar[T]) MatVec(m []T, rows, cols int, v, dst []T) {
	if len(m) < rows*cols {
		panic("matrix slice too small")
	}
	if len(v) < cols {
		panic("vector slice too small")
	}
	if len(dst) < rows {
		panic("result slice too small")
	}

	for i := range rows {
		row := m[i*cols : (i+1)*cols]
		var acc T
		for j := 0; j < cols; j++ {
			acc += row[j] * v[j]
		}
		dst[i] = acc
	}
}

func (Scalar[T]) Tanh(src, dst []T) {
	n := min(len(src), len(dst))
	for i := 0; i < n; i++ {
		dst[i] = tanhScalar(src[i])
	}
}

func (Scalar[T]) Sigmoid(src, dst []T) {
	n := min(len(src), len(dst))
	for i := 0; i < n; i++ {
		dst[i] = sigmoidScalar(src[i])
	}
}

func (Scalar[T]) Exp(src, dst []T) {
	n := min(len(src), len(dst))
	for i := 0; i < n; i++ {
		dst[i] = expScalar(src[i])
	}
}

func tanhScalar[T Floats](x T) T {
	if v, ok := any(x).(float32); ok {
		return T(math32.Tanh(v))
	}
	return T(stdmath.Tanh(float64(x)))
}

func expScalar[T Floats](x T) T {
	if v, ok := any(x).(float32); ok {
		return T(math32.Exp(v))
	}
	return T(stdmath.Exp(float64(x)))
}

// sigmoidScalar computes 1/(1+e^-x). The exp term overflows to +Inf for
// very negative x and the division collapses to 0, so no clamping is
// needed on either side.
func sigmoidScalar[T Floats](x T) T {
	return 1 / (1 + expScalar(-x))
}
