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

// Floats constrains the element types the engines operate on.
type Floats interface {
	~float32 | ~float64
}

// Engine is the numeric strategy behind every layer kernel. The whole
// inference core reduces to multiply-accumulate plus a handful of
// element-wise nonlinearities, so an engine only has to provide these.
//
// Engines are stateless value types: copying one is free, and the same
// engine instance fed the same inputs produces bit-identical outputs on
// every call. Results across different engines agree within tolerance,
// not bit-for-bit (SIMD reassociation and polynomial nonlinearities see
// to that); tests pin the tolerance.
//
// No Engine method allocates. Element-wise methods clamp to the
// shorter slice; MatVec panics if a slice cannot hold [rows, cols].
type Engine[T Floats] interface {
	// Dot returns the multiply-accumulate reduction over a and b.
	// Reads exactly min(len(a), len(b)) elements.
	Dot(a, b []T) T

	// MatVec computes dst = m * v for a row-major matrix m of shape
	// [rows, cols]: dst[i] is the dot product of row i with v.
	MatVec(m []T, rows, cols int, v, dst []T)

	// Tanh writes tanh of each src element into dst.
	Tanh(src, dst []T)

	// Sigmoid writes 1/(1+e^-x) of each src element into dst.
	Sigmoid(src, dst []T)

	// Exp writes e^x of each src element into dst.
	Exp(src, dst []T)
}
