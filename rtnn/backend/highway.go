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
	"github.com/ajroetker/go-highway/hwy"
	hwymath "github.com/ajroetker/go-highway/hwy/contrib/math"
	"github.com/ajroetker/go-highway/hwy/contrib/matvec"
	"github.com/ajroetker/go-highway/hwy/contrib/vec"
)

// Highway is the SIMD engine, built on go-highway primitives. On hosts
// with a real vector unit its hot-path methods run register-to-register
// and never touch the heap. On the pure-Go fallback the hwy primitives
// box their lanes, so Default prefers Scalar there.
type Highway[T Floats] struct{}

func (Highway[T]) Dot(a, b []T) T {
	return vec.BaseDot(a, b)
}

func (Highway[T]) MatVec(m []T, rows, cols int, v, dst []T) {
	matvec.BaseMatVec(m, rows, cols, v, dst)
}

// Tanh, Sigmoid and Exp walk the slice a register at a time through the
// Vec-level contrib/math kernels. Load and Store clamp to the slice end,
// so the last partial vector needs no scalar tail.

func (Highway[T]) Tanh(src, dst []T) {
	n := min(len(src), len(dst))
	lanes := hwy.MaxLanes[T]()
	for i := 0; i < n; i += lanes {
		x := hwy.Load(src[i:n])
		hwy.Store(hwymath.BaseTanhVec(x), dst[i:n])
	}
}

func (Highway[T]) Sigmoid(src, dst []T) {
	n := min(len(src), len(dst))
	lanes := hwy.MaxLanes[T]()
	for i := 0; i < n; i += lanes {
		x := hwy.Load(src[i:n])
		hwy.Store(hwymath.BaseSigmoidVec(x), dst[i:n])
	}
}

func (Highway[T]) Exp(src, dst []T) {
	n := min(len(src), len(dst))
	lanes := hwy.MaxLanes[T]()
	for i := 0; i < n; i += lanes {
		x := hwy.Load(src[i:n])
		hwy.Store(hwymath.BaseExpVec(x), dst[i:n])
	}
}
