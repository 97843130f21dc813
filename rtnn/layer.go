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

import "github.com/ajroetker/go-rtnn/rtnn/backend"

// Layer is the contract every runtime-sized layer satisfies.
//
// Forward consumes exactly InSize elements of in and produces exactly
// OutSize elements into out; it never validates, never allocates, and
// apart from recurrent state never retains references to its
// arguments. in and out must not overlap except for activation
// layers, which tolerate in == out.
//
// Reset returns recurrent state to the freshly-constructed zero state
// and leaves parameters untouched. Resetting twice in a row is the
// same as resetting once.
type Layer[T backend.Floats] interface {
	Forward(in, out []T)
	Reset()
	Name() string
	IsActivation() bool
	InSize() int
	OutSize() int
}

// layerBase carries the immutable identity shared by every layer.
// Sizes are fixed at construction; there is no re-dimensioning.
type layerBase struct {
	inSize  int
	outSize int
	name    string
}

func (l *layerBase) InSize() int        { return l.inSize }
func (l *layerBase) OutSize() int       { return l.outSize }
func (l *layerBase) Name() string       { return l.name }
func (l *layerBase) IsActivation() bool { return false }

func checkSize(n int, what string) {
	if n < 0 {
		panic("rtnn: negative " + what)
	}
}

var (
	_ Layer[float32] = (*Dense[float32])(nil)
	_ Layer[float32] = (*GRU[float32])(nil)
	_ Layer[float32] = (*LSTM[float32])(nil)
	_ Layer[float32] = (*Conv1D[float32])(nil)
	_ Layer[float32] = (*TanhActivation[float32])(nil)
	_ Layer[float32] = (*ReLUActivation[float32])(nil)
	_ Layer[float32] = (*SigmoidActivation[float32])(nil)
	_ Layer[float64] = (*SoftmaxActivation[float64])(nil)
)
