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
	"os"
	"strconv"

	"github.com/ajroetker/go-highway/hwy"
)

// vectorMAC is set by the per-arch init when the host CPU has a vector
// unit with fused or at least packed multiply-add worth dispatching to.
// Detection files: detect_amd64.go, detect_arm64.go, detect_other.go.
var vectorMAC bool

// vectorName is the human-readable description of what detection found.
var vectorName = "none"

// NoSimdEnv reports whether RTNN_NO_SIMD requests the scalar engine
// regardless of CPU capabilities. Any non-empty value that does not
// parse as false counts as set.
func NoSimdEnv() bool {
	val := os.Getenv("RTNN_NO_SIMD")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// Default returns the engine to use on this host: Highway when hwy has
// real SIMD kernels and the CPU probe agrees, Scalar otherwise. hwy's
// pure-Go fallback boxes every lane on the heap, so dispatching to it
// would cost allocations on the forward path for nothing.
func Default[T Floats]() Engine[T] {
	if NoSimdEnv() || hwy.NoSimdEnv() {
		return Scalar[T]{}
	}
	if hwy.CurrentLevel() == hwy.DispatchScalar || !vectorMAC {
		return Scalar[T]{}
	}
	return Highway[T]{}
}

// EngineName describes what Default selects, for diagnostics.
func EngineName() string {
	if NoSimdEnv() || hwy.NoSimdEnv() || hwy.CurrentLevel() == hwy.DispatchScalar || !vectorMAC {
		return "scalar"
	}
	return "highway/" + hwy.CurrentName()
}

// VectorName returns the probe result string, e.g. "avx2+fma" or "neon".
func VectorName() string {
	return vectorName
}
