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

// Package backend supplies the numeric engines behind the rtnn layer
// kernels.
//
// # Engines
//
// Every layer in this module computes through the Engine interface,
// which reduces the whole inference core to one capability, the
// multiply-accumulate reduction, plus three element-wise
// nonlinearities:
//
//   - Dot(a, b) - Σ a[i]*b[i]
//   - MatVec(m, rows, cols, v, dst) - row-wise Dot against a matrix
//   - Tanh, Sigmoid, Exp - element-wise maps
//
// Two engines are provided:
//
//   - Scalar: portable pure Go. The correctness reference. float32
//     nonlinearities run through math32 without float64 round-trips.
//   - Highway: SIMD via go-highway. Register-to-register on hosts with
//     a vector unit.
//
// # Selection
//
// Default picks the engine for the running host:
//
//	eng := backend.Default[float32]()
//
// Highway is chosen when hwy dispatches to real SIMD kernels and the
// CPU probe finds a multiply-add unit worth using (AVX2+FMA or better
// on amd64, NEON on arm64). Setting RTNN_NO_SIMD forces Scalar.
//
// # Determinism
//
// A given engine is bit-deterministic: replaying the same inputs
// through the same engine yields identical bits. Different engines
// agree within tolerance only, since SIMD lane reduction reassociates
// the sums and the vector nonlinearities are polynomial
// approximations.
//
// # Storage
//
// AlignedSlice allocates cache-line-aligned backing arrays for weights
// and scratch, so fixed-size layers can keep their whole forward pass
// allocation-free.
package backend
