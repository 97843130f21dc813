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

// Package fixed holds the compile-time sized layer variants.
//
// Each layer here mirrors a layer in the rtnn package but takes the
// numeric engine as a type parameter instead of an interface field:
//
//	d := fixed.NewDense[float32, backend.Highway[float32]](8, 4)
//
// With the engine resolved at compile time every kernel call is
// direct, so the per-sample loop pays no interface dispatch. The cost
// is that the engine choice is baked into the type; code that needs
// to pick an engine at run time uses the rtnn package instead.
//
// # Chaining
//
// Forward takes only the input slice and computes into an internal
// buffer exposed by Out:
//
//	gru.Forward(frame)
//	dense.Forward(gru.Out())
//	act.Forward(dense.Out())
//	y := act.Out()
//
// All buffers, weights included, are aligned and allocated at
// construction (Prepare may allocate the delay ring); Forward never
// allocates.
//
// # Parity
//
// A fixed layer and its rtnn counterpart produce bit-identical output
// when run on the same engine with the same parameters. The test suite
// locks that in.
package fixed
