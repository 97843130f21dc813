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

// Package rtnn implements real-time neural network inference kernels
// for streaming signals: one forward pass per sample, no allocation
// and no validation on the hot path, and deterministic replay.
//
// # Layers
//
// This package holds the runtime-sized layers, dimensioned at
// construction time and dispatching their arithmetic through the
// backend.Engine interface:
//
//   - Dense - affine transform
//   - GRU, LSTM - recurrent layers with combined gate matrices and
//     optional sample-rate correction on the state feedback path
//   - Conv1D - causal dilated convolution over the input history
//   - TanhActivation, ReLUActivation, SigmoidActivation,
//     SoftmaxActivation
//
// The fixed sibling package holds the same layers with sizes and
// engine bound at compile time for allocation-free forward passes.
//
// # Streaming model
//
// A layer processes one frame per Forward call. Callers chain layers
// by hand, feeding each layer's output frame to the next; recurrent
// layers carry their state across calls until Reset. Weights come
// from a trainer via the setter families (nested slices, flat slices,
// or gonum matrices) or from the weights subpackage's JSON loaders.
//
// # Determinism
//
// With parameters fixed, a layer is a deterministic function of its
// input sequence since the last Reset: replaying the same samples
// yields bit-identical outputs. Reset restores the
// freshly-constructed state exactly, so a reset layer fed silence
// stays silent.
package rtnn
