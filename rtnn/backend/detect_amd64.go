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

//go:build amd64

package backend

import "golang.org/x/sys/cpu"

func init() {
	// SSE2 is the amd64 baseline, but without FMA the multiply-accumulate
	// loops here gain nothing over plain Go. Require AVX2+FMA before
	// preferring the vector engine.
	switch {
	case cpu.X86.HasAVX512F && cpu.X86.HasAVX512DQ:
		vectorMAC = true
		vectorName = "avx512"
	case cpu.X86.HasAVX2 && cpu.X86.HasFMA:
		vectorMAC = true
		vectorName = "avx2+fma"
	default:
		vectorMAC = false
		vectorName = "sse2"
	}
}
