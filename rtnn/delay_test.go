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

import (
	stdmath "math"
	"testing"
)

func TestDelayLineIntegerShift(t *testing.T) {
	const delay = 3
	d := NewDelayLine[float32](2)
	d.Prepare(delay)

	out := make([]float32, 2)
	var history [][2]float32
	for step := 0; step < 12; step++ {
		in := []float32{float32(step + 1), -float32(step + 1)}
		history = append(history, [2]float32{in[0], in[1]})
		d.Process(in, out)

		if step < delay {
			if out[0] != 0 || out[1] != 0 {
				t.Fatalf("step %d: out = %v, want zeros before the delay fills", step, out)
			}
			continue
		}
		want := history[step-delay]
		if out[0] != want[0] || out[1] != want[1] {
			t.Fatalf("step %d: out = %v, want frame from step %d = %v", step, out, step-delay, want)
		}
	}
}

func TestDelayLinePassThrough(t *testing.T) {
	d := NewDelayLine[float32](3)
	// Freshly constructed and Prepare(0) are both pass-throughs.
	for range 2 {
		in := []float32{1.5, -2.5, 3.5}
		out := make([]float32, 3)
		for step := 0; step < 5; step++ {
			in[0] += 1
			d.Process(in, out)
			for i := range out {
				if out[i] != in[i] {
					t.Fatalf("step %d: out[%d] = %v, want %v", step, i, out[i], in[i])
				}
			}
		}
		d.Prepare(0)
	}
}

// A ramp pushed through a fractional delay comes out as the same
// ramp shifted by exactly the requested amount once the line fills:
// linear interpolation is exact on linear signals.
func TestDelayLineFractionalRamp(t *testing.T) {
	delays := []float64{0.5, 1.25, 2.5, 3.75}
	for _, delay := range delays {
		d := NewDelayLine[float64](1)
		d.PrepareFractional(delay)

		lead := int(stdmath.Ceil(delay))
		out := make([]float64, 1)
		for step := 0; step < 20; step++ {
			x := float64(step + 1) // ramp offset from zero so fill-in is visible
			d.Process([]float64{x}, out)
			if step < lead {
				continue
			}
			want := x - delay
			if diff := stdmath.Abs(out[0] - want); diff > 1e-12 {
				t.Fatalf("delay %v step %d: out = %v, want %v", delay, step, out[0], want)
			}
		}
	}
}

// PrepareFractional with a whole number must delay by exactly that
// integer: the older tap's weight is zero at the boundary.
func TestDelayLineWholeNumberFraction(t *testing.T) {
	di := NewDelayLine[float32](1)
	df := NewDelayLine[float32](1)
	di.Prepare(2)
	df.PrepareFractional(2)

	oi := make([]float32, 1)
	of := make([]float32, 1)
	for step := 0; step < 10; step++ {
		x := []float32{float32(step)*0.7 - 1}
		di.Process(x, oi)
		df.Process(x, of)
		if oi[0] != of[0] {
			t.Fatalf("step %d: integer %v, fractional %v", step, oi[0], of[0])
		}
	}
}

func TestDelayLineReset(t *testing.T) {
	d := NewDelayLine[float32](1)
	d.Prepare(2)

	out := make([]float32, 1)
	for step := 0; step < 5; step++ {
		d.Process([]float32{9}, out)
	}
	d.Reset()

	// After a reset the lead-in zeros come back.
	for step := 0; step < 2; step++ {
		d.Process([]float32{1}, out)
		if out[0] != 0 {
			t.Fatalf("step %d after reset: out = %v, want 0", step, out[0])
		}
	}
}

func TestDelayLineClone(t *testing.T) {
	d := NewDelayLine[float32](1)
	d.Prepare(3)
	out := make([]float32, 1)
	for step := 0; step < 2; step++ {
		d.Process([]float32{float32(step + 1)}, out)
	}

	c := d.Clone()
	for step := 0; step < 6; step++ {
		var a, b [1]float32
		d.Process([]float32{5}, a[:])
		c.Process([]float32{5}, b[:])
		if a[0] != b[0] {
			t.Fatalf("step %d: original %v, clone %v", step, a[0], b[0])
		}
	}
}

func TestDelayLineProcessAllocs(t *testing.T) {
	d := NewDelayLine[float32](8)
	d.PrepareFractional(2.5)
	in := make([]float32, 8)
	out := make([]float32, 8)

	if n := testing.AllocsPerRun(100, func() { d.Process(in, out) }); n != 0 {
		t.Errorf("Process allocated %v times per run, want 0", n)
	}
}

func TestDelayLineNegativePanics(t *testing.T) {
	d := NewDelayLine[float32](1)
	defer func() {
		if recover() == nil {
			t.Error("no panic on negative delay")
		}
	}()
	d.PrepareFractional(-0.5)
}
