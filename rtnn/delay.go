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
	"math"

	"github.com/ajroetker/go-rtnn/rtnn/backend"
)

// DelayLine delays a stream of fixed-width frames by a whole or
// fractional number of steps. Recurrent layers run it on their state
// feedback path to correct for a processing rate that differs from
// the rate the weights were trained at: at 2x the trained rate the
// state from two steps ago is the one the model expects, at 1.5x it
// is the linear interpolation of the states 1 and 2 steps back.
//
// The line is a shift register of writeIdx+1 frame slots. Each step
// writes the incoming frame at the top slot, reads the delayed frame
// from the bottom (slot 0, or slots 0 and 1 blended by the two tap
// weights in fractional mode), then shifts every slot down one. With
// a delay of D the top slot sits ceil(D)-ceil(frac(D))+1 slots above
// the read end, which places slot 0 exactly floor(D)+1 steps in the
// past whenever D is non-integral.
type DelayLine[T backend.Floats] struct {
	frame    int
	writeIdx int
	buf      []T

	// Tap weights for fractional mode: delayMult scales the newer
	// slot 1, delayPlus1Mult the older slot 0. They sum to 1.
	delayMult      T
	delayPlus1Mult T
	frac           bool
}

// NewDelayLine returns a pass-through line for frames of the given
// width. Call Prepare or PrepareFractional to give it a delay.
func NewDelayLine[T backend.Floats](frame int) *DelayLine[T] {
	checkSize(frame, "delay frame size")
	d := &DelayLine[T]{frame: frame}
	d.Prepare(0)
	return d
}

// Prepare configures a whole-step delay: after it, the frame read at
// step t is the frame written at step t-delaySamples, and zero frames
// come out until that many steps have gone in. Prepare(0) is a
// pass-through. Preparation allocates the ring; Process never does.
func (d *DelayLine[T]) Prepare(delaySamples int) {
	checkSize(delaySamples, "delay length")
	d.writeIdx = delaySamples
	d.delayMult = 1
	d.delayPlus1Mult = 0
	d.frac = false
	d.buf = backend.AlignedSlice[T]((d.writeIdx + 1) * d.frame)
}

// PrepareFractional configures a delay of a possibly non-integral
// number of steps. Reads blend the two slots bracketing the requested
// point: the newer carries weight 1-frac(delaySamples), the older
// frac(delaySamples). A whole-number argument zeroes the older tap
// and delays by exactly that many steps.
func (d *DelayLine[T]) PrepareFractional(delaySamples T) {
	if delaySamples < 0 {
		panic("rtnn: negative delay length")
	}
	floor := T(math.Floor(float64(delaySamples)))
	frac := delaySamples - floor
	d.delayMult = 1 - frac
	d.delayPlus1Mult = frac
	d.frac = true
	ceilDelay := int(math.Ceil(float64(delaySamples)))
	ceilFrac := int(math.Ceil(float64(frac)))
	d.writeIdx = ceilDelay - ceilFrac + 1
	d.buf = backend.AlignedSlice[T]((d.writeIdx + 1) * d.frame)
}

// Process pushes frame into the line and writes the delayed frame to
// out. Both slices must hold Frame() elements; they may alias, since
// frame is banked into the ring before out is produced.
func (d *DelayLine[T]) Process(frame, out []T) {
	n := d.frame
	copy(d.buf[d.writeIdx*n:], frame[:n])

	if !d.frac {
		copy(out[:n], d.buf[:n])
	} else {
		older := d.buf[:n]
		newer := d.buf[n : 2*n]
		for i := 0; i < n; i++ {
			out[i] = d.delayPlus1Mult*older[i] + d.delayMult*newer[i]
		}
	}

	copy(d.buf[:d.writeIdx*n], d.buf[n:])
}

// Reset zeroes every slot, as if nothing had ever been written.
func (d *DelayLine[T]) Reset() {
	clear(d.buf)
}

// Clone returns an independent line with the same configuration and
// slot contents.
func (d *DelayLine[T]) Clone() *DelayLine[T] {
	c := *d
	c.buf = backend.AlignedSlice[T](len(d.buf))
	copy(c.buf, d.buf)
	return &c
}

// Frame returns the frame width the line was built for.
func (d *DelayLine[T]) Frame() int { return d.frame }
