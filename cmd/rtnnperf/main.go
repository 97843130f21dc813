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

// Command rtnnperf streams synthetic samples through a recurrent model
// and reports per-sample cost and heap behavior. It is the
// out-of-test-suite check that the per-sample path stays
// allocation-free.
//
// Usage:
//
//	rtnnperf -engine highway -layer gru -hidden 32 -samples 2000000
//	rtnnperf -engine scalar -delay 1.5
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/ajroetker/go-rtnn/rtnn"
	"github.com/ajroetker/go-rtnn/rtnn/backend"
)

var (
	engineFlag  = flag.String("engine", "auto", "Engine: auto, scalar or highway")
	layerFlag   = flag.String("layer", "gru", "Recurrent layer: gru or lstm")
	hiddenFlag  = flag.Int("hidden", 16, "Hidden size")
	samplesFlag = flag.Int("samples", 1_000_000, "Samples to stream")
	delayFlag   = flag.Float64("delay", 0, "Fractional state delay in samples (sample-rate correction)")
)

func main() {
	flag.Parse()

	var eng backend.Engine[float32]
	var engName string
	switch *engineFlag {
	case "auto":
		eng = backend.Default[float32]()
		engName = backend.EngineName()
	case "scalar":
		eng = backend.Scalar[float32]{}
		engName = "scalar"
	case "highway":
		eng = backend.Highway[float32]{}
		engName = "highway (" + backend.VectorName() + ")"
	default:
		fmt.Fprintf(os.Stderr, "Unknown engine: %s\n", *engineFlag)
		os.Exit(1)
	}

	hidden := *hiddenFlag
	if hidden < 1 {
		fmt.Fprintf(os.Stderr, "Hidden size must be positive\n")
		os.Exit(1)
	}

	recurrent, err := buildRecurrent(*layerFlag, hidden, eng)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	head := rtnn.NewDenseWithEngine[float32](hidden, 1, eng)
	fillDense(head)
	act := rtnn.NewTanhActivationWithEngine[float32](1, eng)

	fmt.Printf("go-rtnn streaming performance\n")
	fmt.Printf("=============================\n")
	fmt.Printf("Go Version: %s\n", runtime.Version())
	fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("CPUs: %d\n", runtime.NumCPU())
	fmt.Printf("Engine: %s\n", engName)
	fmt.Printf("Model: %s(1x%d) -> dense(%dx1) -> tanh\n", *layerFlag, hidden, hidden)
	if *delayFlag != 0 {
		fmt.Printf("State delay: %.3f samples\n", *delayFlag)
	}
	fmt.Printf("Samples: %d\n\n", *samplesFlag)

	// A short deterministic excitation block, cycled so signal
	// generation stays out of the measured loop.
	signal := make([]float32, 512)
	for i := range signal {
		signal[i] = float32(i%31)*0.03 - 0.45
	}

	in := make([]float32, 1)
	mid := make([]float32, hidden)
	out := make([]float32, 1)
	step := func(x float32) float32 {
		in[0] = x
		recurrent.Forward(in, mid)
		head.Forward(mid, out)
		act.Forward(out, out)
		return out[0]
	}

	// Warm caches and fault in every buffer before measuring.
	for i := 0; i < 4096; i++ {
		step(signal[i%len(signal)])
	}
	recurrent.Reset()

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	var sum float64
	n := *samplesFlag
	start := time.Now()
	for i := 0; i < n; i++ {
		sum += float64(step(signal[i%len(signal)]))
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)

	nsPerSample := float64(elapsed.Nanoseconds()) / float64(n)
	heapBytes := after.TotalAlloc - before.TotalAlloc
	mallocs := after.Mallocs - before.Mallocs

	fmt.Printf("Elapsed:            %v\n", elapsed)
	fmt.Printf("Per sample:         %.1f ns\n", nsPerSample)
	fmt.Printf("Throughput:         %.2f Msamples/s\n", float64(n)/elapsed.Seconds()/1e6)
	fmt.Printf("Realtime at 48 kHz: %.0fx\n", float64(n)/elapsed.Seconds()/48000)
	fmt.Printf("Heap delta:         %d bytes in %d allocations\n", heapBytes, mallocs)
	fmt.Printf("Checksum:           %.6f\n\n", sum)

	if mallocs == 0 {
		fmt.Printf("Hot path allocations: none\n")
	} else {
		fmt.Printf("WARNING: hot path allocated; expected none\n")
		os.Exit(1)
	}
}

func buildRecurrent(kind string, hidden int, eng backend.Engine[float32]) (rtnn.Layer[float32], error) {
	switch kind {
	case "gru":
		g := rtnn.NewGRUWithEngine[float32](1, hidden, eng)
		g.SetWVals(fillRows(1, 3*hidden, 0.003, -0.04))
		g.SetUVals(fillRows(hidden, 3*hidden, 0.002, -0.03))
		g.SetBVals(fillRows(2, 3*hidden, 0.001, -0.02))
		if *delayFlag != 0 {
			g.PrepareFractional(float32(*delayFlag))
		}
		return g, nil
	case "lstm":
		l := rtnn.NewLSTMWithEngine[float32](1, hidden, eng)
		l.SetWVals(fillRows(1, 4*hidden, 0.003, -0.04))
		l.SetUVals(fillRows(hidden, 4*hidden, 0.002, -0.03))
		l.SetBVals(fillRows(2, 4*hidden, 0.001, -0.02))
		if *delayFlag != 0 {
			l.PrepareFractional(float32(*delayFlag))
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown layer %q (want gru or lstm)", kind)
	}
}

func fillRows(rows, cols int, scale, shift float32) [][]float32 {
	m := make([][]float32, rows)
	for r := range m {
		m[r] = make([]float32, cols)
		for c := range m[r] {
			m[r][c] = float32(r*cols+c)*scale + shift
		}
	}
	return m
}

func fillDense(d *rtnn.Dense[float32]) {
	w := fillRows(d.OutSize(), d.InSize(), 0.01, -0.05)
	d.SetWeights(w)
	b := make([]float32, d.OutSize())
	for j := range b {
		b[j] = float32(j)*0.1 - 0.05
	}
	d.SetBias(b)
}
