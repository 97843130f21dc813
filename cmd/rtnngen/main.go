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

// Command rtnngen generates constant-size layer specializations.
//
// Usage:
//
//	rtnngen -layer dense -in 8 -out 4 -pkg model -output .
//	rtnngen -layer gru -in 1 -out 16 -float float64 -pkg model
//
// Or via go:generate:
//
//	//go:generate rtnngen -layer gru -in 1 -out 16 -pkg model -output .
//
// The generated layer stores its parameters in fixed-size arrays and
// loops over constant bounds, so the compiler sees every dimension at
// compile time. Forward takes and returns pointers to arrays; a size
// mismatch is a compile error rather than a runtime panic.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	layerFlag  = flag.String("layer", "", "Layer kind to generate: dense or gru (required)")
	inFlag     = flag.Int("in", 0, "Input size (required)")
	outFlag    = flag.Int("out", 0, "Output size (required)")
	floatFlag  = flag.String("float", "float32", "Element type: float32 or float64")
	pkgFlag    = flag.String("pkg", "model", "Output package name")
	nameFlag   = flag.String("name", "", "Generated type name (default: derived from layer and sizes)")
	outputFlag = flag.String("output", ".", "Output directory")
)

func main() {
	flag.Parse()

	if *layerFlag == "" || *inFlag == 0 || *outFlag == 0 {
		fmt.Fprintf(os.Stderr, "Error: -layer, -in and -out flags are required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg := &config{
		Layer: *layerFlag,
		In:    *inFlag,
		Out:   *outFlag,
		Float: *floatFlag,
		Pkg:   *pkgFlag,
		Name:  *nameFlag,
	}

	src, err := generate(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputFlag, strings.ToLower(cfg.typeName())+".gen.go")
	if err := os.WriteFile(filename, src, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: write output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully generated %s (%s)\n", cfg.typeName(), filename)
}
