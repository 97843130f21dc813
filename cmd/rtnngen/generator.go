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

package main

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/tools/imports"
)

// config holds one generation request.
type config struct {
	Layer string // dense or gru
	In    int
	Out   int
	Float string // float32 or float64
	Pkg   string
	Name  string // derived from layer and sizes when empty
}

func (c *config) typeName() string {
	if c.Name != "" {
		return c.Name
	}
	var base string
	switch c.Layer {
	case "dense":
		base = "Dense"
	case "gru":
		base = "GRU"
	default:
		base = strings.ToUpper(c.Layer[:1]) + c.Layer[1:]
	}
	suffix := ""
	if c.Float == "float64" {
		suffix = "F64"
	}
	return fmt.Sprintf("%s%dx%d%s", base, c.In, c.Out, suffix)
}

func (c *config) validate() error {
	switch c.Layer {
	case "dense", "gru":
	default:
		return fmt.Errorf("unknown layer %q (want dense or gru)", c.Layer)
	}
	if c.In < 1 || c.Out < 1 {
		return fmt.Errorf("sizes must be positive, got in=%d out=%d", c.In, c.Out)
	}
	switch c.Float {
	case "float32", "float64":
	default:
		return fmt.Errorf("unknown element type %q (want float32 or float64)", c.Float)
	}
	if c.Pkg == "" {
		return fmt.Errorf("package name must not be empty")
	}
	return nil
}

// mathFuncs returns the qualified transcendental calls for the element
// type, plus the import path carrying them.
func mathFuncs(ft string) (expQ, tanhQ, importPath string) {
	if ft == "float64" {
		return "math.Exp", "math.Tanh", "math"
	}
	return "math32.Exp", "math32.Tanh", "github.com/chewxy/math32"
}

// generate emits one specialized layer, formatted and import-pruned
// through imports.Process.
func generate(c *config) ([]byte, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by rtnngen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", c.Pkg)

	switch c.Layer {
	case "dense":
		emitDense(&buf, c)
	case "gru":
		emitGRU(&buf, c)
	}

	src, err := imports.Process(strings.ToLower(c.typeName())+".gen.go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format output: %w", err)
	}
	return src, nil
}

func emitDense(buf *bytes.Buffer, c *config) {
	name, ft := c.typeName(), c.Float
	in, out := c.In, c.Out

	fmt.Fprintf(buf, "// %s is a constant-size dense layer: Out() = W*in + b.\n", name)
	fmt.Fprintf(buf, "// The zero value is ready to use.\n")
	fmt.Fprintf(buf, "type %s struct {\n", name)
	fmt.Fprintf(buf, "\tWeights [%d][%d]%s\n", out, in, ft)
	fmt.Fprintf(buf, "\tBias    [%d]%s\n\n", out, ft)
	fmt.Fprintf(buf, "\touts [%d]%s\n", out, ft)
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "func (d *%s) Forward(in *[%d]%s) {\n", name, in, ft)
	fmt.Fprintf(buf, "\tfor j := 0; j < %d; j++ {\n", out)
	fmt.Fprintf(buf, "\t\tacc := d.Bias[j]\n")
	fmt.Fprintf(buf, "\t\tfor i := 0; i < %d; i++ {\n", in)
	fmt.Fprintf(buf, "\t\t\tacc += d.Weights[j][i] * in[i]\n")
	fmt.Fprintf(buf, "\t\t}\n")
	fmt.Fprintf(buf, "\t\td.outs[j] = acc\n")
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "// Out returns the output of the last Forward.\n")
	fmt.Fprintf(buf, "func (d *%s) Out() *[%d]%s { return &d.outs }\n\n", name, out, ft)

	fmt.Fprintf(buf, "// Reset is a no-op; the layer is stateless.\n")
	fmt.Fprintf(buf, "func (d *%s) Reset() {}\n\n", name)

	fmt.Fprintf(buf, "// SetWeights copies w, indexed [out][in], into the layer.\n")
	fmt.Fprintf(buf, "func (d *%s) SetWeights(w [][]%s) {\n", name, ft)
	fmt.Fprintf(buf, "\tif len(w) != %d {\n\t\tpanic(\"rtnn: dense weight rows mismatch\")\n\t}\n", out)
	fmt.Fprintf(buf, "\tfor j, row := range w {\n")
	fmt.Fprintf(buf, "\t\tif len(row) != %d {\n\t\t\tpanic(\"rtnn: dense weight cols mismatch\")\n\t\t}\n", in)
	fmt.Fprintf(buf, "\t\tfor i, v := range row {\n\t\t\td.Weights[j][i] = v\n\t\t}\n")
	fmt.Fprintf(buf, "\t}\n}\n\n")

	fmt.Fprintf(buf, "// SetBias copies b, of length out, into the layer.\n")
	fmt.Fprintf(buf, "func (d *%s) SetBias(b []%s) {\n", name, ft)
	fmt.Fprintf(buf, "\tif len(b) != %d {\n\t\tpanic(\"rtnn: dense bias length mismatch\")\n\t}\n", out)
	fmt.Fprintf(buf, "\tcopy(d.Bias[:], b)\n}\n")
}

func emitGRU(buf *bytes.Buffer, c *config) {
	name, ft := c.typeName(), c.Float
	in, out := c.In, c.Out
	rows := 3 * out
	wCols := in + 1
	uCols := out + 1
	expQ, tanhQ, imp := mathFuncs(ft)

	fmt.Fprintf(buf, "import %q\n\n", imp)

	fmt.Fprintf(buf, "// %s is a constant-size GRU. Gate rows are stacked in\n", name)
	fmt.Fprintf(buf, "// reset, update, candidate order; the last column of W and U\n")
	fmt.Fprintf(buf, "// holds that gate's bias. The zero value is ready to use.\n")
	fmt.Fprintf(buf, "type %s struct {\n", name)
	fmt.Fprintf(buf, "\tW [%d][%d]%s\n", rows, wCols, ft)
	fmt.Fprintf(buf, "\tU [%d][%d]%s\n\n", rows, uCols, ft)
	fmt.Fprintf(buf, "\th     [%d]%s\n", out, ft)
	fmt.Fprintf(buf, "\txExt  [%d]%s\n", wCols, ft)
	fmt.Fprintf(buf, "\thExt  [%d]%s\n", uCols, ft)
	fmt.Fprintf(buf, "\twx    [%d]%s\n", rows, ft)
	fmt.Fprintf(buf, "\tuh    [%d]%s\n", rows, ft)
	fmt.Fprintf(buf, "\tgates [%d]%s\n", 2*out, ft)
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "func (g *%s) Forward(in *[%d]%s) {\n", name, in, ft)
	fmt.Fprintf(buf, "\tfor i := 0; i < %d; i++ {\n\t\tg.xExt[i] = in[i]\n\t}\n", in)
	fmt.Fprintf(buf, "\tg.xExt[%d] = 1\n", in)
	fmt.Fprintf(buf, "\tfor j := 0; j < %d; j++ {\n\t\tg.hExt[j] = g.h[j]\n\t}\n", out)
	fmt.Fprintf(buf, "\tg.hExt[%d] = 1\n\n", out)

	fmt.Fprintf(buf, "\tfor k := 0; k < %d; k++ {\n", rows)
	fmt.Fprintf(buf, "\t\tvar wa, ua %s\n", ft)
	fmt.Fprintf(buf, "\t\tfor i := 0; i < %d; i++ {\n\t\t\twa += g.W[k][i] * g.xExt[i]\n\t\t}\n", wCols)
	fmt.Fprintf(buf, "\t\tfor j := 0; j < %d; j++ {\n\t\t\tua += g.U[k][j] * g.hExt[j]\n\t\t}\n", uCols)
	fmt.Fprintf(buf, "\t\tg.wx[k] = wa\n\t\tg.uh[k] = ua\n\t}\n\n")

	fmt.Fprintf(buf, "\tfor k := 0; k < %d; k++ {\n\t\tg.gates[k] = g.sigmoid(g.wx[k] + g.uh[k])\n\t}\n", 2*out)
	fmt.Fprintf(buf, "\tfor i := 0; i < %d; i++ {\n", out)
	fmt.Fprintf(buf, "\t\tn := %s(g.wx[%d+i] + g.gates[i]*g.uh[%d+i])\n", tanhQ, 2*out, 2*out)
	fmt.Fprintf(buf, "\t\tz := g.gates[%d+i]\n", out)
	fmt.Fprintf(buf, "\t\tg.h[i] = (1-z)*n + z*g.h[i]\n\t}\n}\n\n")

	fmt.Fprintf(buf, "func (g *%s) sigmoid(x %s) %s { return 1 / (1 + %s(-x)) }\n\n", name, ft, ft, expQ)

	fmt.Fprintf(buf, "// Out returns the hidden state after the last Forward.\n")
	fmt.Fprintf(buf, "func (g *%s) Out() *[%d]%s { return &g.h }\n\n", name, out, ft)

	fmt.Fprintf(buf, "// Reset zeroes the hidden state. Parameters are untouched.\n")
	fmt.Fprintf(buf, "func (g *%s) Reset() {\n\tg.h = [%d]%s{}\n}\n\n", name, out, ft)

	fmt.Fprintf(buf, "// SetWVals copies the input kernel from trainer layout [in][3*out].\n")
	fmt.Fprintf(buf, "func (g *%s) SetWVals(w [][]%s) {\n", name, ft)
	fmt.Fprintf(buf, "\tif len(w) != %d {\n\t\tpanic(\"rtnn: gru kernel rows mismatch\")\n\t}\n", in)
	fmt.Fprintf(buf, "\tfor i, row := range w {\n")
	fmt.Fprintf(buf, "\t\tif len(row) != %d {\n\t\t\tpanic(\"rtnn: gru kernel cols mismatch\")\n\t\t}\n", rows)
	fmt.Fprintf(buf, "\t\tfor k, v := range row {\n\t\t\tg.W[k][i] = v\n\t\t}\n\t}\n}\n\n")

	fmt.Fprintf(buf, "// SetUVals copies the recurrent kernel from trainer layout [out][3*out].\n")
	fmt.Fprintf(buf, "func (g *%s) SetUVals(u [][]%s) {\n", name, ft)
	fmt.Fprintf(buf, "\tif len(u) != %d {\n\t\tpanic(\"rtnn: gru recurrent rows mismatch\")\n\t}\n", out)
	fmt.Fprintf(buf, "\tfor j, row := range u {\n")
	fmt.Fprintf(buf, "\t\tif len(row) != %d {\n\t\t\tpanic(\"rtnn: gru recurrent cols mismatch\")\n\t\t}\n", rows)
	fmt.Fprintf(buf, "\t\tfor k, v := range row {\n\t\t\tg.U[k][j] = v\n\t\t}\n\t}\n}\n\n")

	fmt.Fprintf(buf, "// SetBVals copies b[0] into W's bias column and b[1] into U's.\n")
	fmt.Fprintf(buf, "func (g *%s) SetBVals(b [][]%s) {\n", name, ft)
	fmt.Fprintf(buf, "\tif len(b) != 2 || len(b[0]) != %d || len(b[1]) != %d {\n\t\tpanic(\"rtnn: gru bias shape mismatch\")\n\t}\n", rows, rows)
	fmt.Fprintf(buf, "\tfor k := 0; k < %d; k++ {\n", rows)
	fmt.Fprintf(buf, "\t\tg.W[k][%d] = b[0][k]\n", in)
	fmt.Fprintf(buf, "\t\tg.U[k][%d] = b[1][k]\n\t}\n}\n", out)
}
