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

// Package weights loads layer parameters from JSON blobs.
//
// A blob describes one layer:
//
//	{
//	  "type": "gru",
//	  "shape": [in, out],
//	  "activation": "tanh",
//	  "weights": [ ... ]
//	}
//
// The weights field holds the parameter arrays in trainer layout:
//
//	dense   kernel [in][out], bias [out]
//	gru     kernel [in][3*out], recurrent [out][3*out], bias [2][3*out]
//	lstm    kernel [in][4*out], recurrent [out][4*out], bias [2][4*out]
//	conv1d  kernel [taps][in][out], bias [out]; the blob also carries
//	        kernel_size and dilation
//
// Every dimension is verified against the target layer before any
// parameter is written, so a failed load leaves the layer untouched.
//
// The order of the stacked gate blocks inside a recurrent blob cannot
// be verified: a file with the blocks in the wrong order has exactly
// the shape of a correct one. Getting that order right is the
// exporter's contract; see the layer types for the order each expects.
package weights

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ajroetker/go-rtnn/rtnn"
	"github.com/ajroetker/go-rtnn/rtnn/backend"
)

var (
	// ErrType reports a blob whose type field names a different layer
	// kind than the target.
	ErrType = errors.New("layer type mismatch")

	// ErrShape reports a blob whose declared or actual dimensions
	// disagree with the target layer.
	ErrShape = errors.New("parameter shape mismatch")
)

// blob is the on-disk form of one layer.
type blob struct {
	Type       string            `json:"type"`
	Shape      []int             `json:"shape"`
	Activation string            `json:"activation,omitempty"`
	KernelSize int               `json:"kernel_size,omitempty"`
	Dilation   int               `json:"dilation,omitempty"`
	Weights    []json.RawMessage `json:"weights"`
}

// Info is the descriptive header of a blob: enough to construct a
// matching layer before loading its parameters.
type Info struct {
	Type       string
	In, Out    int
	Activation string
	KernelSize int
	Dilation   int
}

// ReadInfo decodes only a blob's descriptive fields.
func ReadInfo(r io.Reader) (Info, error) {
	var b blob
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return Info{}, fmt.Errorf("decode layer blob: %w", err)
	}
	if len(b.Shape) != 2 {
		return Info{}, fmt.Errorf("%w: blob shape %v, want [in out]", ErrShape, b.Shape)
	}
	return Info{
		Type:       b.Type,
		In:         b.Shape[0],
		Out:        b.Shape[1],
		Activation: b.Activation,
		KernelSize: b.KernelSize,
		Dilation:   b.Dilation,
	}, nil
}

func decodeBlob(r io.Reader, wantType string, in, out, arrays int) (*blob, error) {
	var b blob
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode layer blob: %w", err)
	}
	if b.Type != wantType {
		return nil, fmt.Errorf("%w: blob is %q, layer is %q", ErrType, b.Type, wantType)
	}
	if len(b.Shape) != 2 || b.Shape[0] != in || b.Shape[1] != out {
		return nil, fmt.Errorf("%w: blob shape %v, layer is [%d %d]", ErrShape, b.Shape, in, out)
	}
	if len(b.Weights) != arrays {
		return nil, fmt.Errorf("%w: %s blob has %d weight arrays, want %d", ErrShape, wantType, len(b.Weights), arrays)
	}
	return &b, nil
}

func decode1D[T backend.Floats](raw json.RawMessage, n int, what string) ([]T, error) {
	var v []T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	if len(v) != n {
		return nil, fmt.Errorf("%w: %s has %d elements, want %d", ErrShape, what, len(v), n)
	}
	return v, nil
}

func decode2D[T backend.Floats](raw json.RawMessage, rows, cols int, what string) ([][]T, error) {
	var m [][]T
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	if len(m) != rows {
		return nil, fmt.Errorf("%w: %s has %d rows, want %d", ErrShape, what, len(m), rows)
	}
	for i, row := range m {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: %s row %d has %d columns, want %d", ErrShape, what, i, len(row), cols)
		}
	}
	return m, nil
}

func decode3D[T backend.Floats](raw json.RawMessage, d0, d1, d2 int, what string) ([][][]T, error) {
	var m [][][]T
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	if len(m) != d0 {
		return nil, fmt.Errorf("%w: %s has %d planes, want %d", ErrShape, what, len(m), d0)
	}
	for i, plane := range m {
		if len(plane) != d1 {
			return nil, fmt.Errorf("%w: %s plane %d has %d rows, want %d", ErrShape, what, i, len(plane), d1)
		}
		for j, row := range plane {
			if len(row) != d2 {
				return nil, fmt.Errorf("%w: %s plane %d row %d has %d columns, want %d", ErrShape, what, i, j, len(row), d2)
			}
		}
	}
	return m, nil
}

func logLoaded(b *blob, in, out, params int) {
	logrus.WithFields(logrus.Fields{
		"type":       b.Type,
		"in":         in,
		"out":        out,
		"activation": b.Activation,
		"params":     params,
	}).Debug("Loaded layer")
}

// LoadDense reads a dense blob from r and installs its parameters. The
// kernel arrives in trainer layout [in][out] and is transposed into
// the layer's row-major storage.
func LoadDense[T backend.Floats](r io.Reader, d *rtnn.Dense[T]) error {
	in, out := d.InSize(), d.OutSize()
	b, err := decodeBlob(r, "dense", in, out, 2)
	if err != nil {
		return err
	}
	kernel, err := decode2D[T](b.Weights[0], in, out, "dense kernel")
	if err != nil {
		return err
	}
	bias, err := decode1D[T](b.Weights[1], out, "dense bias")
	if err != nil {
		return err
	}

	wt := make([][]T, out)
	for j := range wt {
		wt[j] = make([]T, in)
		for i := range wt[j] {
			wt[j][i] = kernel[i][j]
		}
	}
	d.SetWeights(wt)
	d.SetBias(bias)
	logLoaded(b, in, out, out*in+out)
	return nil
}

// LoadGRU reads a gru blob from r and installs its parameters. The
// stacked gate blocks must already be in the order the layer expects;
// that cannot be checked here.
func LoadGRU[T backend.Floats](r io.Reader, g *rtnn.GRU[T]) error {
	in, out := g.InSize(), g.OutSize()
	b, err := decodeBlob(r, "gru", in, out, 3)
	if err != nil {
		return err
	}
	kernel, err := decode2D[T](b.Weights[0], in, 3*out, "gru kernel")
	if err != nil {
		return err
	}
	recurrent, err := decode2D[T](b.Weights[1], out, 3*out, "gru recurrent")
	if err != nil {
		return err
	}
	bias, err := decode2D[T](b.Weights[2], 2, 3*out, "gru bias")
	if err != nil {
		return err
	}

	g.SetWVals(kernel)
	g.SetUVals(recurrent)
	g.SetBVals(bias)
	logLoaded(b, in, out, 3*out*(in+1)+3*out*(out+1))
	return nil
}

// LoadLSTM reads an lstm blob from r and installs its parameters.
func LoadLSTM[T backend.Floats](r io.Reader, l *rtnn.LSTM[T]) error {
	in, out := l.InSize(), l.OutSize()
	b, err := decodeBlob(r, "lstm", in, out, 3)
	if err != nil {
		return err
	}
	kernel, err := decode2D[T](b.Weights[0], in, 4*out, "lstm kernel")
	if err != nil {
		return err
	}
	recurrent, err := decode2D[T](b.Weights[1], out, 4*out, "lstm recurrent")
	if err != nil {
		return err
	}
	bias, err := decode2D[T](b.Weights[2], 2, 4*out, "lstm bias")
	if err != nil {
		return err
	}

	l.SetWVals(kernel)
	l.SetUVals(recurrent)
	l.SetBVals(bias)
	logLoaded(b, in, out, 4*out*(in+1)+4*out*(out+1))
	return nil
}

// LoadConv1D reads a conv1d blob from r and installs its parameters.
// The kernel arrives in trainer layout [taps][in][out]; kernel_size
// and dilation must match the layer's construction.
func LoadConv1D[T backend.Floats](r io.Reader, cv *rtnn.Conv1D[T]) error {
	in, out := cv.InSize(), cv.OutSize()
	b, err := decodeBlob(r, "conv1d", in, out, 2)
	if err != nil {
		return err
	}
	k := cv.KernelSize()
	if b.KernelSize != k {
		return fmt.Errorf("%w: blob kernel size %d, layer is %d", ErrShape, b.KernelSize, k)
	}
	if b.Dilation != cv.Dilation() {
		return fmt.Errorf("%w: blob dilation %d, layer is %d", ErrShape, b.Dilation, cv.Dilation())
	}
	kernel, err := decode3D[T](b.Weights[0], k, in, out, "conv1d kernel")
	if err != nil {
		return err
	}
	bias, err := decode1D[T](b.Weights[1], out, "conv1d bias")
	if err != nil {
		return err
	}

	wt := make([][][]T, out)
	for o := range wt {
		wt[o] = make([][]T, in)
		for i := range wt[o] {
			wt[o][i] = make([]T, k)
			for j := range wt[o][i] {
				wt[o][i][j] = kernel[j][i][o]
			}
		}
	}
	cv.SetWeights(wt)
	cv.SetBias(bias)
	logLoaded(b, in, out, out*k*in+out)
	return nil
}
