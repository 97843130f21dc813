package rtnn

import "github.com/ajroetker/go-rtnn/rtnn/backend"

// Conv1D is a causal dilated one-dimensional convolution over the
// stream of input frames. Tap j of the kernel multiplies the frame
// from j*dilation steps ago, so tap 0 sees the current frame and the
// last tap the oldest. The layer keeps a ring of the most recent
// (kernelSize-1)*dilation+1 frames; Reset zeroes it.
type Conv1D[T backend.Floats] struct {
	layerBase
	eng backend.Engine[T]

	kernelSize int
	dilation   int

	weights []T // [out][kernel][in] flat
	bias    []T

	state []T // span frames of inSize each
	span  int
	head  int // slot of the most recent frame
}

func NewConv1D[T backend.Floats](inSize, outSize, kernelSize, dilation int) *Conv1D[T] {
	return NewConv1DWithEngine[T](inSize, outSize, kernelSize, dilation, backend.Default[T]())
}

func NewConv1DWithEngine[T backend.Floats](inSize, outSize, kernelSize, dilation int, eng backend.Engine[T]) *Conv1D[T] {
	checkSize(inSize, "input size")
	checkSize(outSize, "output size")
	if kernelSize < 1 {
		panic("rtnn: conv1d kernel size must be positive")
	}
	if dilation < 1 {
		panic("rtnn: conv1d dilation must be positive")
	}
	span := (kernelSize-1)*dilation + 1
	return &Conv1D[T]{
		layerBase:  layerBase{inSize: inSize, outSize: outSize, name: "conv1d"},
		eng:        eng,
		kernelSize: kernelSize,
		dilation:   dilation,
		weights:    make([]T, outSize*kernelSize*inSize),
		bias:       make([]T, outSize),
		state:      make([]T, span*inSize),
		span:       span,
		head:       span - 1,
	}
}

func (cv *Conv1D[T]) Forward(in, out []T) {
	cv.head++
	if cv.head == cv.span {
		cv.head = 0
	}
	copy(cv.state[cv.head*cv.inSize:], in[:cv.inSize])

	for o := 0; o < cv.outSize; o++ {
		acc := cv.bias[o]
		for j := 0; j < cv.kernelSize; j++ {
			slot := cv.head - j*cv.dilation
			if slot < 0 {
				slot += cv.span
			}
			wRow := cv.weights[(o*cv.kernelSize+j)*cv.inSize : (o*cv.kernelSize+j+1)*cv.inSize]
			frame := cv.state[slot*cv.inSize : (slot+1)*cv.inSize]
			acc += cv.eng.Dot(wRow, frame)
		}
		out[o] = acc
	}
}

// Reset zeroes the input history.
func (cv *Conv1D[T]) Reset() {
	clear(cv.state)
	cv.head = cv.span - 1
}

// KernelSize returns the number of taps.
func (cv *Conv1D[T]) KernelSize() int { return cv.kernelSize }

// Dilation returns the step spacing between taps.
func (cv *Conv1D[T]) Dilation() int { return cv.dilation }

// Clone returns a deep copy sharing no storage with the receiver.
func (cv *Conv1D[T]) Clone() *Conv1D[T] {
	c := &Conv1D[T]{
		layerBase:  cv.layerBase,
		eng:        cv.eng,
		kernelSize: cv.kernelSize,
		dilation:   cv.dilation,
		weights:    make([]T, len(cv.weights)),
		bias:       make([]T, len(cv.bias)),
		state:      make([]T, len(cv.state)),
		span:       cv.span,
		head:       cv.head,
	}
	copy(c.weights, cv.weights)
	copy(c.bias, cv.bias)
	copy(c.state, cv.state)
	return c
}

// SetWeights copies w, indexed [out][in][tap], into the layer.
func (cv *Conv1D[T]) SetWeights(w [][][]T) {
	if len(w) != cv.outSize {
		panic("rtnn: conv1d weight outer size mismatch")
	}
	for o, plane := range w {
		if len(plane) != cv.inSize {
			panic("rtnn: conv1d weight channel size mismatch")
		}
		for i, taps := range plane {
			if len(taps) != cv.kernelSize {
				panic("rtnn: conv1d weight tap count mismatch")
			}
			for j, v := range taps {
				cv.weights[(o*cv.kernelSize+j)*cv.inSize+i] = v
			}
		}
	}
}

// SetBias copies b, of length out, into the layer.
func (cv *Conv1D[T]) SetBias(b []T) {
	if len(b) != cv.outSize {
		panic("rtnn: conv1d bias length mismatch")
	}
	copy(cv.bias, b)
}

// Weight returns the tap weight SetWeights(w) stored from w[o][i][j].
func (cv *Conv1D[T]) Weight(o, i, j int) T {
	return cv.weights[(o*cv.kernelSize+j)*cv.inSize+i]
}

// Bias returns b[o].
func (cv *Conv1D[T]) Bias(o int) T { return cv.bias[o] }
