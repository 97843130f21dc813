package fixed

import "github.com/ajroetker/go-rtnn/rtnn/backend"

// Conv1D is the compile-time sized causal dilated convolution. Ring
// layout and tap indexing match rtnn.Conv1D.
type Conv1D[T backend.Floats, E backend.Engine[T]] struct {
	base
	eng E

	kernelSize int
	dilation   int

	weights []T // [out][kernel][in] flat
	bias    []T
	outs    []T

	state []T // span frames of inSize each
	span  int
	head  int
}

func NewConv1D[T backend.Floats, E backend.Engine[T]](inSize, outSize, kernelSize, dilation int) *Conv1D[T, E] {
	checkSize(inSize, "input size")
	checkSize(outSize, "output size")
	if kernelSize < 1 {
		panic("rtnn: conv1d kernel size must be positive")
	}
	if dilation < 1 {
		panic("rtnn: conv1d dilation must be positive")
	}
	span := (kernelSize-1)*dilation + 1
	return &Conv1D[T, E]{
		base:       base{inSize: inSize, outSize: outSize, name: "conv1d"},
		kernelSize: kernelSize,
		dilation:   dilation,
		weights:    backend.AlignedSlice[T](outSize * kernelSize * inSize),
		bias:       backend.AlignedSlice[T](outSize),
		outs:       backend.AlignedSlice[T](outSize),
		state:      backend.AlignedSlice[T](span * inSize),
		span:       span,
		head:       span - 1,
	}
}

func (cv *Conv1D[T, E]) Forward(in []T) {
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
		cv.outs[o] = acc
	}
}

// Out returns the layer's output buffer. The slice is owned by the
// layer and overwritten by every Forward.
func (cv *Conv1D[T, E]) Out() []T { return cv.outs }

// Reset zeroes the input history.
func (cv *Conv1D[T, E]) Reset() {
	clear(cv.state)
	cv.head = cv.span - 1
}

func (cv *Conv1D[T, E]) KernelSize() int { return cv.kernelSize }
func (cv *Conv1D[T, E]) Dilation() int   { return cv.dilation }

// SetWeights copies w, indexed [out][in][tap], into the layer.
func (cv *Conv1D[T, E]) SetWeights(w [][][]T) {
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
func (cv *Conv1D[T, E]) SetBias(b []T) {
	if len(b) != cv.outSize {
		panic("rtnn: conv1d bias length mismatch")
	}
	copy(cv.bias, b)
}

func (cv *Conv1D[T, E]) Weight(o, i, j int) T {
	return cv.weights[(o*cv.kernelSize+j)*cv.inSize+i]
}

func (cv *Conv1D[T, E]) Bias(o int) T { return cv.bias[o] }
