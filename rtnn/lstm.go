package rtnn

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-rtnn/rtnn/backend"
)

// LSTM is the runtime-sized long short-term memory layer. It follows
// the same combined-matrix scheme as GRU, with four stacked gate
// blocks per matrix: input gate i, forget gate f, candidate g, output
// gate o, in that row order.
//
//	i = σ(Wi*x̂ + Ui*ĥ)
//	f = σ(Wf*x̂ + Uf*ĥ)
//	g = tanh(Wg*x̂ + Ug*ĥ)
//	o = σ(Wo*x̂ + Uo*ĥ)
//	c' = f ⊙ c + i ⊙ g
//	h' = o ⊙ tanh(c')
//
// Sample-rate correction delays both recurrent signals, h and c.
type LSTM[T backend.Floats] struct {
	layerBase
	eng backend.Engine[T]

	w []T // [4*out, in+1] row-major
	u []T // [4*out, out+1] row-major

	h    []T
	c    []T
	xExt []T // in+1, last slot pinned to 1
	hExt []T // out+1, last slot pinned to 1
	wx   []T // 4*out
	uh   []T // 4*out
	acts []T // i, f, g, o blocks, 4*out
	cNew []T
	hNew []T
	tanC []T

	hDelay *DelayLine[T]
	cDelay *DelayLine[T]
}

func NewLSTM[T backend.Floats](inSize, outSize int) *LSTM[T] {
	return NewLSTMWithEngine[T](inSize, outSize, backend.Default[T]())
}

func NewLSTMWithEngine[T backend.Floats](inSize, outSize int, eng backend.Engine[T]) *LSTM[T] {
	checkSize(inSize, "input size")
	checkSize(outSize, "output size")
	l := &LSTM[T]{
		layerBase: layerBase{inSize: inSize, outSize: outSize, name: "lstm"},
		eng:       eng,
		w:         make([]T, 4*outSize*(inSize+1)),
		u:         make([]T, 4*outSize*(outSize+1)),
		h:         make([]T, outSize),
		c:         make([]T, outSize),
		xExt:      make([]T, inSize+1),
		hExt:      make([]T, outSize+1),
		wx:        make([]T, 4*outSize),
		uh:        make([]T, 4*outSize),
		acts:      make([]T, 4*outSize),
		cNew:      make([]T, outSize),
		hNew:      make([]T, outSize),
		tanC:      make([]T, outSize),
	}
	l.xExt[inSize] = 1
	l.hExt[outSize] = 1
	return l
}

func (l *LSTM[T]) Forward(in, out []T) {
	n := l.outSize
	copy(l.xExt, in[:l.inSize])
	copy(l.hExt, l.h)

	l.eng.MatVec(l.w, 4*n, l.inSize+1, l.xExt, l.wx)
	l.eng.MatVec(l.u, 4*n, n+1, l.hExt, l.uh)

	for i := 0; i < 4*n; i++ {
		l.acts[i] = l.wx[i] + l.uh[i]
	}
	// i and f are adjacent, so one sigmoid pass covers both.
	l.eng.Sigmoid(l.acts[:2*n], l.acts[:2*n])
	l.eng.Tanh(l.acts[2*n:3*n], l.acts[2*n:3*n])
	l.eng.Sigmoid(l.acts[3*n:4*n], l.acts[3*n:4*n])

	iGate := l.acts[:n]
	fGate := l.acts[n : 2*n]
	gGate := l.acts[2*n : 3*n]
	oGate := l.acts[3*n : 4*n]

	for i := 0; i < n; i++ {
		l.cNew[i] = fGate[i]*l.c[i] + iGate[i]*gGate[i]
	}
	l.eng.Tanh(l.cNew, l.tanC)
	for i := 0; i < n; i++ {
		l.hNew[i] = oGate[i] * l.tanC[i]
	}

	if l.hDelay != nil {
		l.hDelay.Process(l.hNew, l.h)
		l.cDelay.Process(l.cNew, l.c)
	} else {
		copy(l.h, l.hNew)
		copy(l.c, l.cNew)
	}
	copy(out[:n], l.h)
}

// Reset zeroes both recurrent signals and any delay slots.
func (l *LSTM[T]) Reset() {
	clear(l.h)
	clear(l.c)
	if l.hDelay != nil {
		l.hDelay.Reset()
		l.cDelay.Reset()
	}
}

// Prepare inserts a whole-step delay into the recurrent feedback.
func (l *LSTM[T]) Prepare(delaySamples int) {
	l.hDelay = NewDelayLine[T](l.outSize)
	l.hDelay.Prepare(delaySamples)
	l.cDelay = NewDelayLine[T](l.outSize)
	l.cDelay.Prepare(delaySamples)
}

// PrepareFractional inserts an interpolating delay into the
// recurrent feedback.
func (l *LSTM[T]) PrepareFractional(delaySamples T) {
	l.hDelay = NewDelayLine[T](l.outSize)
	l.hDelay.PrepareFractional(delaySamples)
	l.cDelay = NewDelayLine[T](l.outSize)
	l.cDelay.PrepareFractional(delaySamples)
}

// Clone returns a deep copy sharing no storage with the receiver.
func (l *LSTM[T]) Clone() *LSTM[T] {
	c := &LSTM[T]{
		layerBase: l.layerBase,
		eng:       l.eng,
		w:         make([]T, len(l.w)),
		u:         make([]T, len(l.u)),
		h:         make([]T, len(l.h)),
		c:         make([]T, len(l.c)),
		xExt:      make([]T, len(l.xExt)),
		hExt:      make([]T, len(l.hExt)),
		wx:        make([]T, len(l.wx)),
		uh:        make([]T, len(l.uh)),
		acts:      make([]T, len(l.acts)),
		cNew:      make([]T, len(l.cNew)),
		hNew:      make([]T, len(l.hNew)),
		tanC:      make([]T, len(l.tanC)),
	}
	copy(c.w, l.w)
	copy(c.u, l.u)
	copy(c.h, l.h)
	copy(c.c, l.c)
	copy(c.xExt, l.xExt)
	copy(c.hExt, l.hExt)
	if l.hDelay != nil {
		c.hDelay = l.hDelay.Clone()
		c.cDelay = l.cDelay.Clone()
	}
	return c
}

// SetWVals copies the input kernel from trainer layout, w[i][k],
// transposed into the combined matrix. Bias column excluded.
func (l *LSTM[T]) SetWVals(w [][]T) {
	if len(w) != l.inSize {
		panic("rtnn: lstm kernel rows mismatch")
	}
	cols := l.inSize + 1
	for i, row := range w {
		if len(row) != 4*l.outSize {
			panic("rtnn: lstm kernel cols mismatch")
		}
		for k, v := range row {
			l.w[k*cols+i] = v
		}
	}
}

// SetUVals copies the recurrent kernel from trainer layout, u[j][k].
func (l *LSTM[T]) SetUVals(u [][]T) {
	if len(u) != l.outSize {
		panic("rtnn: lstm recurrent rows mismatch")
	}
	cols := l.outSize + 1
	for j, row := range u {
		if len(row) != 4*l.outSize {
			panic("rtnn: lstm recurrent cols mismatch")
		}
		for k, v := range row {
			l.u[k*cols+j] = v
		}
	}
}

// SetBVals copies b[0] into W's bias column and b[1] into U's.
func (l *LSTM[T]) SetBVals(b [][]T) {
	if len(b) != 2 {
		panic("rtnn: lstm bias rows mismatch")
	}
	if len(b[0]) != 4*l.outSize || len(b[1]) != 4*l.outSize {
		panic("rtnn: lstm bias cols mismatch")
	}
	wCols := l.inSize + 1
	uCols := l.outSize + 1
	for k := 0; k < 4*l.outSize; k++ {
		l.w[k*wCols+l.inSize] = b[0][k]
		l.u[k*uCols+l.outSize] = b[1][k]
	}
}

// SetWValsMatrix is SetWVals from a gonum matrix of shape (in, 4*out).
func (l *LSTM[T]) SetWValsMatrix(m mat.Matrix) {
	r, c := m.Dims()
	if r != l.inSize || c != 4*l.outSize {
		panic("rtnn: lstm kernel matrix shape mismatch")
	}
	cols := l.inSize + 1
	for i := 0; i < r; i++ {
		for k := 0; k < c; k++ {
			l.w[k*cols+i] = T(m.At(i, k))
		}
	}
}

// SetUValsMatrix is SetUVals from a gonum matrix of shape (out, 4*out).
func (l *LSTM[T]) SetUValsMatrix(m mat.Matrix) {
	r, c := m.Dims()
	if r != l.outSize || c != 4*l.outSize {
		panic("rtnn: lstm recurrent matrix shape mismatch")
	}
	cols := l.outSize + 1
	for j := 0; j < r; j++ {
		for k := 0; k < c; k++ {
			l.u[k*cols+j] = T(m.At(j, k))
		}
	}
}

func (l *LSTM[T]) WVal(i, k int) T { return l.w[k*(l.inSize+1)+i] }
func (l *LSTM[T]) UVal(j, k int) T { return l.u[k*(l.outSize+1)+j] }

func (l *LSTM[T]) BVal(row, k int) T {
	if row == 0 {
		return l.w[k*(l.inSize+1)+l.inSize]
	}
	return l.u[k*(l.outSize+1)+l.outSize]
}
