package fixed

// base carries the dimensions and name shared by every compile-time
// sized layer.
type base struct {
	inSize, outSize int
	name            string
}

func (b *base) InSize() int  { return b.inSize }
func (b *base) OutSize() int { return b.outSize }
func (b *base) Name() string { return b.name }

func checkSize(n int, what string) {
	if n < 0 {
		panic("rtnn: negative " + what)
	}
}
