package netlist

// bitRef addresses a single bit: either one bit of a wire or a constant.
type bitRef struct {
	wire *Wire
	off  int
	bit  byte // '0', '1', 'x' or 'z' when wire == nil
}

// bits expands the signal into single-bit references, least significant
// bit first. This is the working representation for the loader's chunk
// grouping and for connection rewriting during flatten.
func (s SigSpec) bits() []bitRef {
	out := make([]bitRef, 0, s.Width())
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c.IsConst() {
			for j := len(c.Bits) - 1; j >= 0; j-- {
				out = append(out, bitRef{bit: c.Bits[j]})
			}
			continue
		}
		for j := 0; j < c.Width; j++ {
			out = append(out, bitRef{wire: c.Wire, off: c.Offset + j})
		}
	}
	return out
}

// chunksFromBits regroups single-bit references (least significant
// first) into a minimal chunk list, most significant chunk first.
// Adjacent bits of the same wire with consecutive offsets merge into a
// range chunk; adjacent constants merge into a constant run.
func chunksFromBits(bits []bitRef) SigSpec {
	var rev SigSpec // built LSB chunk first
	for i := 0; i < len(bits); {
		b := bits[i]
		if b.wire == nil {
			run := []byte{b.bit}
			j := i + 1
			for j < len(bits) && bits[j].wire == nil {
				run = append(run, bits[j].bit)
				j++
			}
			// run is LSB-first, constant chunks store MSB-first
			for l, r := 0, len(run)-1; l < r; l, r = l+1, r-1 {
				run[l], run[r] = run[r], run[l]
			}
			rev = append(rev, SigChunk{Bits: string(run), Width: len(run)})
			i = j
			continue
		}
		j := i + 1
		for j < len(bits) && bits[j].wire == b.wire && bits[j].off == b.off+(j-i) {
			j++
		}
		rev = append(rev, SigChunk{Wire: b.wire, Offset: b.off, Width: j - i})
		i = j
	}
	out := make(SigSpec, len(rev))
	for i, c := range rev {
		out[len(rev)-1-i] = c
	}
	return out
}
