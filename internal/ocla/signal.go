package ocla

import (
	"fmt"
	"strings"

	"github.com/raptor-eda/ocla/internal/netlist"
)

// SignalFragment describes one contiguous piece of a probe signal:
// either a constant bit pattern or a bit range of a named wire.
// Immutable once built; Width is always > 0.
type SignalFragment struct {
	FullName  string // as rendered at resolution time, hierarchy included
	Name      string // display name, hierarchical prefix and escape marker stripped
	Width     uint32
	Offset    uint32
	ShowIndex bool // false only when the fragment exactly covers a scalar wire
}

// newSignalFragment derives the display name from the full name: the
// last '.'-separated component, without a leading backslash.
func newSignalFragment(fullName string, width, offset uint32, showIndex bool) SignalFragment {
	name := fullName
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimPrefix(name, "\\")
	return SignalFragment{
		FullName:  fullName,
		Name:      name,
		Width:     width,
		Offset:    offset,
		ShowIndex: showIndex,
	}
}

// Render produces the user-facing signal name: bare name for fragments
// covering a scalar wire, "name[bit]" for single indexed bits and
// "name[msb:lsb]" for wider ranges.
func (f SignalFragment) Render() string {
	switch {
	case !f.ShowIndex:
		return f.Name
	case f.Width == 1:
		return fmt.Sprintf("%s[%d]", f.Name, f.Offset)
	default:
		return fmt.Sprintf("%s[%d:%d]", f.Name, f.Offset+f.Width-1, f.Offset)
	}
}

// fragmentsFromSignal decomposes a connection signal into ordered
// fragments, most significant first. A single-chunk signal renders
// without brace grouping and with 32-bit constants shown as integers.
func fragmentsFromSignal(sig netlist.SigSpec) []SignalFragment {
	if len(sig) == 1 {
		return []SignalFragment{fragmentFromChunk(sig[0], true)}
	}
	out := make([]SignalFragment, 0, len(sig))
	for _, c := range sig {
		out = append(out, fragmentFromChunk(c, false))
	}
	return out
}

func fragmentFromChunk(c netlist.SigChunk, autoint bool) SignalFragment {
	if c.IsConst() {
		return newSignalFragment(renderConst(c.Bits, autoint), uint32(c.Width), 0, false)
	}
	var full string
	showIndex := !(c.Width == c.Wire.Width && c.Width == 1 && c.Offset == 0)
	switch {
	case c.Width == c.Wire.Width && c.Offset == 0:
		full = c.Wire.Name
	case c.Width == 1:
		full = fmt.Sprintf("%s [%d]", c.Wire.Name, c.Offset)
	default:
		full = fmt.Sprintf("%s [%d:%d]", c.Wire.Name, c.Offset+c.Width-1, c.Offset)
	}
	f := newSignalFragment(full, uint32(c.Width), uint32(c.Offset), showIndex)
	if i := strings.IndexByte(f.Name, ' '); i >= 0 {
		// Keep the bare wire name for display; the range stays in FullName.
		f.Name = f.Name[:i]
	}
	return f
}

// renderConst formats a constant bit run the way the RTLIL text dump
// does: fully defined 32-bit values become plain integers when autoint
// is allowed, everything else is "{width}'{bits}".
func renderConst(bits string, autoint bool) string {
	if autoint && len(bits) == 32 && strings.Trim(bits, "01") == "" {
		v := uint64(0)
		for i := 0; i < len(bits); i++ {
			v <<= 1
			if bits[i] == '1' {
				v |= 1
			}
		}
		if v <= 0x7FFFFFFF {
			return fmt.Sprintf("%d", v)
		}
	}
	return fmt.Sprintf("%d'%s", len(bits), bits)
}
