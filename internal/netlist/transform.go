package netlist

import (
	"fmt"
)

// Blackbox drops the body of the named module. Instances of a
// blackboxed module survive Flatten as cells of the parent.
func (d *Design) Blackbox(name string) error {
	m := d.Module(name)
	if m == nil {
		return fmt.Errorf("blackbox: module %q not found", name)
	}
	m.Blackbox = true
	m.Cells = nil
	return nil
}

// Flatten inlines the whole hierarchy into the top module. Every cell
// whose type is a design module (and not blackboxed) is replaced by
// that module's contents; inner wires get instance-path prefixed names
// and inner connections are rewritten through the port binding.
//
// Hierarchy queries (instantiation chains, per-module cell walks below
// top) are meaningless after this call.
func (d *Design) Flatten() error {
	top := d.Top()
	if top == nil {
		return fmt.Errorf("flatten: no top module designated")
	}
	for {
		idx := -1
		var sub *Module
		for i, c := range top.Cells {
			if m := d.Module(c.Type); m != nil && !m.Blackbox {
				idx, sub = i, m
				break
			}
		}
		if idx < 0 {
			return nil
		}
		inlined, err := d.inline(top, top.Cells[idx], sub)
		if err != nil {
			return err
		}
		rest := append([]*Cell{}, top.Cells[idx+1:]...)
		top.Cells = append(append(top.Cells[:idx], inlined...), rest...)
	}
}

// inline expands one cell into its module's cells, rewritten into the
// parent's namespace. Returns the replacement cells.
func (d *Design) inline(parent *Module, cell *Cell, sub *Module) ([]*Cell, error) {
	prefix := UnescapeID(cell.Name) + "."

	// Inner non-port wires become fresh prefixed wires in the parent.
	wireMap := make(map[*Wire]*Wire)
	ports := make(map[string]bool, len(sub.Ports))
	for _, p := range sub.Ports {
		ports[p] = true
	}
	for _, wn := range sortedKeys(sub.Wires) {
		if ports[wn] {
			continue
		}
		w := sub.Wires[wn]
		nw := &Wire{Name: EscapeID(prefix + UnescapeID(w.Name)), Width: w.Width, Offset: w.Offset}
		parent.Wires[nw.Name] = nw
		wireMap[w] = nw
	}

	// Port bits map to the instantiation's connection bits. Unconnected
	// or short connections pad with x.
	portBits := make(map[*Wire][]bitRef)
	for _, pn := range sub.Ports {
		pw := sub.Wires[pn]
		if pw == nil {
			return nil, fmt.Errorf("inline %s: module %s port %s has no wire", cell.Name, sub.Name, pn)
		}
		outer := make([]bitRef, pw.Width)
		for i := range outer {
			outer[i] = bitRef{bit: 'x'}
		}
		if sig, ok := cell.Connection(pn); ok {
			for i, b := range sig.bits() {
				if i >= pw.Width {
					break
				}
				outer[i] = b
			}
		}
		portBits[pw] = outer
	}

	rewrite := func(sig SigSpec) (SigSpec, error) {
		in := sig.bits()
		out := make([]bitRef, len(in))
		for i, b := range in {
			switch {
			case b.wire == nil:
				out[i] = b
			case portBits[b.wire] != nil:
				pos := b.off
				if pos < 0 || pos >= len(portBits[b.wire]) {
					return nil, fmt.Errorf("inline %s: port %s bit %d out of range", cell.Name, b.wire.Name, b.off)
				}
				out[i] = portBits[b.wire][pos]
			case wireMap[b.wire] != nil:
				out[i] = bitRef{wire: wireMap[b.wire], off: b.off}
			default:
				return nil, fmt.Errorf("inline %s: unmapped wire %s", cell.Name, b.wire.Name)
			}
		}
		return chunksFromBits(out), nil
	}

	out := make([]*Cell, 0, len(sub.Cells))
	for _, c := range sub.Cells {
		nc := &Cell{
			Name:       EscapeID(prefix + UnescapeID(c.Name)),
			Type:       c.Type,
			Parameters: c.Parameters,
		}
		for _, conn := range c.Connections {
			sig, err := rewrite(conn.Signal)
			if err != nil {
				return nil, err
			}
			nc.Connections = append(nc.Connections, Connection{Port: conn.Port, Signal: sig})
		}
		out = append(out, nc)
	}
	return out, nil
}
