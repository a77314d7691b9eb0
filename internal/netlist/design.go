package netlist

import (
	"fmt"
	"sort"
	"strings"
)

// Wire is a named net. Offset is the declared start index used for
// display only; chunk offsets are always 0-based within the wire.
type Wire struct {
	Name   string // escaped id
	Width  int
	Offset int
}

// SigChunk is one contiguous slice of a signal: either a run of constant
// bits or a bit range of a wire.
type SigChunk struct {
	Wire   *Wire  // nil for a constant chunk
	Bits   string // constant bits, most significant first; empty for wire chunks
	Offset int    // first wire bit covered, 0-based; 0 for constants
	Width  int
}

// IsConst reports whether the chunk is a constant bit run.
func (c SigChunk) IsConst() bool { return c.Wire == nil }

// SigSpec is an ordered list of chunks, most significant chunk first.
type SigSpec []SigChunk

// Width returns the total bit width of the signal.
func (s SigSpec) Width() int {
	w := 0
	for _, c := range s {
		w += c.Width
	}
	return w
}

// Connection binds a cell port to a signal.
type Connection struct {
	Port   string // escaped id
	Signal SigSpec
}

// Cell is one module instantiation (or primitive) inside a module.
type Cell struct {
	Name        string // escaped instance name
	Type        string // escaped type name
	Parameters  map[string]string
	Connections []Connection // sorted by port name
}

// Connection returns the connection for the given escaped port name.
func (c *Cell) Connection(port string) (SigSpec, bool) {
	for _, conn := range c.Connections {
		if conn.Port == port {
			return conn.Signal, true
		}
	}
	return nil, false
}

// Module is one design unit.
type Module struct {
	Name       string // escaped id
	Attributes map[string]string
	Params     map[string]string // declared parameter defaults, literal form
	Wires      map[string]*Wire  // keyed by escaped name
	Cells      []*Cell           // sorted by instance name at load time
	Ports      []string          // port wire names, sorted
	Blackbox   bool
}

// Design is a set of modules plus a designated top.
type Design struct {
	modules map[string]*Module
	order   []string
	topName string
}

// NewDesign creates an empty design. Used by the loader and by tests
// that build designs programmatically.
func NewDesign() *Design {
	return &Design{modules: make(map[string]*Module)}
}

// AddModule inserts a module, keeping deterministic iteration order.
func (d *Design) AddModule(m *Module) {
	if _, ok := d.modules[m.Name]; !ok {
		i := sort.SearchStrings(d.order, m.Name)
		d.order = append(d.order, "")
		copy(d.order[i+1:], d.order[i:])
		d.order[i] = m.Name
	}
	d.modules[m.Name] = m
}

// Modules returns all modules in sorted name order.
func (d *Design) Modules() []*Module {
	out := make([]*Module, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.modules[name])
	}
	return out
}

// Module looks a module up by escaped or unescaped name.
func (d *Design) Module(name string) *Module {
	if m, ok := d.modules[name]; ok {
		return m
	}
	return d.modules[EscapeID(name)]
}

// SetTop designates the top module explicitly.
func (d *Design) SetTop(name string) error {
	m := d.Module(name)
	if m == nil {
		return fmt.Errorf("top module %q not found", name)
	}
	d.topName = m.Name
	return nil
}

// Top returns the designated top module. Without an explicit SetTop or
// AutoTop it falls back to the module carrying the "top" attribute.
// Returns nil if no top can be determined.
func (d *Design) Top() *Module {
	if d.topName != "" {
		return d.modules[d.topName]
	}
	for _, name := range d.order {
		if d.modules[name].Attributes["top"] == "1" {
			d.topName = name
			return d.modules[name]
		}
	}
	return nil
}

// AutoTop picks the top module automatically: among modules no other
// module instantiates, the one with the deepest hierarchy wins. Name
// order breaks depth ties.
func (d *Design) AutoTop() error {
	instantiated := make(map[string]bool)
	for _, m := range d.Modules() {
		for _, c := range m.Cells {
			if d.Module(c.Type) != nil {
				instantiated[d.Module(c.Type).Name] = true
			}
		}
	}
	best := ""
	bestDepth := -1
	for _, name := range d.order {
		if instantiated[name] {
			continue
		}
		depth := d.depth(name, make(map[string]bool))
		if depth > bestDepth {
			best, bestDepth = name, depth
		}
	}
	if best == "" {
		return fmt.Errorf("no top module candidate found")
	}
	d.topName = best
	return nil
}

func (d *Design) depth(name string, visiting map[string]bool) int {
	m := d.modules[name]
	if m == nil || visiting[name] {
		return 0
	}
	visiting[name] = true
	defer delete(visiting, name)
	deepest := 0
	for _, c := range m.Cells {
		if sub := d.Module(c.Type); sub != nil {
			if sd := d.depth(sub.Name, visiting); sd > deepest {
				deepest = sd
			}
		}
	}
	return deepest + 1
}

// EscapeID converts a plain name into RTLIL escaped-id form. Generated
// names ('$' prefix) and already escaped names pass through unchanged.
func EscapeID(name string) string {
	if name == "" || name[0] == '\\' || name[0] == '$' {
		return name
	}
	return "\\" + name
}

// UnescapeID strips the leading backslash of an escaped id.
func UnescapeID(name string) string {
	return strings.TrimPrefix(name, "\\")
}
