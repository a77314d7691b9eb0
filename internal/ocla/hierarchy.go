package ocla

import (
	"strings"

	"github.com/raptor-eda/ocla/internal/netlist"
)

// hierarchyPath is the proof that exactly one instantiation chain leads
// from the subsystem module up to the design top.
type hierarchyPath struct {
	Instantiator string // module instantiating the subsystem directly
	Chain        string // instance names, nearest instantiation first
}

// resolveUniquePath walks the instantiation graph upward from
// moduleName. At every level exactly one module may instantiate the
// current target, and the top module must be reached after at least two
// levels; anything else fails, including a cyclic instantiation graph.
// More than one live subsystem instance anywhere in the hierarchy is
// rejected outright.
func resolveUniquePath(d *netlist.Design, moduleName string, r *Report) (hierarchyPath, bool) {
	top := d.Top()
	r.Postf(0, "Check uniqueness of OCLA Debug Subsystem")

	var path hierarchyPath
	level := 0
	target := moduleName
	visited := map[string]bool{target: true}
	for {
		r.Postf(1, "Module: %s", target)
		var parents []string
		for _, m := range d.Modules() {
			for _, cell := range m.Cells {
				if cell.Type != target {
					continue
				}
				r.Postf(2, "Instantiated by %s as %s", m.Name, cell.Name)
				parents = append(parents, m.Name)
				if level > 0 {
					if path.Chain != "" {
						path.Chain = cell.Name + "." + strings.TrimPrefix(path.Chain, "\\")
					} else {
						path.Chain = cell.Name
					}
				}
			}
		}
		level++
		if len(parents) != 1 {
			return hierarchyPath{}, false
		}
		target = parents[0]
		if visited[target] {
			r.Postf(2, "Error: Instantiation loop detected at %s", target)
			return hierarchyPath{}, false
		}
		visited[target] = true
		if target == top.Name {
			r.Postf(3, "This is top module")
			if level < 2 {
				r.Postf(3, "Hierarchy level for OCLA Debug Subsystem is out of expectation")
				return hierarchyPath{}, false
			}
			r.Postf(3, "Connection chain for OCLA Debug Subsystem: %s", path.Chain)
			break
		}
		if level == 1 {
			path.Instantiator = target
		}
	}
	if path.Instantiator != "" {
		r.Postf(1, "OCLA Debug Subsystem Instantiator: %s", path.Instantiator)
	}
	return path, true
}
