package ocla

import (
	"fmt"
	"strings"

	"github.com/raptor-eda/ocla/internal/netlist"
)

// resolveSignals records the real probe fragments of every core. Runs
// only after the caller blackboxed the subsystem instantiator and
// flattened the design: the instantiator then survives as a cell of the
// top module and its probe_{n} connections carry the flattened user
// signals. The AXI bridge core consults no connections; its fragments
// come from the fixed bus signal tables.
func resolveSignals(top *netlist.Module, sub *DebugSubsystem, cores []*CoreInstance, instantiatorType string, r *Report) bool {
	r.Postf(0, "Retrieve OCLA signals from instantiator: %s", instantiatorType)
	status := true
	for _, cell := range top.Cells {
		if cell.Type != instantiatorType {
			continue
		}
		r.Postf(1, "Instantiated as %s", cell.Name)
		for _, c := range cores {
			if c.IsAxiBridge {
				continue
			}
			if len(c.Probes) != 0 {
				r.Postf(2, "Error: Duplicated connection")
				status = false
				continue
			}
			// Reverse declaration order; prepending keeps the final
			// stream in ProbeOrder with each connection MSB first.
			for i := len(c.ProbeOrder) - 1; i >= 0; i-- {
				p := c.ProbeOrder[i]
				connName := fmt.Sprintf(`\probe_%d`, p+1)
				r.Postf(2, "Potential Probe Connection: %s", connName)
				sig, found := cell.Connection(connName)
				if !found {
					r.Postf(3, "Error: Missing connection %s", connName)
					status = false
					continue
				}
				frags := fragmentsFromSignal(sig)
				if len(frags) == 0 {
					r.Postf(3, "Fail to parse connection %s", connName)
					status = false
					continue
				}
				r.Postf(3, "Connected to %s", renderFragments(frags))
				c.Probes = append(frags, c.Probes...)
			}
		}
	}
	for _, c := range cores {
		if c.IsAxiBridge {
			c.Probes = axiBridgeFragments(sub.AxiType, sub.NoAxiBus)
		}
		if len(c.Probes) == 0 {
			r.Postf(2, "Module %s (INDEX=%d) failed to get probe signals", c.ModuleName, c.Index)
			status = false
		}
	}
	return status
}

func renderFragments(frags []SignalFragment) string {
	if len(frags) == 1 {
		return frags[0].FullName
	}
	parts := make([]string, len(frags))
	for i, f := range frags {
		parts[i] = f.FullName
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
