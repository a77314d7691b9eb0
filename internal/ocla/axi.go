package ocla

import "fmt"

// axiSignal is one entry of the fixed per-bus bridge signal tables.
type axiSignal struct {
	Name  string
	Width uint32
}

// axiLiteSignals is the fixed AXI4-Lite per-bus signal set, 152 bits.
// Order and widths are wire-format compatible with the bridge IP and
// must not change.
var axiLiteSignals = []axiSignal{
	{"AWADDR", 32}, {"AWPROT", 3}, {"AWVALID", 1}, {"AWREADY", 1},
	{"WDATA", 32}, {"WSTRB", 4}, {"WVALID", 1}, {"WREADY", 1},
	{"BRESP", 2}, {"BVALID", 1}, {"BREADY", 1},
	{"ARADDR", 32}, {"ARPROT", 3}, {"ARVALID", 1}, {"ARREADY", 1},
	{"RDATA", 32}, {"RRESP", 2}, {"RVALID", 1}, {"RREADY", 1},
}

// axi4Signals is the fixed full AXI4 per-bus signal set, 250 bits: the
// AXI4-Lite set plus burst, id, cache, region, user, qos, lock and last
// fields on both channels.
var axi4Signals = []axiSignal{
	{"AWID", 16}, {"AWADDR", 32}, {"AWLEN", 8}, {"AWSIZE", 3}, {"AWBURST", 2},
	{"AWLOCK", 1}, {"AWCACHE", 4}, {"AWPROT", 3}, {"AWQOS", 4}, {"AWREGION", 4},
	{"AWUSER", 6}, {"AWVALID", 1}, {"AWREADY", 1},
	{"WDATA", 32}, {"WSTRB", 4}, {"WLAST", 1}, {"WVALID", 1}, {"WREADY", 1},
	{"BRESP", 2}, {"BVALID", 1}, {"BREADY", 1},
	{"ARID", 16}, {"ARADDR", 32}, {"ARLEN", 8}, {"ARSIZE", 3}, {"ARBURST", 2},
	{"ARLOCK", 1}, {"ARCACHE", 4}, {"ARPROT", 3}, {"ARQOS", 4}, {"ARREGION", 4},
	{"ARUSER", 6}, {"ARVALID", 1}, {"ARREADY", 1},
	{"RDATA", 32}, {"RRESP", 2}, {"RLAST", 1}, {"RVALID", 1}, {"RREADY", 1},
}

// axiSignalTable selects the per-bus signal set for a bridge type.
func axiSignalTable(t AxiType) []axiSignal {
	if t == Axi4 {
		return axi4Signals
	}
	return axiLiteSignals
}

// axiBusWidth is the per-bus probe bit count of a bridge type.
func axiBusWidth(t AxiType) uint32 {
	if t == AxiNone {
		return 0
	}
	var sum uint32
	for _, s := range axiSignalTable(t) {
		sum += s.Width
	}
	return sum
}

// axiBridgeFragments synthesizes the bridge core's probe fragments:
// the fixed table repeated once per bus, names numbered only when more
// than one bus is present.
func axiBridgeFragments(t AxiType, noAxiBus uint32) []SignalFragment {
	table := axiSignalTable(t)
	out := make([]SignalFragment, 0, int(noAxiBus)*len(table))
	for bus := uint32(1); bus <= noAxiBus; bus++ {
		for _, s := range table {
			name := s.Name
			if noAxiBus > 1 {
				name = fmt.Sprintf("%s_%d", s.Name, bus)
			}
			out = append(out, newSignalFragment(name, s.Width, 0, false))
		}
	}
	return out
}
