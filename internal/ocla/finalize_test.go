package ocla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raptor-eda/ocla/internal/netlist"
)

func TestFinalizeCleanSplit(t *testing.T) {
	sub := nativeSubsystem(1, 2)
	sub.ProbeWidth = [MaxInterfaces]uint32{4, 8}
	c := &CoreInstance{ProbesCount: 12, ProbeOrder: []uint32{0, 1}}
	c.Probes = []SignalFragment{
		newSignalFragment(`\a`, 4, 0, true),
		newSignalFragment(`\b_hi`, 3, 0, true),
		newSignalFragment(`\b_lo`, 5, 0, true),
	}
	assert.True(t, c.finalize(sub, NewReport()))
}

func TestFinalizeWidthMismatch(t *testing.T) {
	sub := nativeSubsystem(1, 1)
	sub.ProbeWidth[0] = 4
	c := &CoreInstance{ProbesCount: 4, ProbeOrder: []uint32{0}}
	c.Probes = []SignalFragment{newSignalFragment(`\a`, 3, 0, true)}

	r := NewReport()
	assert.False(t, c.finalize(sub, r))
	assert.True(t, r.Contains("Error: Probe width mismatch, got 3 bits but expect 4 bits"))
}

func TestFinalizeBoundaryStraddle(t *testing.T) {
	sub := nativeSubsystem(1, 2)
	sub.ProbeWidth = [MaxInterfaces]uint32{4, 8}
	c := &CoreInstance{ProbesCount: 12, ProbeOrder: []uint32{0, 1}}
	c.Probes = []SignalFragment{
		newSignalFragment(`\wide`, 6, 0, true),
		newSignalFragment(`\rest`, 6, 0, true),
	}

	r := NewReport()
	assert.False(t, c.finalize(sub, r))
	assert.True(t, r.Contains("crosses the boundary of Probe 1"))
}

func TestFinalizeBridgeSkipsProbeWalk(t *testing.T) {
	sub := &DebugSubsystem{Mode: ModeNativeAxi, AxiType: AxiLite, NoAxiBus: 1, Cores: 2}
	c := &CoreInstance{ProbesCount: 152, IsAxiBridge: true}
	c.Probes = axiBridgeFragments(AxiLite, 1)
	assert.True(t, c.finalize(sub, NewReport()))
}

func TestResolveSignalsMissingConnection(t *testing.T) {
	sub := nativeSubsystem(1, 1)
	sub.ProbeWidth[0] = 4
	core := &CoreInstance{IPCandidate: IPCandidate{ModuleName: `$paramod$1\ocla`}, ProbesCount: 4, ProbeOrder: []uint32{0}}

	top := &netlist.Module{
		Name:  `\top`,
		Cells: []*netlist.Cell{{Name: `\u_dbg`, Type: `\debug_wrapper`}},
	}

	r := NewReport()
	ok := resolveSignals(top, sub, []*CoreInstance{core}, `\debug_wrapper`, r)
	require.False(t, ok)
	assert.True(t, r.Contains(`Error: Missing connection \probe_1`))
}

func TestResolveSignalsDuplicateInstantiation(t *testing.T) {
	sub := nativeSubsystem(1, 1)
	sub.ProbeWidth[0] = 1
	core := &CoreInstance{IPCandidate: IPCandidate{ModuleName: `$paramod$1\ocla`}, ProbesCount: 1, ProbeOrder: []uint32{0}}

	sig := &netlist.Wire{Name: `\sig`, Width: 1}
	conn := []netlist.Connection{{Port: `\probe_1`, Signal: netlist.SigSpec{{Wire: sig, Width: 1}}}}
	top := &netlist.Module{
		Name: `\top`,
		Cells: []*netlist.Cell{
			{Name: `\u_dbg_a`, Type: `\debug_wrapper`, Connections: conn},
			{Name: `\u_dbg_b`, Type: `\debug_wrapper`, Connections: conn},
		},
	}

	r := NewReport()
	ok := resolveSignals(top, sub, []*CoreInstance{core}, `\debug_wrapper`, r)
	require.False(t, ok)
	assert.True(t, r.Contains("Error: Duplicated connection"))
}
