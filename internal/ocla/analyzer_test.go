package ocla

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raptor-eda/ocla/internal/netlist"
)

// buildDebugDesign constructs a NATIVE two-core design the way Yosys
// would present it: top -> debug_wrapper -> ocla_debug_subsystem, with
// the subsystem instantiating both parametrized core modules. Core 0
// owns probes 1 and 2 (widths 4 and 8), core 1 owns probe 3 (width 2).
func buildDebugDesign(t *testing.T) *netlist.Design {
	t.Helper()

	coreParams := func(index, noProbes uint32) map[string]string {
		return map[string]string{
			`\IP_TYPE`:              `"OCLA"`,
			`\IP_VERSION`:           "1",
			`\IP_ID`:                "1",
			`\AXI_ADDR_WIDTH`:       "32",
			`\AXI_DATA_WIDTH`:       "32",
			`\MEM_DEPTH`:            "1024",
			`\NO_OF_PROBES`:         EncodeUintLiteral(uint64(noProbes)),
			`\NO_OF_TRIGGER_INPUTS`: "4",
			`\INDEX`:                EncodeUintLiteral(uint64(index)),
		}
	}

	subParams := map[string]string{
		`\IP_TYPE`:      `"OCLA"`,
		`\IP_VERSION`:   "1",
		`\IP_ID`:        "1",
		`\MODE`:         `"NATIVE"`,
		`\AXI_TYPE`:     `"NONE"`,
		`\NO_AXI_BUS`:   "0",
		`\CORES`:        "2",
		`\NO_OF_PROBES`: "3",
		`\Total_Probes`: "14",
	}
	widths := map[int]uint64{1: 4, 2: 8, 3: 2}
	packed := map[int]uint64{1: 0x21, 2: 0x3}
	base := map[int]uint64{1: 0x1000, 2: 0x2000}
	for i := 1; i <= MaxInterfaces; i++ {
		subParams[fmt.Sprintf(`\Probe%d`, i)] = EncodeUintLiteral(widths[i])
		subParams[fmt.Sprintf(`\IF%d_BaseAddress`, i)] = EncodeUintLiteral(base[i])
		subParams[fmt.Sprintf(`\IF%d_Probes`, i)] = EncodeUintLiteral(packed[i])
	}

	sigA := &netlist.Wire{Name: `\sig_a`, Width: 4}
	busB := &netlist.Wire{Name: `\bus_b`, Width: 8}
	pair := &netlist.Wire{Name: `\pair`, Width: 2}

	d := netlist.NewDesign()
	d.AddModule(&netlist.Module{
		Name:  `\top`,
		Wires: map[string]*netlist.Wire{sigA.Name: sigA, busB.Name: busB, pair.Name: pair},
		Cells: []*netlist.Cell{{
			Name: `\u_dbg`,
			Type: `\debug_wrapper`,
			Connections: []netlist.Connection{
				{Port: `\probe_1`, Signal: netlist.SigSpec{{Wire: sigA, Width: 4}}},
				{Port: `\probe_2`, Signal: netlist.SigSpec{{Wire: busB, Width: 8}}},
				{Port: `\probe_3`, Signal: netlist.SigSpec{{Wire: pair, Width: 2}}},
			},
		}},
	})
	d.AddModule(&netlist.Module{
		Name:  `\debug_wrapper`,
		Cells: []*netlist.Cell{{Name: `\u_subsys`, Type: `\ocla_debug_subsystem`}},
	})
	d.AddModule(&netlist.Module{
		Name:   `\ocla_debug_subsystem`,
		Params: subParams,
		Cells: []*netlist.Cell{
			{Name: `\u_ocla0`, Type: `$paramod$7ac3\ocla`},
			{Name: `\u_ocla1`, Type: `$paramod$91be\ocla`},
		},
	})
	d.AddModule(&netlist.Module{Name: `$paramod$7ac3\ocla`, Params: coreParams(0, 12)})
	d.AddModule(&netlist.Module{Name: `$paramod$91be\ocla`, Params: coreParams(1, 2)})
	require.NoError(t, d.SetTop(`\top`))
	return d
}

func TestAnalyzerRun(t *testing.T) {
	d := buildDebugDesign(t)
	res, err := New(d, Config{}).Run()
	require.NoError(t, err)
	require.Equal(t, 2, res.SuccessCount)

	msgs := res.Messages
	require.NotEmpty(t, msgs)
	assert.Equal(t, "Start of OCLA Analysis", msgs[0])
	assert.Equal(t, "End of OCLA Analysis", msgs[len(msgs)-1])
	for _, want := range []string{
		"Qualified as OCLA module",
		"Qualified as OCLA Debug Subsystem module",
		"Sanity Check",
		`OCLA Debug Subsystem Instantiator: \debug_wrapper`,
		`Run command: blackbox \debug_wrapper`,
		"Run command: flatten",
	} {
		found := false
		for _, m := range msgs {
			if m == want || len(m) > len(want) && m[len(m)-len(want):] == want {
				found = true
				break
			}
		}
		assert.True(t, found, "missing message %q", want)
	}
}

func TestAnalyzerDocument(t *testing.T) {
	d := buildDebugDesign(t)
	res, err := New(d, Config{}).Run()
	require.NoError(t, err)
	require.Equal(t, 2, res.SuccessCount)

	raw, err := res.MarshalCanonical()
	require.NoError(t, err)

	var doc struct {
		Messages []string `json:"messages"`
		Ocla     []struct {
			Index       uint32   `json:"INDEX"`
			NoProbes    uint32   `json:"NO_OF_PROBES"`
			Addr        uint32   `json:"addr"`
			Probes      []string `json:"probes"`
			ProbeRanges []struct {
				Index  uint32 `json:"index"`
				Offset uint32 `json:"offset"`
				Width  uint32 `json:"width"`
			} `json:"probe_ranges"`
		} `json:"ocla"`
		Subsystem map[string]any `json:"ocla_debug_subsystem"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	require.Len(t, doc.Ocla, 2)
	assert.NotEmpty(t, doc.Messages)

	c0 := doc.Ocla[0]
	assert.Equal(t, uint32(0), c0.Index)
	assert.Equal(t, uint32(12), c0.NoProbes)
	assert.Equal(t, uint32(0x1000), c0.Addr)
	assert.Equal(t, []string{"sig_a[3:0]", "bus_b[7:0]"}, c0.Probes)
	require.Len(t, c0.ProbeRanges, 2)
	assert.Equal(t, uint32(1), c0.ProbeRanges[0].Index)
	assert.Equal(t, uint32(0), c0.ProbeRanges[0].Offset)
	assert.Equal(t, uint32(4), c0.ProbeRanges[0].Width)
	assert.Equal(t, uint32(2), c0.ProbeRanges[1].Index)
	assert.Equal(t, uint32(4), c0.ProbeRanges[1].Offset)
	assert.Equal(t, uint32(8), c0.ProbeRanges[1].Width)

	c1 := doc.Ocla[1]
	assert.Equal(t, uint32(1), c1.Index)
	assert.Equal(t, uint32(0x2000), c1.Addr)
	assert.Equal(t, []string{"pair[1:0]"}, c1.Probes)

	assert.Equal(t, "NATIVE", doc.Subsystem["MODE"])
	assert.Equal(t, "NONE", doc.Subsystem["AXI_TYPE"])
}

func TestAnalyzerSanityFailEmitsNoSections(t *testing.T) {
	d := buildDebugDesign(t)
	sub := d.Module(`\ocla_debug_subsystem`)
	require.NotNil(t, sub)
	sub.Params[`\Total_Probes`] = "99"

	res, err := New(d, Config{}).Run()
	require.NoError(t, err)
	assert.Equal(t, 0, res.SuccessCount)

	found := false
	for _, m := range res.Messages {
		if m == "Error: Sanity check fail" {
			found = true
		}
	}
	assert.True(t, found)

	doc := res.Document()
	assert.Contains(t, doc, "messages")
	assert.NotContains(t, doc, "ocla")
	assert.NotContains(t, doc, "ocla_debug_subsystem")
}

func TestAnalyzerRejectsSecondSubsystemInstance(t *testing.T) {
	d := buildDebugDesign(t)
	wrap := d.Module(`\debug_wrapper`)
	require.NotNil(t, wrap)
	wrap.Cells = append(wrap.Cells, &netlist.Cell{Name: `\u_subsys2`, Type: `\ocla_debug_subsystem`})

	res, err := New(d, Config{}).Run()
	require.NoError(t, err)
	assert.Equal(t, 0, res.SuccessCount)

	found := false
	for _, m := range res.Messages {
		if m == "Error: Currently only support one OCLA Debug Subsystem instance in a design" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyzerRequiresTop(t *testing.T) {
	d := netlist.NewDesign()
	d.AddModule(&netlist.Module{Name: `\orphan`})

	_, err := New(d, Config{}).Run()
	require.Error(t, err)
}

func TestAnalyzerNoCandidates(t *testing.T) {
	d := netlist.NewDesign()
	d.AddModule(&netlist.Module{Name: `\top`})
	require.NoError(t, d.SetTop(`\top`))

	res, err := New(d, Config{}).Run()
	require.NoError(t, err)
	assert.Equal(t, 0, res.SuccessCount)

	found := false
	for _, m := range res.Messages {
		if m == "Warning: OCLA module count=0, OCLA Debug Subsystem module count=0" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResultDocumentGolden(t *testing.T) {
	res := &Result{
		Messages: []string{
			"Start of OCLA Analysis",
			`Detected Potential OCLA: $paramod$7ac3\ocla`,
			"Warning: OCLA module count=1, OCLA Debug Subsystem module count=0",
			"End of OCLA Analysis",
		},
	}
	raw, err := res.MarshalCanonical()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "messages_only", raw)
}
