package netlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildHierarchy makes top -> wrapper -> leaf with a 2-bit signal routed
// from top through the wrapper into the leaf's "probe_1" port.
func buildHierarchy() *Design {
	d := NewDesign()

	leafIn := &Wire{Name: `\probe_1`, Width: 2}
	leaf := &Module{
		Name:       `\leaf`,
		Attributes: map[string]string{},
		Params:     map[string]string{},
		Wires:      map[string]*Wire{`\probe_1`: leafIn},
		Ports:      []string{`\probe_1`},
	}

	wrapIn := &Wire{Name: `\sig`, Width: 2}
	wrapper := &Module{
		Name:       `\wrapper`,
		Attributes: map[string]string{},
		Params:     map[string]string{},
		Wires:      map[string]*Wire{`\sig`: wrapIn},
		Ports:      []string{`\sig`},
		Cells: []*Cell{{
			Name: `\u_leaf`,
			Type: `\leaf`,
			Connections: []Connection{
				{Port: `\probe_1`, Signal: SigSpec{{Wire: wrapIn, Offset: 0, Width: 2}}},
			},
		}},
	}

	topSig := &Wire{Name: `\data`, Width: 2}
	top := &Module{
		Name:       `\top`,
		Attributes: map[string]string{"top": "1"},
		Params:     map[string]string{},
		Wires:      map[string]*Wire{`\data`: topSig},
		Cells: []*Cell{{
			Name: `\u_wrap`,
			Type: `\wrapper`,
			Connections: []Connection{
				{Port: `\sig`, Signal: SigSpec{{Wire: topSig, Offset: 0, Width: 2}}},
			},
		}},
	}

	d.AddModule(leaf)
	d.AddModule(wrapper)
	d.AddModule(top)
	return d
}

func TestFlatten_InlinesHierarchy(t *testing.T) {
	d := buildHierarchy()
	require.NoError(t, d.Flatten())

	top := d.Top()
	require.Len(t, top.Cells, 0, "leaf has no body, everything inlines away")
}

func TestFlatten_BlackboxedCellSurvivesWithRewrittenConnections(t *testing.T) {
	d := buildHierarchy()
	require.NoError(t, d.Blackbox(`\leaf`))
	require.NoError(t, d.Flatten())

	top := d.Top()
	require.Len(t, top.Cells, 1)
	cell := top.Cells[0]
	assert.Equal(t, `\leaf`, cell.Type)
	assert.Equal(t, `\u_wrap.u_leaf`, cell.Name)

	sig, ok := cell.Connection(`\probe_1`)
	require.True(t, ok)
	require.Len(t, sig, 1)
	assert.Equal(t, `\data`, sig[0].Wire.Name, "connection must be rewritten to the top-level wire")
	assert.Equal(t, 2, sig[0].Width)
}

func TestFlatten_RequiresTop(t *testing.T) {
	d := NewDesign()
	d.AddModule(&Module{Name: `\m`, Wires: map[string]*Wire{}})
	assert.Error(t, d.Flatten())
}

func TestBlackbox_UnknownModule(t *testing.T) {
	d := NewDesign()
	assert.Error(t, d.Blackbox("nope"))
}

func TestAutoTop_PicksDeepestRoot(t *testing.T) {
	d := buildHierarchy()
	// A floating single-level module must lose to the 3-level chain.
	d.AddModule(&Module{Name: `\island`, Wires: map[string]*Wire{}})
	require.NoError(t, d.AutoTop())
	assert.Equal(t, `\top`, d.Top().Name)
}
