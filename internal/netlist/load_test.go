package netlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyNetlist = `{
  "creator": "Yosys",
  "modules": {
    "top": {
      "attributes": {"top": 1},
      "ports": {
        "clk": {"direction": "input", "bits": [2]},
        "out": {"direction": "output", "bits": [3, 4]}
      },
      "cells": {
        "u1": {
          "type": "child",
          "parameters": {"WIDTH": 2, "MODE": "FAST "},
          "connections": {
            "clk": [2],
            "q": [3, 4],
            "init": ["0", "1"]
          }
        }
      },
      "netnames": {
        "clk": {"bits": [2]},
        "out": {"bits": [3, 4]}
      }
    },
    "child": {
      "parameter_default_values": {"WIDTH": 1, "MODE": "SLOW ", "SEED": "0101"},
      "ports": {
        "clk": {"direction": "input", "bits": [2]},
        "q": {"direction": "output", "bits": [3, 4]},
        "init": {"direction": "input", "bits": [5, 6]}
      },
      "cells": {},
      "netnames": {
        "clk": {"bits": [2]},
        "q": {"bits": [3, 4]},
        "init": {"bits": [5, 6]}
      }
    }
  }
}`

func TestParse_Basic(t *testing.T) {
	d, err := Parse("tiny.json", []byte(tinyNetlist))
	require.NoError(t, err)

	top := d.Module("top")
	require.NotNil(t, top)
	assert.Equal(t, `\top`, top.Name)
	assert.Equal(t, top, d.Top(), "top attribute should designate the top module")

	child := d.Module("child")
	require.NotNil(t, child)
	assert.Equal(t, "1", child.Params[`\WIDTH`])
	assert.Equal(t, `"SLOW"`, child.Params[`\MODE`], "trailing space marks a string value")
	assert.Equal(t, `4'0101`, child.Params[`\SEED`], "binary digit string becomes a sized literal")

	require.Len(t, top.Cells, 1)
	cell := top.Cells[0]
	assert.Equal(t, `\u1`, cell.Name)
	assert.Equal(t, `\child`, cell.Type)
	assert.Equal(t, "2", cell.Parameters[`\WIDTH`])
}

func TestParse_ConnectionChunks(t *testing.T) {
	d, err := Parse("tiny.json", []byte(tinyNetlist))
	require.NoError(t, err)

	cell := d.Module("top").Cells[0]

	q, ok := cell.Connection(`\q`)
	require.True(t, ok)
	require.Len(t, q, 1, "consecutive bits of one wire collapse to one chunk")
	assert.Equal(t, `\out`, q[0].Wire.Name)
	assert.Equal(t, 0, q[0].Offset)
	assert.Equal(t, 2, q[0].Width)

	init, ok := cell.Connection(`\init`)
	require.True(t, ok)
	require.Len(t, init, 1)
	assert.True(t, init[0].IsConst())
	assert.Equal(t, "10", init[0].Bits, "constant run is stored most significant bit first")
}

func TestParse_SchemaRejection(t *testing.T) {
	_, err := Parse("bad.json", []byte(`{"modules": 42}`))
	require.Error(t, err)
	assert.True(t, IsSchemaError(err), "non-object modules value must be a schema error: %v", err)
}

func TestParse_RejectsUnknownNetID(t *testing.T) {
	bad := `{"modules": {"m": {
	  "cells": {"c": {"type": "t", "connections": {"p": [99]}}},
	  "netnames": {}
	}}}`
	_, err := Parse("bad.json", []byte(bad))
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeBadRef, le.Code)
}

func TestParse_ScatteredBitsMakeMultipleChunks(t *testing.T) {
	nl := `{"modules": {"m": {
	  "cells": {"c": {"type": "t", "connections": {"p": [2, 4, 3]}}},
	  "netnames": {
	    "a": {"bits": [2, 3]},
	    "b": {"bits": [4]}
	  }
	}}}`
	d, err := Parse("m.json", []byte(nl))
	require.NoError(t, err)
	sig, ok := d.Module("m").Cells[0].Connection(`\p`)
	require.True(t, ok)
	// LSB first was a[0], b[0], a[1] so three chunks, MSB chunk first.
	require.Len(t, sig, 3)
	assert.Equal(t, `\a`, sig[0].Wire.Name)
	assert.Equal(t, 1, sig[0].Offset)
	assert.Equal(t, `\b`, sig[1].Wire.Name)
	assert.Equal(t, `\a`, sig[2].Wire.Name)
	assert.Equal(t, 0, sig[2].Offset)
	assert.Equal(t, 3, sig.Width())
}
