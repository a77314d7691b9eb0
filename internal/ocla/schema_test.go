package ocla

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUintLiteral(t *testing.T) {
	tests := []struct {
		name    string
		lit     string
		maxBits int
		want    uint64
		wantErr bool
	}{
		{name: "decimal", lit: "42", maxBits: 32, want: 42},
		{name: "decimal zero", lit: "0", maxBits: 32, want: 0},
		{name: "sized binary", lit: "4'0101", maxBits: 32, want: 5},
		{name: "sized binary 64", lit: "8'11111111", maxBits: 64, want: 255},
		{name: "size and digits disagree", lit: "4'01", maxBits: 32, wantErr: true},
		{name: "size above max", lit: "33'" + strings.Repeat("0", 33), maxBits: 32, wantErr: true},
		{name: "x digit", lit: "4'01x1", maxBits: 32, wantErr: true},
		{name: "decimal overflow", lit: "4294967296", maxBits: 32, wantErr: true},
		{name: "negative", lit: "-1", maxBits: 32, wantErr: true},
		{name: "empty", lit: "", maxBits: 32, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeUintLiteral(tt.lit, tt.maxBits)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUintLiteralRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 5, 0x1000, 1<<32 - 1} {
		got, err := DecodeUintLiteral(EncodeUintLiteral(v), 64)
		require.NoError(t, err)
		assert.Equal(t, v, got)

		got, err = DecodeUintLiteral(EncodeSizedBinary(v, 32), 32)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestStringLiteralRoundTrip(t *testing.T) {
	s, err := DecodeStringLiteral(`"OCLA"`)
	require.NoError(t, err)
	assert.Equal(t, "OCLA", s)
	assert.Equal(t, `"OCLA"`, EncodeStringLiteral("OCLA"))

	_, err = DecodeStringLiteral("OCLA")
	require.Error(t, err)
}

func TestParamTableSet(t *testing.T) {
	r := NewReport()
	tab := newParamTable()
	tab.declare(`\IP_TYPE`, ParamStr)
	tab.declare(`\INDEX`, ParamUInt32)
	tab.declare(`\IF1_Probes`, ParamUInt64)

	require.True(t, tab.set(r, `\IP_TYPE`, `"OCLA"`))
	require.True(t, tab.set(r, `\INDEX`, "3"))
	require.True(t, tab.set(r, `\IF1_Probes`, "64'0000000000000000000000000000000000000000000000000000000000100001"))

	assert.Equal(t, "OCLA", tab.str(`\IP_TYPE`))
	assert.Equal(t, uint32(3), tab.u32(`\INDEX`))
	assert.Equal(t, uint64(0x21), tab.u64(`\IF1_Probes`))
	assert.True(t, tab.checkAllAssigned(r))
}

func TestParamTableSetRejectsReassignment(t *testing.T) {
	r := NewReport()
	tab := newParamTable()
	tab.declare(`\INDEX`, ParamUInt32)

	require.True(t, tab.set(r, `\INDEX`, "1"))
	require.False(t, tab.set(r, `\INDEX`, "2"))
	assert.True(t, r.Contains("Error: Param \\INDEX had been assigned"))
}

func TestParamTableIgnoresUnknownNames(t *testing.T) {
	r := NewReport()
	tab := newParamTable()
	tab.declare(`\INDEX`, ParamUInt32)

	require.True(t, tab.set(r, `\VENDOR`, `"unknown"`))
	assert.True(t, r.Contains("Ignore param \\VENDOR"))
}

func TestParamTableMissingAssignment(t *testing.T) {
	r := NewReport()
	tab := newParamTable()
	tab.declare(`\INDEX`, ParamUInt32)
	tab.declare(`\MEM_DEPTH`, ParamUInt32)

	require.True(t, tab.set(r, `\INDEX`, "0"))
	assert.False(t, tab.checkAllAssigned(r))
	assert.True(t, r.Contains("Error: missing parameter \\MEM_DEPTH"))
}
