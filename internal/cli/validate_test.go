package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", fixtureNetlist)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")
}

func TestValidateCommandJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", fixtureNetlist)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 5, resp.Data.Modules)
}

func TestValidateCommandSchemaError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"modules": 42}`), 0o644))

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeSchema)
}

func TestValidateCommandMissingFile(t *testing.T) {
	_, err := execute(t, "validate", "no/such/file.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
