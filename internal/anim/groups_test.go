package anim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/animstack/internal/model"
)

// writeMapping writes a YAML mapping to a temp file and returns its path.
func writeMapping(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "groups.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadGroupMapping verifies parsing preserves group order and member
// order.
func TestLoadGroupMapping(t *testing.T) {
	path := writeMapping(t, `groups:
  - name: Combo
    actions: [Walk, Shoot]
  - name: Finale
    actions:
      - Bow
`)

	mapping, err := LoadGroupMapping(path)
	require.NoError(t, err)
	require.Len(t, mapping.Groups, 2)
	assert.Equal(t, "Combo", mapping.Groups[0].Name)
	assert.Equal(t, []string{"Walk", "Shoot"}, mapping.Groups[0].Actions)
	assert.Equal(t, "Finale", mapping.Groups[1].Name)
}

// TestLoadGroupMapping_Missing verifies the missing-file exit code.
func TestLoadGroupMapping_Missing(t *testing.T) {
	_, err := LoadGroupMapping(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGroupMappingNotFound, cliErr.Code)
}

// TestLoadGroupMapping_Invalid verifies validation errors.
func TestLoadGroupMapping_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not yaml", "groups: [unclosed"},
		{"empty group name", "groups:\n  - name: \"\"\n    actions: [A]\n"},
		{"duplicate group name", "groups:\n  - name: Combo\n    actions: [A]\n  - name: Combo\n    actions: [B]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadGroupMapping(writeMapping(t, tt.content))
			require.Error(t, err)

			var cliErr *model.CLIError
			require.ErrorAs(t, err, &cliErr)
			assert.Equal(t, model.ExitGroupMappingNotFound, cliErr.Code)
		})
	}
}
