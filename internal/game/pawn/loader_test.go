package pawn_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder-games/psiforge/internal/game/pawn"
)

func writePawnFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pawns.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRoster_ValidFile(t *testing.T) {
	path := writePawnFile(t, `pawns:
  - id: 5b0f7e5e-8f4a-4c1d-9a9e-3d2b6c7f1a01
    name: Saoirse
    attributes:
      psychic_sensitivity: 5.0
  - id: 5b0f7e5e-8f4a-4c1d-9a9e-3d2b6c7f1a02
    name: Eamon
`)

	roster, err := pawn.LoadRoster(path)
	require.NoError(t, err)
	require.Equal(t, 2, roster.Len())

	id := uuid.MustParse("5b0f7e5e-8f4a-4c1d-9a9e-3d2b6c7f1a01")
	p, ok := roster.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Saoirse", p.Name)
	v, ok := p.Attribute(pawn.PsychicSensitivity)
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestLoadRoster_StableIDsAcrossLoads(t *testing.T) {
	path := writePawnFile(t, `pawns:
  - id: 5b0f7e5e-8f4a-4c1d-9a9e-3d2b6c7f1a01
    name: Saoirse
`)

	first, err := pawn.LoadRoster(path)
	require.NoError(t, err)
	second, err := pawn.LoadRoster(path)
	require.NoError(t, err)

	id := uuid.MustParse("5b0f7e5e-8f4a-4c1d-9a9e-3d2b6c7f1a01")
	_, ok := first.Get(id)
	assert.True(t, ok)
	_, ok = second.Get(id)
	assert.True(t, ok)
}

func TestLoadRoster_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "invalid id",
			content: `pawns:
  - id: not-a-uuid
    name: Saoirse
`,
			wantErr: "parsing id",
		},
		{
			name: "empty name",
			content: `pawns:
  - id: 5b0f7e5e-8f4a-4c1d-9a9e-3d2b6c7f1a01
    name: ""
`,
			wantErr: "name must not be empty",
		},
		{
			name: "duplicate id",
			content: `pawns:
  - id: 5b0f7e5e-8f4a-4c1d-9a9e-3d2b6c7f1a01
    name: Saoirse
  - id: 5b0f7e5e-8f4a-4c1d-9a9e-3d2b6c7f1a01
    name: Eamon
`,
			wantErr: "duplicate pawn id",
		},
		{
			name: "unknown attribute",
			content: `pawns:
  - id: 5b0f7e5e-8f4a-4c1d-9a9e-3d2b6c7f1a01
    name: Saoirse
    attributes:
      charisma: 3.0
`,
			wantErr: `unknown attribute kind "charisma"`,
		},
		{
			name: "unknown field",
			content: `pawns:
  - id: 5b0f7e5e-8f4a-4c1d-9a9e-3d2b6c7f1a01
    name: Saoirse
    faction: red
`,
			wantErr: "parsing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pawn.LoadRoster(writePawnFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRoster_MissingFile_Error(t *testing.T) {
	_, err := pawn.LoadRoster(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRoster_ShippedContent(t *testing.T) {
	roster, err := pawn.LoadRoster(filepath.Join("..", "..", "..", "content", "pawns.yaml"))
	require.NoError(t, err)
	assert.NotZero(t, roster.Len())
}

func TestParseAttribute_Known(t *testing.T) {
	k, err := pawn.ParseAttribute("psychic_sensitivity")
	require.NoError(t, err)
	assert.Equal(t, pawn.PsychicSensitivity, k)
}
