package ability_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder-games/psiforge/internal/game/ability"
)

func writeAbilityFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

const inspirationYAML = `id: inspiration
name: Psychic Inspiration
description: Heightened focus from a nearby psion.
duration_ticks: 2500
refresh_interval_ticks: 300
rules:
  - stat: work_speed
    kind: linear
    base: 0.10
    per_unit: 0.10
    max: 2.0
`

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := ability.NewRegistry()
	def := validDef()
	reg.Register(def)

	got, ok := reg.Get("inspiration")
	require.True(t, ok)
	assert.Same(t, def, got)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_Register_OverwritesSameID(t *testing.T) {
	reg := ability.NewRegistry()
	reg.Register(validDef())

	replacement := validDef()
	replacement.Name = "Renamed"
	reg.Register(replacement)

	got, _ := reg.Get("inspiration")
	assert.Equal(t, "Renamed", got.Name)
	assert.Len(t, reg.All(), 1)
}

func TestLoadDirectory_ValidFile(t *testing.T) {
	dir := t.TempDir()
	writeAbilityFile(t, dir, "inspiration.yaml", inspirationYAML)

	reg, err := ability.LoadDirectory(dir)
	require.NoError(t, err)

	def, ok := reg.Get("inspiration")
	require.True(t, ok)
	assert.Equal(t, "Psychic Inspiration", def.Name)
	assert.Equal(t, int64(2500), def.DurationTicks)
	require.Len(t, def.Rules, 1)
	assert.Equal(t, ability.RuleLinear, def.Rules[0].Kind)
}

func TestLoadDirectory_UnknownField_Rejected(t *testing.T) {
	dir := t.TempDir()
	writeAbilityFile(t, dir, "bad.yaml", inspirationYAML+"unexpected_field: true\n")

	_, err := ability.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_InvalidDefinition_Rejected(t *testing.T) {
	dir := t.TempDir()
	writeAbilityFile(t, dir, "bad.yaml", `id: broken
name: Broken
duration_ticks: 0
refresh_interval_ticks: 300
rules:
  - stat: work_speed
    kind: linear
`)

	_, err := ability.LoadDirectory(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration_ticks")
}

func TestLoadDirectory_IgnoresNonYAML(t *testing.T) {
	dir := t.TempDir()
	writeAbilityFile(t, dir, "inspiration.yaml", inspirationYAML)
	writeAbilityFile(t, dir, "notes.txt", "not yaml")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	reg, err := ability.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, reg.All(), 1)
}

func TestLoadDirectory_MissingDir_Error(t *testing.T) {
	_, err := ability.LoadDirectory(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadDirectory_ShippedContent(t *testing.T) {
	reg, err := ability.LoadDirectory(filepath.Join("..", "..", "..", "content", "abilities"))
	require.NoError(t, err)
	require.NotEmpty(t, reg.All())

	shield, ok := reg.Get("cognitive_shield")
	require.True(t, ok)
	require.Len(t, shield.Rules, 1)
	assert.Equal(t, ability.RuleReduction, shield.Rules[0].Kind)
}
