package pawn_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder-games/psiforge/internal/game/pawn"
)

func TestNew_CopiesAttributes(t *testing.T) {
	attrs := map[pawn.AttributeKind]float64{pawn.PsychicSensitivity: 3.0}
	p := pawn.New("Eamon", attrs)

	require.NotEqual(t, uuid.Nil, p.ID)
	assert.False(t, p.Dead)

	// Mutating the input map must not leak into the pawn.
	attrs[pawn.PsychicSensitivity] = 9.0
	v, ok := p.Attribute(pawn.PsychicSensitivity)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestPawn_SetAttribute_Overwrites(t *testing.T) {
	p := pawn.New("Eamon", nil)
	_, ok := p.Attribute(pawn.PsychicSensitivity)
	require.False(t, ok)

	p.SetAttribute(pawn.PsychicSensitivity, 4.5)
	v, ok := p.Attribute(pawn.PsychicSensitivity)
	require.True(t, ok)
	assert.Equal(t, 4.5, v)
}

func TestRoster_AddGetRemove(t *testing.T) {
	r := pawn.NewRoster()
	p := pawn.New("Eamon", nil)
	r.Add(p)
	require.Equal(t, 1, r.Len())

	got, ok := r.Get(p.ID)
	require.True(t, ok)
	assert.Same(t, p, got)

	r.Remove(p.ID)
	_, ok = r.Get(p.ID)
	assert.False(t, ok)
	assert.Zero(t, r.Len())
}

func TestRoster_Kill_KeepsPawnRegistered(t *testing.T) {
	r := pawn.NewRoster()
	p := pawn.New("Eamon", nil)
	r.Add(p)

	r.Kill(p.ID)
	got, ok := r.Get(p.ID)
	require.True(t, ok)
	assert.True(t, got.Dead)
	assert.Equal(t, 1, r.Len())

	r.Kill(uuid.New()) // unknown ID is a no-op
}

func TestRoster_Value_AnswersAttributeQueries(t *testing.T) {
	r := pawn.NewRoster()
	p := pawn.New("Eamon", map[pawn.AttributeKind]float64{pawn.PsychicSensitivity: 2.5})
	r.Add(p)

	v, err := r.Value(p.ID, pawn.PsychicSensitivity)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = r.Value(uuid.New(), pawn.PsychicSensitivity)
	assert.ErrorIs(t, err, pawn.ErrPawnNotFound)

	bare := pawn.New("Blank", nil)
	r.Add(bare)
	_, err = r.Value(bare.ID, pawn.PsychicSensitivity)
	assert.ErrorIs(t, err, pawn.ErrAttributeUnset)
}
