package psi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calder-games/psiforge/internal/game/ability"
	"github.com/calder-games/psiforge/internal/game/pawn"
	"github.com/calder-games/psiforge/internal/game/psi"
)

func registryWith(defs ...*ability.Def) *ability.Registry {
	reg := ability.NewRegistry()
	for _, d := range defs {
		reg.Register(d)
	}
	return reg
}

func TestManager_Snapshot_CapturesActiveEffects(t *testing.T) {
	src := &stubSource{}
	m, _, pawnID := newTestWorld(t, src, nil)
	require.NoError(t, m.Apply(pawnID, inspirationDef()))
	require.NoError(t, m.Apply(pawnID, shieldDef()))
	m.Tick()
	m.Tick()

	snaps := m.Snapshot()
	require.Len(t, snaps, 2)
	for _, sn := range snaps {
		assert.Equal(t, pawnID, sn.PawnID)
		assert.Equal(t, 5.0, sn.CachedValue)
		assert.Equal(t, int64(8), sn.DurationRemaining)
	}
}

func TestManager_Restore_RoundTrip(t *testing.T) {
	src := &stubSource{}
	m, _, pawnID := newTestWorld(t, src, nil)
	require.NoError(t, m.Apply(pawnID, inspirationDef()))
	m.Tick()
	snaps := m.Snapshot()

	// A fresh manager over the same roster restores the states without
	// touching the attribute source.
	src2 := &stubSource{}
	roster2 := pawn.NewRoster()
	p := pawn.New("Saoirse", map[pawn.AttributeKind]float64{pawn.PsychicSensitivity: 5.0})
	roster2.Add(p)
	for i := range snaps {
		snaps[i].PawnID = p.ID
	}
	m2 := psi.NewManager(src2, roster2, nil, zap.NewNop())
	m2.Restore(registryWith(inspirationDef()), snaps)

	st, ok := m2.StateFor(p.ID, "inspiration")
	require.True(t, ok)
	assert.Equal(t, 5.0, st.CachedValue())
	assert.Equal(t, int64(9), st.DurationRemaining())
	assert.Zero(t, src2.calls, "restore must not resample the attribute")
}

func TestManager_Restore_SkipsUnknownAbilityAndPawn(t *testing.T) {
	src := &stubSource{}
	m, _, pawnID := newTestWorld(t, src, nil)

	snaps := []psi.Snapshot{
		{PawnID: pawnID, AbilityID: "no_such_ability", CachedValue: 2, DurationRemaining: 5},
		{PawnID: pawn.New("Ghost", nil).ID, AbilityID: "inspiration", CachedValue: 2, DurationRemaining: 5},
	}
	m.Restore(registryWith(inspirationDef()), snaps)

	assert.Equal(t, 0, m.ActiveCount(pawnID))
}

func TestManager_Restore_StaleRefreshClock_RefreshResumesAfterRestart(t *testing.T) {
	src := &stubSource{}
	m, _, pawnID := newTestWorld(t, src, nil)

	// The previous run's clock was far ahead of this fresh manager's. The
	// refresh interval is 3: the restored effect must resample on the third
	// tick, not wait for the new clock to catch up to the old one.
	m.Restore(registryWith(inspirationDef()), []psi.Snapshot{
		{PawnID: pawnID, AbilityID: "inspiration", CachedValue: 5.0, LastRefreshTick: 2400, DurationRemaining: 100},
	})

	src.values[pawnID] = 7.5
	m.Tick()
	m.Tick()
	assert.Zero(t, src.calls)
	m.Tick()
	assert.Equal(t, 1, src.calls)

	st, ok := m.StateFor(pawnID, "inspiration")
	require.True(t, ok)
	assert.Equal(t, 7.5, st.CachedValue())
	assert.Equal(t, int64(3), st.LastRefreshTick())
}

func TestManager_Restore_ExistingEffect_Overwrites(t *testing.T) {
	src := &stubSource{}
	m, _, pawnID := newTestWorld(t, src, nil)
	require.NoError(t, m.Apply(pawnID, inspirationDef()))

	m.Restore(registryWith(inspirationDef()), []psi.Snapshot{
		{PawnID: pawnID, AbilityID: "inspiration", CachedValue: 2.5, LastRefreshTick: 0, DurationRemaining: 4},
	})

	require.Equal(t, 1, m.ActiveCount(pawnID))
	st, _ := m.StateFor(pawnID, "inspiration")
	assert.Equal(t, 2.5, st.CachedValue())
	assert.Equal(t, int64(4), st.DurationRemaining())
}
