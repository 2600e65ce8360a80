package psi

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/calder-games/psiforge/internal/game/ability"
)

// Snapshot is the persisted form of one scaling state: the cached driving
// value and refresh bookkeeping are the only fields that survive a save/load
// boundary.
type Snapshot struct {
	PawnID            uuid.UUID
	AbilityID         string
	CachedValue       float64
	LastRefreshTick   int64
	DurationRemaining int64
}

// Snapshot captures every active effect for persistence.
//
// Postcondition: Returns one entry per active scaling state.
func (m *Manager) Snapshot() []Snapshot {
	var out []Snapshot
	for pawnID, states := range m.effects {
		for _, st := range states {
			out = append(out, Snapshot{
				PawnID:            pawnID,
				AbilityID:         st.def.ID,
				CachedValue:       st.cachedSensitivity,
				LastRefreshTick:   st.lastRefreshTick,
				DurationRemaining: st.durationRemaining,
			})
		}
	}
	return out
}

// Restore recreates scaling states from persisted snapshots without
// resampling the driving attribute: the stored cached value is authoritative
// until the next periodic refresh. Snapshots referencing unknown abilities or
// unregistered pawns are skipped with a warning, and lifecycle hooks do not
// fire for restored effects.
//
// A snapshot carries the previous run's refresh clock, which is usually far
// ahead of a freshly started manager's. The stored tick is clamped to the
// current one so the periodic refresh cadence stays live after a restart.
func (m *Manager) Restore(reg *ability.Registry, snaps []Snapshot) {
	for _, sn := range snaps {
		def, ok := reg.Get(sn.AbilityID)
		if !ok {
			m.logger.Warn("skipping snapshot for unknown ability",
				zap.String("ability", sn.AbilityID),
				zap.String("pawn", sn.PawnID.String()),
			)
			continue
		}
		if _, ok := m.roster.Get(sn.PawnID); !ok {
			m.logger.Warn("skipping snapshot for unknown pawn",
				zap.String("ability", sn.AbilityID),
				zap.String("pawn", sn.PawnID.String()),
			)
			continue
		}
		lastRefresh := sn.LastRefreshTick
		if lastRefresh > m.tick {
			lastRefresh = m.tick
		}
		if st, ok := m.StateFor(sn.PawnID, sn.AbilityID); ok {
			st.cachedSensitivity = sn.CachedValue
			st.lastRefreshTick = lastRefresh
			st.durationRemaining = sn.DurationRemaining
			continue
		}
		m.effects[sn.PawnID] = append(m.effects[sn.PawnID], &ScalingState{
			def:               def,
			pawnID:            sn.PawnID,
			cachedSensitivity: sn.CachedValue,
			lastRefreshTick:   lastRefresh,
			durationRemaining: sn.DurationRemaining,
		})
	}
}
