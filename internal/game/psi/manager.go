package psi

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/calder-games/psiforge/internal/game/ability"
	"github.com/calder-games/psiforge/internal/game/pawn"
)

// HookRunner receives effect lifecycle callbacks, typically backed by Lua
// ability scripts. Implementations must not query stats from inside a hook.
type HookRunner interface {
	OnApply(pawnID uuid.UUID, def *ability.Def, sensitivity float64)
	OnRemove(pawnID uuid.UUID, def *ability.Def)
}

// Manager owns all active scaling states, keyed by pawn. It applies and
// removes effects, expires durations, and refreshes each state's cached
// driving attribute on the definition's cadence.
//
// Manager is not safe for concurrent use: all calls happen on the single
// simulation goroutine, which also guarantees that a tick's refresh pass
// happens before any stat query issued in the same tick.
type Manager struct {
	source pawn.AttributeSource
	roster *pawn.Roster
	hooks  HookRunner
	logger *zap.Logger

	effects map[uuid.UUID][]*ScalingState
	tick    int64
}

// NewManager creates a Manager.
//
// Precondition: source, roster, and logger must be non-nil. hooks may be nil
// (lifecycle callbacks are skipped).
func NewManager(source pawn.AttributeSource, roster *pawn.Roster, hooks HookRunner, logger *zap.Logger) *Manager {
	return &Manager{
		source:  source,
		roster:  roster,
		hooks:   hooks,
		logger:  logger,
		effects: make(map[uuid.UUID][]*ScalingState),
	}
}

// CurrentTick returns the manager's monotonic tick counter.
func (m *Manager) CurrentTick() int64 { return m.tick }

// Apply attaches def's effect to the pawn, or refreshes its duration if the
// effect is already active. Effects never stack: re-applying resets the
// duration and resamples the driving attribute, nothing more.
//
// Apply samples the driving attribute and therefore must not be called from
// inside a stat transform.
//
// Precondition: def must not be nil and must have passed Validate.
// Postcondition: StateFor(pawnID, def.ID) succeeds, or an error is returned
// for an unknown or dead pawn.
func (m *Manager) Apply(pawnID uuid.UUID, def *ability.Def) error {
	p, ok := m.roster.Get(pawnID)
	if !ok {
		return fmt.Errorf("applying %s: %w", def.ID, pawn.ErrPawnNotFound)
	}
	if p.Dead {
		return fmt.Errorf("applying %s to dead pawn %s", def.ID, pawnID)
	}

	if st, ok := m.StateFor(pawnID, def.ID); ok {
		st.durationRemaining = def.DurationTicks
		m.refresh(st)
		return nil
	}

	st := &ScalingState{
		def:               def,
		pawnID:            pawnID,
		cachedSensitivity: NeutralSensitivity,
		lastRefreshTick:   m.tick,
		durationRemaining: def.DurationTicks,
	}
	m.refresh(st)
	m.effects[pawnID] = append(m.effects[pawnID], st)

	m.logger.Debug("effect applied",
		zap.String("ability", def.ID),
		zap.String("pawn", pawnID.String()),
		zap.Float64("sensitivity", st.cachedSensitivity),
	)
	if m.hooks != nil {
		m.hooks.OnApply(pawnID, def, st.cachedSensitivity)
	}
	return nil
}

// Remove detaches the effect with abilityID from the pawn. Removal is
// synchronous: any stat query issued afterwards observes no effect.
//
// Postcondition: Returns true iff an active effect was removed.
func (m *Manager) Remove(pawnID uuid.UUID, abilityID string) bool {
	states := m.effects[pawnID]
	for i, st := range states {
		if st.def.ID == abilityID {
			m.detach(st)
			m.effects[pawnID] = append(states[:i], states[i+1:]...)
			if len(m.effects[pawnID]) == 0 {
				delete(m.effects, pawnID)
			}
			return true
		}
	}
	return false
}

// RemoveAll detaches every effect from the pawn.
func (m *Manager) RemoveAll(pawnID uuid.UUID) {
	for _, st := range m.effects[pawnID] {
		m.detach(st)
	}
	delete(m.effects, pawnID)
}

// Tick advances the manager by one simulation tick: durations are decremented
// and expired effects detached, then every surviving state whose refresh
// interval has elapsed resamples the driving attribute.
//
// Postcondition: Returns the ability IDs expired this tick, per pawn.
func (m *Manager) Tick() map[uuid.UUID][]string {
	m.tick++
	expired := make(map[uuid.UUID][]string)
	for pawnID, states := range m.effects {
		kept := states[:0]
		for _, st := range states {
			st.durationRemaining--
			if st.durationRemaining <= 0 {
				expired[pawnID] = append(expired[pawnID], st.def.ID)
				m.detach(st)
				continue
			}
			if m.tick-st.lastRefreshTick >= st.def.RefreshIntervalTicks {
				m.refresh(st)
			}
			kept = append(kept, st)
		}
		if len(kept) == 0 {
			delete(m.effects, pawnID)
		} else {
			m.effects[pawnID] = kept
		}
	}
	return expired
}

// StateFor returns the pawn's active state for abilityID. This is the linear
// scan the stat interceptors memoize; prefer the interceptor cache on the
// stat query path.
func (m *Manager) StateFor(pawnID uuid.UUID, abilityID string) (*ScalingState, bool) {
	for _, st := range m.effects[pawnID] {
		if st.def.ID == abilityID {
			return st, true
		}
	}
	return nil, false
}

// ActiveCount returns the number of active effects on the pawn.
func (m *Manager) ActiveCount(pawnID uuid.UUID) int {
	return len(m.effects[pawnID])
}

// refresh resamples the driving attribute into st. On a source error the
// previous cached value is kept: stale-but-available beats unavailable.
func (m *Manager) refresh(st *ScalingState) {
	v, err := m.source.Value(st.pawnID, pawn.PsychicSensitivity)
	if err != nil {
		m.logger.Debug("attribute resample failed, keeping cached value",
			zap.String("ability", st.def.ID),
			zap.String("pawn", st.pawnID.String()),
			zap.Error(err),
		)
		st.lastRefreshTick = m.tick
		return
	}
	st.cachedSensitivity = v
	st.lastRefreshTick = m.tick
}

func (m *Manager) detach(st *ScalingState) {
	st.detached = true
	m.logger.Debug("effect removed",
		zap.String("ability", st.def.ID),
		zap.String("pawn", st.pawnID.String()),
	)
	if m.hooks != nil {
		m.hooks.OnRemove(st.pawnID, st.def)
	}
}
