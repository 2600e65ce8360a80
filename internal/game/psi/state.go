package psi

import (
	"github.com/google/uuid"

	"github.com/calder-games/psiforge/internal/game/ability"
	"github.com/calder-games/psiforge/internal/game/stat"
)

// ScalingState is the per-pawn holder for one active psionic effect. It owns
// a cached copy of the driving attribute, refreshed on a fixed cadence by the
// Manager, and derives all stat bonuses from that cache.
//
// The cached value is never recomputed inside a stat query: sampling the
// attribute from the query path would re-enter the attribute system. Only
// Manager.Apply and Manager.Tick sample the attribute.
type ScalingState struct {
	def    *ability.Def
	pawnID uuid.UUID

	cachedSensitivity float64
	lastRefreshTick   int64
	durationRemaining int64
	detached          bool
}

// Def returns the ability definition this state was created from.
func (s *ScalingState) Def() *ability.Def { return s.def }

// PawnID returns the owning pawn's identity.
func (s *ScalingState) PawnID() uuid.UUID { return s.pawnID }

// LastRefreshTick returns the tick at which the cached sensitivity was last
// sampled.
func (s *ScalingState) LastRefreshTick() int64 { return s.lastRefreshTick }

// DurationRemaining returns the ticks left before the effect expires.
func (s *ScalingState) DurationRemaining() int64 { return s.durationRemaining }

// Detached reports whether the effect has been removed or has expired.
// Detached states produce neutral values and are evicted from lookup caches.
func (s *ScalingState) Detached() bool { return s == nil || s.detached }

// CachedValue returns the last sampled driving-attribute value, or
// NeutralSensitivity when the state is detached. Never triggers a resample.
func (s *ScalingState) CachedValue() float64 {
	if s.Detached() {
		return NeutralSensitivity
	}
	return s.cachedSensitivity
}

// BonusFor returns the additive bonus this effect contributes to kind:
// the sum of all linear and threshold rules bound to kind, evaluated at the
// cached sensitivity. Reduction rules do not contribute here.
func (s *ScalingState) BonusFor(kind stat.Kind) float64 {
	if s == nil {
		return 0
	}
	v := s.CachedValue()
	total := 0.0
	for _, r := range s.def.RulesFor(kind) {
		switch r.Kind {
		case ability.RuleLinear:
			total += LinearBonus(r, v)
		case ability.RuleThreshold:
			total += ThresholdBonus(r, v)
		}
	}
	return total
}

// ReductionFor returns the multiplicative reduction factor for kind and
// whether a reduction rule is bound to kind at all.
func (s *ScalingState) ReductionFor(kind stat.Kind) (float64, bool) {
	if s == nil {
		return 0, false
	}
	for _, r := range s.def.RulesFor(kind) {
		if r.Kind == ability.RuleReduction {
			return ReductionFactor(r, s.CachedValue()), true
		}
	}
	return 0, false
}
