package psi

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/calder-games/psiforge/internal/game/ability"
	"github.com/calder-games/psiforge/internal/game/pawn"
	"github.com/calder-games/psiforge/internal/game/stat"
)

// Interceptor is the stat-pipeline stage for one ability. It memoizes the
// pawn-to-state lookup so a stat query never scans the pawn's effect list
// twice, and never touches the attribute system at all.
//
// The cache is owned by the interceptor instance and injected with its
// collaborators, not process-wide: two simulation sessions never share
// entries. Entries are evicted lazily when the cached state is found detached
// or the pawn is dead; there is no eviction hook on removal.
type Interceptor struct {
	def     *ability.Def
	manager *Manager
	roster  *pawn.Roster
	cache   map[uuid.UUID]*ScalingState
}

// NewInterceptor creates the pipeline stage for def.
//
// Precondition: def, manager, and roster must be non-nil.
func NewInterceptor(def *ability.Def, manager *Manager, roster *pawn.Roster) *Interceptor {
	return &Interceptor{
		def:     def,
		manager: manager,
		roster:  roster,
		cache:   make(map[uuid.UUID]*ScalingState),
	}
}

// Transform implements stat.Modifier. When the pawn carries this ability's
// effect, reduction-bound stats are multiplied by (1 - factor) and returned
// immediately; otherwise the additive bonus is added. Pawns without the
// effect, dead pawns, and detached states leave value unchanged.
//
// Transform is idempotent for a fixed (kind, pawnID, value) and unchanged
// effect state.
func (ic *Interceptor) Transform(kind stat.Kind, pawnID uuid.UUID, value float64) float64 {
	st := ic.lookup(pawnID)
	if st == nil {
		return value
	}
	if factor, ok := st.ReductionFor(kind); ok {
		return value * (1 - factor)
	}
	return value + st.BonusFor(kind)
}

// Explain implements stat.Modifier, producing the tooltip breakdown for this
// ability's contribution to kind.
//
// Postcondition: Returns ("", false) when the pawn carries no effect or the
// ability binds no rule to kind.
func (ic *Interceptor) Explain(kind stat.Kind, pawnID uuid.UUID) (string, bool) {
	st := ic.lookup(pawnID)
	if st == nil || len(ic.def.RulesFor(kind)) == 0 {
		return "", false
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: ", ic.def.Name)
	if factor, ok := st.ReductionFor(kind); ok {
		fmt.Fprintf(&b, "x%.0f%%", (1-factor)*100)
	} else {
		fmt.Fprintf(&b, "%+.0f%%", st.BonusFor(kind)*100)
	}
	fmt.Fprintf(&b, " (sensitivity %.2f)", st.CachedValue())
	return b.String(), true
}

// lookup returns the pawn's live scaling state for this ability, or nil.
// Cache entries found detached or owned by a dead pawn are evicted; a miss
// falls back to the manager's linear scan and re-primes the cache.
func (ic *Interceptor) lookup(pawnID uuid.UUID) *ScalingState {
	p, alive := ic.roster.Get(pawnID)
	if !alive || p.Dead {
		delete(ic.cache, pawnID)
		return nil
	}
	if st, ok := ic.cache[pawnID]; ok {
		if !st.Detached() {
			return st
		}
		delete(ic.cache, pawnID)
	}
	st, ok := ic.manager.StateFor(pawnID, ic.def.ID)
	if !ok {
		return nil
	}
	ic.cache[pawnID] = st
	return st
}

// CacheLen returns the number of memoized pawn lookups. Exposed for tests.
func (ic *Interceptor) CacheLen() int {
	return len(ic.cache)
}
