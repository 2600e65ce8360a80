package pawn

import "github.com/google/uuid"

// Roster is the per-session registry of pawns.
// It is not safe for concurrent use; the simulation loop serialises access.
type Roster struct {
	pawns map[uuid.UUID]*Pawn
}

// NewRoster creates an empty Roster.
func NewRoster() *Roster {
	return &Roster{pawns: make(map[uuid.UUID]*Pawn)}
}

// Add registers p in the roster, overwriting any pawn with the same ID.
//
// Precondition: p must not be nil.
func (r *Roster) Add(p *Pawn) {
	r.pawns[p.ID] = p
}

// Get returns the pawn with id, or (nil, false) if not registered.
func (r *Roster) Get(id uuid.UUID) (*Pawn, bool) {
	p, ok := r.pawns[id]
	return p, ok
}

// Kill marks the pawn with id as dead. Unknown IDs are a no-op.
// The pawn stays registered so stale caches can observe the death.
func (r *Roster) Kill(id uuid.UUID) {
	if p, ok := r.pawns[id]; ok {
		p.Dead = true
	}
}

// Remove unregisters the pawn with id. Unknown IDs are a no-op.
func (r *Roster) Remove(id uuid.UUID) {
	delete(r.pawns, id)
}

// Len returns the number of registered pawns, dead or alive.
func (r *Roster) Len() int {
	return len(r.pawns)
}

// Value implements AttributeSource against the roster's base attribute values.
//
// Postcondition: Returns ErrPawnNotFound for unknown pawns and
// ErrAttributeUnset when the pawn carries no value for kind.
func (r *Roster) Value(pawnID uuid.UUID, kind AttributeKind) (float64, error) {
	p, ok := r.pawns[pawnID]
	if !ok {
		return 0, ErrPawnNotFound
	}
	v, ok := p.Attribute(kind)
	if !ok {
		return 0, ErrAttributeUnset
	}
	return v, nil
}
