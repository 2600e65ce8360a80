// Package pawn defines the pawn domain model and the attribute query service
// the psionics engine samples its driving attribute from.
package pawn

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// AttributeKind identifies a base pawn attribute.
type AttributeKind string

const (
	// PsychicSensitivity is the driving attribute for all psionic scaling.
	PsychicSensitivity AttributeKind = "psychic_sensitivity"
)

// AttributeKinds lists every known attribute kind.
func AttributeKinds() []AttributeKind {
	return []AttributeKind{PsychicSensitivity}
}

// ParseAttribute converts an attribute kind string (as used in pawn content
// files) to an AttributeKind.
//
// Postcondition: Returns a valid AttributeKind or a non-nil error naming the
// input.
func ParseAttribute(s string) (AttributeKind, error) {
	for _, k := range AttributeKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown attribute kind %q", s)
}

// Pawn represents one simulated character.
//
// Dead pawns remain in the roster so stale effect-cache entries can detect
// the death and evict themselves.
type Pawn struct {
	ID   uuid.UUID
	Name string
	Dead bool

	attributes map[AttributeKind]float64
}

// New creates a living pawn with a fresh identity and the given attributes.
//
// Postcondition: Returns a non-nil Pawn with ID set and Dead == false.
func New(name string, attrs map[AttributeKind]float64) *Pawn {
	return NewWithID(uuid.New(), name, attrs)
}

// NewWithID creates a living pawn with a fixed identity, as loaded from
// content files. Persisted effect snapshots are keyed by pawn ID, so content
// pawns must keep the same ID across runs.
func NewWithID(id uuid.UUID, name string, attrs map[AttributeKind]float64) *Pawn {
	copied := make(map[AttributeKind]float64, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return &Pawn{
		ID:         id,
		Name:       name,
		attributes: copied,
	}
}

// Attribute returns the pawn's base value for kind, or (0, false) if unset.
func (p *Pawn) Attribute(kind AttributeKind) (float64, bool) {
	v, ok := p.attributes[kind]
	return v, ok
}

// SetAttribute overwrites the pawn's base value for kind.
func (p *Pawn) SetAttribute(kind AttributeKind, value float64) {
	p.attributes[kind] = value
}

// ErrPawnNotFound is returned by attribute queries for unknown pawns.
var ErrPawnNotFound = errors.New("pawn not found")

// ErrAttributeUnset is returned when a pawn has no value for an attribute.
var ErrAttributeUnset = errors.New("attribute unset")

// AttributeSource answers attribute queries for the psionics engine.
//
// Implementations must be side-effect-free. Callers must only invoke Value at
// apply or periodic-refresh time, never from inside a stat transform: the
// attribute system is not safely re-enterable from the stat query path.
type AttributeSource interface {
	Value(pawnID uuid.UUID, kind AttributeKind) (float64, error)
}
