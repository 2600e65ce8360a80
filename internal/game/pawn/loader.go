package pawn

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type pawnFile struct {
	Pawns []pawnEntry `yaml:"pawns"`
}

type pawnEntry struct {
	ID         string             `yaml:"id"`
	Name       string             `yaml:"name"`
	Attributes map[string]float64 `yaml:"attributes"`
}

// LoadRoster reads a YAML pawn content file and returns a populated Roster.
// Content pawns carry fixed UUIDs so persisted effect snapshots resolve to
// the same pawns after a restart.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns a non-nil Roster, or an error if any entry has an
// invalid ID, an empty name, a duplicate ID, or an unknown attribute kind.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pawn file %q: %w", path, err)
	}

	var file pawnFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}

	roster := NewRoster()
	for i, e := range file.Pawns {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("%q: pawn %d: parsing id: %w", path, i, err)
		}
		if e.Name == "" {
			return nil, fmt.Errorf("%q: pawn %s: name must not be empty", path, id)
		}
		if _, ok := roster.Get(id); ok {
			return nil, fmt.Errorf("%q: duplicate pawn id %s", path, id)
		}
		attrs := make(map[AttributeKind]float64, len(e.Attributes))
		for key, v := range e.Attributes {
			kind, err := ParseAttribute(key)
			if err != nil {
				return nil, fmt.Errorf("%q: pawn %s: %w", path, id, err)
			}
			attrs[kind] = v
		}
		roster.Add(NewWithID(id, e.Name, attrs))
	}
	return roster, nil
}
