// Package stat defines the queried stat kinds and the modifier pipeline that
// resolves a pawn's base stat value through an ordered chain of transforms.
package stat

import "fmt"

// Kind identifies a numeric pawn statistic that can be queried and modified.
type Kind string

const (
	MoveSpeed            Kind = "move_speed"
	WorkSpeed            Kind = "work_speed"
	CleaningSpeed        Kind = "cleaning_speed"
	HungerRate           Kind = "hunger_rate"
	IncomingDamageFactor Kind = "incoming_damage_factor"
	Consciousness        Kind = "consciousness"
)

// Kinds lists every queryable stat kind.
func Kinds() []Kind {
	return []Kind{
		MoveSpeed,
		WorkSpeed,
		CleaningSpeed,
		HungerRate,
		IncomingDamageFactor,
		Consciousness,
	}
}

// Parse converts a stat kind string (as used in ability YAML) to a Kind.
//
// Postcondition: Returns a valid Kind or a non-nil error naming the input.
func Parse(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown stat kind %q", s)
}
