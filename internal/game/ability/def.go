// Package ability defines the static psionic ability model: YAML-loaded
// definitions whose formula rules drive the scaling engine.
package ability

import (
	"fmt"

	"github.com/calder-games/psiforge/internal/game/stat"
)

// RuleKind tags the formula variant of a Rule.
type RuleKind string

const (
	// RuleLinear adds base + per_unit * sensitivity, optionally clamped.
	RuleLinear RuleKind = "linear"
	// RuleThreshold adds base + floor((sensitivity-threshold)/step)*step_bonus,
	// and contributes nothing below the threshold.
	RuleThreshold RuleKind = "threshold"
	// RuleReduction multiplies the queried stat by (1 - factor), where factor
	// is base + per_unit * sensitivity clamped to [0, max]. Exclusive: a
	// matching reduction rule suppresses additive rules for the same stat.
	RuleReduction RuleKind = "reduction"
)

// Rule binds one stat kind to one formula variant.
type Rule struct {
	Stat      string   `yaml:"stat"`
	Kind      RuleKind `yaml:"kind"`
	Base      float64  `yaml:"base"`
	PerUnit   float64  `yaml:"per_unit"`
	Min       float64  `yaml:"min"`
	Max       float64  `yaml:"max"`
	Threshold float64  `yaml:"threshold"`
	Step      float64  `yaml:"step"`
	StepBonus float64  `yaml:"step_bonus"`
}

// StatKind returns the parsed stat kind this rule applies to.
//
// Precondition: the rule must have passed Validate.
func (r Rule) StatKind() stat.Kind {
	k, err := stat.Parse(r.Stat)
	if err != nil {
		panic("ability: Rule.StatKind called on unvalidated rule: " + err.Error())
	}
	return k
}

// Def is the static definition of a psionic ability, loaded from YAML.
type Def struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// DurationTicks is how long an applied effect lasts.
	DurationTicks int64 `yaml:"duration_ticks"`
	// RefreshIntervalTicks is the cadence at which the cached driving
	// attribute is resampled while the effect is active.
	RefreshIntervalTicks int64  `yaml:"refresh_interval_ticks"`
	LuaOnApply           string `yaml:"lua_on_apply"`
	LuaOnRemove          string `yaml:"lua_on_remove"`
	Rules                []Rule `yaml:"rules"`
}

// Validate checks that the definition satisfies its invariants.
//
// Precondition: d must not be nil.
// Postcondition: Returns nil iff every field and rule constraint holds.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("ability: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("ability %q: name must not be empty", d.ID)
	}
	if d.DurationTicks <= 0 {
		return fmt.Errorf("ability %q: duration_ticks must be > 0, got %d", d.ID, d.DurationTicks)
	}
	if d.RefreshIntervalTicks <= 0 {
		return fmt.Errorf("ability %q: refresh_interval_ticks must be > 0, got %d", d.ID, d.RefreshIntervalTicks)
	}
	if len(d.Rules) == 0 {
		return fmt.Errorf("ability %q: at least one rule is required", d.ID)
	}
	reductions := make(map[string]bool)
	for i, r := range d.Rules {
		if err := validateRule(r, reductions); err != nil {
			return fmt.Errorf("ability %q: rule %d: %w", d.ID, i, err)
		}
	}
	return nil
}

func validateRule(r Rule, reductions map[string]bool) error {
	if _, err := stat.Parse(r.Stat); err != nil {
		return err
	}
	switch r.Kind {
	case RuleLinear:
		if r.Max != 0 && r.Max < r.Min {
			return fmt.Errorf("linear rule for %s: max %.4g < min %.4g", r.Stat, r.Max, r.Min)
		}
	case RuleThreshold:
		if r.Step <= 0 {
			return fmt.Errorf("threshold rule for %s: step must be > 0, got %.4g", r.Stat, r.Step)
		}
		if r.StepBonus < 0 {
			return fmt.Errorf("threshold rule for %s: step_bonus must be >= 0, got %.4g", r.Stat, r.StepBonus)
		}
	case RuleReduction:
		if reductions[r.Stat] {
			return fmt.Errorf("duplicate reduction rule for %s", r.Stat)
		}
		reductions[r.Stat] = true
		if r.Max < 0 || r.Max > 1 {
			return fmt.Errorf("reduction rule for %s: max must be in [0,1], got %.4g", r.Stat, r.Max)
		}
	default:
		return fmt.Errorf("unknown rule kind %q", r.Kind)
	}
	return nil
}

// RulesFor returns the rules bound to kind, preserving definition order.
func (d *Def) RulesFor(kind stat.Kind) []Rule {
	var out []Rule
	for _, r := range d.Rules {
		if r.Stat == string(kind) {
			out = append(out, r)
		}
	}
	return out
}
