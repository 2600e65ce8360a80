// Package psi implements the psionic scaling engine: per-pawn scaling state
// holders that cache the driving attribute, and stat query interceptors that
// apply the derived bonuses inside the stat pipeline.
package psi

import (
	"math"

	"github.com/calder-games/psiforge/internal/game/ability"
)

// NeutralSensitivity is the driving-attribute value assumed when a scaling
// state has no attached pawn. All formulas degrade to their base magnitude.
const NeutralSensitivity = 1.0

// LinearBonus evaluates a linear rule at the given sensitivity.
// When r.Max is non-zero the result is clamped to [r.Min, r.Max]; a rule with
// only r.Min set keeps its floor and stays unbounded above.
//
// Precondition: r.Kind == ability.RuleLinear.
func LinearBonus(r ability.Rule, sensitivity float64) float64 {
	v := r.Base + r.PerUnit*sensitivity
	if r.Max != 0 {
		return clamp(v, r.Min, r.Max)
	}
	if r.Min != 0 && v < r.Min {
		return r.Min
	}
	return v
}

// ThresholdBonus evaluates a threshold rule at the given sensitivity.
//
// Precondition: r.Kind == ability.RuleThreshold and r.Step > 0.
// Postcondition: Returns 0 when sensitivity < r.Threshold; otherwise returns
// r.Base plus a non-negative stepped extra, monotonically non-decreasing in
// sensitivity and exactly r.Base at the threshold itself.
func ThresholdBonus(r ability.Rule, sensitivity float64) float64 {
	if sensitivity < r.Threshold {
		return 0
	}
	steps := math.Floor((sensitivity - r.Threshold) / r.Step)
	return r.Base + steps*r.StepBonus
}

// ReductionFactor evaluates a reduction rule at the given sensitivity.
// The factor is linear in sensitivity, clamped to [0, cap] where cap is
// r.Max, or 1 when r.Max is zero.
//
// Precondition: r.Kind == ability.RuleReduction.
// Postcondition: Returns a value in [0, 1].
func ReductionFactor(r ability.Rule, sensitivity float64) float64 {
	ceiling := r.Max
	if ceiling == 0 {
		ceiling = 1
	}
	return clamp(r.Base+r.PerUnit*sensitivity, 0, ceiling)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
