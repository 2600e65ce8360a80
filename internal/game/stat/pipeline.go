package stat

import "github.com/google/uuid"

// Modifier is one stage of the stat query pipeline. Transform receives the
// running value accumulated by earlier stages and returns the value passed to
// the next stage. A stage that does not apply must return value unchanged.
type Modifier interface {
	Transform(kind Kind, pawnID uuid.UUID, value float64) float64
	// Explain returns a human-readable breakdown of this stage's contribution,
	// or ("", false) when the stage does not apply to the query.
	Explain(kind Kind, pawnID uuid.UUID) (string, bool)
}

// Pipeline is an ordered chain of stat modifiers.
// It is not safe for concurrent mutation; register all stages before resolving.
type Pipeline struct {
	stages []Modifier
}

// NewPipeline creates an empty Pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Register appends m as the last stage of the pipeline.
//
// Precondition: m must not be nil.
func (p *Pipeline) Register(m Modifier) {
	p.stages = append(p.stages, m)
}

// Resolve folds base through every stage in registration order.
//
// Postcondition: With no registered stages, returns base unchanged.
func (p *Pipeline) Resolve(kind Kind, pawnID uuid.UUID, base float64) float64 {
	v := base
	for _, m := range p.stages {
		v = m.Transform(kind, pawnID, v)
	}
	return v
}

// ExplainAll collects the breakdown lines of every stage that applies to the
// query, in registration order. The slice is empty when no stage applies.
func (p *Pipeline) ExplainAll(kind Kind, pawnID uuid.UUID) []string {
	var lines []string
	for _, m := range p.stages {
		if s, ok := m.Explain(kind, pawnID); ok {
			lines = append(lines, s)
		}
	}
	return lines
}
