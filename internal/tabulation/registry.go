package tabulation

import "github.com/noah-isme/sma-compliance-report/internal/models"

// Registry is the ordered, read-only list of alternatives of a period. It
// never holds counters; every aggregation unit draws a fresh Tally.
type Registry struct {
	alternatives []models.Alternative
	positions    map[int]int
}

// NewRegistry indexes alternatives by id, keeping input order.
func NewRegistry(alternatives []models.Alternative) *Registry {
	positions := make(map[int]int, len(alternatives))
	for i, a := range alternatives {
		if _, ok := positions[a.ID]; !ok {
			positions[a.ID] = i
		}
	}
	return &Registry{alternatives: alternatives, positions: positions}
}

// Len returns the number of alternatives.
func (r *Registry) Len() int {
	return len(r.alternatives)
}

// Alternatives returns the alternatives in registry order.
func (r *Registry) Alternatives() []models.Alternative {
	return r.alternatives
}

// Position returns the registry index of an alternative id.
func (r *Registry) Position(alternativeID int) (int, bool) {
	i, ok := r.positions[alternativeID]
	return i, ok
}

// NewTally allocates zeroed counters for one aggregation unit.
func (r *Registry) NewTally() *Tally {
	return &Tally{registry: r, counts: make([]int, len(r.alternatives))}
}

// AlternativeCount is one entry of a tally snapshot.
type AlternativeCount struct {
	AlternativeID int    `json:"alternativeId"`
	Description   string `json:"description"`
	Count         int    `json:"count"`
}

// Tally holds per-alternative counters for a single indicator or syllabus.
type Tally struct {
	registry  *Registry
	counts    []int
	unmatched int
}

// Reset zeroes every counter.
func (t *Tally) Reset() {
	for i := range t.counts {
		t.counts[i] = 0
	}
	t.unmatched = 0
}

// Increment counts one vote for the alternative. Ids outside the registry
// are ignored and reported through Unmatched.
func (t *Tally) Increment(alternativeID int) bool {
	i, ok := t.registry.Position(alternativeID)
	if !ok {
		t.unmatched++
		return false
	}
	t.counts[i]++
	return true
}

// Count returns the counter at a registry position.
func (t *Tally) Count(position int) int {
	return t.counts[position]
}

// Counts returns a copy of the counters in registry order.
func (t *Tally) Counts() []int {
	out := make([]int, len(t.counts))
	copy(out, t.counts)
	return out
}

// Unmatched returns how many increments referenced unknown alternatives.
func (t *Tally) Unmatched() int {
	return t.unmatched
}

// Snapshot returns the counters paired with their alternatives without mutating state.
func (t *Tally) Snapshot() []AlternativeCount {
	out := make([]AlternativeCount, len(t.counts))
	for i, a := range t.registry.alternatives {
		out[i] = AlternativeCount{AlternativeID: a.ID, Description: a.Description, Count: t.counts[i]}
	}
	return out
}
