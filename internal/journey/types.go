// Package journey simulates storefront visitor sessions: a visitor walks an
// ordered sequence of funnel stages, at each stage the page signal provider
// is consulted, and configured retention probabilities decide whether the
// visitor continues or abandons. The output is an immutable SessionRecord
// per visitor, consumed by the funnel aggregator.
package journey

import "github.com/blackwell-systems/funnelwatch/internal/signals"

// StageKind classifies a funnel stage so the simulator knows which page
// capabilities are required at that stage when attributing abandonment.
type StageKind string

const (
	KindLanding  StageKind = "landing"
	KindListing  StageKind = "listing"
	KindProduct  StageKind = "product"
	KindCart     StageKind = "cart"
	KindCheckout StageKind = "checkout"
)

// Stage is one ordered step of the purchase funnel. Retention is the
// configured probability (0..1) that a session continues past this stage;
// the sequence and its retention values are fixed configuration, identical
// for every session in a run.
type Stage struct {
	Name      string    `json:"name"`
	Kind      StageKind `json:"kind"`
	Target    string    `json:"target"`
	Retention float64   `json:"retention"`
}

// StepOutcome records one stage of a session: the stage reached, the time
// spent there (seconds), whether the page was observed successfully, and
// the signal snapshot the provider returned.
type StepOutcome struct {
	Stage     string              `json:"stage"`
	TimeSpent float64             `json:"time_spent"`
	Success   bool                `json:"success"`
	Signals   signals.PageSignals `json:"signals"`
}

// SessionRecord is one simulated visitor's outcome. A converted session has
// CartValue set and no abandonment fields; a non-converted session has the
// stage it stopped at and one or more reason tags. Records are immutable
// once returned by the simulator.
type SessionRecord struct {
	Archetype      string        `json:"archetype"`
	Steps          []StepOutcome `json:"steps"`
	TotalTime      float64       `json:"total_time"`
	Converted      bool          `json:"converted"`
	CartValue      float64       `json:"cart_value,omitempty"`
	AbandonedAt    string        `json:"abandoned_at,omitempty"`
	AbandonReasons []string      `json:"abandon_reasons,omitempty"`
}

// ReachedStage reports whether the session recorded a step for stage index k.
func (r SessionRecord) ReachedStage(k int) bool {
	return k >= 0 && len(r.Steps) > k
}
