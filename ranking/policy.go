// Package ranking derives display and sorting metadata for catalog courses:
// occupancy flags, a priority score, and a linear sell-out forecast.
//
// Everything here is pure. "Today" comes from an injected Clock and the
// thresholds come from an immutable Policy, so results are deterministic.
package ranking

import "time"

// Product policy. These numbers are the whole heuristic; change them here,
// never inline.
const (
	DefaultLowStockThreshold = 5
	DefaultAlmostFullRatio   = 0.2
	DefaultClosingSoonDays   = 3
	DefaultPublishLeadDays   = 30
	DefaultLowRiskOccupancy  = 95.0
	DefaultCautionOccupancy  = 70.0
)

// Clock returns the current instant. Its location decides what "today" is.
type Clock func() time.Time

type Policy struct {
	// LowStockThreshold is the admin-configured absolute vacancy floor.
	LowStockThreshold int
	AlmostFullRatio   float64
	ClosingSoonDays   int
	// PublishLeadDays is how long before its start date a course is assumed
	// to have been published. Drives the fill-rate denominator.
	PublishLeadDays  int
	LowRiskOccupancy float64
	CautionOccupancy float64
}

func DefaultPolicy() Policy {
	return Policy{
		LowStockThreshold: DefaultLowStockThreshold,
		AlmostFullRatio:   DefaultAlmostFullRatio,
		ClosingSoonDays:   DefaultClosingSoonDays,
		PublishLeadDays:   DefaultPublishLeadDays,
		LowRiskOccupancy:  DefaultLowRiskOccupancy,
		CautionOccupancy:  DefaultCautionOccupancy,
	}
}

// WithLowStockThreshold returns a copy of p using threshold.
func (p Policy) WithLowStockThreshold(threshold int) Policy {
	p.LowStockThreshold = threshold
	return p
}

// Engine evaluates courses against a Policy as of the Clock's current day.
type Engine struct {
	policy Policy
	now    Clock
}

// New builds an Engine. A nil clock means time.Now.
func New(policy Policy, now Clock) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{policy: policy, now: now}
}

// Today is the current calendar day at local midnight.
func (e *Engine) Today() time.Time {
	return midnight(e.now())
}

func (e *Engine) location() *time.Location {
	return e.now().Location()
}
