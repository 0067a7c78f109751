package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillRate(t *testing.T) {
	e := newTestEngine()

	assert.Equal(t, 0.0, e.FillRate(Course{TotalVacancies: 100, RemainingVacancies: 10, Date: inDays(-2)}))

	// Published 20 days ago.
	assert.InDelta(t, 2.5, e.FillRate(Course{TotalVacancies: 100, RemainingVacancies: 50, Date: inDays(10)}), 1e-9)

	// Publish date still ahead: denominator clamps to 1.
	assert.InDelta(t, 4.0, e.FillRate(Course{TotalVacancies: 10, RemainingVacancies: 6, Date: inDays(45)}), 1e-9)

	// Publish date is today: zero elapsed days clamp to 1.
	assert.InDelta(t, 3.0, e.FillRate(Course{TotalVacancies: 10, RemainingVacancies: 7, Date: inDays(30)}), 1e-9)
}

func TestPredictEndToEnd(t *testing.T) {
	e := newTestEngine()
	p := e.Predict(Course{TotalVacancies: 100, RemainingVacancies: 50, Date: inDays(10)})

	assert.Equal(t, "75", p.FinalOccupancy)
	assert.Equal(t, RiskLevelCaution, p.Risk.Level)
	assert.Equal(t, ToneWarning, p.Risk.Tag)
	assert.Equal(t, ActionCaution, p.Action.Text)
	// 50 remaining at 2.5/day needs 20 days, after the start date.
	assert.Equal(t, SellOutNotPredicted, p.SellOutDate)
}

func TestPredictSellOutDate(t *testing.T) {
	e := newTestEngine()
	// 25 days since publish, 50 signups: 2/day; 10 remaining sell out in 5 days.
	p := e.Predict(Course{TotalVacancies: 60, RemainingVacancies: 10, Date: inDays(5)})

	assert.Equal(t, inDays(5), p.SellOutDate)
	assert.Equal(t, "100", p.FinalOccupancy)
	assert.Equal(t, RiskLevelLow, p.Risk.Level)
	assert.Equal(t, ActionLowRisk, p.Action.Text)
}

func TestPredictSellOutStaysUnpredictedForHugeCourses(t *testing.T) {
	e := newTestEngine()
	// One signup in 20 days against MaxInt seats.
	p := e.Predict(Course{TotalVacancies: math.MaxInt, RemainingVacancies: math.MaxInt - 1, Date: inDays(10)})

	assert.Equal(t, SellOutNotPredicted, p.SellOutDate)
	assert.Equal(t, "0", p.FinalOccupancy)
	assert.Equal(t, RiskLevelHigh, p.Risk.Level)
}

func TestPredictHighRisk(t *testing.T) {
	e := newTestEngine()
	// 28 days since publish, 2 signups; 2 days left add nothing.
	p := e.Predict(Course{TotalVacancies: 40, RemainingVacancies: 38, Date: inDays(2)})

	assert.Equal(t, "5", p.FinalOccupancy)
	assert.Equal(t, RiskLevelHigh, p.Risk.Level)
	assert.Equal(t, ToneDanger, p.Action.Tag)
	assert.Equal(t, SellOutNotPredicted, p.SellOutDate)
}

func TestPredictNoSignups(t *testing.T) {
	e := newTestEngine()
	p := e.Predict(Course{TotalVacancies: 20, RemainingVacancies: 20, Date: inDays(12)})
	assert.Equal(t, "0", p.FinalOccupancy)
	assert.Equal(t, SellOutNotPredicted, p.SellOutDate)
}

func TestPredictConcluded(t *testing.T) {
	e := newTestEngine()
	tests := map[string]Course{
		"sold out":    {TotalVacancies: 10, RemainingVacancies: 0, Date: inDays(10), IsVip: true},
		"oversold":    {TotalVacancies: 10, RemainingVacancies: -2, Date: inDays(10)},
		"past":        {TotalVacancies: 10, RemainingVacancies: 5, Date: inDays(-1)},
		"unparseable": {TotalVacancies: 10, RemainingVacancies: 5, Date: "TBD"},
	}
	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			p := e.Predict(c)
			assert.Equal(t, "100", p.FinalOccupancy)
			assert.Equal(t, SellOutNotApplicable, p.SellOutDate)
			assert.Equal(t, RiskLevelConcluded, p.Risk.Level)
			assert.Equal(t, ActionConcluded, p.Action.Text)
		})
	}
}

func TestPredictHonoursPolicyBands(t *testing.T) {
	policy := DefaultPolicy()
	policy.CautionOccupancy = 80
	e := New(policy, newTestEngine().now)

	p := e.Predict(Course{TotalVacancies: 100, RemainingVacancies: 50, Date: inDays(10)})
	assert.Equal(t, "75", p.FinalOccupancy)
	assert.Equal(t, RiskLevelHigh, p.Risk.Level)
}
