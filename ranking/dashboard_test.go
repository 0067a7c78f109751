package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTag(t *testing.T) {
	e := newTestEngine()
	assert.Equal(t, TagSoldOut, e.StatusTag(Course{TotalVacancies: 10, RemainingVacancies: 0, Date: inDays(1)}))
	assert.Equal(t, TagClosingSoon, e.StatusTag(Course{TotalVacancies: 10, RemainingVacancies: 1, Date: inDays(1)}))
	assert.Equal(t, TagAlmostFull, e.StatusTag(Course{TotalVacancies: 10, RemainingVacancies: 1, Date: inDays(20)}))
	assert.Equal(t, TagNormal, e.StatusTag(Course{TotalVacancies: 10, RemainingVacancies: 9, Date: inDays(20)}))
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortOccupancy, ParseSortKey("occupancy"))
	assert.Equal(t, SortFillRate, ParseSortKey("fillRate"))
	assert.Equal(t, SortDefault, ParseSortKey("whatever"))
	assert.Equal(t, SortDefault, ParseSortKey(""))
}

func identity(c Course) Course { return c }

func TestRankDropsPastAndAssignsRanks(t *testing.T) {
	e := newTestEngine()
	courses := []Course{
		{ID: "past", TotalVacancies: 10, RemainingVacancies: 1, Date: inDays(-3), IsVip: true},
		{ID: "regular", TotalVacancies: 100, RemainingVacancies: 90, Date: inDays(20)},
		{ID: "vip", TotalVacancies: 100, RemainingVacancies: 90, Date: inDays(20), IsVip: true},
		{ID: "almost", TotalVacancies: 10, RemainingVacancies: 1, Date: inDays(20)},
	}

	ranked := Rank(e, courses, identity, SortDefault)
	require.Len(t, ranked, 3)
	assert.Equal(t, "vip", ranked[0].Item.ID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "almost", ranked[1].Item.ID)
	assert.Equal(t, TagAlmostFull, ranked[1].Tag)
	assert.Equal(t, "regular", ranked[2].Item.ID)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRankByMetrics(t *testing.T) {
	e := newTestEngine()
	courses := []Course{
		{ID: "small-full", TotalVacancies: 10, RemainingVacancies: 1, Date: inDays(20)},
		{ID: "big-half", TotalVacancies: 100, RemainingVacancies: 50, Date: inDays(20)},
	}

	byOccupancy := Rank(e, courses, identity, SortOccupancy)
	assert.Equal(t, "small-full", byOccupancy[0].Item.ID)
	assert.InDelta(t, 90.0, byOccupancy[0].Metrics.Occupancy, 1e-9)

	bySignups := Rank(e, courses, identity, SortSignups)
	assert.Equal(t, "big-half", bySignups[0].Item.ID)
	assert.Equal(t, 50, bySignups[0].Metrics.Signups)

	byFillRate := Rank(e, courses, identity, SortFillRate)
	assert.Equal(t, "big-half", byFillRate[0].Item.ID)
	assert.InDelta(t, 5.0, byFillRate[0].Metrics.FillRate, 1e-9)
}
