package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 19, 15, 30, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return New(DefaultPolicy(), func() time.Time { return fixedNow })
}

// inDays formats the date n days away from fixedNow.
func inDays(n int) string {
	return FormatDate(fixedNow.AddDate(0, 0, n))
}

func TestIsAlmostFull(t *testing.T) {
	e := newTestEngine()
	tests := []struct {
		name      string
		total     int
		remaining int
		threshold int
		want      bool
	}{
		{name: "at 20 percent", total: 100, remaining: 20, threshold: 5, want: true},
		{name: "one above 20 percent", total: 100, remaining: 21, threshold: 5, want: false},
		{name: "at threshold", total: 10, remaining: 5, threshold: 5, want: true},
		{name: "one above threshold", total: 10, remaining: 6, threshold: 5, want: false},
		{name: "fractional ratio floor", total: 12, remaining: 2, threshold: 0, want: true},
		{name: "fractional ratio above", total: 12, remaining: 3, threshold: 0, want: false},
		{name: "sold out is not almost full", total: 10, remaining: 0, threshold: 5, want: false},
		{name: "zero total", total: 0, remaining: 0, threshold: 5, want: false},
		{name: "negative total", total: -3, remaining: 1, threshold: 5, want: false},
		{name: "plenty left", total: 50, remaining: 40, threshold: 5, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Course{TotalVacancies: tt.total, RemainingVacancies: tt.remaining}
			assert.Equal(t, tt.want, e.IsAlmostFullWithThreshold(c, tt.threshold))
		})
	}
}

func TestIsAlmostFullUsesPolicyThreshold(t *testing.T) {
	e := New(DefaultPolicy().WithLowStockThreshold(8), func() time.Time { return fixedNow })
	assert.True(t, e.IsAlmostFull(Course{TotalVacancies: 20, RemainingVacancies: 8}))
	assert.False(t, e.IsAlmostFull(Course{TotalVacancies: 20, RemainingVacancies: 9}))
}

func TestIsSoldOut(t *testing.T) {
	for _, remaining := range []int{-5, -1, 0} {
		assert.True(t, IsSoldOut(Course{TotalVacancies: 10, RemainingVacancies: remaining}), remaining)
	}
	for _, remaining := range []int{1, 10} {
		assert.False(t, IsSoldOut(Course{TotalVacancies: 10, RemainingVacancies: remaining}), remaining)
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("05/11/2026", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.November, 5, 0, 0, 0, 0, time.UTC), got)

	// Day of month is not validated; it rolls over.
	got, ok = ParseDate("31/02/2026", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), got)

	got, ok = ParseDate(" 05 / 11 / 2026 ", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.November, 5, 0, 0, 0, 0, time.UTC), got)

	// Segments must be plain integers: empty, fractional and hex ones are
	// not read as numbers.
	for _, bad := range []string{"abc", "01/2026", "", "01/02/2026/1", "aa/02/2026", "01/bb/2026", "01/02/",
		"/02/2026", " /02/2026", "1.5/02/2026", "01/02/2026.0", "0x1/02/2026", "1e1/02/2026"} {
		_, ok := ParseDate(bad, time.UTC)
		assert.False(t, ok, bad)
	}
}

func TestIsPastAndClosingSoon(t *testing.T) {
	e := newTestEngine()
	tests := []struct {
		name        string
		date        string
		past        bool
		closingSoon bool
	}{
		{name: "yesterday", date: inDays(-1), past: true, closingSoon: false},
		{name: "today", date: inDays(0), past: false, closingSoon: true},
		{name: "in three days", date: inDays(3), past: false, closingSoon: true},
		{name: "in four days", date: inDays(4), past: false, closingSoon: false},
		{name: "unparseable", date: "soon", past: false, closingSoon: false},
		{name: "empty", date: "", past: false, closingSoon: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Course{TotalVacancies: 10, RemainingVacancies: 5, Date: tt.date}
			assert.Equal(t, tt.past, e.IsPast(c))
			assert.Equal(t, tt.closingSoon, e.IsClosingSoon(c, 3))
		})
	}
}

func TestStatusScore(t *testing.T) {
	e := newTestEngine()
	assert.Equal(t, ScoreSoldOut, e.StatusScore(Course{TotalVacancies: 10, RemainingVacancies: 0, IsVip: true}))
	assert.Equal(t, ScoreVipAndAlmostFull, e.StatusScore(Course{TotalVacancies: 10, RemainingVacancies: 1, IsVip: true}))
	assert.Equal(t, ScoreVip, e.StatusScore(Course{TotalVacancies: 100, RemainingVacancies: 80, IsVip: true}))
	assert.Equal(t, ScoreAlmostFull, e.StatusScore(Course{TotalVacancies: 10, RemainingVacancies: 2}))
	assert.Equal(t, ScoreRegular, e.StatusScore(Course{TotalVacancies: 100, RemainingVacancies: 80}))
}

func TestSortCourses(t *testing.T) {
	e := newTestEngine()
	input := []Course{
		{ID: "sold-out", TotalVacancies: 10, RemainingVacancies: 0, IsVip: true},
		{ID: "regular", TotalVacancies: 100, RemainingVacancies: 80},
		{ID: "almost-full", TotalVacancies: 10, RemainingVacancies: 2},
		{ID: "vip", TotalVacancies: 100, RemainingVacancies: 80, IsVip: true},
		{ID: "vip-almost-full", TotalVacancies: 10, RemainingVacancies: 1, IsVip: true},
	}
	snapshot := append([]Course(nil), input...)

	sorted := e.SortCourses(input)

	var ids []string
	for _, c := range sorted {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"vip-almost-full", "vip", "almost-full", "regular", "sold-out"}, ids)
	assert.Equal(t, snapshot, input, "input must not be reordered")
}

func TestSortCoursesIsStable(t *testing.T) {
	e := newTestEngine()
	input := []Course{
		{ID: "a", TotalVacancies: 100, RemainingVacancies: 90},
		{ID: "vip", TotalVacancies: 100, RemainingVacancies: 90, IsVip: true},
		{ID: "b", TotalVacancies: 100, RemainingVacancies: 70},
		{ID: "c", TotalVacancies: 50, RemainingVacancies: 40},
	}
	sorted := e.SortCourses(input)
	require.Len(t, sorted, 4)
	assert.Equal(t, "vip", sorted[0].ID)
	assert.Equal(t, "a", sorted[1].ID)
	assert.Equal(t, "b", sorted[2].ID)
	assert.Equal(t, "c", sorted[3].ID)
}

func TestSortCoursesEmpty(t *testing.T) {
	e := newTestEngine()
	assert.Empty(t, e.SortCourses(nil))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Course{ID: "ok", TotalVacancies: 10, RemainingVacancies: 3, Date: "10/12/2026"}))

	err := Validate(Course{ID: "bad", TotalVacancies: 5, RemainingVacancies: -1})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "bad", ve.CourseID)
	assert.Contains(t, ve.Problems, "remaining vacancies must not be negative")

	err = Validate(Course{ID: "over", TotalVacancies: 5, RemainingVacancies: 6, Date: "next week"})
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Problems, 2)
}
