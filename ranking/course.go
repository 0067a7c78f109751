package ranking

import "sort"

// Course is the read-only snapshot the engine works on.
type Course struct {
	ID                 string
	TotalVacancies     int
	RemainingVacancies int
	// Date is the start date as DD/MM/YYYY. Unparseable means "no date".
	Date  string
	IsVip bool
}

// Signups is the number of vacancies already taken.
func (c Course) Signups() int {
	return c.TotalVacancies - c.RemainingVacancies
}

// Status scores, highest first.
const (
	ScoreSoldOut          = -1
	ScoreRegular          = 0
	ScoreAlmostFull       = 1
	ScoreVip              = 2
	ScoreVipAndAlmostFull = 3
)

// IsSoldOut reports whether no vacancies remain. Negative remaining counts
// as sold out.
func IsSoldOut(c Course) bool {
	return c.RemainingVacancies <= 0
}

func (e *Engine) IsSoldOut(c Course) bool { return IsSoldOut(c) }

// IsAlmostFull uses the policy's low-stock threshold.
func (e *Engine) IsAlmostFull(c Course) bool {
	return e.IsAlmostFullWithThreshold(c, e.policy.LowStockThreshold)
}

// IsAlmostFullWithThreshold reports whether some vacancies remain and they are
// at or under either the ratio of the total or the absolute threshold.
func (e *Engine) IsAlmostFullWithThreshold(c Course, lowStockThreshold int) bool {
	if c.TotalVacancies <= 0 {
		return false
	}
	ratioLimit := float64(c.TotalVacancies) * e.policy.AlmostFullRatio
	remaining := c.RemainingVacancies
	return remaining > 0 && (float64(remaining) <= ratioLimit || remaining <= lowStockThreshold)
}

// IsPast reports whether the start date is before today. Unparseable dates are
// never past.
func (e *Engine) IsPast(c Course) bool {
	d, ok := e.ParseDate(c.Date)
	if !ok {
		return false
	}
	return d.Before(e.Today())
}

// IsClosingSoon reports whether the start date falls between today and
// today+days, both inclusive.
func (e *Engine) IsClosingSoon(c Course, days int) bool {
	d, ok := e.ParseDate(c.Date)
	if !ok {
		return false
	}
	diff := daysBetween(e.Today(), d)
	return diff >= 0 && diff <= days
}

// IsClosingSoonDefault uses the policy's closing-soon window.
func (e *Engine) IsClosingSoonDefault(c Course) bool {
	return e.IsClosingSoon(c, e.policy.ClosingSoonDays)
}

// StatusScore ranks a course for display. Sold out always sinks to the bottom
// regardless of VIP or urgency.
func (e *Engine) StatusScore(c Course) int {
	if IsSoldOut(c) {
		return ScoreSoldOut
	}
	vip := c.IsVip
	almostFull := e.IsAlmostFull(c)
	switch {
	case vip && almostFull:
		return ScoreVipAndAlmostFull
	case vip:
		return ScoreVip
	case almostFull:
		return ScoreAlmostFull
	}
	return ScoreRegular
}

// SortCourses returns a new slice ordered by StatusScore, highest first.
// Equal scores keep their input order and the input is left untouched.
func (e *Engine) SortCourses(courses []Course) []Course {
	return SortBy(e, courses, func(c Course) Course { return c })
}

// SortBy orders any course-like records by StatusScore using snapshot to
// project them. It is stable and never mutates items.
func SortBy[T any](e *Engine, items []T, snapshot func(T) Course) []T {
	type scored struct {
		item  T
		score int
	}
	buf := make([]scored, len(items))
	for i, it := range items {
		buf[i] = scored{item: it, score: e.StatusScore(snapshot(it))}
	}
	sort.SliceStable(buf, func(i, j int) bool {
		return buf[i].score > buf[j].score
	})
	out := make([]T, len(buf))
	for i, s := range buf {
		out[i] = s.item
	}
	return out
}

// Flags bundles the per-course booleans the catalog shows.
type Flags struct {
	AlmostFull  bool `json:"almost_full"`
	SoldOut     bool `json:"sold_out"`
	ClosingSoon bool `json:"closing_soon"`
	Past        bool `json:"past"`
	Score       int  `json:"score"`
	Tag         Tag  `json:"status_tag"`
}

func (e *Engine) Flags(c Course) Flags {
	return Flags{
		AlmostFull:  e.IsAlmostFull(c),
		SoldOut:     IsSoldOut(c),
		ClosingSoon: e.IsClosingSoonDefault(c),
		Past:        e.IsPast(c),
		Score:       e.StatusScore(c),
		Tag:         e.StatusTag(c),
	}
}
