package ranking

import "sort"

// Tag is the single status label shown next to a course.
type Tag string

const (
	TagSoldOut     Tag = "Esgotado"
	TagClosingSoon Tag = "Encerrando"
	TagAlmostFull  Tag = "Poucas Vagas"
	TagNormal      Tag = "Normal"
)

// StatusTag picks the most urgent label: sold out, then closing soon, then
// almost full.
func (e *Engine) StatusTag(c Course) Tag {
	switch {
	case IsSoldOut(c):
		return TagSoldOut
	case e.IsClosingSoonDefault(c):
		return TagClosingSoon
	case e.IsAlmostFull(c):
		return TagAlmostFull
	}
	return TagNormal
}

type Metrics struct {
	Signups   int     `json:"signups"`
	Occupancy float64 `json:"occupancy"`
	FillRate  float64 `json:"fill_rate"`
}

func (e *Engine) Metrics(c Course) Metrics {
	m := Metrics{Signups: c.Signups(), FillRate: e.FillRate(c)}
	if c.TotalVacancies > 0 {
		m.Occupancy = float64(m.Signups) / float64(c.TotalVacancies) * 100
	}
	return m
}

// SortKey selects the ranking dashboard order.
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortOccupancy SortKey = "occupancy"
	SortSignups   SortKey = "signups"
	SortFillRate  SortKey = "fillRate"
)

// ParseSortKey falls back to SortDefault for unknown input.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortOccupancy, SortSignups, SortFillRate:
		return k
	}
	return SortDefault
}

type Ranked[T any] struct {
	Rank       int        `json:"rank"`
	Item       T          `json:"course"`
	Metrics    Metrics    `json:"metrics"`
	Tag        Tag        `json:"status_tag"`
	Prediction Prediction `json:"prediction"`
}

// Rank drops past courses and orders the rest by key. The default order
// weighs VIP as 2 and almost-full as 1 without sinking sold-out courses.
// Ranks start at 1.
func Rank[T any](e *Engine, items []T, snapshot func(T) Course, key SortKey) []Ranked[T] {
	out := make([]Ranked[T], 0, len(items))
	scores := make([]float64, 0, len(items))
	for _, it := range items {
		c := snapshot(it)
		if e.IsPast(c) {
			continue
		}
		m := e.Metrics(c)
		out = append(out, Ranked[T]{
			Item:       it,
			Metrics:    m,
			Tag:        e.StatusTag(c),
			Prediction: e.Predict(c),
		})
		scores = append(scores, e.dashboardScore(c, m, key))
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	ranked := make([]Ranked[T], len(out))
	for pos, i := range idx {
		r := out[i]
		r.Rank = pos + 1
		ranked[pos] = r
	}
	return ranked
}

func (e *Engine) dashboardScore(c Course, m Metrics, key SortKey) float64 {
	switch key {
	case SortOccupancy:
		return m.Occupancy
	case SortSignups:
		return float64(m.Signups)
	case SortFillRate:
		return m.FillRate
	}
	score := 0.0
	if c.IsVip {
		score += 2
	}
	if e.IsAlmostFull(c) {
		score++
	}
	return score
}
