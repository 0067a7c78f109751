package ranking

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the catalog's start-date format (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// ParseDate reads a DD/MM/YYYY date in loc. The day of month is not range
// checked: out-of-range values roll over the way calendar arithmetic does,
// so "31/02/2026" is 3 March 2026. Anything that is not three integer
// segments reports ok=false, including empty or fractional segments.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		n[i] = v
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(n[2], time.Month(n[1]), n[0], 0, 0, 0, 0, loc), true
}

// ParseDate parses s in the engine clock's location.
func (e *Engine) ParseDate(s string) (time.Time, bool) {
	return ParseDate(s, e.location())
}

// FormatDate renders t as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b. DST shifts do not produce
// fractional days.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
