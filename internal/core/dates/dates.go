// Package dates turns the loose date fragments operators type ("hoy", "2026-02-01",
// "15/11") into instants. Resolution never fails: anything unrecognized is now
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"ganadero/internal/core/normalize"
)

// Clock supplies the current instant
type Clock func() time.Time

var (
	isoRe      = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	dayMonthRe = regexp.MustCompile(`(\d{1,2})/(\d{1,2})`)
)

// Resolver resolves date fragments relative to its clock
type Resolver struct {
	now Clock
}

// New returns a Resolver reading time from now; nil means time.Now
func New(now Clock) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{now: now}
}

// Now returns the resolver clock reading
func (r *Resolver) Now() time.Time { return r.now() }

// Resolve applies, in order
//   - empty text or text containing "hoy": now
//   - a YYYY-MM-DD fragment: that calendar date at UTC midnight
//   - a D/M fragment: that day and month of the current year at local midnight
//   - anything else: now
//
// Month and day are not range checked, out of range values roll over through
// calendar arithmetic so 45/13 lands in February of the following year
func (r *Resolver) Resolve(raw string) time.Time {
	now := r.now()
	n := strings.TrimSpace(normalize.Normalize(raw))
	if n == "" || strings.Contains(n, "hoy") {
		return now
	}
	if m := isoRe.FindStringSubmatch(n); m != nil {
		y, mo, d := atoi(m[1]), atoi(m[2]), atoi(m[3])
		return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	}
	if m := dayMonthRe.FindStringSubmatch(n); m != nil {
		d, mo := atoi(m[1]), atoi(m[2])
		return time.Date(now.Year(), time.Month(mo), d, 0, 0, 0, 0, now.Location())
	}
	return now
}

// digits only, guaranteed by the patterns above
func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
