// Package fuzzy resolves a free text name against a catalog of named entities.
// An exact normalized match wins outright; otherwise candidates are ranked by
// normalized Levenshtein similarity and ambiguous or weak rankings resolve to nothing
package fuzzy

import (
	"sort"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"ganadero/internal/core/herd"
	"ganadero/internal/core/normalize"
)

// DefaultThreshold is the minimum similarity a candidate needs to be accepted
const DefaultThreshold = 0.72

// maxAlternatives caps the suggestions returned when no single candidate wins
const maxAlternatives = 3

// Scored is a catalog entity with its similarity to the query
type Scored struct {
	Entity herd.NameEntity `json:"entity"`
	Score  float64         `json:"score"`
}

// Result holds the resolved entity, if any, and the runner ups offered when nothing won
type Result struct {
	Match        *herd.NameEntity `json:"match"`
	Alternatives []Scored         `json:"alternatives"`
}

// Resolver ranks catalog names against a query
type Resolver struct {
	threshold float64
}

// New returns a Resolver with the given threshold; values outside (0,1] fall back to the default
func New(threshold float64) *Resolver {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Resolver{threshold: threshold}
}

// Threshold returns the acceptance threshold in use
func (r *Resolver) Threshold() float64 { return r.threshold }

// Resolve matches query against catalog.
// The catalog is never mutated and may be shared across goroutines
func (r *Resolver) Resolve(query string, catalog []herd.NameEntity) Result {
	q := normalize.Normalize(query)

	norms := make([]string, len(catalog))
	for i, e := range catalog {
		norms[i] = normalize.Normalize(e.Name)
		if norms[i] == q {
			m := e
			return Result{Match: &m}
		}
	}

	scored := make([]Scored, len(catalog))
	for i, e := range catalog {
		scored[i] = Scored{Entity: e, Score: Similarity(q, norms[i])}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) == 0 {
		return Result{}
	}

	best := scored[0]
	ambiguous := len(scored) > 1 && scored[1].Score >= r.threshold
	if best.Score < r.threshold || ambiguous {
		n := len(scored)
		if n > maxAlternatives {
			n = maxAlternatives
		}
		return Result{Alternatives: scored[:n:n]}
	}
	m := best.Entity
	return Result{Match: &m}
}

// Similarity is 1 - distance/max(len) over already normalized strings, lengths in runes
func Similarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		maxLen = 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}
