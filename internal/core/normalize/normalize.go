// Package normalize folds operator input into the comparison form used for keyword
// matching, category lookup and catalog name resolution
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFD decomposition
// 3 Remove combining marks (acute, tilde, diaeresis)
// 4 Lower case
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)), // á -> a, ñ -> n
			cases.Lower(language.Und),
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

var std = New()

// Normalize runs s through the package level Normalizer
func Normalize(s string) string { return std.Normalize(s) }

// Normalize returns the normalized form of s following the pipeline described above.
// It is total: every input yields a string and equal inputs yield equal outputs
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// transformers above never fail on valid UTF-8; keep a usable form anyway
		return strings.ToLower(s)
	}
	return ns
}

// Equal reports whether a and b normalize to the same string
func Equal(a, b string) bool { return Normalize(a) == Normalize(b) }
