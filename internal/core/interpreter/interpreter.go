// Package interpreter turns a single Spanish livestock instruction into a reviewable
// ParseResult. It is a deterministic ordered rule table over normalized text: each
// row pairs a keyword prefix predicate with an extractor that pulls quantities,
// categories, catalog names and dates out of the raw text
package interpreter

import (
	"strings"

	"ganadero/internal/core/dates"
	"ganadero/internal/core/fuzzy"
	"ganadero/internal/core/herd"
	"ganadero/internal/core/normalize"
)

// Options configures an Interpreter
type Options struct {
	// Tokens mints confirmation tokens, UUIDTokens when nil
	Tokens TokenSource
	// Clock feeds the date resolver, time.Now when nil
	Clock dates.Clock
	// Threshold is the fuzzy acceptance threshold, fuzzy.DefaultThreshold when zero
	Threshold float64
}

// Interpreter is immutable after construction and safe for concurrent use
type Interpreter struct {
	tokens TokenSource
	dates  *dates.Resolver
	fuzzy  *fuzzy.Resolver
	rules  []rule
}

// input is what every extractor sees
type input struct {
	text string
	norm string
	ctx  ParseContext
}

// extraction is the partial result of one extractor
type extraction struct {
	confidence float64
	op         ProposedOperation
	warnings   []string
	edits      []string
}

type rule struct {
	intent  herd.OperationType
	match   func(norm string) bool
	extract func(in input) extraction
}

// New returns an Interpreter with default options
func New() *Interpreter { return NewWithOptions(Options{}) }

// NewWithOptions returns an Interpreter using opts
func NewWithOptions(opts Options) *Interpreter {
	if opts.Tokens == nil {
		opts.Tokens = UUIDTokens
	}
	it := &Interpreter{
		tokens: opts.Tokens,
		dates:  dates.New(opts.Clock),
		fuzzy:  fuzzy.New(opts.Threshold),
	}
	it.rules = []rule{
		{herd.OpMove, prefix("mover"), it.extractMove},
		{herd.OpVaccination, prefix("vacunar"), it.extractVaccination},
		{herd.OpDeworming, prefix("desparasitar"), it.extractDeworming},
		{herd.OpTreatment, prefix("tratar", "tratamiento"), it.extractTreatment},
		{herd.OpBreedingStart, prefix("iniciar entore"), it.extractBreedingStart},
		{herd.OpWeaning, prefix("destetar"), it.extractWeaning},
		{herd.OpBranding, prefix("yerra"), it.extractBranding},
		{herd.OpSlaughterShipment, prefix("enviar a frigor"), it.extractSlaughter},
	}
	return it
}

// Intents lists the recognized intents in evaluation order
func (it *Interpreter) Intents() []herd.OperationType {
	out := make([]herd.OperationType, len(it.rules))
	for i, r := range it.rules {
		out[i] = r.intent
	}
	return out
}

// Parse interprets text against the catalog snapshot ctx.
// Every rule is evaluated; when more than one matches the last one sets intent and
// confidence while operations and warnings accumulate in table order
func (it *Interpreter) Parse(text string, ctx ParseContext) ParseResult {
	res := ParseResult{
		Intent:             Unknown,
		Confidence:         unknownConfidence,
		ProposedOperations: []ProposedOperation{},
		Warnings:           []string{},
		Errors:             []string{},
		ConfirmationToken:  it.tokens.NewToken(),
	}

	in := input{text: text, norm: strings.TrimSpace(normalize.Normalize(text)), ctx: ctx}
	var edits []string
	for _, r := range it.rules {
		if !r.match(in.norm) {
			continue
		}
		x := r.extract(in)
		x.op.Type = r.intent
		res.Intent = r.intent
		res.Confidence = x.confidence
		res.ProposedOperations = append(res.ProposedOperations, x.op)
		res.Warnings = append(res.Warnings, x.warnings...)
		edits = append(edits, x.edits...)
	}

	if len(res.Warnings) > 0 && len(edits) > 0 {
		res.EditsNeeded = edits
	}
	if res.Intent == Unknown {
		res.Errors = append(res.Errors, "No se pudo reconocer la intención.")
	}
	return res
}

// Resolve exposes the fuzzy resolver with the interpreter threshold
func (it *Interpreter) Resolve(query string, catalog []herd.NameEntity) fuzzy.Result {
	return it.fuzzy.Resolve(query, catalog)
}

func prefix(keywords ...string) func(string) bool {
	return func(norm string) bool {
		for _, k := range keywords {
			if strings.HasPrefix(norm, k) {
				return true
			}
		}
		return false
	}
}
