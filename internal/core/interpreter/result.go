package interpreter

import (
	"time"

	"github.com/google/uuid"

	"ganadero/internal/core/herd"
)

// Unknown is the intent of text no rule recognized
const Unknown herd.OperationType = "UNKNOWN"

// unknownConfidence is the confidence reported when no rule matched
const unknownConfidence = 0.2

// ParseContext is the catalog snapshot names are resolved against.
// Callers load it fresh for every parse
type ParseContext struct {
	Paddocks        []herd.NameEntity `json:"paddocks" yaml:"paddocks"`
	Consignors      []herd.NameEntity `json:"consignors" yaml:"consignors"`
	Slaughterhouses []herd.NameEntity `json:"slaughterhouses" yaml:"slaughterhouses"`
}

// ProposedOperation is one state change the operator is asked to review
type ProposedOperation struct {
	Type          herd.OperationType `json:"type"`
	OccurredAt    time.Time          `json:"occurredAt"`
	Payload       map[string]any     `json:"payload"`
	HerdsAffected []string           `json:"herdsAffected,omitempty"`
}

// ParseResult is the preview returned for human review.
// Errors is non empty exactly when Intent is Unknown, and so is ProposedOperations empty
type ParseResult struct {
	Intent             herd.OperationType  `json:"intent"`
	Confidence         float64             `json:"confidence"`
	ProposedOperations []ProposedOperation `json:"proposedOperations"`
	Warnings           []string            `json:"warnings"`
	Errors             []string            `json:"errors"`
	EditsNeeded        []string            `json:"editsNeeded,omitempty"`
	ConfirmationToken  string              `json:"confirmationToken"`
}

// TokenSource mints confirmation tokens
type TokenSource interface {
	NewToken() string
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func() string

// NewToken implements TokenSource
func (f TokenFunc) NewToken() string { return f() }

// UUIDTokens mints random version 4 UUIDs
var UUIDTokens TokenSource = TokenFunc(uuid.NewString)

// isoMillis matches the wire layout the web client sends back on confirm
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// FormatInstant renders t the way payload timestamps are serialized
func FormatInstant(t time.Time) string { return t.UTC().Format(isoMillis) }
