// Package domain holds DTOs for the commands http and service contracts
package domain

import (
	"time"

	"ganadero/internal/core/herd"
	"ganadero/internal/core/interpreter"
)

// ParseInput is the body of a parse request
type ParseInput struct {
	EstablishmentID string `json:"establishmentId" validate:"required,uuid" example:"5b1f7d0e-3c9a-4f0e-9f7e-2a6b8e1c4d21"`
	Text            string `json:"text" validate:"required,min=3" example:"Mover 120 terneros del Potrero 3 al Potrero 7 hoy"`
}

// ConfirmInput is the body of a confirm request.
// Edits carries the previewed result, possibly corrected by the operator
type ConfirmInput struct {
	EstablishmentID   string `json:"establishmentId" validate:"required,uuid" example:"5b1f7d0e-3c9a-4f0e-9f7e-2a6b8e1c4d21"`
	ConfirmationToken string `json:"confirmationToken" validate:"required" example:"0b8f5c44-8a77-4d0e-8c0f-1f9d58f7b9a1"`
	Edits             *Edits `json:"edits,omitempty"`
}

// Edits wraps the edited preview
type Edits struct {
	Parsed *interpreter.ParseResult `json:"parsed,omitempty"`
}

// ConfirmOutput reports what a confirm applied
type ConfirmOutput struct {
	Applied         bool     `json:"applied" example:"true"`
	CreatedEventIDs []string `json:"createdEventIds"`
	Summary         string   `json:"summary" example:"Operaciones confirmadas y aplicadas."`
}

// EstablishmentQuery scopes list endpoints
type EstablishmentQuery struct {
	EstablishmentID string `json:"establishmentId" validate:"required,uuid" example:"5b1f7d0e-3c9a-4f0e-9f7e-2a6b8e1c4d21"`
}

// Confirmation is one recorded confirm
type Confirmation struct {
	ID                string             `json:"id"`
	EstablishmentID   string             `json:"establishmentId"`
	ConfirmationToken string             `json:"confirmationToken"`
	ParsedIntent      herd.OperationType `json:"parsedIntent,omitempty"`
	CreatedEventIDs   []string           `json:"createdEventIds"`
	ConfirmedAt       time.Time          `json:"confirmedAt"`
}

// Summaries returned by confirm
const (
	SummaryApplied  = "Operaciones confirmadas y aplicadas."
	SummaryRecorded = "Confirmación guardada sin operaciones automáticas."
)
