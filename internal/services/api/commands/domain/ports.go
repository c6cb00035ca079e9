package domain

import (
	"context"

	"ganadero/internal/core/herd"
	"ganadero/internal/core/interpreter"
)

// ServicePort defines the service contract for commands
type ServicePort interface {
	Parse(ctx context.Context, in ParseInput) (interpreter.ParseResult, error)
	Confirm(ctx context.Context, in ConfirmInput) (ConfirmOutput, error)
	Confirmations(ctx context.Context, in EstablishmentQuery) ([]Confirmation, error)
	Stock(ctx context.Context, in EstablishmentQuery) ([]herd.Herd, error)
}
