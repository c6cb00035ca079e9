// Package repo provides storage for the commands service: a postgres binder, an in
// memory store for single process runs and tests, and the clickhouse confirmation journal
package repo

import (
	"context"
	"time"

	"ganadero/internal/core/herd"
	"ganadero/internal/core/interpreter"
	"ganadero/internal/services/api/commands/domain"
)

// Repo defines the repository contract for commands, bound to one queryer
type Repo interface {
	// Catalog loads every paddock and the active consignors and slaughterhouses of an establishment
	Catalog(ctx context.Context, establishmentID string) (interpreter.ParseContext, error)
	// Paddock returns perr.ErrNotFound when id is unknown
	Paddock(ctx context.Context, id string) (domain.OwnedPaddock, error)
	// HerdAt returns the active herd of category grazing paddockID, or perr.ErrNotFound
	HerdAt(ctx context.Context, paddockID string, category herd.Category) (herd.Herd, error)
	HerdsByID(ctx context.Context, ids []string) (map[string]herd.Herd, error)
	Herds(ctx context.Context, establishmentID string) ([]herd.Herd, error)

	// Decrement subtracts qty only while enough head remain and reports whether it did
	Decrement(ctx context.Context, herdID string, qty int, at time.Time) (bool, error)
	// AddStock adds qty to the herd of category in paddockID, creating it when absent
	AddStock(ctx context.Context, paddockID string, category herd.Category, qty int, at time.Time) (string, error)

	InsertMovement(ctx context.Context, m domain.Movement) error
	InsertHealthEvent(ctx context.Context, e domain.HealthEvent) error
	InsertShipment(ctx context.Context, s domain.Shipment) error
	InsertConfirmation(ctx context.Context, c domain.Confirmation) error
	Confirmations(ctx context.Context, establishmentID string) ([]domain.Confirmation, error)
}

// Store hands out bound repos for reads and for all-or-nothing writes
type Store interface {
	Read(ctx context.Context, fn func(Repo) error) error
	Tx(ctx context.Context, fn func(Repo) error) error
}
