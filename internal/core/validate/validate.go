// Package validate holds the business rules a parsed or edited operation must pass
// before it may mutate stock. Every rule is a pure function over values the caller
// loaded; none of them touch storage or fail, violations come back as data
package validate

import (
	"fmt"
	"time"

	"ganadero/internal/core/herd"
)

// Code identifies a rule violation
type Code string

// Violation codes
const (
	InvalidQty        Code = "INVALID_QTY"
	PaddockInactive   Code = "PADDOCK_INACTIVE"
	NegativeQty       Code = "NEGATIVE_QTY"
	OutOfOrder        Code = "OUT_OF_ORDER"
	MissingHerd       Code = "MISSING_HERD"
	HerdNotFound      Code = "HERD_NOT_FOUND"
	InsufficientStock Code = "INSUFFICIENT_STOCK"
)

// Error is one rule violation; Path points at the offending payload field
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// MoveInput is what a move is checked against
type MoveInput struct {
	Qty  int
	From herd.Paddock
	To   herd.Paddock
}

// Move checks a move of animals between paddocks
func Move(in MoveInput) []Error {
	var errs []Error
	if in.Qty <= 0 {
		errs = append(errs, Error{Code: InvalidQty, Message: "La cantidad a mover debe ser positiva.", Path: "qty"})
	}
	if in.To.Status != herd.PaddockActive {
		errs = append(errs, Error{Code: PaddockInactive, Message: "El potrero de destino está inactivo.", Path: "toPaddockId"})
	}
	return errs
}

// NoNegativeQty rejects a delta that would leave a negative head count
func NoNegativeQty(current, delta int) []Error {
	if current+delta < 0 {
		return []Error{{Code: NegativeQty, Message: "La cantidad resultante no puede ser negativa.", Path: "qty"}}
	}
	return nil
}

// OccurredAt rejects an operation dated before the last event already recorded
func OccurredAt(occurredAt, lastEventAt time.Time) []Error {
	if occurredAt.Before(lastEventAt) {
		return []Error{{Code: OutOfOrder, Message: "La fecha de operación es anterior al último evento.", Path: "occurredAt"}}
	}
	return nil
}

// SlaughterItem is one line of a slaughter shipment at confirm time
type SlaughterItem struct {
	HerdID string
	Qty    int
}

// SlaughterInput pairs the shipment items with the current herd states keyed by herd id
type SlaughterInput struct {
	Items      []SlaughterItem
	HerdStates map[string]herd.Herd
}

// SlaughterConfirm checks every shipment item against current stock.
// A single aggregate error covers all non positive quantities; the per item checks
// stop at the first problem of each item
func SlaughterConfirm(in SlaughterInput) []Error {
	var errs []Error
	for _, it := range in.Items {
		if it.Qty <= 0 {
			errs = append(errs, Error{Code: InvalidQty, Message: "Cada ítem debe tener cantidad positiva.", Path: "items"})
			break
		}
	}
	for i, it := range in.Items {
		if it.HerdID == "" {
			errs = append(errs, Error{
				Code:    MissingHerd,
				Message: "Debe asignar un lote a cada ítem antes de confirmar.",
				Path:    fmt.Sprintf("items.%d.herdId", i),
			})
			continue
		}
		h, ok := in.HerdStates[it.HerdID]
		if !ok {
			errs = append(errs, Error{
				Code:    HerdNotFound,
				Message: "Lote no encontrado para el ítem.",
				Path:    fmt.Sprintf("items.%d.herdId", i),
			})
			continue
		}
		if h.Qty < it.Qty {
			errs = append(errs, Error{
				Code:    InsufficientStock,
				Message: "No hay stock suficiente para el lote seleccionado.",
				Path:    fmt.Sprintf("items.%d.qty", i),
			})
		}
	}
	return errs
}

// Codes returns the codes of errs in order, handy for logs and metrics
func Codes(errs []Error) []Code {
	out := make([]Code, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}
