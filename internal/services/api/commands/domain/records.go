package domain

import (
	"time"

	"ganadero/internal/core/herd"
)

// Health event status and source written by confirm
const (
	HealthCompleted = "COMPLETED"
	SourceCommand   = "COMMAND"
)

// Movement moves head count between two paddocks of one establishment
type Movement struct {
	ID              string
	EstablishmentID string
	FromPaddockID   string
	ToPaddockID     string
	Category        herd.Category
	Qty             int
	OccurredAt      time.Time
	CreatedAt       time.Time
}

// HealthEvent records a vaccination, deworming or treatment
type HealthEvent struct {
	ID              string
	EstablishmentID string
	Type            herd.OperationType
	Category        herd.Category
	Qty             int
	Product         string
	Dose            *string
	OccurredAt      time.Time
	Status          string
	Source          string
	CreatedAt       time.Time
}

// ShipmentLine is one confirmed line of a slaughter shipment
type ShipmentLine struct {
	HerdID    string
	Category  *herd.Category
	Qty       int
	UnitPrice int
}

// Shipment is a confirmed slaughter shipment
type Shipment struct {
	ID               string
	EstablishmentID  string
	ConsignorID      string
	SlaughterhouseID string
	OccurredAt       time.Time
	Items            []ShipmentLine
	CreatedAt        time.Time
}

// OwnedPaddock is a paddock with its owning establishment
type OwnedPaddock struct {
	herd.Paddock
	EstablishmentID string
}
