// Package herd holds the closed livestock vocabularies and the records the interpreter
// and the validation layer work with
package herd

import (
	"strings"
	"time"

	"ganadero/internal/core/normalize"
)

// OperationType names a kind of livestock operation
type OperationType string

// Persisted operation types
const (
	OpMove              OperationType = "MOVE"
	OpVaccination       OperationType = "VACCINATION"
	OpBreedingStart     OperationType = "BREEDING_START"
	OpBreedingEnd       OperationType = "BREEDING_END"
	OpWeaning           OperationType = "WEANING"
	OpBranding          OperationType = "BRANDING"
	OpShipment          OperationType = "SHIPMENT"
	OpSlaughterShipment OperationType = "SLAUGHTER_SHIPMENT"
)

// Health intents recognized by the interpreter; they are persisted as health events
// rather than as operations of their own
const (
	OpDeworming OperationType = "DEWORMING"
	OpTreatment OperationType = "TREATMENT"
)

// OperationTypes lists the persisted operation vocabulary in declaration order
func OperationTypes() []OperationType {
	return []OperationType{
		OpMove, OpVaccination, OpBreedingStart, OpBreedingEnd,
		OpWeaning, OpBranding, OpShipment, OpSlaughterShipment,
	}
}

// IsHealth reports whether t is recorded as a health event on confirm
func (t OperationType) IsHealth() bool {
	return t == OpVaccination || t == OpDeworming || t == OpTreatment
}

// Valid reports whether t is an operation type or a health intent
func (t OperationType) Valid() bool {
	if t == OpDeworming || t == OpTreatment {
		return true
	}
	for _, o := range OperationTypes() {
		if o == t {
			return true
		}
	}
	return false
}

// Category is a herd category
type Category string

// Herd categories
const (
	Terneros           Category = "TERNEROS"
	Terneras           Category = "TERNERAS"
	TernerosDestetados Category = "TERNEROS_DESTETADOS"
	Vaquillonas        Category = "VAQUILLONAS"
	Vacas              Category = "VACAS"
	Toros              Category = "TOROS"
	Novillos           Category = "NOVILLOS"
	Vientres           Category = "VIENTRES"
	Corderos           Category = "CORDEROS"
	Ovejas             Category = "OVEJAS"
	Carneros           Category = "CARNEROS"
)

// CategoryInfo carries the display label and the Spanish synonyms of a category
type CategoryInfo struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Synonyms []string `json:"synonyms"`
}

// lookup order matters: the first category with a synonym contained in the text wins
var categories = []CategoryInfo{
	{Terneros, "Terneros", []string{"terneros", "ternero"}},
	{Terneras, "Terneras", []string{"terneras", "ternera"}},
	{TernerosDestetados, "Terneros destetados", []string{"destetados", "terneros destetados"}},
	{Vaquillonas, "Vaquillonas", []string{"vaquillonas", "vaquillona"}},
	{Vacas, "Vacas", []string{"vacas", "vaca"}},
	{Toros, "Toros", []string{"toros", "toro"}},
	{Novillos, "Novillos", []string{"novillos", "novillo"}},
	{Vientres, "Vientres", []string{"vientres", "vientre"}},
	{Corderos, "Corderos", []string{"corderos", "cordero"}},
	{Ovejas, "Ovejas", []string{"ovejas", "oveja"}},
	{Carneros, "Carneros", []string{"carneros", "carnero"}},
}

// Categories returns a copy of the category table in lookup order
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	for i, c := range categories {
		c.Synonyms = append([]string(nil), c.Synonyms...)
		out[i] = c
	}
	return out
}

// FindCategory returns the first category whose synonym appears in text.
// Matching is substring based over the normalized text
func FindCategory(text string) (Category, bool) {
	n := normalize.Normalize(text)
	for _, c := range categories {
		for _, syn := range c.Synonyms {
			if strings.Contains(n, syn) {
				return c.Category, true
			}
		}
	}
	return "", false
}

// Label returns the display label of c, or the raw value when c is unknown
func (c Category) Label() string {
	for _, info := range categories {
		if info.Category == c {
			return info.Label
		}
	}
	return string(c)
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, info := range categories {
		if info.Category == c {
			return true
		}
	}
	return false
}

// Species reports the species a category belongs to
func (c Category) Species() Species {
	switch c {
	case Corderos, Ovejas, Carneros:
		return Ovino
	}
	return Bovino
}

// Species of a herd
type Species string

// Species values
const (
	Bovino Species = "BOVINO"
	Ovino  Species = "OVINO"
)

// ReproductiveStatus of a herd
type ReproductiveStatus string

// Reproductive statuses
const (
	Vacia    ReproductiveStatus = "VACIA"
	Prenada  ReproductiveStatus = "PRENADA"
	Entorada ReproductiveStatus = "ENTORADA"
	NA       ReproductiveStatus = "NA"
)

// Status is the lifecycle status of a herd
type Status string

// Herd lifecycle statuses
const (
	StatusActive   Status = "ACTIVE"
	StatusEgressed Status = "EGRESSED"
	StatusClosed   Status = "CLOSED"
)

// PaddockStatus is ACTIVE or INACTIVE
type PaddockStatus string

// Paddock statuses
const (
	PaddockActive   PaddockStatus = "ACTIVE"
	PaddockInactive PaddockStatus = "INACTIVE"
)

// Herd is a group of animals tracked together
type Herd struct {
	ID                 string             `json:"id"`
	Code               string             `json:"code"`
	Qty                int                `json:"qty"`
	Category           Category           `json:"category"`
	Species            Species            `json:"species"`
	ReproductiveStatus ReproductiveStatus `json:"reproductiveStatus"`
	CurrentPaddockID   *string            `json:"currentPaddockId"`
	Status             Status             `json:"status"`
	LastEventAt        time.Time          `json:"lastEventAt"`
}

// Paddock is a field where herds graze
type Paddock struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Status PaddockStatus `json:"status"`
}

// NameEntity is a catalog row resolved by name: a paddock, consignor or slaughterhouse
type NameEntity struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
