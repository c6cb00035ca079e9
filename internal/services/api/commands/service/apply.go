package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ganadero/internal/core/herd"
	"ganadero/internal/core/interpreter"
	"ganadero/internal/core/validate"
	perr "ganadero/internal/platform/errors"
	"ganadero/internal/services/api/commands/domain"
	"ganadero/internal/services/api/commands/repo"
)

const (
	reasonNotFound      = "NOT_FOUND"
	reasonEstablishment = "ESTABLISHMENT_MISMATCH"

	msgPaddockNotFound  = "Potrero no encontrado."
	msgEstablishment    = "Los potreros no pertenecen al establecimiento indicado."
	msgSourceShortStock = "No hay suficiente stock en el potrero de origen."
	msgItemShortStock   = "No hay stock suficiente para el lote seleccionado."
)

// what each intent calls its operation in the incomplete payload message
var payloadNouns = map[herd.OperationType]string{
	herd.OpMove:              "el movimiento",
	herd.OpVaccination:       "la vacunación",
	herd.OpDeworming:         "la desparasitación",
	herd.OpTreatment:         "el tratamiento",
	herd.OpSlaughterShipment: "la consignación a frigorífico",
}

func invalidPayload(intent herd.OperationType) error {
	return perr.Reasoned(perr.ErrorCodeValidation,
		fmt.Sprintf("INVALID_%s_PAYLOAD", intent),
		fmt.Sprintf("No se pudo confirmar %s porque faltan datos en la previsualización.", payloadNouns[intent]))
}

// reject turns rule violations into a Rejected error led by the first violation
func reject(errs []validate.Error) error {
	return perr.Rejected(string(errs[0].Code), errs[0].Message, errs)
}

type movePayload struct {
	Qty           int           `json:"qty"`
	Category      herd.Category `json:"category"`
	FromPaddockID string        `json:"fromPaddockId"`
	ToPaddockID   string        `json:"toPaddockId"`
}

type healthPayload struct {
	Qty      int           `json:"qty"`
	Category herd.Category `json:"category"`
	Product  string        `json:"product"`
	Dose     *string       `json:"dose"`
}

type slaughterItem struct {
	Qty       int            `json:"qty"`
	Category  *herd.Category `json:"category"`
	UnitPrice int            `json:"unitPrice"`
	HerdID    string         `json:"herdId"`
}

type slaughterPayload struct {
	ConsignorID      string          `json:"consignorId"`
	SlaughterhouseID string          `json:"slaughterhouseId"`
	Items            []slaughterItem `json:"items"`
}

// decode reshapes a loose payload map into T; nulls leave zero values
func decode[T any](payload map[string]any) (T, error) {
	var out T
	b, err := json.Marshal(payload)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}

// applier performs the writes of one confirm inside a bound transaction
type applier struct {
	r               repo.Repo
	establishmentID string
	now             time.Time
	newID           func() string
}

// apply dispatches on intent and returns the ids of the created events.
// Intents without automatic operations create nothing
func (a applier) apply(ctx context.Context, parsed *interpreter.ParseResult) ([]string, error) {
	if parsed == nil {
		return []string{}, nil
	}
	var op interpreter.ProposedOperation
	if len(parsed.ProposedOperations) > 0 {
		op = parsed.ProposedOperations[0]
	}
	at := op.OccurredAt
	if at.IsZero() {
		at = a.now
	}

	switch {
	case parsed.Intent == herd.OpMove:
		id, err := a.move(ctx, op.Payload, at)
		return one(id, err)
	case parsed.Intent.IsHealth():
		id, err := a.health(ctx, parsed.Intent, op.Payload, at)
		return one(id, err)
	case parsed.Intent == herd.OpSlaughterShipment:
		id, err := a.slaughter(ctx, op.Payload, at)
		return one(id, err)
	}
	return []string{}, nil
}

func one(id string, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	return []string{id}, nil
}

// paddock loads an establishment paddock; malformed ids are simply not found
func (a applier) paddock(ctx context.Context, id string) (domain.OwnedPaddock, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.OwnedPaddock{}, perr.Reasoned(perr.ErrorCodeNotFound, reasonNotFound, msgPaddockNotFound)
	}
	p, err := a.r.Paddock(ctx, id)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.OwnedPaddock{}, perr.Reasoned(perr.ErrorCodeNotFound, reasonNotFound, msgPaddockNotFound)
	}
	return p, err
}

func (a applier) move(ctx context.Context, payload map[string]any, at time.Time) (string, error) {
	p, err := decode[movePayload](payload)
	if err != nil || p.Qty == 0 || !p.Category.Valid() || p.FromPaddockID == "" || p.ToPaddockID == "" {
		return "", invalidPayload(herd.OpMove)
	}

	from, err := a.paddock(ctx, p.FromPaddockID)
	if err != nil {
		return "", err
	}
	to, err := a.paddock(ctx, p.ToPaddockID)
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(from.EstablishmentID, a.establishmentID) || !strings.EqualFold(to.EstablishmentID, a.establishmentID) {
		return "", perr.Reasoned(perr.ErrorCodeValidation, reasonEstablishment, msgEstablishment)
	}
	if errs := validate.Move(validate.MoveInput{Qty: p.Qty, From: from.Paddock, To: to.Paddock}); len(errs) > 0 {
		return "", reject(errs)
	}

	src, err := a.r.HerdAt(ctx, from.ID, p.Category)
	if errors.Is(err, perr.ErrNotFound) {
		return "", shortStock("qty", msgSourceShortStock)
	}
	if err != nil {
		return "", err
	}
	errs := append(validate.NoNegativeQty(src.Qty, -p.Qty), validate.OccurredAt(at, src.LastEventAt)...)
	if len(errs) > 0 {
		return "", reject(errs)
	}

	ok, err := a.r.Decrement(ctx, src.ID, p.Qty, at)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", shortStock("qty", msgSourceShortStock)
	}
	if _, err := a.r.AddStock(ctx, to.ID, p.Category, p.Qty, at); err != nil {
		return "", err
	}

	m := domain.Movement{
		ID:              a.newID(),
		EstablishmentID: a.establishmentID,
		FromPaddockID:   from.ID,
		ToPaddockID:     to.ID,
		Category:        p.Category,
		Qty:             p.Qty,
		OccurredAt:      at,
		CreatedAt:       a.now,
	}
	return m.ID, a.r.InsertMovement(ctx, m)
}

func (a applier) health(ctx context.Context, intent herd.OperationType, payload map[string]any, at time.Time) (string, error) {
	p, err := decode[healthPayload](payload)
	if err != nil || p.Qty == 0 || !p.Category.Valid() || p.Product == "" {
		return "", invalidPayload(intent)
	}
	e := domain.HealthEvent{
		ID:              a.newID(),
		EstablishmentID: a.establishmentID,
		Type:            intent,
		Category:        p.Category,
		Qty:             p.Qty,
		Product:         p.Product,
		Dose:            p.Dose,
		OccurredAt:      at,
		Status:          domain.HealthCompleted,
		Source:          domain.SourceCommand,
		CreatedAt:       a.now,
	}
	return e.ID, a.r.InsertHealthEvent(ctx, e)
}

func (a applier) slaughter(ctx context.Context, payload map[string]any, at time.Time) (string, error) {
	p, err := decode[slaughterPayload](payload)
	if err != nil || p.ConsignorID == "" || p.SlaughterhouseID == "" || len(p.Items) == 0 {
		return "", invalidPayload(herd.OpSlaughterShipment)
	}
	// stores key herds by the canonical lower case uuid
	for i := range p.Items {
		p.Items[i].HerdID = strings.ToLower(p.Items[i].HerdID)
	}
	for _, it := range p.Items {
		if it.Category != nil && !it.Category.Valid() {
			return "", invalidPayload(herd.OpSlaughterShipment)
		}
	}

	states, err := a.ownedHerds(ctx, p.Items)
	if err != nil {
		return "", err
	}
	items := make([]validate.SlaughterItem, len(p.Items))
	for i, it := range p.Items {
		items[i] = validate.SlaughterItem{HerdID: it.HerdID, Qty: it.Qty}
	}
	errs := validate.SlaughterConfirm(validate.SlaughterInput{Items: items, HerdStates: states})
	seen := map[string]bool{}
	for _, it := range p.Items {
		h, ok := states[it.HerdID]
		if !ok || seen[h.ID] {
			continue
		}
		seen[h.ID] = true
		errs = append(errs, validate.OccurredAt(at, h.LastEventAt)...)
	}
	if len(errs) > 0 {
		return "", reject(errs)
	}

	lines := make([]domain.ShipmentLine, len(p.Items))
	for i, it := range p.Items {
		ok, err := a.r.Decrement(ctx, it.HerdID, it.Qty, at)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", shortStock(fmt.Sprintf("items.%d.qty", i), msgItemShortStock)
		}
		lines[i] = domain.ShipmentLine{HerdID: it.HerdID, Category: it.Category, Qty: it.Qty, UnitPrice: it.UnitPrice}
	}

	s := domain.Shipment{
		ID:               a.newID(),
		EstablishmentID:  a.establishmentID,
		ConsignorID:      p.ConsignorID,
		SlaughterhouseID: p.SlaughterhouseID,
		OccurredAt:       at,
		Items:            lines,
		CreatedAt:        a.now,
	}
	return s.ID, a.r.InsertShipment(ctx, s)
}

// ownedHerds loads the herds referenced by items, keeping only those grazing a paddock
// of the establishment
func (a applier) ownedHerds(ctx context.Context, items []slaughterItem) (map[string]herd.Herd, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, err := uuid.Parse(it.HerdID); err == nil {
			ids = append(ids, it.HerdID)
		}
	}
	states := map[string]herd.Herd{}
	if len(ids) == 0 {
		return states, nil
	}
	found, err := a.r.HerdsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, h := range found {
		if h.CurrentPaddockID == nil {
			continue
		}
		p, err := a.r.Paddock(ctx, *h.CurrentPaddockID)
		if errors.Is(err, perr.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(p.EstablishmentID, a.establishmentID) {
			states[id] = h
		}
	}
	return states, nil
}

func shortStock(path, msg string) error {
	return reject([]validate.Error{{Code: validate.InsufficientStock, Message: msg, Path: path}})
}
