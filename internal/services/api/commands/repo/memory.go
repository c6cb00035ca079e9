package repo

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"ganadero/internal/core/herd"
	"ganadero/internal/core/interpreter"
	perr "ganadero/internal/platform/errors"
	"ganadero/internal/services/api/commands/domain"

	"github.com/google/uuid"
)

// Party is a consignor or slaughterhouse row of the memory store
type Party struct {
	herd.NameEntity
	EstablishmentID string
	Active          bool
}

// memState is everything the memory store holds; it is cloned for rollback
type memState struct {
	paddocks        map[string]domain.OwnedPaddock
	herds           map[string]herd.Herd
	consignors      []Party
	slaughterhouses []Party

	movements     []domain.Movement
	healthEvents  []domain.HealthEvent
	shipments     []domain.Shipment
	confirmations []domain.Confirmation
}

func (s *memState) clone() *memState {
	c := *s
	c.paddocks = maps.Clone(s.paddocks)
	c.herds = maps.Clone(s.herds)
	c.consignors = slices.Clone(s.consignors)
	c.slaughterhouses = slices.Clone(s.slaughterhouses)
	c.movements = slices.Clone(s.movements)
	c.healthEvents = slices.Clone(s.healthEvents)
	c.shipments = slices.Clone(s.shipments)
	c.confirmations = slices.Clone(s.confirmations)
	return &c
}

// Memory is a process local Store guarded by one RWMutex.
// Writers are serialized and a failed Tx leaves no trace
type Memory struct {
	mu sync.RWMutex
	st *memState
}

// NewMemory returns an empty memory store
func NewMemory() *Memory {
	return &Memory{st: &memState{
		paddocks: map[string]domain.OwnedPaddock{},
		herds:    map[string]herd.Herd{},
	}}
}

var _ Store = (*Memory)(nil)

// Read runs fn under the read lock
func (m *Memory) Read(_ context.Context, fn func(Repo) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(memRepo{st: m.st})
}

// Tx runs fn on a working copy and publishes it only when fn succeeds
func (m *Memory) Tx(ctx context.Context, fn func(Repo) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	work := m.st.clone()
	if err := fn(memRepo{st: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.st = work
	return nil
}

// AddPaddock seeds a paddock
func (m *Memory) AddPaddock(establishmentID string, p herd.Paddock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Status == "" {
		p.Status = herd.PaddockActive
	}
	m.st.paddocks[p.ID] = domain.OwnedPaddock{Paddock: p, EstablishmentID: establishmentID}
}

// AddHerd seeds a herd
func (m *Memory) AddHerd(h herd.Herd) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.Status == "" {
		h.Status = herd.StatusActive
	}
	m.st.herds[h.ID] = h
}

// AddConsignor seeds a consignor
func (m *Memory) AddConsignor(p Party) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.consignors = append(m.st.consignors, p)
}

// AddSlaughterhouse seeds a slaughterhouse
func (m *Memory) AddSlaughterhouse(p Party) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.slaughterhouses = append(m.st.slaughterhouses, p)
}

// Movements returns a copy of the recorded movements
func (m *Memory) Movements() []domain.Movement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.st.movements)
}

// HealthEvents returns a copy of the recorded health events
func (m *Memory) HealthEvents() []domain.HealthEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.st.healthEvents)
}

// Shipments returns a copy of the recorded shipments
func (m *Memory) Shipments() []domain.Shipment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.st.shipments)
}

// Herd returns one herd by id
func (m *Memory) Herd(id string) (herd.Herd, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.st.herds[id]
	return h, ok
}

type memRepo struct{ st *memState }

func entities(ps []Party, establishmentID string) []herd.NameEntity {
	out := []herd.NameEntity{}
	for _, p := range ps {
		if p.EstablishmentID == establishmentID && p.Active {
			out = append(out, p.NameEntity)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r memRepo) Catalog(_ context.Context, establishmentID string) (interpreter.ParseContext, error) {
	out := interpreter.ParseContext{Paddocks: []herd.NameEntity{}}
	for _, p := range r.st.paddocks {
		if p.EstablishmentID == establishmentID {
			out.Paddocks = append(out.Paddocks, herd.NameEntity{ID: p.ID, Name: p.Name})
		}
	}
	sort.Slice(out.Paddocks, func(i, j int) bool { return out.Paddocks[i].Name < out.Paddocks[j].Name })
	out.Consignors = entities(r.st.consignors, establishmentID)
	out.Slaughterhouses = entities(r.st.slaughterhouses, establishmentID)
	return out, nil
}

func (r memRepo) Paddock(_ context.Context, id string) (domain.OwnedPaddock, error) {
	p, ok := r.st.paddocks[id]
	if !ok {
		return domain.OwnedPaddock{}, perr.ErrNotFound
	}
	return p, nil
}

// current finds the most recently touched active herd of category in paddockID
func (r memRepo) current(paddockID string, category herd.Category) (herd.Herd, bool) {
	var best herd.Herd
	found := false
	for _, h := range r.st.herds {
		if h.Status != herd.StatusActive || h.Category != category || h.CurrentPaddockID == nil || *h.CurrentPaddockID != paddockID {
			continue
		}
		if !found || h.LastEventAt.After(best.LastEventAt) {
			best, found = h, true
		}
	}
	return best, found
}

func (r memRepo) HerdAt(_ context.Context, paddockID string, category herd.Category) (herd.Herd, error) {
	h, ok := r.current(paddockID, category)
	if !ok {
		return herd.Herd{}, perr.ErrNotFound
	}
	return h, nil
}

func (r memRepo) HerdsByID(_ context.Context, ids []string) (map[string]herd.Herd, error) {
	out := make(map[string]herd.Herd, len(ids))
	for _, id := range ids {
		if h, ok := r.st.herds[id]; ok {
			out[id] = h
		}
	}
	return out, nil
}

func (r memRepo) Herds(_ context.Context, establishmentID string) ([]herd.Herd, error) {
	out := []herd.Herd{}
	for _, h := range r.st.herds {
		if h.Status != herd.StatusActive || h.CurrentPaddockID == nil {
			continue
		}
		if p, ok := r.st.paddocks[*h.CurrentPaddockID]; ok && p.EstablishmentID == establishmentID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := r.st.paddocks[*out[i].CurrentPaddockID].Name, r.st.paddocks[*out[j].CurrentPaddockID].Name
		if pi != pj {
			return pi < pj
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func touch(h *herd.Herd, at time.Time) {
	if at.After(h.LastEventAt) {
		h.LastEventAt = at
	}
}

func (r memRepo) Decrement(_ context.Context, herdID string, qty int, at time.Time) (bool, error) {
	h, ok := r.st.herds[herdID]
	if !ok || h.Qty < qty {
		return false, nil
	}
	h.Qty -= qty
	touch(&h, at)
	r.st.herds[herdID] = h
	return true, nil
}

func (r memRepo) AddStock(_ context.Context, paddockID string, category herd.Category, qty int, at time.Time) (string, error) {
	if h, ok := r.current(paddockID, category); ok {
		h.Qty += qty
		touch(&h, at)
		r.st.herds[h.ID] = h
		return h.ID, nil
	}
	id := uuid.NewString()
	pid := paddockID
	r.st.herds[id] = herd.Herd{
		ID:                 id,
		Code:               herdCode(id),
		Qty:                qty,
		Category:           category,
		Species:            category.Species(),
		ReproductiveStatus: herd.NA,
		CurrentPaddockID:   &pid,
		Status:             herd.StatusActive,
		LastEventAt:        at,
	}
	return id, nil
}

func (r memRepo) InsertMovement(_ context.Context, m domain.Movement) error {
	r.st.movements = append(r.st.movements, m)
	return nil
}

func (r memRepo) InsertHealthEvent(_ context.Context, e domain.HealthEvent) error {
	r.st.healthEvents = append(r.st.healthEvents, e)
	return nil
}

func (r memRepo) InsertShipment(_ context.Context, s domain.Shipment) error {
	s.Items = slices.Clone(s.Items)
	r.st.shipments = append(r.st.shipments, s)
	return nil
}

func (r memRepo) InsertConfirmation(_ context.Context, c domain.Confirmation) error {
	c.CreatedEventIDs = slices.Clone(nonNil(c.CreatedEventIDs))
	r.st.confirmations = append(r.st.confirmations, c)
	return nil
}

func (r memRepo) Confirmations(_ context.Context, establishmentID string) ([]domain.Confirmation, error) {
	out := []domain.Confirmation{}
	for _, c := range r.st.confirmations {
		if strings.EqualFold(c.EstablishmentID, establishmentID) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ConfirmedAt.After(out[j].ConfirmedAt) })
	return out, nil
}
