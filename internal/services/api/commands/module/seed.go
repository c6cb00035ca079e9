package module

import (
	"ganadero/internal/catalog"
	"ganadero/internal/core/herd"
	commandsrepo "ganadero/internal/services/api/commands/repo"
)

// Seed loads a catalog file into the in memory store
func Seed(m *commandsrepo.Memory, f catalog.File) {
	for _, p := range f.Paddocks {
		m.AddPaddock(f.Establishment, herd.Paddock{ID: p.ID, Name: p.Name, Status: p.Status})
	}
	for _, c := range f.Consignors {
		m.AddConsignor(commandsrepo.Party{NameEntity: c, EstablishmentID: f.Establishment, Active: true})
	}
	for _, s := range f.Slaughterhouses {
		m.AddSlaughterhouse(commandsrepo.Party{NameEntity: s, EstablishmentID: f.Establishment, Active: true})
	}
	for _, h := range f.Herds {
		paddock := h.Paddock
		m.AddHerd(herd.Herd{
			ID:                 h.ID,
			Code:               h.Code,
			Qty:                h.Qty,
			Category:           h.Category,
			Species:            h.Category.Species(),
			ReproductiveStatus: herd.NA,
			CurrentPaddockID:   &paddock,
			Status:             herd.StatusActive,
			LastEventAt:        h.LastEventAt,
		})
	}
}
