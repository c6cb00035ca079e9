package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ganadero/internal/core/herd"
	perr "ganadero/internal/platform/errors"
)

const sample = `
establishment: 5b1f7d0e-3c9a-4f0e-9f7e-2a6b8e1c4d21
paddocks:
  - {id: p3, name: Potrero 3}
  - {id: p7, name: Potrero 7, status: INACTIVE}
consignors:
  - {id: c1, name: Pérez}
slaughterhouses:
  - {id: s1, name: Las Moras}
herds:
  - id: h1
    code: L-1
    qty: 150
    category: TERNEROS
    paddock: p3
    lastEventAt: 2026-01-01T00:00:00Z
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Paddocks[0].Status != herd.PaddockActive || f.Paddocks[1].Status != herd.PaddockInactive {
		t.Fatalf("paddocks = %+v", f.Paddocks)
	}
	if len(f.Herds) != 1 || f.Herds[0].LastEventAt.Year() != 2026 {
		t.Fatalf("herds = %+v", f.Herds)
	}
	c := f.Context()
	if len(c.Paddocks) != 2 || c.Paddocks[1].Name != "Potrero 7" || c.Consignors[0].ID != "c1" || c.Slaughterhouses[0].Name != "Las Moras" {
		t.Fatalf("context = %+v", c)
	}
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c := f.Context(); c.Paddocks == nil || c.Consignors == nil {
		t.Fatalf("context should hold empty lists: %+v", c)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "unknown key", in: "paddock: []"},
		{name: "paddock without name", in: "paddocks: [{id: p1}]"},
		{name: "bad status", in: "paddocks: [{id: p1, name: A, status: CERRADO}]"},
		{name: "bad category", in: "paddocks: [{id: p1, name: A}]\nherds: [{id: h, qty: 1, category: GALLINAS, paddock: p1}]"},
		{name: "dangling paddock", in: "herds: [{id: h, qty: 1, category: VACAS, paddock: p9}]"},
		{name: "negative qty", in: "paddocks: [{id: p1, name: A}]\nherds: [{id: h, qty: -1, category: VACAS, paddock: p1}]"},
		{name: "consignor without id", in: "consignors: [{name: Pérez}]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.in))
			if !perr.IsCode(err, perr.ErrorCodeValidation) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing err = %v", err)
	}
}
