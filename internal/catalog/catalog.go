// Package catalog loads an establishment catalog from YAML: paddocks, consignors,
// slaughterhouses and optionally the herds grazing them. It feeds the offline parser
// and seeds the in memory store
package catalog

import (
	"errors"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ganadero/internal/core/herd"
	"ganadero/internal/core/interpreter"
	perr "ganadero/internal/platform/errors"
)

// Paddock is a catalog paddock; an empty status means ACTIVE
type Paddock struct {
	ID     string             `yaml:"id"`
	Name   string             `yaml:"name"`
	Status herd.PaddockStatus `yaml:"status"`
}

// Herd is a catalog herd placed in a paddock
type Herd struct {
	ID          string        `yaml:"id"`
	Code        string        `yaml:"code"`
	Qty         int           `yaml:"qty"`
	Category    herd.Category `yaml:"category"`
	Paddock     string        `yaml:"paddock"`
	LastEventAt time.Time     `yaml:"lastEventAt"`
}

// File is one establishment catalog
type File struct {
	Establishment   string            `yaml:"establishment"`
	Paddocks        []Paddock         `yaml:"paddocks"`
	Consignors      []herd.NameEntity `yaml:"consignors"`
	Slaughterhouses []herd.NameEntity `yaml:"slaughterhouses"`
	Herds           []Herd            `yaml:"herds"`
}

// Load reads and checks the catalog at path
func Load(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, perr.Wrapf(err, perr.ErrorCodeNotFound, "catalog %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a catalog, rejecting unknown keys
func Parse(r io.Reader) (File, error) {
	var out File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return File{}, perr.Wrap(err, perr.ErrorCodeValidation, "catalog yaml")
	}
	for i := range out.Paddocks {
		if out.Paddocks[i].Status == "" {
			out.Paddocks[i].Status = herd.PaddockActive
		}
	}
	return out, out.check()
}

func (f File) check() error {
	paddocks := map[string]bool{}
	for _, p := range f.Paddocks {
		if p.ID == "" || p.Name == "" {
			return perr.WithField(perr.Validationf("paddock needs id and name"), "paddocks")
		}
		if p.Status != herd.PaddockActive && p.Status != herd.PaddockInactive {
			return perr.WithField(perr.Validationf("paddock %s has unknown status %q", p.ID, p.Status), "paddocks")
		}
		paddocks[p.ID] = true
	}
	for _, group := range [][]herd.NameEntity{f.Consignors, f.Slaughterhouses} {
		for _, e := range group {
			if e.ID == "" || e.Name == "" {
				return perr.Validationf("catalog entry needs id and name")
			}
		}
	}
	for _, h := range f.Herds {
		switch {
		case h.ID == "":
			return perr.WithField(perr.Validationf("herd needs an id"), "herds")
		case !h.Category.Valid():
			return perr.WithField(perr.Validationf("herd %s has unknown category %q", h.ID, h.Category), "herds")
		case h.Qty < 0:
			return perr.WithField(perr.Validationf("herd %s has negative qty", h.ID), "herds")
		case !paddocks[h.Paddock]:
			return perr.WithField(perr.Validationf("herd %s grazes unknown paddock %q", h.ID, h.Paddock), "herds")
		}
	}
	return nil
}

// Context is the parse snapshot of the catalog
func (f File) Context() interpreter.ParseContext {
	out := interpreter.ParseContext{
		Paddocks:        make([]herd.NameEntity, 0, len(f.Paddocks)),
		Consignors:      append([]herd.NameEntity{}, f.Consignors...),
		Slaughterhouses: append([]herd.NameEntity{}, f.Slaughterhouses...),
	}
	for _, p := range f.Paddocks {
		out.Paddocks = append(out.Paddocks, herd.NameEntity{ID: p.ID, Name: p.Name})
	}
	return out
}
