// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"ganadero/internal/core/herd"
	"ganadero/internal/core/version"
	"ganadero/internal/modkit/httpkit"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	// Store is the commands backend; with "postgres" a pg failure fails readiness
	Store string
	// Now defaults to time.Now
	Now func() time.Time
	// Intents lists what the interpreter recognizes, in evaluation order
	Intents []herd.OperationType
}

type handlers struct {
	deps Deps
}

func (h *handlers) now() time.Time {
	if h.deps.Now != nil {
		return h.deps.Now()
	}
	return time.Now()
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	// mount routes
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/vocabulary", h.vocabulary)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"ganadero-api"`
	Started string `json:"started"  example:"2026-03-10T13:00:00Z"`
	Now     string `json:"now"      example:"2026-03-10T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Store  string       `json:"store"  example:"postgres"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-03-10T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"ganadero-api"`
	Started string `json:"started" example:"2026-03-10T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// VocabularyResponse lists the closed vocabularies the interpreter and confirm use
type VocabularyResponse struct {
	OperationTypes []herd.OperationType `json:"operationTypes"`
	Intents        []herd.OperationType `json:"intents"`
	Categories     []herd.CategoryInfo  `json:"categories"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse ok
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	pg := check(ctx, "pg", h.deps.PG)
	ch := check(ctx, "ch", h.deps.CH)

	return ReadyResponse{
		Status: overall(h.deps.Store == "postgres", pg, ch),
		Store:  h.deps.Store,
		Checks: []ReadyCheck{pg, ch},
		Now:    h.now().UTC().Format(time.RFC3339),
	}, nil
}

func check(ctx stdctx.Context, name string, c any) ReadyCheck {
	if c == nil {
		return ReadyCheck{Name: name, Status: "skipped"}
	}
	p, ok := c.(Pinger)
	if !ok {
		return ReadyCheck{Name: name, Status: "unknown"}
	}
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: "ok"}
}

// overall fails only when the commands store is unreachable. The journal is
// best effort, so a broken clickhouse degrades
func overall(pgRequired bool, pg, ch ReadyCheck) string {
	if pgRequired && pg.Status != "ok" {
		return "fail"
	}
	if ch.Status == "fail" || ch.Status == "unknown" || pg.Status == "fail" || pg.Status == "unknown" {
		return "degraded"
	}
	return "ok"
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse ok
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := h.now().Sub(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}

// swagger:route GET /meta/vocabulary Meta metaVocabulary
// @Summary Operation types, recognized intents and herd categories with synonyms
// @Tags Meta
// @Produce json
// @Success 200 type VocabularyResponse ok
// @Router /meta/vocabulary [get]
func (h *handlers) vocabulary(_ *http.Request) (any, error) {
	intents := h.deps.Intents
	if intents == nil {
		intents = []herd.OperationType{}
	}
	return VocabularyResponse{
		OperationTypes: herd.OperationTypes(),
		Intents:        intents,
		Categories:     herd.Categories(),
	}, nil
}
