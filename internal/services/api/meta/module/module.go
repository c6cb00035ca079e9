// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"ganadero/internal/core/herd"
	modkit "ganadero/internal/modkit"
	"ganadero/internal/modkit/httpkit"
	str "ganadero/internal/platform/strings"

	metahttp "ganadero/internal/services/api/meta/http"
)

// ServiceName is reported by health and service endpoints
const ServiceName = "ganadero-api"

// Ports is what meta needs from its siblings
type Ports struct {
	Intents []herd.OperationType
	// Store names the commands backend, postgres makes pg a required check
	Store string
}

// Module implements the modkit.Module interface
type Module struct {
	deps      modkit.Deps
	built     modkit.Built
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options.
// Pass modkit.WithPorts(Ports{...}) to advertise the interpreter intents
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)
	return &Module{deps: deps, built: b, startedAt: time.Now()}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	p, _ := m.built.Ports.(Ports)
	d := metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   m.startedAt,
		Intents:     p.Intents,
		Store:       p.Store,
		PG:          m.deps.PG,
		CH:          m.deps.CH,
	}
	m.built.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, d) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
