// Package module wires commands into the API using modkit
package module

import (
	"context"
	"time"

	"ganadero/internal/catalog"
	"ganadero/internal/core/fuzzy"
	"ganadero/internal/core/interpreter"
	modkit "ganadero/internal/modkit"
	"ganadero/internal/modkit/httpkit"
	"ganadero/internal/platform/logger"
	str "ganadero/internal/platform/strings"
	commandshttp "ganadero/internal/services/api/commands/http"
	commandsrepo "ganadero/internal/services/api/commands/repo"
	commandssvc "ganadero/internal/services/api/commands/service"
)

// Store backends selectable with CORE_API_STORE
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// journalSetupTimeout bounds the clickhouse table check at startup
const journalSetupTimeout = 10 * time.Second

// Module implements the modkit.Module interface
type Module struct {
	built modkit.Built
	svc   commandssvc.Service
	ports Ports
}

// New constructs a commands module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("commands"),
		modkit.WithPrefix("/commands"),
	}, opts...)...)

	apiCfg := deps.Cfg.Prefix("CORE_API_")
	it := interpreter.NewWithOptions(interpreter.Options{
		Threshold: deps.Cfg.Prefix("INTERPRETER_").MayFloat64("THRESHOLD", fuzzy.DefaultThreshold),
	})
	store, kind := storeFrom(deps)
	svc := commandssvc.New(store, commandssvc.Options{
		Interpreter: it,
		Journal:     journalFrom(deps),
		Metrics:     deps.Metrics,
		PreviewTTL:  apiCfg.MayDuration("PREVIEW_TTL", commandssvc.DefaultPreviewTTL),
	})

	return &Module{built: b, svc: svc, ports: Ports{Service: svc, Intents: it.Intents(), Store: kind}}
}

// storeFrom picks postgres when a pool is wired, the in memory store otherwise
func storeFrom(deps modkit.Deps) (commandsrepo.Store, string) {
	apiCfg := deps.Cfg.Prefix("CORE_API_")
	kind := apiCfg.MayEnum("STORE", StorePostgres, StorePostgres, StoreMemory)
	if kind == StorePostgres && deps.PG != nil {
		return commandsrepo.NewPGStore(deps.PG), StorePostgres
	}

	log := logger.Named("commands")
	mem := commandsrepo.NewMemory()
	if path := apiCfg.MayString("CATALOG", ""); path != "" {
		f, err := catalog.Load(path)
		if err != nil {
			log.Panic().Err(err).Str("path", path).Msg("catalog load failed")
		}
		Seed(mem, f)
		log.Info().Str("path", path).Int("paddocks", len(f.Paddocks)).Int("herds", len(f.Herds)).Msg("memory store seeded")
	}
	log.Warn().Msg("commands use the in memory store, state is lost on restart")
	return mem, StoreMemory
}

// journalFrom mirrors confirmations to clickhouse when it is wired
func journalFrom(deps modkit.Deps) commandsrepo.Journal {
	if deps.CH == nil {
		return commandsrepo.NopJournal{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), journalSetupTimeout)
	defer cancel()
	j, err := commandsrepo.NewCHJournal(ctx, deps.CH)
	if err != nil {
		logger.Named("commands").Warn().Err(err).Msg("confirmation journal disabled")
		return commandsrepo.NopJournal{}
	}
	return j
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { commandshttp.Register(rr, m.svc) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }
