// Package api provides the HTTP API for the application
package api

import (
	"time"

	"ganadero/internal/platform/config"
	"ganadero/internal/platform/logger"
	"ganadero/internal/platform/metrics"
	phttp "ganadero/internal/platform/net/http"
	"ganadero/internal/platform/store"

	"ganadero/internal/modkit"
	"ganadero/internal/modkit/httpkit"
	"ganadero/internal/modkit/module"
	"ganadero/internal/modkit/swaggerkit"

	commandsmod "ganadero/internal/services/api/commands/module"
	metamod "ganadero/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	Metrics       *metrics.Registry
	EnableSwagger bool
	EnableMetrics bool
	CORSOrigins   []string
	SlowRequest   time.Duration
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	// commands first, meta advertises its intents
	commands := commandsmod.New(deps)
	cports := module.MustPortsOf[commandsmod.Ports](commands)

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Intents: cports.Intents, Store: cports.Store})),
		commands,
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins: opt.CORSOrigins,
		SlowRequest: opt.SlowRequest,
		Observe:     opt.Metrics.Middleware,
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	if opt.EnableMetrics && opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}
