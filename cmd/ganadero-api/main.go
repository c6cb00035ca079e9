// @title         Ganadero API
// @version       0.1.0
// @description   Spanish livestock command interpreter with human confirmation

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ganadero/internal/modkit/repokit"
	"ganadero/internal/platform/config"
	"ganadero/internal/platform/logger"
	"ganadero/internal/platform/metrics"
	phttp "ganadero/internal/platform/net/http"
	"ganadero/internal/platform/store"

	"ganadero/internal/services/api"
	commandsmod "ganadero/internal/services/api/commands/module"
	commandsrepo "ganadero/internal/services/api/commands/repo"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := store.Config{AppName: "ganadero-api"}
	if apiCfg.MayEnum("STORE", commandsmod.StorePostgres, commandsmod.StorePostgres, commandsmod.StoreMemory) == commandsmod.StorePostgres {
		cfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		}
	}
	if chCfg.MayBool("ENABLED", false) {
		cfg.CH = store.CHConfig{
			Enabled: true,
			URL:     chCfg.MustString("DBURL"),
			Role:    "api",
		}
	}

	// open the platform store (postgres + CH adapter)
	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	if st.PG != nil {
		if err := commandsrepo.Migrate(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("commands migration failed")
		}
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg.MayPort("PORT", ":4000"))

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:        root,
			Store:         st,
			Logger:        l,
			Metrics:       metrics.New(),
			EnableSwagger: apiCfg.MayBool("SWAGGER", true),
			EnableMetrics: apiCfg.MayBool("METRICS", true),
			CORSOrigins:   apiCfg.MayCSV("CORS_ORIGINS", nil),
			SlowRequest:   apiCfg.MayDuration("SLOW_REQUEST", 2*time.Second),
		},
	)

	// run until SIGINT or SIGTERM
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
