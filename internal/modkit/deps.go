package modkit

import (
	"ganadero/internal/modkit/repokit"
	"ganadero/internal/platform/config"
	"ganadero/internal/platform/logger"
	"ganadero/internal/platform/metrics"
	"ganadero/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	CH      store.Clickhouse
	Metrics *metrics.Registry
}
