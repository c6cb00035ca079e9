// Package store opens the optional storage backends. Postgres holds the livestock
// state, ClickHouse mirrors confirmations; with neither enabled the API runs on its
// in memory store and Store stays empty
package store

import (
	"context"
	"errors"
	"fmt"

	"ganadero/internal/platform/logger"
)

// Store holds the opened backends; the zero value has none
type Store struct {
	// Log is handed to the pg tracer, zero means a no op logger
	Log logger.Logger

	// PG is nil unless postgres is enabled
	PG TxRunner

	// CH is nil unless clickhouse is enabled
	CH Clickhouse
}

type backend struct {
	name string
	v    any
}

// backends lists the opened backends in open order
func (s *Store) backends() []backend {
	var out []backend
	if s.PG != nil {
		out = append(out, backend{"pg", s.PG})
	}
	if s.CH != nil {
		out = append(out, backend{"ch", s.CH})
	}
	return out
}

// Backends names the opened backends, for startup logs
func (s *Store) Backends() []string {
	names := []string{}
	for _, b := range s.backends() {
		names = append(names, b.name)
	}
	return names
}

// Open connects the backends enabled in cfg. A failure closes whatever was
// already opened
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Logger()

	if cfg.PG.Enabled {
		pg, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = pg
	}
	if cfg.CH.Enabled {
		ch, err := openCH(ctx, cfg)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = ch
	}

	s.Log.Info().Strs("backends", s.Backends()).Msg("store opened")
	return s, nil
}

// Guard pings every opened backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for _, b := range s.backends() {
		p, ok := b.v.(Pinger)
		if !ok {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes the backends in reverse open order
func (s *Store) Close(_ context.Context) error {
	var errs []error
	bs := s.backends()
	for i := len(bs) - 1; i >= 0; i-- {
		c, ok := bs[i].v.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", bs[i].name, err))
		}
	}
	return errors.Join(errs...)
}
