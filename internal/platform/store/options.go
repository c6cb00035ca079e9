package store

import (
	"ganadero/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithPG injects an already built sql seam, used by tests and embedded runs
func WithPG(q TxRunner) Option {
	return func(s *Store) error {
		s.PG = q
		return nil
	}
}
