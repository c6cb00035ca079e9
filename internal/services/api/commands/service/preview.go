package service

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"ganadero/internal/core/herd"
	"ganadero/internal/platform/logger"
)

// preview is what parse remembers about an issued token
type preview struct {
	EstablishmentID string
	Intent          herd.OperationType
}

// previews is a TTL registry of issued confirmation tokens.
// Tokens are not bound to payloads; the registry only feeds logs
type previews struct {
	c *gocache.Cache
}

func newPreviews(ttl time.Duration) *previews {
	return &previews{c: gocache.New(ttl, 2*ttl)}
}

func (p *previews) remember(token string, v preview) {
	if token == "" {
		return
	}
	p.c.Set(token, v, gocache.DefaultExpiration)
}

func (p *previews) lookup(token string) (preview, bool) {
	v, ok := p.c.Get(token)
	if !ok {
		return preview{}, false
	}
	pv, ok := v.(preview)
	return pv, ok
}

// claim forgets token and logs when it was never issued, expired or issued to another establishment
func (p *previews) claim(ctx context.Context, token, establishmentID string) {
	pv, ok := p.lookup(token)
	if !ok {
		logger.C(ctx).Warn().Str("token", token).Msg("confirmation token unknown or expired")
		return
	}
	p.c.Delete(token)
	if !strings.EqualFold(pv.EstablishmentID, establishmentID) {
		logger.C(ctx).Warn().
			Str("token", token).
			Str("issued_to", pv.EstablishmentID).
			Msg("confirmation token issued to another establishment")
	}
}
