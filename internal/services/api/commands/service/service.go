// Package service contains the commands workflows: parse a Spanish instruction into a
// preview and apply a confirmed preview to stock
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ganadero/internal/core/herd"
	"ganadero/internal/core/interpreter"
	"ganadero/internal/core/validate"
	perr "ganadero/internal/platform/errors"
	"ganadero/internal/platform/logger"
	"ganadero/internal/platform/metrics"
	"ganadero/internal/services/api/commands/domain"
	"ganadero/internal/services/api/commands/repo"
)

// DefaultPreviewTTL bounds how long an issued confirmation token is remembered
const DefaultPreviewTTL = 30 * time.Minute

// Service defines the service contract for commands
type Service interface{ domain.ServicePort }

// Options configures a Svc; zero values pick defaults
type Options struct {
	Interpreter *interpreter.Interpreter
	Journal     repo.Journal
	Metrics     *metrics.Registry
	PreviewTTL  time.Duration
	Clock       func() time.Time
	IDs         func() string
}

// Svc implements the Service interface
type Svc struct {
	store    repo.Store
	interp   *interpreter.Interpreter
	journal  repo.Journal
	metrics  *metrics.Registry
	previews *previews
	now      func() time.Time
	newID    func() string
}

// New creates a new commands service over store
func New(store repo.Store, opts Options) *Svc {
	if store == nil {
		panic("commands.Service requires a non nil Store")
	}
	if opts.Interpreter == nil {
		opts.Interpreter = interpreter.New()
	}
	if opts.Journal == nil {
		opts.Journal = repo.NopJournal{}
	}
	if opts.PreviewTTL <= 0 {
		opts.PreviewTTL = DefaultPreviewTTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.IDs == nil {
		opts.IDs = uuid.NewString
	}
	return &Svc{
		store:    store,
		interp:   opts.Interpreter,
		journal:  opts.Journal,
		metrics:  opts.Metrics,
		previews: newPreviews(opts.PreviewTTL),
		now:      opts.Clock,
		newID:    opts.IDs,
	}
}

// Parse loads the establishment catalog and interprets the text against it.
// The minted token is remembered so confirm can tell issued tokens from stale ones
func (s *Svc) Parse(ctx context.Context, in domain.ParseInput) (interpreter.ParseResult, error) {
	var catalog interpreter.ParseContext
	err := s.store.Read(ctx, func(r repo.Repo) error {
		c, err := r.Catalog(ctx, in.EstablishmentID)
		catalog = c
		return err
	})
	if err != nil {
		return interpreter.ParseResult{}, err
	}

	res := s.interp.Parse(in.Text, catalog)
	s.previews.remember(res.ConfirmationToken, preview{EstablishmentID: in.EstablishmentID, Intent: res.Intent})
	s.metrics.Parsed(string(res.Intent))
	logger.C(ctx).Debug().
		Str("intent", string(res.Intent)).
		Float64("confidence", res.Confidence).
		Int("warnings", len(res.Warnings)).
		Msg("command parsed")
	return res, nil
}

// Confirm applies the edited preview in one transaction and records the confirmation.
// Nothing is written when any check fails
func (s *Svc) Confirm(ctx context.Context, in domain.ConfirmInput) (domain.ConfirmOutput, error) {
	var parsed *interpreter.ParseResult
	if in.Edits != nil {
		parsed = in.Edits.Parsed
	}
	var intent herd.OperationType
	if parsed != nil {
		intent = parsed.Intent
	}
	now := s.now().UTC()
	var conf domain.Confirmation
	err := s.store.Tx(ctx, func(r repo.Repo) error {
		a := applier{r: r, establishmentID: in.EstablishmentID, now: now, newID: s.newID}
		ids, err := a.apply(ctx, parsed)
		if err != nil {
			return err
		}
		conf = domain.Confirmation{
			ID:                s.newID(),
			EstablishmentID:   in.EstablishmentID,
			ConfirmationToken: in.ConfirmationToken,
			ParsedIntent:      intent,
			CreatedEventIDs:   ids,
			ConfirmedAt:       now,
		}
		return r.InsertConfirmation(ctx, conf)
	})
	if err != nil {
		s.failed(ctx, intent, err)
		return domain.ConfirmOutput{}, err
	}
	// a rejected confirm keeps its token so the corrected retry is recognized
	s.previews.claim(ctx, in.ConfirmationToken, in.EstablishmentID)

	if jerr := s.journal.Record(ctx, conf); jerr != nil {
		logger.C(ctx).Warn().Err(jerr).Str("confirmation_id", conf.ID).Msg("confirmation journal write failed")
	}

	out := domain.ConfirmOutput{Applied: true, CreatedEventIDs: conf.CreatedEventIDs, Summary: domain.SummaryRecorded}
	outcome := "recorded"
	if len(conf.CreatedEventIDs) > 0 {
		out.Summary = domain.SummaryApplied
		outcome = "applied"
	}
	s.metrics.Confirmed(string(intent), outcome)
	logger.C(ctx).Info().
		Str("intent", string(intent)).
		Strs("event_ids", conf.CreatedEventIDs).
		Msg("command confirmed")
	return out, nil
}

// failed counts and logs a confirm that wrote nothing
func (s *Svc) failed(ctx context.Context, intent herd.OperationType, err error) {
	outcome := "error"
	switch perr.CodeOf(err) {
	case perr.ErrorCodeRejected:
		outcome = "rejected"
		if e, ok := perr.As(err); ok {
			if violations, ok := e.Details().([]validate.Error); ok {
				for _, v := range violations {
					s.metrics.Violation(string(v.Code))
				}
			}
		}
	case perr.ErrorCodeValidation, perr.ErrorCodeNotFound:
		outcome = "invalid"
	}
	s.metrics.Confirmed(string(intent), outcome)
	logger.C(ctx).Info().Err(err).
		Str("intent", string(intent)).
		Str("reason", perr.ReasonOf(err)).
		Str("outcome", outcome).
		Msg("command not confirmed")
}

// Confirmations lists the recorded confirmations of an establishment, newest first
func (s *Svc) Confirmations(ctx context.Context, in domain.EstablishmentQuery) ([]domain.Confirmation, error) {
	var out []domain.Confirmation
	err := s.store.Read(ctx, func(r repo.Repo) error {
		list, err := r.Confirmations(ctx, in.EstablishmentID)
		out = list
		return err
	})
	return out, err
}

// Stock lists the active herds grazing the establishment paddocks
func (s *Svc) Stock(ctx context.Context, in domain.EstablishmentQuery) ([]herd.Herd, error) {
	var out []herd.Herd
	err := s.store.Read(ctx, func(r repo.Repo) error {
		list, err := r.Herds(ctx, in.EstablishmentID)
		out = list
		return err
	})
	return out, err
}
