package repo

import (
	"context"

	"ganadero/internal/platform/store"
	"ganadero/internal/services/api/commands/domain"
)

// Journal mirrors confirmations to an analytics sink
type Journal interface {
	Record(ctx context.Context, c domain.Confirmation) error
}

// NopJournal drops everything, used when clickhouse is disabled
type NopJournal struct{}

// Record implements Journal
func (NopJournal) Record(context.Context, domain.Confirmation) error { return nil }

const journalTable = "command_confirmations"

const journalDDL = `
CREATE TABLE IF NOT EXISTS command_confirmations (
    id                String,
    establishment_id  String,
    token             String,
    intent            LowCardinality(String),
    created_event_ids Array(String),
    applied           UInt8,
    confirmed_at      DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (establishment_id, confirmed_at)`

// CHJournal appends confirmations to clickhouse
type CHJournal struct {
	ch store.Clickhouse
}

// NewCHJournal creates the journal table when missing
func NewCHJournal(ctx context.Context, ch store.Clickhouse) (*CHJournal, error) {
	if err := ch.Exec(ctx, journalDDL); err != nil {
		return nil, err
	}
	return &CHJournal{ch: ch}, nil
}

// Record implements Journal
func (j *CHJournal) Record(ctx context.Context, c domain.Confirmation) error {
	var applied uint8
	if len(c.CreatedEventIDs) > 0 {
		applied = 1
	}
	return j.ch.Insert(ctx, journalTable, [][]any{{
		c.ID,
		c.EstablishmentID,
		c.ConfirmationToken,
		string(c.ParsedIntent),
		nonNil(c.CreatedEventIDs),
		applied,
		c.ConfirmedAt.UTC(),
	}})
}
