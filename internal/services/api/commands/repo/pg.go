package repo

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"ganadero/internal/core/herd"
	"ganadero/internal/core/interpreter"
	"ganadero/internal/modkit/repokit"
	perr "ganadero/internal/platform/errors"
	"ganadero/internal/platform/store"
	"ganadero/internal/services/api/commands/domain"

	"github.com/google/uuid"
)

//go:embed schema.sql
var schema string

// Migrate creates the commands tables when missing
func Migrate(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, schema)
	return perr.WrapIf(err, perr.ErrorCodeDB, "migrate commands schema")
}

type (
	// PG implements the Repo binder for Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// lockTimeout keeps confirm transactions from queueing behind a stuck writer
const lockTimeout = 3 * time.Second

type pgStore struct {
	db     repokit.TxRunner
	tx     repokit.TxRunner
	binder repokit.Binder[Repo]
}

// NewPGStore wraps a TxRunner as a Store
func NewPGStore(db repokit.TxRunner) Store {
	return &pgStore{
		db:     db,
		tx:     repokit.WithBeginHooks(db, repokit.LockTimeout(lockTimeout)),
		binder: NewPG(),
	}
}

func (s *pgStore) Read(_ context.Context, fn func(Repo) error) error {
	return fn(repokit.MustBind(s.binder, s.db))
}

func (s *pgStore) Tx(ctx context.Context, fn func(Repo) error) error {
	return repokit.WithTx(ctx, s.tx, func(q repokit.Queryer) error {
		return fn(s.binder.Bind(q))
	})
}

func scanEntity(r repokit.Row) (herd.NameEntity, error) {
	var e herd.NameEntity
	err := r.Scan(&e.ID, &e.Name)
	return e, err
}

const herdColumns = `h.id::text, h.code, h.qty, h.category, h.species, h.reproductive_status,
h.current_paddock_id::text, h.status, h.last_event_at`

func scanHerd(r repokit.Row) (herd.Herd, error) {
	var h herd.Herd
	err := r.Scan(&h.ID, &h.Code, &h.Qty, &h.Category, &h.Species, &h.ReproductiveStatus,
		&h.CurrentPaddockID, &h.Status, &h.LastEventAt)
	return h, err
}

func (r *queries) Catalog(ctx context.Context, establishmentID string) (interpreter.ParseContext, error) {
	var out interpreter.ParseContext
	var err error
	out.Paddocks, err = store.Many(ctx, r.q, scanEntity,
		`select id::text, name from paddocks where establishment_id = $1 order by name`, establishmentID)
	if err != nil {
		return out, dbErr("catalog", err)
	}
	out.Consignors, err = store.Many(ctx, r.q, scanEntity,
		`select id::text, name from consignors where establishment_id = $1 and status = 'ACTIVE' order by name`, establishmentID)
	if err != nil {
		return out, dbErr("catalog", err)
	}
	out.Slaughterhouses, err = store.Many(ctx, r.q, scanEntity,
		`select id::text, name from slaughterhouses where establishment_id = $1 and status = 'ACTIVE' order by name`, establishmentID)
	return out, dbErr("catalog", err)
}

func (r *queries) Paddock(ctx context.Context, id string) (domain.OwnedPaddock, error) {
	p, err := store.One(ctx, r.q, func(row repokit.Row) (domain.OwnedPaddock, error) {
		var p domain.OwnedPaddock
		err := row.Scan(&p.ID, &p.Name, &p.Status, &p.EstablishmentID)
		return p, err
	}, `select id::text, name, status, establishment_id::text from paddocks where id = $1`, id)
	return p, passNotFound(err)
}

func (r *queries) HerdAt(ctx context.Context, paddockID string, category herd.Category) (herd.Herd, error) {
	h, err := store.One(ctx, r.q, scanHerd, `
select `+herdColumns+`
from herds h
where h.current_paddock_id = $1 and h.category = $2 and h.status = 'ACTIVE'
order by h.last_event_at desc
limit 1
for update`, paddockID, string(category))
	return h, passNotFound(err)
}

func (r *queries) HerdsByID(ctx context.Context, ids []string) (map[string]herd.Herd, error) {
	out := make(map[string]herd.Herd, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := store.Many(ctx, r.q, scanHerd, `
select `+herdColumns+`
from herds h
where h.id = any($1::uuid[])
for update`, ids)
	if err != nil {
		return nil, dbErr("herdsByID", err)
	}
	for _, h := range rows {
		out[h.ID] = h
	}
	return out, nil
}

func (r *queries) Herds(ctx context.Context, establishmentID string) ([]herd.Herd, error) {
	out, err := store.Many(ctx, r.q, scanHerd, `
select `+herdColumns+`
from herds h
join paddocks p on p.id = h.current_paddock_id
where p.establishment_id = $1 and h.status = 'ACTIVE'
order by p.name, h.category`, establishmentID)
	return out, dbErr("herds", err)
}

func (r *queries) Decrement(ctx context.Context, herdID string, qty int, at time.Time) (bool, error) {
	n, err := store.ExecAffected(ctx, r.q, `
update herds
set qty = qty - $1, last_event_at = greatest(last_event_at, $3)
where id = $2 and qty >= $1`, qty, herdID, at)
	if err != nil {
		return false, dbErr("decrement", err)
	}
	return n == 1, nil
}

func (r *queries) AddStock(ctx context.Context, paddockID string, category herd.Category, qty int, at time.Time) (string, error) {
	id, err := store.Scalar[string](ctx, r.q, `
update herds
set qty = qty + $3, last_event_at = greatest(last_event_at, $4)
where id = (
    select id from herds
    where current_paddock_id = $1 and category = $2 and status = 'ACTIVE'
    order by last_event_at desc
    limit 1
    for update
)
returning id::text`, paddockID, string(category), qty, at)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, perr.ErrNotFound) {
		return "", dbErr("addStock", err)
	}

	id = uuid.NewString()
	err = store.ExecOne(ctx, r.q, `
insert into herds (id, code, qty, category, species, reproductive_status, current_paddock_id, status, last_event_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, herdCode(id), qty, string(category), string(category.Species()), string(herd.NA),
		paddockID, string(herd.StatusActive), at)
	if err != nil {
		return "", dbErr("addStock", err)
	}
	return id, nil
}

func (r *queries) InsertMovement(ctx context.Context, m domain.Movement) error {
	return dbErr("insertMovement", store.ExecOne(ctx, r.q, `
insert into movements (id, establishment_id, from_paddock_id, to_paddock_id, category, qty, occurred_at, created_at)
values ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.EstablishmentID, m.FromPaddockID, m.ToPaddockID, string(m.Category), m.Qty, m.OccurredAt, m.CreatedAt))
}

func (r *queries) InsertHealthEvent(ctx context.Context, e domain.HealthEvent) error {
	return dbErr("insertHealthEvent", store.ExecOne(ctx, r.q, `
insert into health_events (id, establishment_id, type, category, qty, product, dose, occurred_at, status, source, created_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.EstablishmentID, string(e.Type), string(e.Category), e.Qty, e.Product, e.Dose,
		e.OccurredAt, e.Status, e.Source, e.CreatedAt))
}

func (r *queries) InsertShipment(ctx context.Context, s domain.Shipment) error {
	err := store.ExecOne(ctx, r.q, `
insert into slaughter_shipments (id, establishment_id, consignor_id, slaughterhouse_id, occurred_at, created_at)
values ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.EstablishmentID, s.ConsignorID, s.SlaughterhouseID, s.OccurredAt, s.CreatedAt)
	if err != nil {
		return dbErr("insertShipment", err)
	}
	for i, it := range s.Items {
		var category *string
		if it.Category != nil {
			c := string(*it.Category)
			category = &c
		}
		err := store.ExecOne(ctx, r.q, `
insert into slaughter_shipment_items (shipment_id, line, herd_id, category, qty, unit_price)
values ($1, $2, $3, $4, $5, $6)`, s.ID, i, it.HerdID, category, it.Qty, it.UnitPrice)
		if err != nil {
			return dbErr("insertShipment", err)
		}
	}
	return nil
}

func (r *queries) InsertConfirmation(ctx context.Context, c domain.Confirmation) error {
	var intent *string
	if c.ParsedIntent != "" {
		s := string(c.ParsedIntent)
		intent = &s
	}
	return dbErr("insertConfirmation", store.ExecOne(ctx, r.q, `
insert into confirmations (id, establishment_id, confirmation_token, parsed_intent, created_event_ids, confirmed_at)
values ($1, $2, $3, $4, $5::uuid[], $6)`,
		c.ID, c.EstablishmentID, c.ConfirmationToken, intent, nonNil(c.CreatedEventIDs), c.ConfirmedAt))
}

func (r *queries) Confirmations(ctx context.Context, establishmentID string) ([]domain.Confirmation, error) {
	out, err := store.Many(ctx, r.q, func(row repokit.Row) (domain.Confirmation, error) {
		var c domain.Confirmation
		var intent *string
		err := row.Scan(&c.ID, &c.EstablishmentID, &c.ConfirmationToken, &intent, &c.CreatedEventIDs, &c.ConfirmedAt)
		if intent != nil {
			c.ParsedIntent = herd.OperationType(*intent)
		}
		return c, err
	}, `
select id::text, establishment_id::text, confirmation_token, parsed_intent, created_event_ids::text[], confirmed_at
from confirmations
where establishment_id = $1
order by confirmed_at desc`, establishmentID)
	return out, dbErr("confirmations", err)
}

func passNotFound(err error) error {
	if err == nil || errors.Is(err, perr.ErrNotFound) {
		return err
	}
	return dbErr("lookup", err)
}

// dbErr classifies a driver error and tags it with the repo operation
func dbErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return perr.WithOp(perr.FromPostgres(err, "commands store: "+op), op)
}

// herdCode names a herd created by an incoming move
func herdCode(id string) string { return "CMD-" + id[:8] }

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
