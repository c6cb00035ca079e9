package store

import (
	"context"
	"errors"
	"testing"

	perr "ganadero/internal/platform/errors"

	"github.com/jackc/pgx/v5"
)

type fakeTag int64

func (f fakeTag) String() string      { return "UPDATE" }
func (f fakeTag) RowsAffected() int64 { return int64(f) }

type fakeRows struct {
	data [][]any
	i    int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}
func (r *fakeRows) Scan(dest ...any) error {
	cur := r.data[r.i-1]
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			*d = cur[i].(string)
		case *int:
			*d = cur[i].(int)
		}
	}
	return nil
}
func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return nil }

type fakeRow struct {
	v   any
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.v.(int)
	return nil
}

type fakeQ struct {
	affected int64
	rows     [][]any
	row      fakeRow
	err      error
}

func (f *fakeQ) Exec(context.Context, string, ...any) (CommandTag, error) {
	return fakeTag(f.affected), f.err
}
func (f *fakeQ) Query(context.Context, string, ...any) (Rows, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fakeRows{data: f.rows}, nil
}
func (f *fakeQ) QueryRow(context.Context, string, ...any) Row { return f.row }

type pair struct {
	ID  string
	Qty int
}

func scanPair(r Row) (pair, error) {
	var p pair
	err := r.Scan(&p.ID, &p.Qty)
	return p, err
}

func TestExecOne(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		q       *fakeQ
		wantErr bool
	}{
		{name: "one row", q: &fakeQ{affected: 1}},
		{name: "no rows", q: &fakeQ{affected: 0}, wantErr: true},
		{name: "many rows", q: &fakeQ{affected: 3}, wantErr: true},
		{name: "driver error", q: &fakeQ{err: errors.New("boom")}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ExecOne(ctx, tc.q, "UPDATE herds SET qty = 1")
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestScalar_NoRowsIsNotFound(t *testing.T) {
	_, err := Scalar[int](context.Background(), &fakeQ{row: fakeRow{err: pgx.ErrNoRows}}, "SELECT qty FROM herds")
	if !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	v, err := Scalar[int](context.Background(), &fakeQ{row: fakeRow{v: 42}}, "SELECT 42")
	if err != nil || v != 42 {
		t.Fatalf("Scalar = %d, %v", v, err)
	}
}

func TestOneAndMany(t *testing.T) {
	ctx := context.Background()

	if _, err := One(ctx, &fakeQ{}, scanPair, "q"); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("One on empty = %v", err)
	}
	if _, err := One(ctx, &fakeQ{rows: [][]any{{"a", 1}, {"b", 2}}}, scanPair, "q"); err == nil {
		t.Fatalf("One on two rows should fail")
	}
	got, err := One(ctx, &fakeQ{rows: [][]any{{"a", 1}}}, scanPair, "q")
	if err != nil || got != (pair{"a", 1}) {
		t.Fatalf("One = %+v, %v", got, err)
	}

	all, err := Many(ctx, &fakeQ{rows: [][]any{{"a", 1}, {"b", 2}}}, scanPair, "q")
	if err != nil || len(all) != 2 || all[1] != (pair{"b", 2}) {
		t.Fatalf("Many = %+v, %v", all, err)
	}
}

type pingFake struct {
	fakeQ
	err error
}

func (p *pingFake) Tx(ctx context.Context, fn func(RowQuerier) error) error { return fn(p) }
func (p *pingFake) Ping(context.Context) error                             { return p.err }

func TestGuard(t *testing.T) {
	var nilStore *Store
	if err := nilStore.Guard(context.Background()); err == nil {
		t.Fatalf("nil store should fail guard")
	}

	s, err := Open(context.Background(), Config{}, WithPG(&pingFake{err: errors.New("down")}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Guard(context.Background()); err == nil {
		t.Fatalf("expected guard failure")
	}

	s, _ = Open(context.Background(), Config{}, WithPG(&pingFake{}))
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("guard: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
}

type closingCH struct {
	err    error
	closed *[]string
}

func (c closingCH) Insert(context.Context, string, [][]any) error       { return nil }
func (c closingCH) Exec(context.Context, string, ...any) error          { return nil }
func (c closingCH) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }

func (c closingCH) Close() error {
	*c.closed = append(*c.closed, "ch")
	return c.err
}

func TestBackendsAndClose(t *testing.T) {
	empty, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := empty.Backends(); len(got) != 0 {
		t.Fatalf("memory mode backends = %v", got)
	}
	if err := empty.Guard(context.Background()); err != nil {
		t.Fatalf("empty guard: %v", err)
	}

	var closed []string
	s := &Store{PG: &pingFake{}, CH: closingCH{err: errors.New("boom"), closed: &closed}}
	if got := s.Backends(); len(got) != 2 || got[0] != "pg" || got[1] != "ch" {
		t.Fatalf("backends = %v", got)
	}
	err = s.Close(context.Background())
	if err == nil || err.Error() != "ch: boom" {
		t.Fatalf("close err = %v", err)
	}
	if len(closed) != 1 {
		t.Fatalf("ch not closed")
	}
}
