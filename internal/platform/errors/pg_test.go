package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code, col string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ColumnName: col}
}

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23503", ErrorCodeInvalidArgument},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"22P02", ErrorCodeInvalidArgument},
		{"40001", ErrorCodeConflict},
		{"40P01", ErrorCodeConflict},
		{"55P03", ErrorCodeConflict},
		{"25006", ErrorCodeUnavailable},
		{"57P03", ErrorCodeUnavailable},
		{"XXXXX", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(fmt.Errorf("exec: %w", pg(c.code, "")))
		if !ok || got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v,%v want %v", c.code, got, ok, c.want)
		}
	}
	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatalf("non pg errors must report ok=false")
	}
}

func TestPredicates(t *testing.T) {
	if !IsDuplicateKey(pg("23505", "")) || IsDuplicateKey(pg("23514", "")) {
		t.Fatalf("IsDuplicateKey mismatch")
	}
	if !IsCheckViolation(Wrap(pg("23514", ""), ErrorCodeDB, "update herds")) {
		t.Fatalf("IsCheckViolation must see through wraps")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("nil stays nil")
	}
	err := FromPostgres(pg("23502", "category"), "insert herd")
	e, ok := As(err)
	if !ok || e.Code() != ErrorCodeValidation || e.Field() != "category" {
		t.Fatalf("FromPostgres = %+v", e)
	}
	ours := NotFoundf("lote")
	if FromPostgres(ours, "x") != ours {
		t.Fatalf("already structured errors pass through")
	}
	if !IsCode(FromPostgres(stderrs.New("conn reset"), "x"), ErrorCodeDB) {
		t.Fatalf("foreign errors map to DB")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline wrapped", fmt.Errorf("q: %w", context.DeadlineExceeded), false},
		{"serialization", pg("40001", ""), true},
		{"deadlock", Wrap(pg("40P01", ""), ErrorCodeDB, "tx"), true},
		{"unique", pg("23505", ""), false},
		{"commit text", stderrs.New("commit unexpectedly resulted in rollback"), true},
		{"other text", stderrs.New("boom"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsRetryable(c.err); got != c.want {
				t.Fatalf("IsRetryable = %v, want %v", got, c.want)
			}
			if Retryable(c.err) != c.want {
				t.Fatalf("Retryable disagrees")
			}
		})
	}
}
