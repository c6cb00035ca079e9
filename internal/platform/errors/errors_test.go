package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeRejected, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorBasics(t *testing.T) {
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q", e.Error())
	}

	src := stderrs.New("root")
	w := Wrap(src, ErrorCodeDB, "db failed")
	if got := w.Error(); got != "db failed: root" {
		t.Fatalf("Wrap().Error = %q", got)
	}
	if !stderrs.Is(w, src) || Root(w) != src {
		t.Fatalf("wrap chain broken")
	}
	if WrapIf(nil, ErrorCodeDB, "x") != nil {
		t.Fatalf("WrapIf(nil) must be nil")
	}

	f := fmt.Errorf("outer: %w", NotFoundf("potrero %s", "p1"))
	if CodeOf(f) != ErrorCodeNotFound || HTTPStatus(f) != http.StatusNotFound {
		t.Fatalf("CodeOf through fmt wrap = %v", CodeOf(f))
	}
	if CodeOf(stderrs.New("plain")) != ErrorCodeUnknown {
		t.Fatalf("foreign errors are Unknown")
	}
}

func TestMutatorsCopyOnWrite(t *testing.T) {
	base := New(ErrorCodeValidation, "faltan datos")
	withField := WithField(base, "qty")
	withAll := WithDetails(WithReason(WithOp(withField, "confirm.move"), "INVALID_MOVE_PAYLOAD"), []string{"qty"})

	if e, _ := As(base); e.Field() != "" || e.Reason() != "" {
		t.Fatalf("base mutated: %+v", e)
	}
	e, ok := As(withAll)
	if !ok {
		t.Fatalf("As failed")
	}
	if e.Field() != "qty" || e.Op() != "confirm.move" || e.Reason() != "INVALID_MOVE_PAYLOAD" {
		t.Fatalf("mutators lost data: %+v", e)
	}
	if ReasonOf(withAll) != "INVALID_MOVE_PAYLOAD" || ReasonOf(stderrs.New("x")) != "" {
		t.Fatalf("ReasonOf mismatch")
	}

	foreign := stderrs.New("foreign")
	if WithField(foreign, "x") != foreign {
		t.Fatalf("foreign errors stay unchanged")
	}
}

func TestRejectedWire(t *testing.T) {
	details := []map[string]string{{"code": "INSUFFICIENT_STOCK"}}
	err := Rejected("INSUFFICIENT_STOCK", "No hay suficiente stock en el potrero de origen.", details)

	status, wire := HTTP(err)
	if status != http.StatusConflict {
		t.Fatalf("status = %d", status)
	}
	if wire.Code != ErrorCodeRejected || wire.Reason != "INSUFFICIENT_STOCK" || wire.Details == nil {
		t.Fatalf("wire = %+v", wire)
	}
	if s, w := HTTP(nil); s != http.StatusOK || w != (Wire{}) {
		t.Fatalf("HTTP(nil) = %d %+v", s, w)
	}
	if w := WireFrom(stderrs.New("boom")); w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("WireFrom foreign = %+v", w)
	}
}

func TestSugarCodes(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{InvalidArgf("x"), ErrorCodeInvalidArgument},
		{Validationf("x"), ErrorCodeValidation},
		{DBf("x"), ErrorCodeDB},
		{JSONErrf("x"), ErrorCodeJSON},
		{PanicErrf("x"), ErrorCodePanic},
		{Conflictf("x"), ErrorCodeConflict},
		{Unavailablef("x"), ErrorCodeUnavailable},
		{Internalf("x"), ErrorCodeUnknown},
		{Reasoned(ErrorCodeNotFound, "NOT_FOUND", "x"), ErrorCodeNotFound},
	}
	for i, c := range cases {
		if !IsCode(c.err, c.code) {
			t.Fatalf("case %d: code = %v want %v", i, CodeOf(c.err), c.code)
		}
	}
}
