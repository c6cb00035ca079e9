package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ganadero/internal/core/herd"
	"ganadero/internal/core/interpreter"
	"ganadero/internal/core/validate"
	"ganadero/internal/modkit/httpkit"
	perr "ganadero/internal/platform/errors"
	phttp "ganadero/internal/platform/net/http"
	"ganadero/internal/services/api/commands/domain"

	"github.com/go-chi/chi/v5"
)

const est = "5b1f7d0e-3c9a-4f0e-9f7e-2a6b8e1c4d21"

type fakeSvc struct {
	confirmErr error
	gotConfirm domain.ConfirmInput
	gotQuery   domain.EstablishmentQuery
}

func (f *fakeSvc) Parse(_ context.Context, in domain.ParseInput) (interpreter.ParseResult, error) {
	return interpreter.ParseResult{Intent: herd.OpMove, Confidence: 0.7, ConfirmationToken: "tok",
		ProposedOperations: []interpreter.ProposedOperation{}, Warnings: []string{}, Errors: []string{}}, nil
}

func (f *fakeSvc) Confirm(_ context.Context, in domain.ConfirmInput) (domain.ConfirmOutput, error) {
	f.gotConfirm = in
	if f.confirmErr != nil {
		return domain.ConfirmOutput{}, f.confirmErr
	}
	return domain.ConfirmOutput{Applied: true, CreatedEventIDs: []string{"ev"}, Summary: domain.SummaryApplied}, nil
}

func (f *fakeSvc) Confirmations(_ context.Context, in domain.EstablishmentQuery) ([]domain.Confirmation, error) {
	f.gotQuery = in
	return []domain.Confirmation{{ID: "c1", EstablishmentID: in.EstablishmentID}}, nil
}

func (f *fakeSvc) Stock(_ context.Context, in domain.EstablishmentQuery) ([]herd.Herd, error) {
	f.gotQuery = in
	return []herd.Herd{}, nil
}

func mount(f *fakeSvc) *chi.Mux {
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Route("/commands", func(sub httpkit.Router) { Register(sub, f) })
	return mux
}

func do(t *testing.T, mux *chi.Mux, method, path, body string) (*httptest.ResponseRecorder, httpkit.Envelope) {
	t.Helper()
	var req *stdhttp.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	var env httpkit.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	return rec, env
}

func TestParse_Binding(t *testing.T) {
	mux := mount(&fakeSvc{})
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "ok", body: `{"establishmentId":"` + est + `","text":"Mover 10 vacas"}`, code: stdhttp.StatusOK},
		{name: "short text", body: `{"establishmentId":"` + est + `","text":"mo"}`, code: stdhttp.StatusBadRequest},
		{name: "bad establishment", body: `{"establishmentId":"campo","text":"Mover 10 vacas"}`, code: stdhttp.StatusBadRequest},
		{name: "missing text", body: `{"establishmentId":"` + est + `"}`, code: stdhttp.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := do(t, mux, stdhttp.MethodPost, "/commands/parse", tc.body)
			if rec.Code != tc.code {
				t.Fatalf("status = %d want %d body=%s", rec.Code, tc.code, rec.Body.String())
			}
			if tc.code == stdhttp.StatusOK {
				data := env.Data.(map[string]any)
				if data["intent"] != "MOVE" || data["confirmationToken"] != "tok" {
					t.Fatalf("data = %+v", data)
				}
			}
		})
	}
}

func TestConfirm_PassesEditsThrough(t *testing.T) {
	f := &fakeSvc{}
	mux := mount(f)
	body := `{"establishmentId":"` + est + `","confirmationToken":"tok","edits":{"parsed":{"intent":"MOVE",
		"proposedOperations":[{"type":"MOVE","occurredAt":"2026-03-10T00:00:00.000Z","payload":{"qty":120}}]}}}`
	rec, env := do(t, mux, stdhttp.MethodPost, "/commands/confirm", body)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if f.gotConfirm.Edits == nil || f.gotConfirm.Edits.Parsed == nil || f.gotConfirm.Edits.Parsed.Intent != herd.OpMove {
		t.Fatalf("edits = %+v", f.gotConfirm.Edits)
	}
	if qty := f.gotConfirm.Edits.Parsed.ProposedOperations[0].Payload["qty"]; qty != float64(120) {
		t.Fatalf("qty = %#v", qty)
	}
	if env.Data.(map[string]any)["summary"] != domain.SummaryApplied {
		t.Fatalf("data = %+v", env.Data)
	}
}

func TestConfirm_ErrorMapping(t *testing.T) {
	violations := []validate.Error{{Code: validate.NegativeQty, Message: "La cantidad resultante no puede ser negativa.", Path: "qty"}}
	tests := []struct {
		name   string
		err    error
		code   int
		reason string
	}{
		{name: "rejected", err: perr.Rejected(string(validate.NegativeQty), violations[0].Message, violations), code: stdhttp.StatusConflict, reason: "NEGATIVE_QTY"},
		{name: "invalid payload", err: perr.Reasoned(perr.ErrorCodeValidation, "INVALID_MOVE_PAYLOAD", "faltan datos"), code: stdhttp.StatusBadRequest, reason: "INVALID_MOVE_PAYLOAD"},
		{name: "paddock not found", err: perr.Reasoned(perr.ErrorCodeNotFound, "NOT_FOUND", "Potrero no encontrado."), code: stdhttp.StatusNotFound, reason: "NOT_FOUND"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mux := mount(&fakeSvc{confirmErr: tc.err})
			rec, env := do(t, mux, stdhttp.MethodPost, "/commands/confirm",
				`{"establishmentId":"`+est+`","confirmationToken":"tok"}`)
			if rec.Code != tc.code || env.Reason != tc.reason {
				t.Fatalf("status = %d reason = %q body=%s", rec.Code, env.Reason, rec.Body.String())
			}
		})
	}
}

func TestConfirm_RejectsUnknownEditKeys(t *testing.T) {
	mux := mount(&fakeSvc{})
	rec, _ := do(t, mux, stdhttp.MethodPost, "/commands/confirm",
		`{"establishmentId":"`+est+`","confirmationToken":"tok","edits":{"parsed":{},"notes":"x"}}`)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListings_BindQuery(t *testing.T) {
	for _, path := range []string{"/commands/confirmations", "/commands/stock"} {
		t.Run(path, func(t *testing.T) {
			f := &fakeSvc{}
			mux := mount(f)
			rec, _ := do(t, mux, stdhttp.MethodGet, path+"?establishmentId="+est, "")
			if rec.Code != stdhttp.StatusOK || f.gotQuery.EstablishmentID != est {
				t.Fatalf("status = %d query = %+v", rec.Code, f.gotQuery)
			}
			rec, _ = do(t, mux, stdhttp.MethodGet, path, "")
			if rec.Code != stdhttp.StatusBadRequest {
				t.Fatalf("missing establishment status = %d", rec.Code)
			}
		})
	}
}
