package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "ganadero/internal/platform/errors"
	phttp "ganadero/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type echoIn struct {
	Text string `json:"text" validate:"required"`
}

func newAPI(t *testing.T) *chi.Mux {
	t.Helper()
	mux := chi.NewRouter()
	MountAPIV1(phttp.AdaptChi(mux), CommonStack(StackOptions{}), func(api Router) {
		PostJSON(api, "/echo", func(_ *http.Request, in echoIn) (any, error) {
			if in.Text == "conflict" {
				return nil, perr.Rejected("NEGATIVE_QTY", "stock insuficiente", nil)
			}
			if in.Text == "created" {
				return Created(in), nil
			}
			return in, nil
		})
		Get(api, "/boom", func(*http.Request) (any, error) { panic("boom") })
	})
	return mux
}

func TestPostJSON_Statuses(t *testing.T) {
	mux := newAPI(t)
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "ok", body: `{"text":"hola"}`, code: http.StatusOK},
		{name: "created response passes through", body: `{"text":"created"}`, code: http.StatusCreated},
		{name: "validation", body: `{"text":""}`, code: http.StatusBadRequest},
		{name: "unknown field", body: `{"text":"x","extra":1}`, code: http.StatusBadRequest},
		{name: "rejected maps to conflict", body: `{"text":"conflict"}`, code: http.StatusConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			mux.ServeHTTP(rec, req)
			if rec.Code != tc.code {
				t.Fatalf("status = %d want %d body=%s", rec.Code, tc.code, rec.Body.String())
			}
			var env Envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.StatusCode != tc.code || env.RequestID == "" {
				t.Fatalf("envelope = %+v", env)
			}
		})
	}
}

func TestCommonStack_RecoversPanics(t *testing.T) {
	mux := newAPI(t)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}
