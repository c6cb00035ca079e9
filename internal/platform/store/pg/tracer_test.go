package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"select 1", "select 1"},
		{"  select   1  ", " select 1 "},
		{"UPDATE herds\n\tSET qty = qty - $1\r\nWHERE id = $2", "UPDATE herds SET qty = qty - $1 WHERE id = $2"},
		{"", ""},
	}
	for i, c := range cases {
		if got := compact(c.in); got != c.want {
			t.Fatalf("case %d: compact(%q) = %q, want %q", i, c.in, got, c.want)
		}
	}
}

func TestTracer_Levels(t *testing.T) {
	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel))

	type line struct {
		Level     string  `json:"level"`
		ElapsedMS float64 `json:"elapsed_ms"`
		Slow      bool    `json:"slow"`
		SQL       string  `json:"sql"`
		Error     string  `json:"error"`
		Component string  `json:"component"`
	}

	tests := []struct {
		name  string
		slow  bool
		level string
	}{
		{name: "normal query logs at info", slow: false, level: "info"},
		{name: "slow query logs at warn", slow: true, level: "warn"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			tr.OnQuery(context.Background(), QueryEvent{
				SQL:       "SELECT qty\nFROM herds",
				Args:      []any{"h1"},
				ElapsedUS: 2500,
				Err:       errors.New("boom"),
				Slow:      tc.slow,
			})
			var got line
			if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
				t.Fatalf("unmarshal: %v raw=%s", err, buf.String())
			}
			if got.Level != tc.level || got.Slow != tc.slow {
				t.Fatalf("level=%q slow=%v", got.Level, got.Slow)
			}
			if got.SQL != "SELECT qty FROM herds" || got.Error != "boom" || got.Component != "pg" {
				t.Fatalf("unexpected line %+v", got)
			}
			if got.ElapsedMS != 2.5 {
				t.Fatalf("elapsed_ms = %v", got.ElapsedMS)
			}
		})
	}
}
