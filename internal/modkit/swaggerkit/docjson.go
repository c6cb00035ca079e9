package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"ganadero/internal/core/herd"
	"ganadero/internal/core/interpreter"
	"ganadero/internal/core/version"
	"ganadero/internal/platform/config"
)

//go:embed openapi.json
var openapiJSON string

// docReader is a seam so tests can inject invalid JSON
var docReader = func() string { return openapiJSON }

// serveDocJSON serves the embedded document with the runtime facts filled in:
// base url, build version and the closed vocabularies, so the enums never drift
// from the tables the interpreter uses
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		if _, ok := spec["servers"]; !ok {
			spec["servers"] = []any{map[string]any{"url": "/api/v1"}}
		}
		info := object(spec, "info")
		info["version"] = version.Info().Version
		if v := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if title, ok := info["title"].(string); ok {
				info["title"] = title + " " + v
			}
		}

		schemas := object(object(spec, "components"), "schemas")
		schemas["Category"] = enumSchema("Herd category", categoryNames())
		schemas["Intent"] = enumSchema("Recognized intent", intentNames())
		withErrorResponses(spec)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// object returns m[key] as an object, creating it when absent
func object(m map[string]any, key string) map[string]any {
	if o, ok := m[key].(map[string]any); ok {
		return o
	}
	o := map[string]any{}
	m[key] = o
	return o
}

func enumSchema(desc string, values []any) map[string]any {
	return map[string]any{"type": "string", "description": desc, "enum": values}
}

func categoryNames() []any {
	cats := herd.Categories()
	out := make([]any, len(cats))
	for i, c := range cats {
		out[i] = string(c.Category)
	}
	return out
}

func intentNames() []any {
	out := []any{}
	for _, t := range herd.OperationTypes() {
		out = append(out, string(t))
	}
	return append(out, string(herd.OpDeworming), string(herd.OpTreatment), string(interpreter.Unknown))
}

// withErrorResponses gives every operation the 500 envelope and, for request bodies
// or queries, the 400 the binder produces
func withErrorResponses(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses := object(op, "responses")
			if _, ok := responses["500"]; !ok {
				responses["500"] = errorResponse("Internal Server Error", 500, 1, "error interno")
			}
			_, hasBody := op["requestBody"]
			_, hasParams := op["parameters"]
			if _, ok := responses["400"]; !ok && (hasBody || hasParams) {
				responses["400"] = errorResponse("Bad Request", 400, 5, "establishmentId es obligatorio")
			}
		}
	}
}

func errorResponse(desc string, status, code int, msg string) map[string]any {
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      desc,
					"code":        code,
					"error":       msg,
					"request_id":  "host/abc-000001",
				},
			},
		},
	}
}
