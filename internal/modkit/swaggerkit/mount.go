// Package swaggerkit serves the embedded OpenAPI document and the Swagger UI over it
package swaggerkit

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	phttp "ganadero/internal/platform/net/http"
)

const (
	// DocsPath is where the UI lives
	DocsPath = "/api/docs"
	// DocJSONPath is the document the UI loads
	DocJSONPath = DocsPath + "/doc.json"
)

// Mount attaches the UI and the document when enabled; otherwise both paths 404
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get(DocsPath, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, DocsPath+"/", http.StatusPermanentRedirect)
	})
	r.Get(DocJSONPath, serveDocJSON())
	r.Handle(DocsPath+"/*", httpSwagger.Handler(
		httpSwagger.URL(DocJSONPath),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DeepLinking(true),
	))
}
