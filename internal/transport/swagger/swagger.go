package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SpecPath is where the raw OpenAPI document is served; the Swagger UI reads it from here.
const SpecPath = "/openapi.yml"

// Document is a parsed and validated OpenAPI document together with its source bytes.
type Document struct {
	raw []byte
	doc *openapi3.T
}

// Load parses raw and validates it, so a broken document fails startup instead of the UI.
func Load(ctx context.Context, raw []byte) (*Document, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return &Document{raw: raw, doc: doc}, nil
}

func (d *Document) Title() string {
	return d.doc.Info.Title
}

// HasOperation reports whether the document declares method on path.
func (d *Document) HasOperation(method, path string) bool {
	item := d.doc.Paths.Value(path)
	if item == nil {
		return false
	}
	return item.GetOperation(method) != nil
}

func (d *Document) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.raw)
}

func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(SpecPath),
	)
}
