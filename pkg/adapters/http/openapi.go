package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/agentdeck/api"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// Contract is the loaded OpenAPI document of the agent API.
type Contract struct {
	doc    *openapi3.T
	router routers.Router
}

var loadContract = sync.OnceValues(func() (*Contract, error) {
	return NewContract(api.Spec)
})

// LoadContract parses the embedded document once and reuses it.
func LoadContract() (*Contract, error) {
	return loadContract()
}

// NewContract loads and validates an OpenAPI document.
func NewContract(data []byte) (*Contract, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}
	return &Contract{doc: doc, router: router}, nil
}

// ValidateRequest checks r against its operation, using body as the request
// body. Routes the document does not describe pass unchecked.
func (c *Contract) ValidateRequest(ctx context.Context, r *http.Request, body []byte) error {
	req := r.Clone(ctx)
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", "application/json")

	route, params, err := c.router.FindRoute(req)
	if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
		return nil
	}
	if err != nil {
		return err
	}
	return openapi3filter.ValidateRequest(ctx, &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: params,
		Route:      route,
	})
}

// ValidateWorkflow checks a workflow definition against the WorkflowDefinition schema.
func (c *Contract) ValidateWorkflow(def domain.WorkflowDefinition) error {
	ref := c.doc.Components.Schemas["WorkflowDefinition"]
	if ref == nil || ref.Value == nil {
		return errors.New("openapi document has no WorkflowDefinition schema")
	}
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode workflow: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to decode workflow: %w", err)
	}
	return ref.Value.VisitJSON(v)
}

// contractMessage names the offending field the way a client sent it.
func contractMessage(err error) string {
	var serr *openapi3.SchemaError
	if errors.As(err, &serr) {
		ptr := "/" + strings.Join(serr.JSONPointer(), "/")
		return fmt.Sprintf("%s: %s", ptr, serr.Reason)
	}
	return err.Error()
}

func (s *Server) openapiSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(api.Spec)
}
