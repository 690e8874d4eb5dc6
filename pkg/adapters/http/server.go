// Package http is the reference agent-management backend: the JSON API the console
// consumes, backed by a ports.AgentStore and a ports.Executor.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/agentdeck/internal/logging"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/ports"
	"github.com/aretw0/agentdeck/pkg/runner"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Server serves the agent API.
type Server struct {
	store    ports.AgentStore
	executor ports.Executor
	catalog  domain.Components
	origins  []string
	validate *validator.Validate
	contract *Contract
	metrics  *Metrics
	logger   *slog.Logger
	newID    func() string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithCatalog replaces the component catalog.
func WithCatalog(c domain.Components) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithAllowedOrigins restricts CORS. The default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithIDGenerator replaces the agent id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) {
		s.newID = fn
	}
}

// NewAgentID returns an id of the form agent_<8 hex chars>.
func NewAgentID() string {
	return "agent_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewServer creates a Server. It panics if the embedded OpenAPI document is invalid.
func NewServer(store ports.AgentStore, exec ports.Executor, opts ...Option) *Server {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	contract, err := LoadContract()
	if err != nil {
		panic(err)
	}

	s := &Server{
		store:    store,
		executor: exec,
		catalog:  DefaultCatalog(nil),
		origins:  []string{"*"},
		validate: v,
		contract: contract,
		metrics:  NewMetrics("agentdeck"),
		logger:   logging.NewNop(),
		newID:    NewAgentID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics exposes the server collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Get("/openapi.yaml", s.openapiSpec)
	r.Get("/components", s.components)
	r.Route("/agents", func(r chi.Router) {
		r.Get("/", s.listAgents)
		r.Post("/", s.createAgent)
		r.Post("/{agentID}/execute", s.executeAgent)
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) components(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog)
}

func (s *Server) listAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list agents failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to list agents")
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

func (s *Server) createAgent(w http.ResponseWriter, r *http.Request) {
	// Omitted fields keep these defaults.
	body := domain.AgentCreate{Tools: []string{}, Safety: true}
	raw, err := io.ReadAll(r.Body)
	if err == nil {
		err = json.Unmarshal(raw, &body)
	}
	if err != nil {
		s.logger.Warn("create agent: invalid request body", "err", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.contract.ValidateRequest(r.Context(), r, raw); err != nil {
		s.logger.Warn("create agent: request violates contract", "err", err)
		writeError(w, http.StatusUnprocessableEntity, contractMessage(err))
		return
	}
	if err := s.validate.Struct(body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	agent := body.ToAgent(s.newID())
	if err := s.store.Save(r.Context(), &agent); err != nil {
		s.logger.Error("save agent failed", "agent_id", agent.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to save agent")
		return
	}
	s.metrics.AgentsCreated.Inc()
	s.logger.Info("agent created", "agent_id", agent.ID, "name", agent.Name, "workflow", agent.IsWorkflow())
	writeJSON(w, http.StatusOK, agent)
}

func (s *Server) executeAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "agentID")

	var body domain.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("execute: invalid request body", "agent_id", id, "err", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	task, err := runner.SanitizeInput(body.Task)
	if err != nil {
		s.logger.Warn("execute: input rejected", "agent_id", id, "size", len(body.Task), "err", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid input: %v", err))
		return
	}

	agent, err := s.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAgentNotFound) {
			writeError(w, http.StatusNotFound, "Agent not found")
			return
		}
		s.logger.Error("load agent failed", "agent_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to load agent")
		return
	}

	resp, err := s.executor.Execute(r.Context(), agent, task)
	if err != nil {
		s.metrics.Executions.WithLabelValues("error").Inc()
		s.logger.Error("execute failed", "agent_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	outcome := "success"
	if !resp.Success {
		outcome = "failure"
	}
	s.metrics.Executions.WithLabelValues(outcome).Inc()
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

// writeError uses the {"detail": ...} body the console expects.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
