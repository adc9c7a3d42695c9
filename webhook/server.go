// Package webhook exposes the documentation pipeline over HTTP: a GitHub
// webhook endpoint, a health probe and run report lookup.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	spinai "github.com/haikalllp/spinai-fork"
	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/logging"
)

// Pipeline runs the documentation pipeline and looks up finished runs.
type Pipeline interface {
	Run(ctx context.Context, state core.ReviewState) (*core.RunReport, error)
	Report(runID string) (*core.RunReport, error)
}

// Options configures a Server.
type Options struct {
	// Addr is the listen address (host:port).
	Addr string

	// Secret enables X-Hub-Signature-256 verification when non-empty.
	Secret string

	// Config is the base pipeline configuration; a webhook body may
	// override parts of it.
	Config core.DocConfig

	// DocsRepo optionally points runs at a separate docs repository.
	DocsRepo *core.DocsRepo

	Logger logging.Logger
}

// Server is the webhook HTTP server.
type Server struct {
	opts     Options
	pipeline Pipeline
	logger   logging.Logger
	mux      *http.ServeMux
	server   *http.Server
}

// New creates a server dispatching accepted events to pipeline.
func New(pipeline Pipeline, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:   ":3000",
		Config: core.DefaultDocConfig(),
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		opts:     opts,
		pipeline: pipeline,
		logger:   logging.With(opts.Logger, "component", "webhook"),
		mux:      http.NewServeMux(),
	}

	s.registerRoutes()
	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /webhook", s.handleWebhook)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /runs/{id}", s.handleRun)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Webhook server listening", "addr", s.opts.Addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down webhook server")

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.pipeline.Report(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, spinai.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "Run not found")
			return
		}

		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load run", "details": err.Error()})

		return
	}

	writeJSON(w, http.StatusOK, report)
}

// RuntimePipeline binds a root action to a Runtime.
type RuntimePipeline struct {
	Runtime *spinai.Runtime
	Action  core.Action
}

// Run implements Pipeline.
func (p RuntimePipeline) Run(ctx context.Context, state core.ReviewState) (*core.RunReport, error) {
	return p.Runtime.Run(ctx, p.Action, state)
}

// Report implements Pipeline.
func (p RuntimePipeline) Report(runID string) (*core.RunReport, error) {
	return p.Runtime.Report(runID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
