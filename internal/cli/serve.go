package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/anchorage/pkg/buildinfo"
	"github.com/matzehuels/anchorage/pkg/config"
	"github.com/matzehuels/anchorage/pkg/engine"
	apierrors "github.com/matzehuels/anchorage/pkg/errors"
	"github.com/matzehuels/anchorage/pkg/observability"
	"github.com/matzehuels/anchorage/pkg/render"
	"github.com/matzehuels/anchorage/pkg/scene"
)

// maxSceneBytes bounds request bodies.
const maxSceneBytes = 1 << 20

// serveCommand creates the serve command, an HTTP front end to the engine.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

Endpoints:
  POST /v1/layout   scene body, returns the resolved geometry as JSON
  POST /v1/order    scene body, returns the constraint evaluation order
  GET  /healthz     liveness probe

Scene bodies are YAML or JSON by default; send Content-Type: application/toml
or ?format=toml for TOML. Each request gets its own engine, released when the
response is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printInfo("Listening on %s", StyleValue.Render(addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// server handles layout requests. Engines are kept in a registry only for
// the duration of a request.
type server struct {
	logger   *log.Logger
	registry *engine.Registry
}

func newServer(logger *log.Logger) *server {
	return &server{
		logger:   logger,
		registry: engine.NewRegistry(engine.Options{Logger: logger}),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/order", s.handleOrder)
	})
	return r
}

// observe reports every request to the HTTP hooks and the debug log.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), dur)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(),
			"duration", dur.Round(time.Microsecond), "id", middleware.GetReqID(r.Context()))
	})
}

// healthResponse is the body of GET /healthz. Frames counts requests in
// flight.
type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
	Frames int            `json:"frames"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get(), Frames: s.registry.Len()})
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sc, diags, err := s.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer s.registry.Remove(sc.Canvas.FrameID())

	if err := sc.Layout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, render.ToLayout(sc.Name, sc.Canvas, sc.Engine, *diags))
}

// orderResponse is the body of POST /v1/order.
type orderResponse struct {
	Constraints []render.Constraint `json:"constraints"`
	Cyclic      bool                `json:"cyclic"`
	DOT         string              `json:"dot,omitempty"`
}

func (s *server) handleOrder(w http.ResponseWriter, r *http.Request) {
	sc, _, err := s.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer s.registry.Remove(sc.Canvas.FrameID())

	sched := sc.Engine.Schedule()
	resp := orderResponse{
		Constraints: render.ToLayout(sc.Name, sc.Canvas, sc.Engine, nil).Constraints,
		Cyclic:      sched.Order.Cyclic,
	}
	if r.URL.Query().Get("dot") != "" {
		resp.DOT = scheduleDOT(sc.Engine, sched)
	}
	if resp.Constraints == nil {
		resp.Constraints = []render.Constraint{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode reads the scene in the request body. The returned diagnostics
// slice fills up as the engine runs.
func (s *server) decode(w http.ResponseWriter, r *http.Request) (*scene.Scene, *[]engine.Diagnostic, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSceneBytes))
	if err != nil {
		return nil, nil, apierrors.Wrap(apierrors.ErrCodeInvalidInput, err, "read body")
	}
	format := requestFormat(r)
	sc, err := scene.DecodeFor(r.Context(), data, format, s.registry)
	if err != nil {
		return nil, nil, err
	}
	diags := new([]engine.Diagnostic)
	sc.Engine.SetOnDiagnostic(func(d engine.Diagnostic) { *diags = append(*diags, d) })
	return sc, diags, nil
}

// requestFormat picks the scene format from ?format= or the Content-Type.
// YAML is the default since it also reads JSON.
func requestFormat(r *http.Request) config.Format {
	if f := strings.ToLower(r.URL.Query().Get("format")); f != "" {
		if f == string(config.FormatTOML) {
			return config.FormatTOML
		}
		return config.FormatYAML
	}
	if strings.Contains(r.Header.Get("Content-Type"), "toml") {
		return config.FormatTOML
	}
	return config.FormatYAML
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := apierrors.GetCode(err)
	if code == "" {
		code = apierrors.ErrCodeInternal
	}
	writeJSON(w, apierrors.HTTPStatus(err), errorResponse{Code: string(code), Message: apierrors.UserMessage(err)})
}

// writeJSON encodes v before writing the header so an encoding failure
// becomes a clean 500 instead of a truncated body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{
			Code:    string(apierrors.ErrCodeInternal),
			Message: fmt.Sprintf("encode response: %v", err),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
