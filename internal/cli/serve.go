package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/knutwalker/latest-maven-version/pkg/buildinfo"
	"github.com/knutwalker/latest-maven-version/pkg/coordinate"
	errs "github.com/knutwalker/latest-maven-version/pkg/errors"
	"github.com/knutwalker/latest-maven-version/pkg/integrations/maven"
	"github.com/knutwalker/latest-maven-version/pkg/observability"
	"github.com/knutwalker/latest-maven-version/pkg/qualifier"
	"github.com/knutwalker/latest-maven-version/pkg/report"
	"github.com/knutwalker/latest-maven-version/pkg/resolve"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command, an HTTP front end for lookups.
func (c *CLI) serveCommand(conn *connFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve latest version lookups over HTTP",
		Long: `Serve latest version lookups over HTTP.

  GET /v1/latest/{groupId:artifactId[:qualifier]*}[?pre=true]
  GET /healthz

Every request is resolved independently against the configured resolver.`,
		Example: `  ` + appName + ` serve --addr :8080
  curl localhost:8080/v1/latest/org.neo4j.gds:proc:~1.1:1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConnConfig(cmd, conn)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				if v := c.env("ADDR"); v != "" {
					addr = v
				}
			}
			if err := c.promptMissingPassword(cmd, &cfg); err != nil {
				return err
			}
			client, err := c.newMavenClient(cfg.resolver, cfg)
			if err != nil {
				return err
			}

			srv := newAPIServer(client, c.Logger)
			observability.SetResolveHooks(srv.stats)
			observability.SetHTTPHooks(srv.stats)

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			c.Logger.Info("listening", "addr", ln.Addr().String(), "resolver", client.Resolver())
			return srv.serve(cmd.Context(), ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "address to listen on")
	return cmd
}

// =============================================================================
// API Server
// =============================================================================

type apiServer struct {
	client *maven.Client
	runner *resolve.Runner
	logger *log.Logger
	stats  *apiStats
}

func newAPIServer(client *maven.Client, logger *log.Logger) *apiServer {
	return &apiServer{
		client: client,
		runner: resolve.NewRunner(client, logger),
		logger: logger,
		stats:  &apiStats{},
	}
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/latest/*", s.handleLatest)
	return r
}

// serve runs until ctx is cancelled, then shuts down gracefully.
func (s *apiServer) serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *apiServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))

		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), logger)))

		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"resolver": s.client.Resolver(),
		"breakers": s.client.Breakers().State(),
		"stats":    s.stats.snapshot(),
	})
}

func (s *apiServer) handleLatest(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r.Context())

	input := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(input); err == nil {
			input = unescaped
		}
	}

	req, err := parseLatestRequest(input, r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Run(r.Context(), req)
	if err != nil {
		logger.Debug("lookup failed", "coordinate", req.Coordinate, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.New(result, s.client.Resolver()))
}

// parseLatestRequest reads a lookup from the path wildcard and the query.
// A package URL's repository_url arrives in the query, not the wildcard.
func parseLatestRequest(input string, query url.Values) (resolve.Request, error) {
	check, err := coordinate.ParseCheck(input)
	if err != nil {
		return resolve.Request{}, err
	}
	if check.Resolver != "" || query.Has("repository_url") {
		return resolve.Request{}, errs.New(errs.ErrCodeInvalidResolver,
			"this server does not accept a repository_url, it resolves against its configured resolver")
	}
	qualifiers, err := qualifier.ParseAll(check.Qualifiers)
	if err != nil {
		return resolve.Request{}, err
	}
	includePre := false
	if pre := query.Get("pre"); pre != "" {
		if includePre, err = strconv.ParseBool(pre); err != nil {
			return resolve.Request{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid value for pre: %q", pre)
		}
	}
	return resolve.NewRequest(check.Coordinate, qualifiers, includePre), nil
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
	Hint    string    `json:"hint,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), map[string]errorBody{
		"error": {Code: code, Message: errs.UserMessage(err), Hint: errs.HintOf(err)},
	})
}

func statusFor(err error) int {
	if errs.IsInput(err) {
		return http.StatusBadRequest
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeCoordinateNotFound:
		return http.StatusNotFound
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrCodeNetwork, errs.ErrCodeUpstream, errs.ErrCodeClientRequest, errs.ErrCodeInvalidMetadata,
		errs.ErrCodeUnauthorized, errs.ErrCodeForbidden, errs.ErrCodeRateLimited:
		return http.StatusBadGateway
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// =============================================================================
// Stats
// =============================================================================

// apiStats counts lookups and upstream requests through the observability hooks.
type apiStats struct {
	observability.NoopResolveHooks
	observability.NoopHTTPHooks

	lookups        atomic.Int64
	fetchErrors    atomic.Int64
	upstream       atomic.Int64
	upstreamErrors atomic.Int64
}

func (s *apiStats) OnFetchComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	s.lookups.Add(1)
	if err != nil {
		s.fetchErrors.Add(1)
	}
}

func (s *apiStats) OnRequest(context.Context, string, string, string) {
	s.upstream.Add(1)
}

func (s *apiStats) OnError(context.Context, string, string, string, error) {
	s.upstreamErrors.Add(1)
}

func (s *apiStats) snapshot() map[string]int64 {
	return map[string]int64{
		"lookups":         s.lookups.Load(),
		"fetch_errors":    s.fetchErrors.Load(),
		"upstream":        s.upstream.Load(),
		"upstream_errors": s.upstreamErrors.Load(),
	}
}
