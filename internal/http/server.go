package http

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"cozypocket/internal/assistant"
	applog "cozypocket/internal/log"
	"cozypocket/internal/middleware/ratelimit"
	"cozypocket/internal/middleware/recovery"
	"cozypocket/internal/middleware/security"
	"cozypocket/internal/middleware/trace"
	"cozypocket/internal/services"
	appweb "cozypocket/web"
)

// Options wires the server to the rest of the application. Ledger is
// required; everything else has a usable default.
type Options struct {
	Ledger    *services.LedgerService
	Assistant *assistant.Service
	// Ready reports whether the storage backend can serve requests.
	Ready     func(context.Context) error
	Logger    *applog.Logger
	RateLimit ratelimit.Config
	// Now is the clock used for "today" and new entry times.
	Now func() time.Time
}

type Server struct {
	http.Server
	templates *template.Template
	ledger    *services.LedgerService
	assistant *assistant.Service
	ready     func(context.Context) error
	logger    *applog.Logger
	events    *applog.StructuredLogger
	now       func() time.Time

	detector *security.Detector
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	recovery *recovery.Middleware

	metrics      appMetrics
	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server.
func NewServer(addr string, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Ready == nil {
		opts.Ready = func(context.Context) error { return nil }
	}
	if opts.Assistant == nil {
		opts.Assistant = assistant.NewService(nil, assistant.Config{}, opts.Logger.Slog())
	}
	logger := opts.Logger.WithComponent(applog.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
		ledger:    opts.Ledger,
		assistant: opts.Assistant,
		ready:     opts.Ready,
		logger:    logger,
		events:    applog.NewStructuredLogger(opts.Logger),
		now:       opts.Now,
		detector:  security.NewDetector(),
		limiter:   ratelimit.NewLimiter(opts.RateLimit),
		recovery:  recovery.New(nil),
		metrics:   appMetrics{startedAt: opts.Now()},
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	t, err := parseTemplates()
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	// Pages and HTMX partials
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ui/day", s.handleDay)
	mux.HandleFunc("/ui/form/new", s.handleFormNew)
	mux.HandleFunc("/ui/form/edit", s.handleFormEdit)
	mux.HandleFunc("/ui/form", s.handleFormEvent)

	// JSON API
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/daily", s.handleDaily)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/calendar", s.handleCalendar)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("POST /api/assistant/parse", s.handleAssistantParse)

	// Operations
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	s.Handler = s.chain(mux)
	return s
}

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(appweb.TemplatesFS, "templates/*.html")
}

// chain wraps the mux, outermost first: trace, recovery, security headers,
// probe detection, rate limiting.
func (s *Server) chain(next http.Handler) http.Handler {
	h := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited)(next)
	h = s.detectProbes(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.recovery.Middleware(h)
	return s.tracer.Middleware(h)
}

func (s *Server) detectProbes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			applog.FromContext(r.Context()).WithComponent(applog.ComponentSecurity).WarnContext(r.Context(), "Suspicious request",
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldUserAgent, r.UserAgent())
			NotFoundError("Not found").Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again later.").
		Header("Retry-After", "60").
		Write(w)
}

// Shutdown stops the background goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// ListenAndServe treats a graceful shutdown as success.
func (s *Server) ListenAndServe() error {
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
