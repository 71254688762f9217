package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"SignalDesk/internal/config"
	"SignalDesk/internal/model"
	"SignalDesk/internal/service"
)

// Analyzer is the part of service.Analyzer the handlers need.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, decision string) (*model.Analysis, error)
	Score(in service.IndicatorInput, decision string) (model.SignalResult, error)
	Config() *config.Config
}

// RequestObserver records per-route request outcomes.
type RequestObserver interface {
	ObserveRequest(route string, code int, elapsed time.Duration)
}

// Server is the HTTP front of the analyzer.
type Server struct {
	analyzer Analyzer
	observer RequestObserver
	metrics  http.Handler
	health   http.Handler

	// analyzeTimeout bounds one analysis; zero means no deadline of its own.
	analyzeTimeout time.Duration
	srv            *http.Server
}

// Options carries the optional collaborators of a Server.
type Options struct {
	Observer       RequestObserver
	MetricsHandler http.Handler
	HealthHandler  http.Handler
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// NewServer builds the router and the underlying http.Server.
func NewServer(addr string, analyzer Analyzer, opts Options) *Server {
	s := &Server{
		analyzer: analyzer,
		observer: opts.Observer,
		metrics:  opts.MetricsHandler,
		health:   opts.HealthHandler,

		analyzeTimeout: analyzeBudget(opts.WriteTimeout),
	}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// analyzeBudget leaves a tenth of the write timeout for encoding the
// response, so a slow provider chain ends in a 504 instead of a dropped write.
func analyzeBudget(writeTimeout time.Duration) time.Duration {
	if writeTimeout <= 0 {
		return 0
	}
	return writeTimeout - writeTimeout/10
}

// Routes returns the HTTP handler tree.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Use(s.observe)

	r.Post("/analyze", s.handleAnalyzePost)
	r.Get("/analyze", s.handleAnalyzeGet)
	r.Post("/score", s.handleScore)
	r.Get("/config", s.handleConfig)
	if s.health != nil {
		r.Method(http.MethodGet, "/healthz", s.health)
	} else {
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		})
	}
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[INFO] http server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] http server: %v", err)
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

const unmatchedRoute = "unmatched"

// cors answers preflight requests and marks every response cross-origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// observe logs one line per request and feeds the request metrics.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// unmatched paths share one label so clients cannot mint series
		route := unmatchedRoute
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		if route != "/metrics" && route != "/healthz" {
			log.Printf("[INFO] %s %s %d %s (req=%s)", r.Method, r.URL.Path, status, elapsed.Round(time.Millisecond), middleware.GetReqID(r.Context()))
		}
		if s.observer != nil {
			s.observer.ObserveRequest(route, status, elapsed)
		}
	})
}
