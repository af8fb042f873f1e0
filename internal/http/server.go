package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Options carries everything the server needs at construction.
type Options struct {
	Addr               string
	CORSAllowedOrigins []string

	Accounts     *services.AccountService
	Transactions *services.TransactionService
	Forecasts    *services.ForecastService
	Sessions     *auth.Manager

	// ReadyCheck reports whether downstream dependencies answer; nil means
	// always ready.
	ReadyCheck func(ctx context.Context) error
}

type Server struct {
	http.Server

	accounts     *services.AccountService
	transactions *services.TransactionService
	forecasts    *services.ForecastService
	sessions     *auth.Manager

	limiter      *ratelimit.Limiter
	cacheManager *cache.Manager
	readyCheck   func(ctx context.Context) error

	shutdownOnce sync.Once
}

// NewServer wires routes and the middleware chain, returning a
// ready-to-run server.
func NewServer(opts Options) *Server {
	s := &Server{
		accounts:     opts.Accounts,
		transactions: opts.Transactions,
		forecasts:    opts.Forecasts,
		sessions:     opts.Sessions,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		cacheManager: cache.NewManager(),
		readyCheck:   opts.ReadyCheck,
	}

	for _, c := range opts.Forecasts.Caches() {
		s.cacheManager.Register(c)
	}
	s.cacheManager.StartCleanup(10 * time.Minute)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.buildHandler(opts.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) buildHandler(corsOrigins []string) http.Handler {
	ips := security.NewIPExtractor()

	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)

	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost, http.MethodOptions)

	authed := r.NewRoute().Subrouter()
	authed.Use(mux.MiddlewareFunc(s.sessions.Middleware))
	authed.HandleFunc("/me", s.handleMe).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	authed.HandleFunc("/predict", s.handlePredict).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet, http.MethodOptions)

	// Outermost first: tracing, then headers, CORS, rate limiting.
	var handler http.Handler = r
	handler = s.limiter.Middleware(ips.ExtractClientIP, rateLimited)(handler)
	handler = security.NewCORSMiddleware(corsOrigins).Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(ips.ExtractClientIP).Middleware(handler)
	return handler
}

func rateLimited(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.readyCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.readyCheck(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Shutdown stops the background cleanup goroutines and then drains the
// HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
