package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"mangabook/catalog-api/internal/auth"
	"mangabook/catalog-api/internal/catalog"
	"mangabook/catalog-api/internal/config"
	"mangabook/catalog-api/internal/observability"
	"mangabook/catalog-api/internal/remote"
)

type AccountService interface {
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, in auth.RegisterInput) (auth.User, error)
	Recover(ctx context.Context, email string) (string, error)
	Profile(ctx context.Context) (auth.User, error)
	UpdateProfile(ctx context.Context, originalUsername string, in auth.ProfileInput) (auth.User, error)
}

type SessionService interface {
	Current(ctx context.Context) (*auth.Session, error)
	IsLoggedIn(ctx context.Context) bool
	IsAdmin(ctx context.Context) bool
	Subscribe(fn func(*auth.Session)) (cancel func())
}

type InventoryService interface {
	LoadOrSeed(ctx context.Context) ([]catalog.Product, error)
	List(ctx context.Context) ([]catalog.Product, error)
	Get(ctx context.Context, id int) (catalog.Product, error)
	Add(ctx context.Context, p catalog.Product) (catalog.Product, error)
	Update(ctx context.Context, p catalog.Product) (catalog.Product, error)
	Delete(ctx context.Context, id int) error
}

type QuoteService interface {
	DollarQuote(ctx context.Context) (remote.Quote, error)
}

type AuditLogger interface {
	Log(ctx context.Context, actor, action, target, outcome, detail string) error
}

// Pinger reports whether the backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Accounts        AccountService
	Sessions        SessionService
	Inventory       InventoryService
	Quotes          QuoteService
	Audit           AuditLogger
	Store           Pinger
	Metrics         *observability.Metrics
	Logger          *slog.Logger
	FrontendDistDir string
	AllowedOrigins  []string
}

type Server struct {
	httpServer *http.Server
}

func New(cfg config.HTTPConfig, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	handler := NewHandler(deps)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      loggingMiddleware(deps.Logger, deps.Metrics, handler),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Store.Ping(ctx); err != nil {
				deps.Logger.Warn("readiness check failed", "error", err)
				writeError(w, http.StatusServiceUnavailable, "store unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	mux.HandleFunc("/v1/info", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"service": "mangabook-catalog-api",
			"version": "0.1.0",
		})
	})
	if deps.Metrics != nil {
		mux.Handle("/metrics", deps.Metrics.Handler())
	}

	registerAuthHandlers(mux, deps)
	registerSessionStreamHandler(mux, deps)
	registerProfileHandlers(mux, deps)
	registerCatalogHandlers(mux, deps)
	registerAdminProductHandlers(mux, deps)
	registerQuoteHandlers(mux, deps)
	registerFrontendHandlers(mux, deps.FrontendDistDir)

	return mux
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeValidation writes a 400 listing the offending fields, or reports false
// when err is not a validation error.
func writeValidation(w http.ResponseWriter, err error) bool {
	var verr *auth.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  verr.Message,
		"fields": verr.Fields,
	})
	return true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst)
}
