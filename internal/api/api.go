package api

import (
	"context"
	"errors"
	"github.com/IlyasAtabaev731/finboard/internal/config"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/IlyasAtabaev731/finboard/internal/query"
	"github.com/gorilla/mux"
	"log/slog"
	"net"
	"net/http"
	"strconv"
)

// Storage is what the handlers need from a backend.
type Storage interface {
	SaveUser(ctx context.Context, user models.User) error
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
	Transactions(ctx context.Context, q query.TransactionQuery) ([]models.Transaction, error)
	CountTransactions(ctx context.Context, f query.Filter) (int64, error)
	TransactionByID(ctx context.Context, id int64) (models.Transaction, error)
	SaveTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	Ping(ctx context.Context) error
}

type AnalyticsBuilder interface {
	Build(ctx context.Context) (models.Analytics, error)
}

type APIServer struct {
	config    *config.Config
	logger    *slog.Logger
	server    *http.Server
	storage   Storage
	analytics AnalyticsBuilder
	jwtSecret []byte
	limits    query.Limits
}

func New(config *config.Config, logger *slog.Logger, storage Storage, analytics AnalyticsBuilder, jwtSecret []byte) *APIServer {
	s := &APIServer{
		config:    config,
		logger:    logger.With("component", "api"),
		storage:   storage,
		analytics: analytics,
		jwtSecret: jwtSecret,
		limits: query.Limits{
			DefaultLimit: config.DefaultLimit,
			MaxLimit:     config.MaxLimit,
		},
	}

	s.server = &http.Server{
		Addr:         net.JoinHostPort(config.HTTPServer.Host, strconv.Itoa(config.HTTPServer.Port)),
		Handler:      s.Handler(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s
}

func (s *APIServer) Start() error {
	s.logger.Info("Starting server", slog.String("addr", s.server.Addr))

	return s.server.ListenAndServe()
}

func (s *APIServer) MustStart() {
	err := s.Start()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic("Failed to start server: " + err.Error())
	}
}

func (s *APIServer) Stop(ctx context.Context) error {
	defer s.logger.Info("Server successfully stopped")
	return s.server.Shutdown(ctx)
}

// Handler returns the full middleware chain around the router.
func (s *APIServer) Handler() http.Handler {
	router := s.configureRouter()

	var h http.Handler = router
	h = s.withTimeout(h)
	h = s.logRequests(h)
	h = s.cors(h)

	return h
}

func (s *APIServer) configureRouter() *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.HandleFunc("/", s.indexHandler()).Methods("GET")
	router.HandleFunc("/healthz", s.healthHandler()).Methods("GET")
	router.HandleFunc("/signup", s.signupHandler()).Methods("POST")
	router.HandleFunc("/login", s.loginHandler()).Methods("POST")

	router.HandleFunc("/profile", s.authenticate(s.profileHandler())).Methods("GET")
	router.HandleFunc("/transactions", s.authenticate(s.transactionsHandler())).Methods("GET")
	router.HandleFunc("/transactions", s.authenticate(s.createTransactionHandler())).Methods("POST")
	router.HandleFunc("/transactions/{id:[0-9]+}", s.authenticate(s.transactionHandler())).Methods("GET")
	router.HandleFunc("/analytics", s.authenticate(s.analyticsHandler())).Methods("GET")

	return router
}

func (s *APIServer) indexHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message":  "Financial dashboard API is running",
			"database": s.config.Driver,
			"endpoints": map[string][]string{
				"auth": {"POST /signup", "POST /login"},
				"protected": {
					"GET /profile",
					"GET /transactions",
					"POST /transactions",
					"GET /transactions/{id}",
					"GET /analytics",
				},
			},
		})
	}
}

func (s *APIServer) healthHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.storage.Ping(r.Context()); err != nil {
			s.logger.Error("Storage ping failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "Storage unavailable")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
