package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/interfaces"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
)

// HealthChecker reports store health; DBService satisfies it.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// Deps are the stores and primitives the API is assembled from.
type Deps struct {
	Users          user.Repository
	Categories     domain.CategoryRepository
	Expenses       domain.ExpenseRepository
	PasswordHasher user.PasswordHasher
	JWTManager     auth.JWTManagerInterface
	Health         HealthChecker
	Logger         *slog.Logger
}

type Server struct {
	router          *http.ServeMux
	authHandler     *auth.Handler
	userHandler     *user.Handler
	categoryHandler *interfaces.CategoryHandler
	expenseHandler  *interfaces.ExpenseHandler
	jwtManager      auth.JWTManagerInterface
	health          HealthChecker
	logger          *slog.Logger
}

// New wires services and handlers over deps and registers every route.
func New(deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}

	userService := user.NewUserService(deps.Users, deps.PasswordHasher)
	authService := auth.NewAuthService(userService, deps.JWTManager)
	categoryService := application.NewCategoryService(deps.Categories)
	expenseService := application.NewExpenseService(deps.Expenses, categoryService)

	httpLogger := log.With(logger.FieldComponent, logger.ComponentHTTP)
	authLogger := log.With(logger.FieldComponent, logger.ComponentAuth)
	financeLogger := log.With(logger.FieldComponent, logger.ComponentFinance)
	s := &Server{
		authHandler:     auth.NewHandler(authService, authLogger, respondJSON, respondError),
		userHandler:     user.NewHandler(userService, authLogger, respondJSON, respondError),
		categoryHandler: interfaces.NewCategoryHandler(categoryService, financeLogger, respondJSON, respondError),
		expenseHandler:  interfaces.NewExpenseHandler(expenseService, financeLogger, respondJSON, respondError),
		jwtManager:      deps.JWTManager,
		health:          deps.Health,
		logger:          httpLogger,
	}
	s.RegisterRoutes()
	return s
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("JSON encoding error", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, "Path not found")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		respondJSON(w, http.StatusOK, map[string]string{"status": "up", "backend": "memory"})
		return
	}

	stats := s.health.Health(r.Context())
	if stats["status"] != "up" {
		s.logger.Warn("health check failed", logger.FieldError, stats["error"])
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) RegisterRoutes() {
	protect := auth.JWTAccessTokenMiddleware(s.jwtManager)
	withID := func(h http.HandlerFunc, param string) http.Handler {
		return protect(interfaces.ValidatePathParamsMiddleware(respondError, h, param))
	}

	router := http.NewServeMux()

	// Public routes
	router.Handle("GET /health", http.HandlerFunc(s.handleHealth))
	router.Handle("POST /api/auth/register", http.HandlerFunc(s.authHandler.HandleRegister))
	router.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))

	// Protected routes
	router.Handle("GET /api/auth/me", protect(http.HandlerFunc(s.userHandler.HandleGetMe)))

	router.Handle("POST /api/categories", protect(http.HandlerFunc(s.categoryHandler.CreateCategory)))
	router.Handle("GET /api/categories", protect(http.HandlerFunc(s.categoryHandler.GetCategories)))
	router.Handle("PUT /api/categories/{categoryID}", withID(s.categoryHandler.UpdateCategory, "categoryID"))
	router.Handle("DELETE /api/categories/{categoryID}", withID(s.categoryHandler.DeleteCategory, "categoryID"))

	router.Handle("POST /api/expenses", protect(http.HandlerFunc(s.expenseHandler.CreateExpense)))
	router.Handle("GET /api/expenses", protect(http.HandlerFunc(s.expenseHandler.GetExpenses)))
	router.Handle("GET /api/expenses/{expenseID}", withID(s.expenseHandler.GetExpense, "expenseID"))
	router.Handle("PUT /api/expenses/{expenseID}", withID(s.expenseHandler.UpdateExpense, "expenseID"))
	router.Handle("DELETE /api/expenses/{expenseID}", withID(s.expenseHandler.DeleteExpense, "expenseID"))

	router.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = router
}

// Handler returns the routed API wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return loggingMiddleware(s.logger, s.router)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info("request completed",
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldStatusCode, rec.status,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		)
	})
}
