package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/config"
	"expense-ledger/internal/credstore"
	"expense-ledger/internal/expenses"
	"expense-ledger/internal/handlers"
	"expense-ledger/internal/logger"
	"expense-ledger/internal/storage"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{Pretty: true})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer kv.Close()

	manager := newManager(ctx, cfg, kv, log)
	svc := expenses.NewService(manager, expenses.WithLogger(log))
	h := handlers.NewHandlers(manager, svc, log, cfg.SecureCookie)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.Storage.Backend).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newManager loads the store and creates the seed account when configured.
func newManager(ctx context.Context, cfg *config.Config, kv storage.KV, log zerolog.Logger) *auth.Manager {
	store := credstore.New(kv, cfg.Storage.Namespace, credstore.WithLogger(log))
	manager := auth.NewManager(store, kv, cfg.Storage.Namespace, auth.WithLogger(log))
	manager.Init(ctx)

	if cfg.AdminUser != "" {
		_, err := manager.Register(ctx, cfg.AdminUser, cfg.AdminPassword)
		switch {
		case err == nil:
			log.Info().Str("username", cfg.AdminUser).Msg("seed user created")
		case errors.Is(err, auth.ErrDuplicateUser):
		default:
			log.Warn().Err(err).Str("username", cfg.AdminUser).Msg("seed user not created")
		}
	}
	return manager
}

func setupRouter(h *handlers.Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/register", h.Register)
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/logout", h.Logout)
	mux.HandleFunc("GET /api/session", h.Session)
	mux.HandleFunc("GET /api/categories", h.Categories)

	protected := func(fn http.HandlerFunc) http.Handler {
		return h.AuthMiddleware(fn)
	}
	mux.Handle("GET /api/expenses", protected(h.ListExpenses))
	mux.Handle("POST /api/expenses", protected(h.CreateExpense))
	mux.Handle("PUT /api/expenses", protected(h.ReplaceExpenses))
	mux.Handle("DELETE /api/expenses", protected(h.ClearExpenses))
	mux.Handle("DELETE /api/expenses/{id}", protected(h.DeleteExpense))
	mux.Handle("POST /api/expenses/sample", protected(h.LoadSample))
	mux.Handle("GET /api/expenses/export", protected(h.ExportCSV))
	mux.Handle("GET /api/summary", protected(h.Summary))
	mux.Handle("GET /api/statistics", protected(h.Statistics))

	return mux
}
