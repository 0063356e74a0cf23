// main is the entry point of the student management API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (plus .env / env overrides)
//  2. Initialise the logger
//  3. Open the record store selected by storage.driver
//  4. Register all HTTP routes and wrap them in middleware
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, close the store
//
// RUNNING THE SERVER:
//
//	go run ./cmd/student-management-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/student-management-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhananjay-m/student-management-api/internal/config"
	advisorhandler "github.com/dhananjay-m/student-management-api/internal/http/handlers/advisor"
	"github.com/dhananjay-m/student-management-api/internal/http/handlers/health"
	"github.com/dhananjay-m/student-management-api/internal/http/handlers/student"
	"github.com/dhananjay-m/student-management-api/internal/http/middleware"
	"github.com/dhananjay-m/student-management-api/internal/storage"
	"github.com/dhananjay-m/student-management-api/internal/storage/memory"
	"github.com/dhananjay-m/student-management-api/internal/storage/mongodb"
	"github.com/dhananjay-m/student-management-api/internal/storage/sqlite"
	"github.com/dhananjay-m/student-management-api/web"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config and panics if anything is wrong.
	// If this returns, config is guaranteed valid.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog is Go's structured logger (stdlib since Go 1.21).
	// Structured logging writes key=value pairs rather than plain strings,
	// making logs easy to filter/search in aggregators.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting student-management-api",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// The rest of the code only knows the storage.Storage interface;
	// which backend sits behind it is decided here, once, from config.
	store, closeStore, err := openStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("driver", cfg.Storage.Driver),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("storage initialised", slog.String("driver", cfg.Storage.Driver))

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	// The handler constructors (student.New, student.GetList, …) are
	// FACTORIES: they receive the store and return the actual handler.
	//
	// Route table:
	//   POST   /api/students        → create a new student
	//   GET    /api/students        → list all students, newest first
	//   GET    /api/students/{id}   → get one student by id
	//   PUT    /api/students/{id}   → partial update
	//   DELETE /api/students/{id}   → delete, returns the removed record
	//   POST   /api/advisor         → study-advisor suggestion
	//   GET    /api/health          → liveness + database state
	//   GET    /                    → embedded single-page UI
	router := http.NewServeMux()

	router.HandleFunc("POST /api/students", student.New(store))
	router.HandleFunc("GET /api/students", student.GetList(store, cfg.Storage.DegradeReads))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(store))
	router.HandleFunc("PUT /api/students/{id}", student.Update(store))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(store))
	router.HandleFunc("POST /api/advisor", advisorhandler.Advise(store))
	router.HandleFunc("GET /api/health", health.Check(store))
	router.Handle("/", web.Handler())

	// Middleware wraps outside-in: a request passes RequestID, then
	// Logging, then CORS, then the router.
	var handler http.Handler = router
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: handler,

		// Timeouts prevent slow clients from pinning connections open.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks forever; run it in its own goroutine so the
	// graceful-shutdown code below gets to run.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown is
		// called. That's expected — don't log it as an error.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	// Buffered so we don't miss the signal if main is briefly busy.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	// Five seconds for in-flight requests, then give up.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := closeStore(ctx); err != nil {
		log.Error("failed to close storage", slog.String("error", err.Error()))
	}

	log.Info("server stopped gracefully")
}

// openStorage builds the Storage backend named by the config and
// returns it with a close function for shutdown. The memory backend is
// pre-seeded with demo data — it exists for demos and tests, and
// selecting it is always an explicit configuration decision.
func openStorage(cfg *config.Config) (storage.Storage, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Storage.Driver {
	case "mongodb":
		store, err := mongodb.New(context.Background(), cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case "sqlite":
		store, err := sqlite.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func(context.Context) error { return store.Close() }, nil

	case "memory":
		return memory.NewWithDemoData(), noop, nil

	default:
		// config.MustLoad already validated the driver; this is a
		// safety net for programmatic construction.
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
