package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	handler "github.com/neomorfeo/statuskit/internal/adapter/http"
	otelx "github.com/neomorfeo/statuskit/internal/adapter/otel"
	riverx "github.com/neomorfeo/statuskit/internal/adapter/river"

	"github.com/neomorfeo/statuskit/internal/adapter/fsm"
	"github.com/neomorfeo/statuskit/internal/adapter/sqlite"
	"github.com/neomorfeo/statuskit/internal/app"
	"github.com/neomorfeo/statuskit/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("statuskit: %v", err)
	}
}

func run() error {
	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "statuskit.db")

	ctx := context.Background()

	// --- Observability ---
	telemetry, err := otelx.Setup(ctx, otelx.ConfigFromEnv())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := otelx.OpenDB(dbPath)
	if err != nil {
		return err
	}

	repo, err := sqlite.NewFromDB(db)
	if err != nil {
		return err
	}
	defer repo.Close()

	riverClient, err := riverx.Setup(ctx, db)
	if err != nil {
		return err
	}
	if err := riverClient.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := riverClient.Stop(stopCtx); err != nil {
			log.Printf("river stop: %v", err)
		}
	}()

	statuses := otelx.NewTracingStatusRepository(repo)
	publisher := otelx.NewTracingPublisher(riverx.NewPublisher(riverClient))

	// --- Application ---
	rules := app.NewRegistry()
	registerBusinessRules(rules)

	catalog := app.NewCatalogService(statuses, repo)
	graph := app.NewGraphService(repo)
	provisioner := app.NewProvisioner(statuses, repo)
	executor := app.NewExecutor(repo, statuses, repo, fsm.New(), rules, publisher)

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(otelchi.Middleware("statuskit", otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("statuskit", "0.1.0"))
	handler.Register(api, catalog, graph, provisioner, executor)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("statuskit listening on :%s", port)
		log.Printf("API docs: http://localhost:%s/docs", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	log.Println("stopped")
	return nil
}

// registerBusinessRules wires the per-type predicates each owning module
// supplies at startup. Rules read the entity snapshot only; they never
// touch the store.
func registerBusinessRules(rules *app.Registry) {
	rules.Register(domain.TypePurchaseOrder, "draft", "submitted", domain.Rule{
		Name: "po_has_line_items",
		Check: func(e domain.Entity) domain.RuleResult {
			if e.LineCount < 1 {
				return domain.Fail("Cannot submit without line items")
			}
			return domain.Pass()
		},
	})
	rules.Register(domain.TypePurchaseOrder, "pending_approval", "confirmed", domain.Rule{
		Name: "po_has_total",
		Check: func(e domain.Entity) domain.RuleResult {
			if e.Total <= 0 {
				return domain.Fail("Cannot confirm a purchase order with no total")
			}
			return domain.Pass()
		},
	})
	rules.Register(domain.TypeWorkOrder, "draft", "released", domain.Rule{
		Name: "wo_has_operations",
		Check: func(e domain.Entity) domain.RuleResult {
			if e.LineCount < 1 {
				return domain.Fail("Cannot release a work order without operations")
			}
			return domain.Pass()
		},
	})
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
