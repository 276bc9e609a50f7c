package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/config"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/db"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/doctorauth"
	porthttp "github.com/WailSalutem-Health-Care/medgpt-portal/internal/http"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/localstore"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/messaging"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/telemetry"
	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/workspace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig())
	if err != nil {
		log.Printf("[WARN] Telemetry disabled: %v", err)
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("[WARN] Custom metrics disabled: %v", err)
		metrics = nil
	}

	storage, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open local storage: %v", err)
	}
	defer storage.Close()

	var publisher messaging.PublisherInterface
	if cfg.RabbitMQURL != "" {
		p, err := messaging.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("[WARN] Portal events disabled: %v", err)
		} else {
			publisher = p
			defer p.Close()
		}
	} else {
		log.Println("RABBITMQ_URL not set, portal events disabled")
	}

	backend := api.NewClient(cfg.BackendURL, cfg.BackendTimeout, metrics)
	registry := workspace.NewRegistry(storage, workspace.Deps{
		Backend:   backend,
		Publisher: publisher,
		Metrics:   metrics,
		Auth: doctorauth.Options{
			LoginDelay:    cfg.LoginDelay,
			RegisterDelay: cfg.RegisterDelay,
		},
	})
	if cfg.PruneInterval > 0 && cfg.WorkspaceIdle > 0 {
		go registry.RunPruner(ctx, cfg.PruneInterval, cfg.WorkspaceIdle)
	}

	handler, err := porthttp.NewHandler(registry)
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	router := porthttp.SetupRouter(handler, porthttp.RouterConfig{
		CookieName:   cfg.CookieName,
		SecureCookie: cfg.CookieSecure,
		Metrics:      metrics,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           porthttp.NewServerHandler(router, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("✓ medgpt-portal listening on :%s (backend %s, storage %s)", cfg.Port, cfg.BackendURL, cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down medgpt-portal...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] HTTP shutdown: %v", err)
	}
	if provider != nil {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Printf("[ERROR] Telemetry shutdown: %v", err)
		}
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (localstore.Backend, error) {
	switch cfg.StorageDriver {
	case config.StorageRedis:
		backend, err := localstore.NewRedisBackend(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		log.Printf("✓ Local storage on Redis at %s", cfg.RedisAddr)
		return backend, nil
	case config.StoragePostgres:
		database, err := db.Connect(ctx)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, database); err != nil {
			database.Close()
			return nil, err
		}
		log.Println("✓ Local storage on PostgreSQL")
		return localstore.NewPostgresBackend(database), nil
	case config.StorageMemory:
		log.Println("✓ Local storage in memory (sessions are lost on restart)")
		return localstore.NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
