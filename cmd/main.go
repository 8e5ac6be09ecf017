package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"atithi/internal/api"
	"atithi/internal/assistant"
	"atithi/internal/checkout"
	"atithi/internal/config"
	"atithi/internal/menu"
	"atithi/internal/monitoring"
	"atithi/internal/providers"
	"atithi/internal/session"
	"atithi/internal/store"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "", "Path to configuration file")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	catalog, err := menu.Default()
	if err != nil {
		log.Fatalf("Failed to load menu: %v", err)
	}

	provider, err := initializeProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize provider: %v", err)
	}

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)

	local := assistant.NewLocalResponder(catalog, cfg.Restaurant).
		WithMissHook(metrics.RecordResolverMiss)
	remote := assistant.NewRemoteResponder(provider, catalog, cfg.Restaurant).
		WithTimeout(cfg.Provider.Timeout()).
		WithFailureHook(metrics.RecordRemoteFailure)
	bot := assistant.New(local, remote)

	orders, err := initializeOrderStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize order store: %v", err)
	}
	if orders != nil {
		defer orders.Close()
	}

	sessions := initializeSessionStore(cfg)

	server := api.NewServer(api.Options{
		Catalog:   catalog,
		Assistant: bot,
		Sessions:  sessions,
		Checkout:  checkout.NewService(orders, cfg.Restaurant),
		Orders:    orders,
		Metrics:   metrics,
		JWTSecret: cfg.Server.JWTSecret,
		Origins:   cfg.Server.AllowedOrigins,
	})

	go startMetricsServer(cfg.Server.MetricsPort, registry)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Handler(),
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}

		cancel()
	}()

	log.Printf("Starting API server on port %d (provider %s, %d menu items)",
		cfg.Server.Port, provider.Name(), catalog.Len())
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func initializeProvider(ctx context.Context, cfg *config.Config) (providers.Provider, error) {
	switch cfg.Provider.Name {
	case "", "gemini":
		return providers.NewGeminiProvider(ctx, cfg.Provider.APIKey, cfg.Provider.Model)
	case "openai":
		return providers.NewOpenAIProvider(cfg.Provider.APIKey, cfg.Provider.Model, cfg.Provider.BaseURL)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
}

func initializeOrderStore(cfg *config.Config) (*store.Store, error) {
	if !cfg.Store.Enabled {
		return nil, nil
	}
	return store.Open(cfg.Store.Driver, cfg.Store.DSN)
}

func initializeSessionStore(cfg *config.Config) session.Store {
	if cfg.Session.Backend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
		})
		return session.NewRedisStore(client, cfg.Session.TTL())
	}
	return session.NewMemoryStore(cfg.Session.TTL())
}

func startMetricsServer(port int, registry *prometheus.Registry) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
