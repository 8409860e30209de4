package main

import (
	"context"   // context package is needed for Redis operations
	"errors"    // Server shutdown errors
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal handling
	"syscall"   // SIGTERM
	"time"      // Shutdown timeout

	"tipster/internal/api"     // Custom package for API handlers
	"tipster/internal/auth"    // Identity provider
	"tipster/internal/config"  // Custom package for configuration
	"tipster/internal/db"      // Database connection
	"tipster/internal/events"  // Kafka events
	"tipster/internal/ledger"  // Settlement core
	"tipster/internal/metrics" // Prometheus endpoint
	"tipster/internal/session" // Session broker
	"tipster/internal/store"   // Data access
	"tipster/internal/utils"   // Redis cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Connect to the database
	gdb, err := db.Open(cfg.DSN(), !cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Bet events go to Kafka when brokers are configured
	var publisher events.Publisher = events.Nop{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kp := events.NewKafkaPublisher(brokers, cfg.TopicBetPlaced, cfg.TopicBetSettled)
		defer kp.Close()
		publisher = kp
		logrus.WithField("brokers", brokers).Info("Publishing bet events to Kafka")
	}

	st := store.New(gdb)
	cache := utils.NewCache(redisClient)
	provider := auth.NewProvider(st, cache, session.NewRedisBroker(redisClient), auth.NewPolicy(cfg.AdminEmails...), auth.Options{
		Secret:        cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		StartingCoins: cfg.StartingCoins,
	})
	settlement := ledger.NewService(gdb, publisher, ledger.Options{CreditWinnings: cfg.CreditWinnings}, logrus.WithField("component", "ledger"))

	// Metrics and health on a separate port
	metricsSrv := metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := st.Ping(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{Store: st, Ledger: settlement, Auth: provider, Cache: cache})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("server shutdown: %v", err)
	}
	_ = metricsSrv.Shutdown(ctx)
	_ = redisClient.Close()
}
