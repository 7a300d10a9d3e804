package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/PigSoilPlus/pigsoil-notify/config"
	"github.com/PigSoilPlus/pigsoil-notify/display"
	"github.com/PigSoilPlus/pigsoil-notify/handlers"
	"github.com/PigSoilPlus/pigsoil-notify/internal/auth"
	"github.com/PigSoilPlus/pigsoil-notify/logger"
	"github.com/PigSoilPlus/pigsoil-notify/push"
	"github.com/PigSoilPlus/pigsoil-notify/router"
	"github.com/PigSoilPlus/pigsoil-notify/service"
	"github.com/PigSoilPlus/pigsoil-notify/store"
	filestore "github.com/PigSoilPlus/pigsoil-notify/store/file"
	"github.com/PigSoilPlus/pigsoil-notify/store/memory"
	redisstore "github.com/PigSoilPlus/pigsoil-notify/store/redis"
)

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		if err := logger.Close(); err != nil {
			log.Errorw("Failed to close logger", "error", err)
		}
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A single Redis client is shared by the redis storage backend and the
	// redis push transport when either is configured.
	var redisClient *goredis.Client
	needsRedis := cfg.Storage.Backend == config.StorageRedis || cfg.Push.Transport == config.PushRedis
	if needsRedis {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", cfg.Redis.Address, err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Errorw("Failed to close Redis client", "error", err)
			}
		}()
	}

	var kv store.KeyValue
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		kv = memory.New()
	case config.StorageRedis:
		kv = redisstore.New(redisClient)
	default:
		kv, err = filestore.New(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to open state directory %s: %v", cfg.Storage.Path, err)
		}
	}
	log.Infow("Storage backend ready", "backend", cfg.Storage.Backend)

	var currentUser auth.UserProvider
	if cfg.Session.JWTSecret != "" {
		src := &auth.FileTokenSource{Path: cfg.Session.TokenPath}
		currentUser = auth.SessionProvider(src, cfg.Session.JWTSecret, log)
	} else {
		// Without a secret the token file cannot be verified; run signed out.
		log.Warn("No session JWT secret configured; agent runs signed out")
		currentUser = auth.Static("")
	}

	notifier := display.LogNotifier{Log: log}
	notificationStore := service.NewNotificationStore(kv, cfg.Storage.Key, currentUser, notifier, log)

	var transport push.Transport
	switch cfg.Push.Transport {
	case config.PushRedis:
		transport = push.NewRedisTransport(redisClient, push.ChannelForDevice(cfg.Push.DeviceID), log)
	case config.PushWebsocket:
		transport = push.NewWebsocketTransport(cfg.Push.GatewayURL, log)
	default:
		transport = nil
	}

	if transport != nil {
		if !notificationStore.Initialize(transport) {
			log.Warn("Notification store initialized without a display notifier")
		}
		if err := transport.Start(ctx); err != nil {
			log.Fatalf("Failed to start push transport: %v", err)
		}
		defer func() {
			if err := transport.Close(); err != nil {
				log.Errorw("Failed to close push transport", "error", err)
			}
		}()
		log.Infow("Push transport started", "transport", cfg.Push.Transport)
	} else {
		log.Info("No push transport configured; panel API only")
	}

	engine := router.SetupRouter(router.Dependencies{
		AllowedOrigins:      cfg.Server.AllowedOrigins,
		NotificationHandler: handlers.NewNotificationHandler(notificationStore, currentUser, log),
		HealthHandler:       handlers.NewHealthHandler(cfg.Server.Version),
		Logger:              log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Panel API listening", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Graceful shutdown failed", "error", err)
	}
	log.Info("Agent stopped")
}
