package main

import (
	"log"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"unistay-inbox/internal/auth"
	"unistay-inbox/internal/config"
	"unistay-inbox/internal/handler"
	"unistay-inbox/internal/hidelist"
	"unistay-inbox/internal/inbox"
	"unistay-inbox/internal/notify"
	"unistay-inbox/internal/remote"
	"unistay-inbox/internal/server"
	"unistay-inbox/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mode := logger.DevelopmentMode
	if cfg.Server.Environment == server.ProductionEnv {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	defer l.Sync()
	logger.SetGlobalLogger(l)

	kv, health, err := buildHideListKV(cfg)
	if err != nil {
		log.Fatalf("Failed to open hide-list store: %v", err)
	}

	hub := notify.NewHub(l)
	notifier := notify.Fanout{notify.NewLogNotifier(l), hub}

	api := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, l)
	sessions := inbox.NewManager(api, kv, notifier, l)
	parser := auth.NewTokenParser(cfg.Auth.JWTSecret)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Inbox:    handler.NewInboxHandler(sessions),
		Messages: handler.NewMessageHandler(sessions),
		WS:       handler.NewWSHandler(hub, parser, l),
	}, parser, health)

	if err := srv.Start(); err != nil {
		l.Errorf("Server shutdown error: %s", err)
	}
}

// buildHideListKV selects the hide-list backend. Redis is the default;
// sqlite serves single-node deployments without one.
func buildHideListKV(cfg *config.Config) (hidelist.KV, server.Pinger, error) {
	switch cfg.HideList.Backend {
	case "sqlite":
		kv, err := hidelist.OpenSQLiteKV(cfg.HideList.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	default:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv := hidelist.NewRedisKV(client)
		return kv, kv, nil
	}
}
