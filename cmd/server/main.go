package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/gsarma/codepad/internal/api"
	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/config"
	"github.com/gsarma/codepad/internal/logger"
	"github.com/gsarma/codepad/internal/session"
	"github.com/gsarma/codepad/internal/storage"
	"github.com/gsarma/codepad/internal/validation"
	"github.com/gsarma/codepad/internal/workflow"
)

func main() {
	_ = config.LoadEnv()

	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init(cfg.LogLevel, cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	sessions, closeSessions := newSessionStore(cfg)
	defer closeSessions()

	provider := code.NewJudge0Provider(code.Judge0Config{
		URL:     cfg.JudgeURL,
		APIKey:  cfg.JudgeAPIKey,
		Host:    cfg.JudgeHost,
		Timeout: cfg.ExecutionTimeout,
	})
	submissions := storage.New(cfg.StorageURL, storage.WithTimeout(cfg.StorageTimeout))
	controller := workflow.NewController(provider, submissions, validation.New())

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger())

	h := api.NewHandler(controller, submissions, sessions, cfg.SessionTTL)
	api.RegisterRoutes(router, h, api.NewRateLimiter(cfg.RateLimitRPS, time.Hour))

	srv := api.StartServer(router, cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := api.ShutdownServer(srv, cfg.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func newSessionStore(cfg *config.Config) (session.Store, func()) {
	if cfg.SessionBackend != config.SessionRedis {
		log.Info().Dur("ttl", cfg.SessionTTL).Msg("using in-memory sessions")
		return session.NewMemoryStore(cfg.SessionTTL), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("using redis sessions")

	return session.NewRedisStore(client, cfg.SessionTTL), func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("close redis")
		}
	}
}
