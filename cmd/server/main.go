package main // Entry point package

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ryofujimura/Oshiri-sub000/internal/config"
	"github.com/ryofujimura/Oshiri-sub000/internal/database"
	"github.com/ryofujimura/Oshiri-sub000/internal/handler"
	"github.com/ryofujimura/Oshiri-sub000/internal/middleware"
	"github.com/ryofujimura/Oshiri-sub000/internal/queue"
	"github.com/ryofujimura/Oshiri-sub000/internal/repository"
	"github.com/ryofujimura/Oshiri-sub000/internal/router"
	"github.com/ryofujimura/Oshiri-sub000/internal/search"
	"github.com/ryofujimura/Oshiri-sub000/internal/service"
	"github.com/ryofujimura/Oshiri-sub000/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer func() { _ = db.Close() }()

	// Redis backs the rate limiter and the response cache. Both fail
	// open when Redis is down, so a nil client only disables them.
	rdb := config.NewRedisClient()

	// ---- Repositories ----
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	establishments := repository.NewEstablishmentRepo(db)
	reviews := repository.NewReviewRepo(db)
	requests := repository.NewEditRequestRepo(db)
	images := repository.NewImageRepo(db)
	feedback := repository.NewFeedbackRepo(db)

	// ---- Services ----
	publisher := service.AMQPPublisher{}
	workflow := service.NewWriteWorkflow(reviews, requests, publisher)
	searchClient := search.NewClient(cfg.SearchBaseURL, cfg.SearchAPIKey,
		time.Duration(cfg.SearchTimeout)*time.Second)

	// ---- Handlers ----
	authH := handler.NewAuthHandler(cfg, users, tokens)
	reviewH := handler.NewReviewHandler(reviews, establishments, images)
	requestH := handler.NewEditRequestHandler(workflow, requests)
	imageH := handler.NewImageHandler(images, reviews, publisher)
	feedbackH := handler.NewFeedbackHandler(feedback)
	searchH := handler.NewSearchHandler(searchClient, establishments)

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewRequestValidator()
	e.Use(middleware.RequestLogger(log.Logger))
	if rdb != nil {
		e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	if rdb != nil {
		router.RegisterPublic(e, reviewH, searchH, feedbackH, cfg.JWTSecret,
			middleware.ResponseCache(config.LoadCacheConfig(), rdb))
	} else {
		router.RegisterPublic(e, reviewH, searchH, feedbackH, cfg.JWTSecret)
	}
	router.RegisterUser(e, reviewH, requestH, imageH, feedbackH, cfg.JWTSecret)
	router.RegisterAdmin(e, reviewH, requestH, imageH, feedbackH, cfg.JWTSecret)

	// Long-expired refresh tokens are dead weight; sweep them daily.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := tokens.PurgeExpired(ctx, 7*24*time.Hour)
			cancel()
			if err != nil {
				log.Warn().Err(err).Msg("refresh token purge failed")
			} else if n > 0 {
				log.Info().Int64("purged", n).Msg("expired refresh tokens removed")
			}
		}
	}()

	// The audit consumer keeps its own reconnect loop; a broker outage
	// never takes the API down.
	go func() {
		if err := queue.StartModerationConsumer(); err != nil {
			log.Warn().Err(err).Msg("moderation consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
