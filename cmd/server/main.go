package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nstepanov/bookvault/internal/config"
	"github.com/nstepanov/bookvault/internal/es"
	"github.com/nstepanov/bookvault/internal/events"
	"github.com/nstepanov/bookvault/internal/handlers"
	"github.com/nstepanov/bookvault/internal/logging"
	"github.com/nstepanov/bookvault/internal/middleware"
	"github.com/nstepanov/bookvault/internal/service"
	"github.com/nstepanov/bookvault/internal/store"
	"github.com/nstepanov/bookvault/internal/tokens"
	httpserver "github.com/nstepanov/bookvault/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	st := store.New(db)
	codec := tokens.NewCodec(cfg.JWTSecret, cfg.RefreshSecret, cfg.JWTTTL, cfg.RefreshTTL)
	sessions := service.NewSessionService(st, codec)
	gate := middleware.NewAuthGate(codec, st)

	producer := events.NewProducer(cfg.KafkaAddress)
	if cfg.KafkaAddress == "" {
		logger.Warn("KAFKA_ADDRESS not set, event publishing disabled")
	}

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init failed: %v", err)
		}
	} else {
		logger.Warn("ES_URL not set, search endpoint disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Gate:            gate,
		AuthHandler:     &handlers.AuthHandler{Sessions: sessions, Producer: producer, RefreshTTL: cfg.RefreshTTL},
		UserHandler:     &handlers.UserHandler{Sessions: sessions},
		BookHandler:     &handlers.BookHandler{Store: st, ES: esClient, ESIndex: es.BooksIndex, Producer: producer},
		FavoriteHandler: &handlers.FavoriteHandler{Store: st},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: es.BooksIndex},
	})

	sweepCtx, stopSweeper := context.WithCancel(logging.IntoContext(context.Background(), logger))
	go service.NewBlacklistSweeper(st, cfg.JWTTTL).Run(sweepCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
