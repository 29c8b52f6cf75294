package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"estatedesk/internal/app"
	"estatedesk/internal/config"
	"estatedesk/internal/database"
	"estatedesk/internal/pkg/distlock"
	"estatedesk/internal/pkg/logger"
	"estatedesk/internal/schema"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "json").WithError(err).Fatal("config load failed")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectWithOptions(cfg.DatabaseURL, database.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		Tracing:         cfg.DBTracing,
		Log:             log,
	})
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	if !cfg.IsProdLike() {
		if err := schema.AutoMigrateAll(db); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = distlock.Connect(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Fatal("redis connect failed")
		}
		defer rdb.Close()
	} else {
		log.Warn("REDIS_ADDRESS not set, milestone sweep runs without a cross-replica lock")
	}

	a := app.New(cfg, db, log, distlock.New(rdb, 5*time.Minute))

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	stopSweep := a.DemandDrafts.ScheduleSweep(sigCtx, cfg.MilestoneSweepInterval, cfg.SystemActorID)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("estatedesk api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-sigCtx.Done()
	log.Info("shutting down")

	if stopSweep != nil {
		close(stopSweep)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	if err := a.Dispatcher.Wait(ctx); err != nil {
		log.WithError(err).Warn("pending notifications abandoned")
	}

	log.Info("server exited")
}
