// Command milestone_sweep runs one demand draft sweep and purges old
// notification rows. It is meant for cron.
package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"estatedesk/internal/app"
	"estatedesk/internal/config"
	"estatedesk/internal/database"
	"estatedesk/internal/pkg/distlock"
	"estatedesk/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "json").WithError(err).Fatal("config load failed")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.ConnectWithOptions(cfg.DatabaseURL, database.Options{Tracing: cfg.DBTracing, Log: log})
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		if rdb, err = distlock.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
			log.WithError(err).Fatal("redis connect failed")
		}
		defer rdb.Close()
	}

	a := app.New(cfg, db, log, distlock.New(rdb, 5*time.Minute))

	res, err := a.DemandDrafts.ProcessDetectedMilestones(ctx, cfg.SystemActorID)
	if err != nil {
		log.WithError(err).Fatal("milestone sweep failed")
	}
	log.WithFields(logrus.Fields{
		"detected":  res.Detected,
		"generated": res.Generated,
		"failed":    res.Failed,
		"skipped":   res.Skipped,
	}).Info("milestone sweep completed")

	if _, err := a.Notifications.Purge(ctx, cfg.NotificationRetention); err != nil {
		log.WithError(err).Error("notification purge failed")
	}

	if err := a.Dispatcher.Wait(ctx); err != nil {
		log.WithError(err).Warn("pending notifications abandoned")
	}
}
