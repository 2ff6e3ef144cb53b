package main

import (
	"context"
	"log"
	"time"

	"github.com/CertTrack-HQ/certtrack-backend/config"
	"github.com/CertTrack-HQ/certtrack-backend/internal/bootstrap"
	"github.com/CertTrack-HQ/certtrack-backend/internal/reminders"
	"github.com/CertTrack-HQ/certtrack-backend/internal/users"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/store"
)

// Runs one reminder sweep and exits. Useful for backfills and for
// running the sweep from an external scheduler instead of the in-process
// cron.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	db, err := reminders.Open(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("reminders: %v", err)
	}
	defer db.Close()

	base := store.New(store.NewRedisKV(rdb))
	sweeper := reminders.NewSweeper(users.NewRepo(pool), base, reminders.NewRepo(db), cfg.App.SoonThresholdDays)

	if err := sweeper.Run(ctx); err != nil {
		log.Fatalf("sweep: %v", err)
	}
}
