package main

import (
	"context"
	"log"

	"github.com/CertTrack-HQ/certtrack-backend/config"
	"github.com/CertTrack-HQ/certtrack-backend/internal/auth"
	"github.com/CertTrack-HQ/certtrack-backend/internal/bootstrap"
	"github.com/CertTrack-HQ/certtrack-backend/internal/reminders"
	"github.com/CertTrack-HQ/certtrack-backend/internal/users"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/service"
	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/store"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceName = "certtrack-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	// Postgres backs users and reminders. Without it the API still runs,
	// with header-based identities and no reminder sweep.
	var pool *pgxpool.Pool
	if cfg.Database.Host != "" {
		pool, err = bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
		if err != nil {
			log.Printf("db unavailable, running without users/reminders: %v", err)
			pool = nil
		}
	}

	var authClient *fbauth.Client
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err = auth.InitializeFirebase(&cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
	}

	base := store.New(store.NewRedisKV(rdb))
	svc := service.New(base, cfg.App.SoonThresholdDays)

	if pool != nil {
		db, err := reminders.Open(cfg.Database.DSN())
		if err != nil {
			log.Printf("reminders disabled: %v", err)
		} else {
			sweeper := reminders.NewSweeper(users.NewRepo(pool), base, reminders.NewRepo(db), cfg.App.SoonThresholdDays)
			reminders.NewScheduler(sweeper).Start()
		}
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:  serviceName,
		Version:      cfg.App.Version,
		Redis:        rdb,
		DB:           pool,
		FirebaseAuth: authClient,
		Workforce:    svc,
	})

	log.Printf("%s listening on :%s", serviceName, cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
