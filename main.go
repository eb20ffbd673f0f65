package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"herbal-site/config"
	"herbal-site/demo"
	"herbal-site/providers/gemini"
	"herbal-site/providers/unsplash"
	"herbal-site/services"
	"herbal-site/storage"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	store := storage.NewStore(db, logging)
	logging.Info("Running database auto-migration...")
	if err := store.AutoMigrate(); err != nil {
		logging.Error("Auto-migration failed, continuing with existing schema", zap.Error(err))
	}

	// Setup Repository; bis Load fertig ist, antworten die öffentlichen Routen mit 503
	repo := services.NewRepository(store, demo.Dataset(), logging)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		repo.Load(ctx)
		logging.Info("Repository loaded", zap.Int("content", len(repo.Content())), zap.Int("slides", len(repo.Slides())))
	}()

	sessions := services.NewSessionStore(repo, services.Credentials{
		Username: cfg.AdminFallbackUser,
		Password: cfg.AdminFallbackPassword,
	}, demo.Dataset(), logging)
	sessions.TTL = cfg.SessionTTL
	sessions.MaxSessions = cfg.MaxSessions

	d := deps{
		Config:   cfg,
		Repo:     repo,
		Sessions: sessions,
		Images:   unsplash.NewFetcher(cfg, logging),
		Text:     gemini.NewGenerator(cfg, logging),
		Log:      logging,
	}

	// Setup Object Storage
	var archive *storage.Archive
	if cfg.StorageEnabled() {
		s3Client, err := storage.NewS3Client(cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		d.Uploader = storage.NewUploader(s3Client, cfg.S3Bucket, cfg.S3UploadPrefix, cfg.PublicObjectURL, logging)
		archive = storage.NewArchive(s3Client, cfg.BackupTargetBucket(), cfg.BackupPrefix, cfg.KeepBackups, logging)
	} else {
		logging.Warn("Object storage not configured; uploads and scheduled backups are disabled")
	}

	router := newRouter(d)

	// Setup Cron
	cronScheduler := cron.New()
	if archive != nil && cfg.BackupSchedule != "" {
		_, err := cronScheduler.AddFunc(cfg.BackupSchedule, func() {
			if repo.Loading() {
				logging.Warn("Skipping scheduled backup, repository still loading")
				return
			}
			logging.Info("Running scheduled backup job...")
			key, err := services.ArchiveSnapshot(context.Background(), archive, repo.Snapshot(), time.Now())
			if err != nil {
				logging.Error("Cron backup failed", zap.Error(err))
				return
			}
			logging.Info("Cron backup completed", zap.String("key", key))
		})
		if err != nil {
			logging.Fatal("Invalid BACKUP_SCHEDULE", zap.String("schedule", cfg.BackupSchedule), zap.Error(err))
		}
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}
