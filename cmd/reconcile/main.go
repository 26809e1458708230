package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"filedrive/internal/blobstore"
	"filedrive/internal/config"
	"filedrive/internal/database"
	"filedrive/internal/domain/file"
	"filedrive/internal/domain/folder"
	"filedrive/internal/pkg/logger"
)

// Runs one reconciliation sweep: reclaims blobs of stale pending uploads and
// retries tombstoned blob deletes. Intended for cron.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.IsProdLike())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	if err := database.Migrate(ctx, db, log); err != nil {
		log.WithError(err).Fatal("db migrate failed")
	}

	blobs, err := blobstore.Open(ctx, cfg.BlobOptions())
	if err != nil {
		log.WithError(err).Fatal("blob store init failed")
	}

	svc := file.NewService(file.NewRepository(db), folder.NewRepository(db), blobs, file.Policy{
		MaxUploadSize:  cfg.MaxUploadSize,
		BlobTimeout:    cfg.BlobTimeout,
		PendingTTL:     cfg.PendingUploadTTL,
		ReconcileBatch: cfg.ReconcileBatch,
	}, log)

	report, err := file.NewReconciler(svc, 0, log).RunOnce(ctx)
	if err != nil {
		log.WithError(err).Fatal("reconcile failed")
	}
	if report.Failures > 0 {
		log.WithField("failures", report.Failures).Warn("reconcile left work for the next run")
	}
}
