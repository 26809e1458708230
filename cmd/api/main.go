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
	"github.com/sirupsen/logrus"

	"filedrive/internal/blobstore"
	"filedrive/internal/config"
	"filedrive/internal/database"
	"filedrive/internal/domain/auth"
	"filedrive/internal/domain/file"
	"filedrive/internal/domain/folder"
	"filedrive/internal/pkg/jwt"
	"filedrive/internal/pkg/logger"
	"filedrive/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.IsProdLike())
	log.WithFields(cfg.LogFields()).Info("configuration loaded")

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	tokens := jwt.New(cfg.SessionSecret, cfg.SessionTTL)
	gate := auth.NewCookieGate(tokens, cfg.CookieSecure)

	userRepo := auth.NewRepository(db)
	folderRepo := folder.NewRepository(db)
	fileRepo := file.NewRepository(db)

	authService := auth.NewService(userRepo, log)
	folderService := folder.NewService(folderRepo, log)
	fileService := file.NewService(fileRepo, folderRepo, blobs, file.Policy{
		MaxUploadSize:  cfg.MaxUploadSize,
		BlobTimeout:    cfg.BlobTimeout,
		PendingTTL:     cfg.PendingUploadTTL,
		ReconcileBatch: cfg.ReconcileBatch,
	}, log)

	r := server.NewRouter(log, gate, server.Handlers{
		Auth:    auth.NewHandler(authService, gate, log),
		Folders: folder.NewHandler(folderService, log),
		Files:   file.NewHandler(fileService, log),
	})

	reconciler := file.NewReconciler(fileService, cfg.ReconcileInterval, log)
	stopReconciler := reconciler.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	close(stopReconciler)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
