package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/abduss/sharebox/internal/auth"
	"github.com/abduss/sharebox/internal/config"
	"github.com/abduss/sharebox/internal/file"
	"github.com/abduss/sharebox/internal/logger"
	"github.com/abduss/sharebox/internal/server"
	"github.com/abduss/sharebox/internal/share"
	"github.com/abduss/sharebox/internal/storage"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logg, err := logger.Init()
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer logg.Sync()

	cfg, err := config.Load()
	if err != nil {
		logg.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logg.Fatal("connect postgres", zap.Error(err))
	}
	defer dbPool.Close()

	minioClient, err := storage.NewObjectStoreClient(cfg.MinIO)
	if err != nil {
		logg.Fatal("connect minio", zap.Error(err))
	}

	if err := storage.PrepareBucket(ctx, minioClient, cfg.MinIO); err != nil {
		logg.Fatal("prepare bucket", zap.Error(err))
	}

	authRepo := auth.NewRepository(dbPool)
	authService := auth.NewService(authRepo, cfg.Auth)

	fileRepo := file.NewRepository(dbPool)
	blobStore := file.NewMinIOStore(minioClient, cfg.MinIO.Bucket)
	fileService := file.NewService(fileRepo, blobStore, file.NewValidator(cfg.Upload), logg)

	shareRepo := share.NewRepository(dbPool)
	shareService := share.NewService(shareRepo, fileRepo, blobStore, cfg.Share.TokenTTL, cfg.Share.BaseURL)

	router := server.NewRouter(server.Dependencies{
		Config:       cfg,
		Logger:       logg,
		DB:           dbPool,
		ObjectStore:  minioClient,
		AuthService:  authService,
		FileService:  fileService,
		ShareService: shareService,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("ShareBox API listening", zap.String("address", cfg.Server.Address()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logg.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown error", zap.Error(err))
	}
}
