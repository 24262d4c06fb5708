package main

import (
	"context"
	"log"

	"greenbites/internal/app/config"
	"greenbites/internal/app/dsn"
	"greenbites/internal/app/handler"
	"greenbites/internal/app/lifecycle"
	"greenbites/internal/app/middleware"
	"greenbites/internal/app/redis"
	"greenbites/internal/app/repository"
	"greenbites/internal/app/storage"
	"greenbites/internal/pkg"

	_ "greenbites/docs"

	"github.com/sirupsen/logrus"
)

// @title GreenBites API
// @version 1.0
// @description Сервис обмена излишками еды: пожертвования, заявки, отчеты

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	log.Println("App start")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal("cannot read config: ", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		logrus.Fatal("cannot init repository: ", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logrus.Fatal("cannot init redis: ", err)
	}

	// MinIO необязателен: без него изображения не сохраняются
	minioClient, err := storage.NewMinIOClient(
		cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey,
		cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
	if err != nil {
		logrus.Warn("minio unavailable, images disabled: ", err)
		minioClient = nil
	}

	lc := lifecycle.NewService(repo)

	authHandler := handler.NewAuthHandler(repo, redisClient, cfg)
	apiHandler := handler.NewAPIHandler(repo, lc, minioClient, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	app := pkg.NewApp(cfg, apiHandler, authMiddleware, lc)
	app.RunApp()

	log.Println("App terminated")
}
