package api

import (
	"context"
	"fmt"

	"cleaning-backend/internal/app/config"
	"cleaning-backend/internal/app/dsn"
	"cleaning-backend/internal/app/handler"
	"cleaning-backend/internal/app/middleware"
	"cleaning-backend/internal/app/negotiation"
	"cleaning-backend/internal/app/notify"
	"cleaning-backend/internal/app/redis"
	"cleaning-backend/internal/app/repository"
	"cleaning-backend/internal/app/session"
	"cleaning-backend/internal/app/storage"
	"cleaning-backend/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const emailQueueSize = 100

// StartServer собирает зависимости из конфига и запускает HTTP сервер
func StartServer() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg.SetupLogger()

	ctx := context.Background()

	dsnStr := cfg.DSN
	if dsnStr == "" {
		dsnStr = dsn.FromEnv()
	}
	if dsnStr == "" {
		return fmt.Errorf("database DSN is empty, set DB_DSN or DB_HOST/DB_USER/DB_NAME")
	}
	repo, err := repository.New(dsnStr)
	if err != nil {
		return fmt.Errorf("repository: %w", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		_ = repo.Close()
		return fmt.Errorf("redis: %w", err)
	}

	photos, err := newPhotoStorage(ctx, cfg.Storage)
	if err != nil {
		_ = redisClient.Close()
		_ = repo.Close()
		return fmt.Errorf("storage: %w", err)
	}

	notifiers := notify.Multi{redisClient}
	var mail *notify.Async
	if cfg.SMTP.Host != "" {
		// SMTP медленный, письма уходят из фоновой очереди
		mail = notify.NewAsync(notify.NewEmailNotifier(repo, notify.NewMailer(cfg.SMTP), cfg.SMTP.ManagerEmail), emailQueueSize)
		notifiers = append(notifiers, mail)
		logrus.Infof("E-mail notifications via %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	}

	sessions := session.NewManager(redisClient, cfg.Session.Secret, cfg.Session.TTL)
	service := negotiation.NewService(repo, notifiers)

	authHandler := handler.NewAuthHandler(repo, sessions, cfg.Session.Secure)
	apiHandler := handler.NewAPIHandler(service, photos, authHandler)

	app := pkg.NewApp(cfg, gin.Default(), apiHandler, middleware.NewAuthMiddleware(sessions))
	app.OnShutdown(repo.Close)
	app.OnShutdown(redisClient.Close)
	if mail != nil {
		// очередь писем дочитывает клиентов из БД, поэтому закрывается раньше неё
		app.OnShutdown(mail.Close)
	}
	app.RunApp()
	return nil
}

// newPhotoStorage MinIO, если задан endpoint, иначе локальный каталог
func newPhotoStorage(ctx context.Context, cfg config.StorageConfig) (storage.PhotoStorage, error) {
	if cfg.Endpoint == "" {
		logrus.Infof("MinIO is not configured, photos are stored in %s", cfg.LocalDir)
		return storage.NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
	}
	return storage.NewMinIOClient(ctx, cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.PublicBaseURL, cfg.UseSSL)
}
