package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"agenda/internal/config"
	"agenda/internal/handler"
	"agenda/internal/middleware"
	"agenda/internal/migrate"
	"agenda/internal/repository"
	"agenda/internal/repository/memory"
	"agenda/internal/service"
	"agenda/internal/storage"
	"agenda/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type repositories struct {
	users      repository.UserRepository
	contacts   repository.ContactRepository
	categories repository.CategoryRepository
	health     func(ctx context.Context) error
	close      func()
}

func openRepositories(ctx context.Context) (*repositories, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.New()
		return &repositories{
			users:      store.Users(),
			contacts:   store.Contacts(),
			categories: store.Categories(),
			close:      func() {},
		}, nil
	}

	dbPool, err := connectAndMigrate(ctx,
		func(ctx context.Context) (*pgxpool.Pool, error) {
			return config.ConnectDB(ctx, cfg.DB, logger)
		},
		func(ctx context.Context, pool *pgxpool.Pool) error {
			runner, err := migrate.FromPool(pool, logger)
			if err != nil {
				return err
			}
			defer runner.Close()
			return runner.Up(ctx)
		},
	)
	if err != nil {
		return nil, err
	}
	return &repositories{
		users:      repository.NewUserRepository(dbPool),
		contacts:   repository.NewContactRepository(dbPool),
		categories: repository.NewCategoryRepository(dbPool),
		health:     dbPool.Ping,
		close:      dbPool.Close,
	}, nil
}

// connectAndMigrate waits for the database through connect's retries, then
// brings the schema up to date over the same pool.
func connectAndMigrate(
	ctx context.Context,
	connect func(context.Context) (*pgxpool.Pool, error),
	up func(context.Context, *pgxpool.Pool) error,
) (*pgxpool.Pool, error) {
	pool, err := connect(ctx)
	if err != nil {
		return nil, err
	}
	if err := up(ctx, pool); err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}
	return pool, nil
}

func openPhotoStore(ctx context.Context) (storage.PhotoStore, string, error) {
	p := cfg.Photos
	if p.Backend == config.PhotosS3 {
		store, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    p.S3Bucket,
			Region:    p.S3Region,
			Endpoint:  p.S3Endpoint,
			AccessKey: p.S3AccessKey,
			SecretKey: p.S3SecretKey,
			PublicURL: p.S3PublicURL,
			MaxBytes:  p.MaxBytes,
		})
		return store, "", err
	}
	store, err := storage.NewLocalStore(p.UploadsDir, p.MaxBytes)
	if err != nil {
		return nil, "", err
	}
	logger.Info("photos stored on disk", zap.String("dir", store.Dir()))
	return store, store.Dir(), nil
}

func runServer(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.Server.GinMode)

	repos, err := openRepositories(ctx)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer repos.close()

	photos, uploadsDir, err := openPhotoStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open photo store: %w", err)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.Auth.JWTSecret, cfg.Auth.JWTExpirationHours)

	// --- Initialize Services ---
	authService := service.NewAuthService(repos.users, jwtUtil, photos, cfg.Auth.BcryptCost, logger)
	contactService := service.NewContactService(repos.contacts, photos, logger)
	categoryService := service.NewCategoryService(repos.categories)

	scoped := cfg.ContactsScope == config.ScopeOwner
	var authMW gin.HandlerFunc
	if scoped {
		authMW = middleware.JWTAuthMiddleware(jwtUtil)
	} else {
		logger.Warn("contacts are not scoped to users, every caller shares one address book")
	}

	router := handler.NewRouter(handler.RouterDeps{
		Auth:       handler.NewAuthHandler(authService, logger),
		Contacts:   handler.NewContactHandler(contactService, scoped, logger),
		Categories: handler.NewCategoryHandler(categoryService, logger),
		AuthMW:     authMW,
		UploadsDir: uploadsDir,
		Health:     repos.health,
		Log:        logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exiting")
	return nil
}
