// Package server wires configuration, storage, services and transports into
// one runnable application with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/auth"
	"github.com/dmitrijs2005/taskboard/internal/server/config"
	"github.com/dmitrijs2005/taskboard/internal/server/httpserver"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskboard/internal/server/services"
	"github.com/dmitrijs2005/taskboard/internal/server/storage"

	gs "github.com/dmitrijs2005/taskboard/internal/server/grpc"
)

var (
	logOutput io.Writer = os.Stdout

	newPostgresManager = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
		return repomanager.NewPostgresRepositoryManager(ctx, dsn)
	}
	newPresigner = func(ctx context.Context, opts storage.S3Options) (services.ObjectPresigner, error) {
		return storage.NewS3Presigner(ctx, opts)
	}
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	http        *httpserver.Server
	health      *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(logOutput, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	generated, err := c.EnsureSecret()
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	if generated {
		logger.Warn(ctx, "JWT secret not set, using an ephemeral one; sessions end on restart")
	}

	rm, err := openStorage(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	var presigner services.ObjectPresigner
	if c.AttachmentsEnabled() {
		presigner, err = newPresigner(ctx, storage.S3Options{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			_ = rm.Close()
			return nil, fmt.Errorf("object storage init error: %w", err)
		}
	}

	tokens := auth.NewTokenIssuer(c.SecretKey, c.TokenValidityDuration)
	api := httpserver.NewAPI(httpserver.Services{
		Users:       services.NewUserService(rm, tokens, c.BcryptCost),
		Projects:    services.NewProjectService(rm),
		Tasks:       services.NewTaskService(rm),
		Comments:    services.NewCommentService(rm),
		Attachments: services.NewAttachmentService(rm, presigner),
	}, logger)

	handler := httpserver.NewHandler(api, httpserver.RouterOptions{
		Prefix:      c.APIPrefix,
		CORSOrigins: c.CORSOrigins,
	})

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		http:        httpserver.NewServer(c.EndpointAddrHTTP, handler, logger, c.ShutdownTimeout),
		health:      gs.NewHealthServer(c.EndpointAddrGRPC, logger, rm, 0),
	}, nil
}

func openStorage(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.StorageMode == config.StoragePostgres {
		rm, err := newPostgresManager(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := rm.RunMigrations(ctx); err != nil {
			_ = rm.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		logger.Info(ctx, "Using PostgreSQL storage")
		return rm, nil
	}

	rm := repomanager.NewInMemoryRepositoryManager()
	if c.SeedSample {
		rm.Store().SeedSample()
	}
	logger.Info(ctx, "Using in-memory storage", "seeded", c.SeedSample)
	return rm, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves HTTP and gRPC health until ctx is cancelled, a signal arrives
// or either server fails. The storage is closed on the way out.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	start("http", app.http.Run)
	start("grpc", app.health.Run)
	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	app.logger.Info(context.Background(), "App stopped")
	return errors.Join(errs...)
}
