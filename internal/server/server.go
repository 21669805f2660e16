// Package server boots the storefront: it opens every backing service, wires
// repositories and services together and runs the HTTP, gRPC, websocket and
// queue loops until the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/app/jobs"
	"github.com/shashiranjanraj/storefront/app/listeners"
	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/grpc"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/mail"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/queue"
	"github.com/shashiranjanraj/storefront/pkg/schedule"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
	"github.com/shashiranjanraj/storefront/pkg/ws"
	"gorm.io/gorm"

	appgraphql "github.com/shashiranjanraj/storefront/app/graphql"
)

const shutdownTimeout = 10 * time.Second

// App holds every long-lived dependency of a running process.
type App struct {
	DB     *gorm.DB
	Cache  *cache.Cache
	Disk   storage.Disk
	Queue  *queue.Manager
	Bus    *event.Bus
	Hub    *ws.Hub
	Issuer *auth.Issuer
	Deps   routes.Deps
	Kernel *kernel.HTTPKernel

	pool    *workerpool.Pool
	closers []func()
}

// Boot loads configuration and connects every backing service. Redis and the
// Mongo log sink are optional: when unreachable they are logged and skipped.
// The caller must Close the returned App.
func Boot(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	a := &App{}
	a.attachMongoSink()

	db, err := database.Open(database.FromEnv())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, func() { _ = database.Close(db) })

	c, err := cache.Connect(ctx, cache.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		Prefix:   "storefront:",
	})
	if err != nil {
		logger.Warn("redis unavailable, cache disabled", "addr", config.RedisAddr(), "error", err)
	}
	a.Cache = c
	a.closers = append(a.closers, func() { _ = c.Close() })

	if a.Disk, err = openDisk(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Queue = queue.New(a.queueDriver(), queue.WithFailedJobStore(db))
	a.Queue.Register(jobs.ArchiveReceiptName, func() queue.Job { return jobs.NewArchiveReceipt(a.Disk) })

	a.pool = workerpool.New(config.Int("EVENT_WORKERS", 4))
	a.closers = append(a.closers, a.pool.Shutdown)
	a.Bus = event.NewBus(a.pool)
	a.Hub = ws.NewHub()
	var listenerOpts []listeners.Option
	if mailCfg := mail.FromEnv(); mailCfg.Enabled() {
		mailer := mail.NewSMTPMailer(mailCfg)
		a.Queue.Register(jobs.EmailReceiptName, func() queue.Job { return jobs.NewEmailReceipt(mailer) })
		listenerOpts = append(listenerOpts, listeners.WithReceiptEmails())
	}
	listeners.Register(a.Bus, a.Queue, a.Hub, listenerOpts...)

	a.Issuer = auth.NewIssuer(config.JWTSecret(), config.JWTTTL())
	a.Deps = routes.Deps{
		DB:        db,
		Issuer:    a.Issuer,
		Auth:      services.NewAuthService(db, a.Issuer),
		Units:     services.NewUnitService(db, a.Bus),
		Sales:     services.NewSaleService(db, a.Bus),
		Inventory: services.NewInventoryService(db),
		Catalog:   services.NewCatalogService(db, a.Cache, a.Bus),
		Feed:      a.Hub,
	}
	schema, err := appgraphql.NewSchema(a.Deps.Inventory, a.Deps.Sales)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("graphql schema: %w", err)
	}
	a.Deps.GraphQL = graphql.Handler(schema)

	a.Kernel = kernel.NewHTTPKernel(a.Deps, kernel.Options{
		RateLimit: config.Int("RATE_LIMIT", 200),
		CORS:      middleware.DefaultCORSOptions(),
	})
	return a, nil
}

// Close releases everything Boot opened, newest first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Migrator returns a runner over every schema migration.
func (a *App) Migrator(out io.Writer) *migration.Runner {
	return migration.New(a.DB, migrations.All(), out)
}

// Scheduler returns the periodic tasks run alongside the server.
func (a *App) Scheduler() *schedule.Scheduler {
	s := schedule.New()
	every := time.Duration(config.Int("INVENTORY_SNAPSHOT_SECONDS", 60)) * time.Second
	s.Every(every).Name(jobs.InventorySnapshotName).WithoutOverlapping().Run(jobs.InventorySnapshot(a.Deps.Inventory))
	return s
}

// AdminConfig returns the bootstrap admin credentials from configuration.
func AdminConfig() seeders.AdminConfig {
	return seeders.AdminConfig{
		Email:    config.AdminEmail(),
		Password: config.AdminPassword(),
		Name:     config.AdminName(),
	}
}

func (a *App) attachMongoSink() {
	uri := config.LogMongoURI()
	if uri == "" {
		return
	}
	sink, err := logger.NewMongoSink(uri, config.LogMongoDatabase(), "logs", slog.LevelInfo)
	if err != nil {
		logger.Warn("mongo log sink unavailable", "error", err)
		return
	}
	logger.Attach(sink)
	a.closers = append(a.closers, sink.Close)
}

func (a *App) queueDriver() queue.Driver {
	if config.QueueDriver() == "redis" {
		if a.Cache.Enabled() {
			d := queue.NewRedisDriver(a.Cache.Client(), "storefront:queue")
			a.closers = append(a.closers, d.Close)
			return d
		}
		logger.Warn("queue: redis driver requested but redis is unavailable, using memory")
	}
	return queue.NewMemoryDriver(1000)
}

func openDisk(ctx context.Context) (storage.Disk, error) {
	disks := storage.New(config.StorageDefault())
	disks.Register("local", storage.NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()))

	if bucket := config.StorageS3Bucket(); bucket != "" {
		s3, err := storage.NewS3Disk(ctx, storage.S3Config{
			Bucket:   bucket,
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		})
		if err != nil {
			return nil, err
		}
		disks.Register("s3", s3)
	}
	return disks.Default(), nil
}

// Start runs the full server until ctx is cancelled, then shuts down
// gracefully. Pending migrations run and the default admin is ensured first.
func Start(ctx context.Context) error {
	a, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Migrator(nil).Run(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := seeders.Admin(AdminConfig())(ctx, a.DB); err != nil {
		return fmt.Errorf("default admin: %w", err)
	}

	loopCtx, stopLoops := context.WithCancel(context.WithoutCancel(ctx))
	defer stopLoops()
	go a.Hub.Run(loopCtx)
	a.Queue.Start(loopCtx, config.QueueWorkers())
	sched := a.Scheduler()
	sched.Start(loopCtx)

	grpcSrv, err := grpc.Start(":"+config.GRPCPort(), func(ctx context.Context) error { return database.Ping(a.DB) })
	if err != nil {
		return err
	}
	defer grpcSrv.Stop()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           a.Kernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront running", "addr", srv.Addr, "grpc", grpcSrv.Addr(), "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	stopLoops()
	a.Queue.Wait()
	sched.Wait()
	return nil
}

// Work runs only the queue workers, for a dedicated `queue:work` process.
func Work(ctx context.Context, workers int) error {
	a, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Queue.Start(ctx, workers)
	<-ctx.Done()
	a.Queue.Wait()
	return nil
}
