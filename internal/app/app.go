package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/plastyfilm/go-backend/internal/cfg"
	"github.com/plastyfilm/go-backend/internal/clock"
	v1Grpc "github.com/plastyfilm/go-backend/internal/delivery/v1/grpc"
	v1Http "github.com/plastyfilm/go-backend/internal/delivery/v1/http"
	"github.com/plastyfilm/go-backend/internal/infrastructure/kafka"
	minioInfra "github.com/plastyfilm/go-backend/internal/infrastructure/minio"
	"github.com/plastyfilm/go-backend/internal/metrics"
	"github.com/plastyfilm/go-backend/internal/pricing"
	s3Repo "github.com/plastyfilm/go-backend/internal/repository/minio"
	"github.com/plastyfilm/go-backend/internal/repository/pgdb"
	pgdbConv "github.com/plastyfilm/go-backend/internal/repository/pgdb/converter"
	"github.com/plastyfilm/go-backend/internal/repository/redis"
	redisConv "github.com/plastyfilm/go-backend/internal/repository/redis/converter"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/clients"
	"github.com/plastyfilm/go-backend/pkg/closer"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
	"github.com/plastyfilm/go-backend/pkg/postgres"
	"github.com/plastyfilm/go-backend/pkg/tr"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
	forcedTimeout   = 3 * time.Second
)

// App держит поднятые зависимости и серверы.
type App struct {
	cfg    *config.Config
	logger *logger.ZapLogger

	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	worker  *kafka.OutboxWorker
}

// NewApp подключается к инфраструктуре и собирает граф зависимостей.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, log *logger.ZapLogger) (_ *App, err error) {
	bgCtx, stop := context.WithCancel(context.Background())

	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(forcedTimeout, log),
	}
	// Фоновый контекст гасится последним, после ожидания очисток MinIO.
	a.closer.Add("background", func(context.Context) error {
		stop()
		return nil
	})
	defer func() {
		if err != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = a.closer.Close(ctx)
		}
	}()

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		return nil
	})

	txManager := tr.NewManager(db.Pool)
	systemClock := clock.System()
	appMetrics := metrics.New()
	engine := pricing.NewEngine(systemClock).WithObserver(appMetrics)
	encoder := kafka.NewProtoEventEncoder(systemClock)

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverter())
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.NewCategoryConverter())
	offerRepo := pgdb.NewOfferRepo(db.Pool, pgdbConv.NewOfferConverter())
	contactRepo := pgdb.NewContactRepo(db.Pool, pgdbConv.NewContactMessageConverter())
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverter())

	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.Add("redis", redisClient.Close)

	redisCtx, redisCancel := context.WithTimeout(context.Background(), startupTimeout)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewProductConverter(), redisConv.NewOfferConverter(), cfg.Redis, log)
	sessionRepo := redis.NewSessionRepo(redisClient, systemClock)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), startupTimeout)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	images := minioInfra.NewMinioInfrastructure(s3Repo.NewImageRepo(minioClient), cfg.Minio, log, bgCtx)
	a.closer.Add("minio cleanup", images.WaitForCleanup)

	producer := kafka.NewProducer(log, cfg.Kafka)
	a.closer.Add("kafka producer", producer.Close)
	if err := producer.EnsureTopic(startupTimeout); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	a.worker = kafka.NewOutboxWorker(outboxRepo, log, producer, cfg.Kafka, db.Dsn).WithObserver(appMetrics)

	offerUC := usecase.NewOfferUC(offerRepo, productRepo, categoryRepo, engine, txManager, outboxRepo, encoder, cacheRepo, cfg.Store, log)
	productUC := usecase.NewProductUC(productRepo, categoryRepo, offerUC, engine, txManager, outboxRepo, encoder, cacheRepo, cfg.Store, log)
	categoryUC := usecase.NewCategoryUC(categoryRepo)
	contactUC := usecase.NewContactUC(contactRepo, txManager, outboxRepo, encoder, log)
	authUC := usecase.NewAuthUC(sessionRepo, cfg.Auth, systemClock, log)
	imageUC := usecase.NewImageUC(images, cfg.Minio)

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, log)
	a.grpcSrv.RegisterServices(productUC)

	router := v1Http.NewRouter(chi.NewRouter(), log, log.Zap()).
		WithMetrics(appMetrics).
		WithReadiness(map[string]v1Http.Check{
			"postgres": db.Ping,
			"redis":    redisClient.Ping,
		})
	handler := router.Init(v1Http.UseCases{
		Products:   productUC,
		Offers:     offerUC,
		Categories: categoryUC,
		Contact:    contactUC,
		Auth:       authUC,
		Images:     imageUC,
	}, cfg.Http.SwaggerURL, cfg.Minio.MaxImageSize)

	a.httpSrv = v1Http.NewServer(handler, cfg.Http)

	return a, nil
}

// Run запускает серверы и воркер и блокируется до сигнала или падения сервера.
func (a *App) Run() error {
	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Порядок остановки обратный: сначала серверы, затем воркер, затем клиенты.
	a.worker.Start(ctx)
	a.closer.Add("outbox worker", a.worker.Stop)

	errCh := make(chan error, 2)

	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("grpc", err)
		}
	}()
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("http", err)
		}
	}()
	a.closer.Add("http server", a.httpSrv.Stop)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-ctx.Done():
		a.logger.Infof("received shutdown signal, stopping gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		appErr = errors.Join(appErr, err)
	}

	a.logger.Infof("application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
