package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/go-recommender/internal/cfg"
	v1Grpc "github.com/DRSN-tech/go-recommender/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/go-recommender/internal/delivery/v1/http"
	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/infrastructure/catalogapi"
	"github.com/DRSN-tech/go-recommender/internal/infrastructure/kafka"
	"github.com/DRSN-tech/go-recommender/internal/recommender"
	s3Repo "github.com/DRSN-tech/go-recommender/internal/repository/minio"
	"github.com/DRSN-tech/go-recommender/internal/repository/pgdb"
	"github.com/DRSN-tech/go-recommender/internal/repository/redis"
	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/DRSN-tech/go-recommender/pkg/clients"
	"github.com/DRSN-tech/go-recommender/pkg/closer"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/DRSN-tech/go-recommender/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const initTimeout = 10 * time.Second

// App держит собранные зависимости и серверы.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
}

// NewApp подключает хранилища, выбранные конфигурацией, и собирает usecase и серверы.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(cfg.Http.ShutdownTimeout),
	}

	uc, err := a.initUseCase()
	if err != nil {
		_ = a.closer.Close(context.Background())
		return nil, err
	}

	variant := cfg.Recommender.Variant

	r := chi.NewRouter()
	v1Http.NewRouter(r, &cfg.Http, log).Init(uc, variant)
	a.httpSrv = v1Http.NewServer(r, &cfg.Http)

	if cfg.Grpc.Enabled {
		a.grpcSrv = v1Grpc.NewGRPCServer(&cfg.Grpc, log)
		a.grpcSrv.RegisterServices(uc, variant)
	}

	return a, nil
}

func (a *App) initUseCase() (*usecase.RecommendationUseCase, error) {
	cfg := a.cfg
	log := a.logger

	engine, err := newEngine(&cfg.Recommender)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var (
		catalog     usecase.CatalogSource
		favorites   usecase.FavoritesSource
		preferences usecase.PreferencesRepository
		cache       usecase.CatalogCache
		snapshots   usecase.SnapshotStore
		producer    usecase.EventProducer
	)

	// Источники API магазина
	shop := catalogapi.NewClient(&http.Client{Timeout: cfg.Catalog.RequestTimeout}, &cfg.Catalog, log)

	// PostgreSQL
	var db *postgres.PgDatabase
	if cfg.UsesPostgres() {
		db, err = initPGDB(log, &cfg.Db)
		if err != nil {
			return nil, err
		}
		a.closer.AddSimple("postgres", db.Close)
		preferences = pgdb.NewUserPreferencesRepo(db.Pool)
	}

	// MinIO
	var snapshotRepo *s3Repo.SnapshotRepo
	if cfg.Minio.Enabled {
		snapshotRepo, err = initMinIO(&cfg.Minio, log)
		if err != nil {
			return nil, err
		}
		snapshots = snapshotRepo
	}

	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		catalog = pgdb.NewProductRepo(db.Pool)
	case config.SourceS3:
		catalog = snapshotRepo
	default:
		catalog = shop
	}

	switch cfg.Catalog.FavoritesSource {
	case config.SourcePostgres:
		favorites = pgdb.NewFavoriteRepo(db.Pool)
	default:
		favorites = shop
	}

	// Redis
	if cfg.Redis.Enabled {
		redisClient := clients.NewRedisClient(&cfg.Redis)
		a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })

		ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
		defer cancel()
		if err := redisClient.Ping(ctx); err != nil {
			log.Errorf(err, "failed to connect to redis")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		cache = redis.NewCacheRepo(redisClient, &cfg.Redis, log)
	}

	// Kafka
	if cfg.Kafka.Enabled {
		p := kafka.NewProducer(log, &cfg.Kafka)
		a.closer.Add("kafka producer", func(context.Context) error { return p.Close() })

		ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
		defer cancel()
		if err := p.EnsureTopic(ctx); err != nil {
			log.Errorf(err, "failed to ensure kafka topic %s", cfg.Kafka.Topic)
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		producer = p
	}

	log.Infof(
		"recommender configured: variant=%s catalog=%s favorites=%s cache=%t events=%t snapshots=%t",
		engine.Variant(), cfg.Catalog.Source, cfg.Catalog.FavoritesSource,
		cache != nil, producer != nil, snapshots != nil,
	)

	return usecase.NewRecommendationUC(engine, catalog, favorites, preferences, cache, snapshots, producer, log), nil
}

// Run запускает серверы и блокируется до сигнала остановки или падения одного из них.
func (a *App) Run() error {
	errCh := make(chan error, 2)

	if a.grpcSrv != nil {
		a.closer.Add("gRPC server", a.grpcSrv.Stop)
		go func() {
			a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
			if err := a.grpcSrv.Start(); err != nil {
				a.logger.Errorf(err, "gRPC server failed")
				errCh <- err
			}
		}()
	}

	a.closer.Add("HTTP server", a.httpSrv.Stop)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Http.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func newEngine(rc *config.RecommenderCfg) (*recommender.Engine, error) {
	variant, err := domain.ParseVariant(rc.Variant)
	if err != nil {
		return nil, err
	}

	active := rc.Active()
	weights := domain.Weights{Category: active.CategoryWeight, Description: active.DescriptionWeight}

	return recommender.NewEngine(variant, weights, active.TopN), nil
}

func initPGDB(logger logger.Logger, cfg *config.PGDBCfg) (*postgres.PgDatabase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

func initMinIO(cfg *config.MinIOCfg, logger logger.Logger) (*s3Repo.SnapshotRepo, error) {
	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	if err := clients.EnsureBucket(ctx, minioClient, cfg.BucketName); err != nil {
		logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s3Repo.NewSnapshotRepo(minioClient, cfg, logger), nil
}
