package cmd

import (
	"context"
	"fmt"

	"contest-sync/core/config"
	"contest-sync/core/database"
	"contest-sync/core/logger"
	"contest-sync/core/storage"
	"contest-sync/feature/contest"
	"contest-sync/feature/integrity"
	"contest-sync/feature/integrity/checks"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"k8s.io/utils/clock"
)

// runtime holds the dependencies shared by the commands.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	repo    contest.Repository
	db      *gorm.DB
	coll    *mongo.Collection
	store   storage.Client
	archive *contest.Archive
	closers []func()
}

// bootstrap loads and validates the configuration, then opens the contest store.
// Object storage is opened only when storage.enabled is set.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		logg.Error("Invalid configuration, refusing to start", zap.Error(err))
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logg = logg.With(zap.String("environment", cfg.Server.Environment))

	rt := &runtime{cfg: cfg, logger: logg}
	if err := rt.openRepository(ctx); err != nil {
		rt.close()
		return nil, err
	}

	if cfg.Storage.Enabled {
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, store, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			rt.close()
			return nil, err
		}
		rt.store = store
		rt.archive = contest.NewArchive(store, cfg.Storage.Bucket, clock.RealClock{})
	}

	return rt, nil
}

func (rt *runtime) openRepository(ctx context.Context) error {
	cfg := rt.cfg.Database

	var repo contest.Repository
	if cfg.IsSQL() {
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		rt.closers = append(rt.closers, func() { _ = sqlDB.Close() })
		rt.db = db
		repo = contest.NewGormRepository(db)
	} else {
		mdb, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return err
		}
		rt.closers = append(rt.closers, func() { _ = mdb.Client().Disconnect(context.Background()) })
		rt.coll = mdb.Collection(contest.CollectionName)
		repo = contest.NewMongoRepository(rt.coll)
	}

	if err := repo.Migrate(ctx); err != nil {
		return err
	}
	rt.repo = repo
	rt.logger.Info("Connected to contest store", zap.String("driver", cfg.Driver))
	return nil
}

// integrityDeps exposes the opened resources to the integrity checks.
func (rt *runtime) integrityDeps(pinger checks.Pinger) integrity.Deps {
	return integrity.Deps{
		DB:        rt.db,
		Contests:  rt.coll,
		Storage:   rt.store,
		Bucket:    rt.cfg.Storage.Bucket,
		Region:    rt.cfg.Storage.Region,
		Pinger:    pinger,
		Providers: rt.cfg.Sync.Providers,
	}
}

func (rt *runtime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
	_ = rt.logger.Sync()
}
