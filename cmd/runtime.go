package cmd

import (
	"fmt"
	"io"

	"datajoin/core/config"
	"datajoin/core/database"
	"datajoin/core/logger"
	"datajoin/core/metrics"
	"datajoin/core/storage"
	"datajoin/core/tracing"
	"datajoin/feature/scenes"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles the dependencies shared by the commands.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	client storage.Client
	db     *gorm.DB
	tracer trace.TracerProvider
}

func newRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &runtime{cfg: cfg, logger: logg, client: client}, nil
}

// connect opens the database. When required is false a failure is only logged
// and scenes fall back to memory.
func (r *runtime) connect(required bool) error {
	db, err := database.Connect(r.cfg.Database)
	if err != nil {
		if required {
			return fmt.Errorf("database connection required: %w", err)
		}
		r.logger.Warn("Optional database connection failed, scenes are kept in memory", zap.Error(err))
		return nil
	}
	r.db = db
	r.logger.Info("Connected to database", zap.String("driver", db.Dialector.Name()))
	return nil
}

// tracing installs the configured tracer provider, exporting spans to w.
func (r *runtime) tracing(w io.Writer) (tracing.ShutdownFunc, error) {
	tp, shutdown, err := tracing.Install(r.cfg.Tracing, w)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	r.tracer = tp
	if r.cfg.Tracing.Enabled {
		r.logger.Info("Tracing enabled",
			zap.String("exporter", r.cfg.Tracing.Exporter),
			zap.Float64("sample_ratio", r.cfg.Tracing.SampleRatio),
		)
	}
	return shutdown, nil
}

// store returns the scene store backing the service.
func (r *runtime) store() (scenes.Store, error) {
	if r.db == nil {
		return scenes.NewMemoryStore(), nil
	}
	repo := scenes.NewRepository(r.db, r.cfg.Join.BatchSize)
	if err := repo.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate scene tables: %w", err)
	}
	return repo, nil
}

// sceneService builds the scene service. A nil registry disables metrics.
func (r *runtime) sceneService(registry prometheus.Registerer) (*scenes.Service, error) {
	store, err := r.store()
	if err != nil {
		return nil, err
	}

	var recorder *metrics.Recorder
	if registry != nil {
		recorder = metrics.New(
			metrics.WithNamespace(r.cfg.Metrics.Namespace),
			metrics.WithRegistry(registry),
		)
	}

	return scenes.NewService(store, r.client, r.cfg.Storage.Bucket, r.logger, scenes.Options{
		Strict:         r.cfg.Join.Strict,
		CacheTTL:       r.cfg.Join.CacheTTL(),
		Timeout:        r.cfg.Join.Timeout(),
		DatasetPrefix:  r.cfg.Join.DatasetPrefix,
		Metrics:        recorder,
		TracerProvider: r.tracer,
	}), nil
}
