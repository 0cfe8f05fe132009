package integrity

import (
	"context"
	"errors"

	"datajoin/core/storage"
	"datajoin/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned by schema checks when the service runs without a database.
var ErrNoDatabase = errors.New("no database configured")

// Service handles integrity checks.
type Service struct {
	client        storage.Client
	bucket        string
	logger        *zap.Logger
	db            *gorm.DB
	datasetPrefix string
}

// NewService creates a new integrity service. db may be nil when scenes are kept in memory.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, datasetPrefix string) *Service {
	if datasetPrefix == "" {
		datasetPrefix = "datasets/"
	}
	return &Service{
		client:        client,
		bucket:        bucket,
		logger:        logger,
		db:            db,
		datasetPrefix: datasetPrefix,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckDatasets inventories the dataset folder.
func (s *Service) CheckDatasets(ctx context.Context) (*checks.DatasetReport, error) {
	return checks.CheckDatasets(ctx, s.client, s.bucket, s.datasetPrefix)
}

// CheckSchema compares the scene tables with their models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return checks.CheckSchema(s.db)
}

// RunAll runs every check and collects the outcome of each under its name.
// A failing check does not stop the others.
func (s *Service) RunAll(ctx context.Context) map[string]any {
	report := make(map[string]any)

	if missing, err := s.CheckStructure(ctx); err != nil {
		report["structure"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = map[string]any{"status": "ok", "missing": missing}
	}

	if datasets, err := s.CheckDatasets(ctx); err != nil {
		report["datasets"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["datasets"] = datasets
	}

	switch schema, err := s.CheckSchema(); {
	case errors.Is(err, ErrNoDatabase):
		report["schema"] = map[string]any{"status": "skipped"}
	case err != nil:
		report["schema"] = map[string]any{"status": "error", "error": err.Error()}
	default:
		report["schema"] = schema
	}

	return report
}
