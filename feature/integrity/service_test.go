package integrity

import (
	"context"
	"testing"

	"datajoin/core/storage/mocks"
	"datajoin/feature/integrity/checks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestService_Structure(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), nil, "")

	t.Run("CheckStructure", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		// One listing per required folder
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Listing())

		missing, err := svc.CheckStructure(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"datasets", "scenes"}, missing)
	})

	t.Run("FixStructure", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "test-bucket", "scenes/.keep", mock.Anything, int64(0), mock.Anything).
			Return(minio.UploadInfo{}, nil)

		err := svc.FixStructure(context.Background(), []string{"scenes"})
		assert.NoError(t, err)
	})
}

func TestService_CheckDatasets_DefaultPrefix(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), nil, "")

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", minio.ListObjectsOptions{Prefix: "datasets/", Recursive: true}).
		Return(mocks.Listing())

	report, err := svc.CheckDatasets(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Total)
	mockClient.AssertExpectations(t)
}

func TestService_CheckSchema_NoDatabase(t *testing.T) {
	svc := NewService(new(mocks.Client), "test-bucket", zap.NewNop(), nil, "")

	_, err := svc.CheckSchema()
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestService_RunAll(t *testing.T) {
	mockClient := new(mocks.Client)
	db, sqlMock := setupMockDB(t)
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), db, "data")

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `scenes`").WillReturnError(assert.AnError)
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `scene_elements`").WillReturnError(assert.AnError)

	report := svc.RunAll(context.Background())

	require.Contains(t, report, "structure")
	assert.Equal(t, "error", report["structure"].(map[string]any)["status"])
	assert.Equal(t, "error", report["datasets"].(map[string]any)["status"])

	schema, ok := report["schema"].(*checks.SchemaReport)
	require.True(t, ok)
	assert.False(t, schema.Matched)
	assert.Len(t, schema.Errors, 2)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestService_RunAll_WithoutDatabase(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), nil, "")

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Listing())

	report := svc.RunAll(context.Background())
	assert.Equal(t, map[string]any{"status": "skipped"}, report["schema"])
	assert.Equal(t, "ok", report["structure"].(map[string]any)["status"])
}
