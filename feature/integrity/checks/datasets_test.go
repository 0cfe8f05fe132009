package checks

import (
	"context"
	"testing"

	"datajoin/core/dataset"
	"datajoin/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckDatasets(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.OnBucket("bucket", true)
	mockClient.On("ListObjects", mock.Anything, "bucket", minio.ListObjectsOptions{Prefix: "datasets/", Recursive: true}).
		Return(mocks.Listing(
			"datasets/.keep",
			"datasets/points.csv",
			"datasets/nested/series.yaml",
			"datasets/more.csv",
			"datasets/notes.txt",
		))

	report, err := CheckDatasets(context.Background(), mockClient, "bucket", "datasets")
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Formats[dataset.CSV])
	assert.Equal(t, 1, report.Formats[dataset.YAML])
	assert.Equal(t, []string{"datasets/notes.txt"}, report.Unsupported)
}

func TestCheckDatasets_BucketMissing(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "bucket").Return(false, nil)

	_, err := CheckDatasets(context.Background(), mockClient, "bucket", "datasets/")
	assert.ErrorContains(t, err, "does not exist")
}
