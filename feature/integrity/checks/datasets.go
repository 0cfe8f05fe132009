package checks

import (
	"context"
	"fmt"
	"path"

	"datajoin/core/dataset"
	"datajoin/core/storage"

	"github.com/minio/minio-go/v7"
)

// DatasetReport lists the objects of the datasets folder.
type DatasetReport struct {
	Total int `json:"total"`
	// Formats counts readable datasets per format.
	Formats map[dataset.Format]int `json:"formats"`
	// Unsupported lists objects no decoder can read.
	Unsupported []string `json:"unsupported"`
}

// CheckDatasets verifies that every object under prefix has a known format.
func CheckDatasets(ctx context.Context, client storage.Client, bucket, prefix string) (*DatasetReport, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	report := &DatasetReport{
		Formats:     make(map[dataset.Format]int),
		Unsupported: []string{},
	}
	opts := minio.ListObjectsOptions{Prefix: folderPath(prefix), Recursive: true}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list datasets: %w", obj.Err)
		}
		// Folder placeholders are not datasets
		if path.Base(obj.Key) == ".keep" || obj.Key == folderPath(prefix) {
			continue
		}
		report.Total++
		format, err := dataset.FormatOf(obj.Key)
		if err != nil {
			report.Unsupported = append(report.Unsupported, obj.Key)
			continue
		}
		report.Formats[format]++
	}
	return report, nil
}
