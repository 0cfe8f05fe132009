package mocks

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"datajoin/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storage.Client = (*Client)(nil)

func TestOnObject_FreshReaderPerCall(t *testing.T) {
	ctx := context.Background()
	m := new(Client)
	m.OnObject("bucket", "datasets/a.csv", "id\n1\n")

	for i := 0; i < 2; i++ {
		data, err := storage.ReadObject(ctx, m, "bucket", "datasets/a.csv")
		require.NoError(t, err)
		assert.Equal(t, "id\n1\n", string(data))
	}
	m.AssertNumberOfCalls(t, "GetObject", 2)
}

func TestOnObjectError(t *testing.T) {
	m := new(Client)
	m.OnObjectError("bucket", "missing", errors.New("no such key"))

	_, err := m.GetObject(context.Background(), "bucket", "missing", minio.GetObjectOptions{})
	assert.ErrorContains(t, err, "no such key")
}

func TestOnPut_CapturesBody(t *testing.T) {
	m := new(Client)
	up := m.OnPut("bucket", "scenes/a.json")

	require.NoError(t, storage.PutBytes(context.Background(), m, "bucket", "scenes/a.json", []byte(`{"a":1}`), "application/json"))
	assert.Equal(t, `{"a":1}`, string(up.Body()))
	assert.Equal(t, "application/json", up.ContentType())
	assert.Equal(t, 1, up.Count())
}

func TestOnListing(t *testing.T) {
	ctx := context.Background()
	m := new(Client)
	m.OnListing("bucket", "datasets/", "datasets/a.csv", "datasets/b.json")
	m.OnListing("bucket", "scenes/")

	for i := 0; i < 2; i++ {
		var keys []string
		for obj := range m.ListObjects(ctx, "bucket", minio.ListObjectsOptions{Prefix: "datasets/", Recursive: true}) {
			keys = append(keys, obj.Key)
		}
		assert.Equal(t, []string{"datasets/a.csv", "datasets/b.json"}, keys)
	}

	ok, err := storage.FolderExists(ctx, m, "bucket", "scenes/")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetObject_PlainReader(t *testing.T) {
	m := new(Client)
	m.On("GetObject", context.Background(), "bucket", "x", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader("")), nil)

	obj, err := m.GetObject(context.Background(), "bucket", "x", minio.GetObjectOptions{})
	require.NoError(t, err)
	assert.NotNil(t, obj)
}
