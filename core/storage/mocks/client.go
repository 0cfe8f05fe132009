// Package mocks provides a testify mock of storage.Client with helpers for
// the object shapes datajoin reads and writes.
package mocks

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of storage.Client.
//
// GetObject and ListObjects also accept a func returning the value as the
// first return argument, so repeated calls each get a fresh reader or
// channel.
type Client struct {
	mock.Mock
}

func (m *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *Client) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *Client) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	switch v := args.Get(0).(type) {
	case func() io.ReadCloser:
		return v(), args.Error(1)
	case io.ReadCloser:
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	args := m.Called(ctx, bucketName, opts)
	switch v := args.Get(0).(type) {
	case func() <-chan minio.ObjectInfo:
		return v()
	case <-chan minio.ObjectInfo:
		return v
	}
	return Listing()
}

// Listing returns a closed channel holding one object per key.
func Listing(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

// OnBucket answers BucketExists for bucket.
func (m *Client) OnBucket(bucket string, exists bool) *mock.Call {
	return m.On("BucketExists", mock.Anything, bucket).Return(exists, nil)
}

// OnObject serves body for every read of bucket/name.
func (m *Client) OnObject(bucket, name, body string) *mock.Call {
	return m.On("GetObject", mock.Anything, bucket, name, mock.Anything).
		Return(func() io.ReadCloser { return io.NopCloser(strings.NewReader(body)) }, nil)
}

// OnObjectError fails every read of bucket/name with err.
func (m *Client) OnObjectError(bucket, name string, err error) *mock.Call {
	return m.On("GetObject", mock.Anything, bucket, name, mock.Anything).Return(nil, err)
}

// OnListing serves keys for every listing of bucket under prefix.
func (m *Client) OnListing(bucket, prefix string, keys ...string) *mock.Call {
	return m.On("ListObjects", mock.Anything, bucket, mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
		return o.Prefix == prefix
	})).Return(func() <-chan minio.ObjectInfo { return Listing(keys...) })
}

// Upload records what was written by the PutObject calls it was set up for.
type Upload struct {
	mu          sync.Mutex
	body        []byte
	contentType string
	count       int
}

// Body returns the bytes of the last write.
func (u *Upload) Body() []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return bytes.Clone(u.body)
}

// ContentType returns the content type of the last write.
func (u *Upload) ContentType() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.contentType
}

// Count returns how many writes were seen.
func (u *Upload) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.count
}

// OnPut accepts writes of bucket/name and captures them.
func (m *Client) OnPut(bucket, name string) *Upload {
	up := &Upload{}
	m.On("PutObject", mock.Anything, bucket, name, mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Run(func(args mock.Arguments) {
			body, _ := io.ReadAll(args.Get(3).(io.Reader))
			opts := args.Get(5).(minio.PutObjectOptions)
			up.mu.Lock()
			up.body = body
			up.contentType = opts.ContentType
			up.count++
			up.mu.Unlock()
		}).
		Return(minio.UploadInfo{Bucket: bucket, Key: name}, nil)
	return up
}
