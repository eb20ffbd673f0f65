package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeObjects ist ein ObjectAPI im Speicher.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	times   map[string]time.Time
	putErr  error
	deleted []string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, times: map[string]time.Time{}}
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	f.objects[key] = data
	if _, ok := f.times[key]; !ok {
		f.times[key] = time.Now()
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &s3.ListObjectsV2Output{}
	for key := range f.objects {
		if !strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			continue
		}
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key), LastModified: aws.Time(f.times[key])})
	}
	return out, nil
}

func (f *fakeObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestObjectName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"plain", "chamomile.jpg", "1700000000123-chamomile.jpg"},
		{"spaces", "my  flower photo.png", "1700000000123-my-flower-photo.png"},
		{"hebrew", "קמומיל טרי.jpg", "1700000000123-קמומיל-טרי.jpg"},
		{"path is stripped", "C:\\Users\\noa\\img 1.jpg", "1700000000123-img-1.jpg"},
		{"empty", "", "1700000000123-file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ObjectName(now, tt.filename))
		})
	}
}

func TestUploadReturnsPublicURL(t *testing.T) {
	client := newFakeObjects()
	u := NewUploader(client, "images", "uploads", func(key string) string {
		return "https://cdn.example/images/" + key
	}, zap.NewNop())
	u.Now = func() time.Time { return time.UnixMilli(42) }

	url, err := u.Upload(context.Background(), "leaf 1.jpg", []byte("data"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/images/uploads/42-leaf-1.jpg", url)
	assert.Equal(t, []byte("data"), client.objects["uploads/42-leaf-1.jpg"])
}

func TestUploadFailureExplainsBucket(t *testing.T) {
	client := newFakeObjects()
	client.putErr = errors.New("NoSuchBucket")
	u := NewUploader(client, "images", "", func(key string) string { return key }, zap.NewNop())

	_, err := u.Upload(context.Background(), "a.jpg", []byte("x"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUploadFailed))
	assert.Contains(t, err.Error(), `"images"`)
	assert.Contains(t, err.Error(), "NoSuchBucket")
}
