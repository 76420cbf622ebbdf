package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MockS3Client is an in-memory S3API for tests
// ListObjectsV2 pages results PageSize keys at a time.
type MockS3Client struct {
	mu      sync.RWMutex
	objects map[string]*mockS3Object // key -> object

	PageSize int
	// Err, when set, is returned by every call.
	Err error
}

type mockS3Object struct {
	content      []byte
	contentType  string
	metadata     map[string]string
	lastModified time.Time
}

// NewMockS3Client creates a new mock S3 client
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		objects:  make(map[string]*mockS3Object),
		PageSize: 1000,
	}
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	content, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	m.objects[aws.ToString(params.Key)] = &mockS3Object{
		content:      content,
		contentType:  aws.ToString(params.ContentType),
		metadata:     params.Metadata,
		lastModified: time.Now().UTC(),
	}
	return &s3.PutObjectOutput{}, nil
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := aws.ToString(params.Key)
	obj, exists := m.objects[key]
	if !exists {
		return nil, &types.NoSuchKey{
			Message: aws.String(fmt.Sprintf("The specified key does not exist: %s", key)),
		}
	}

	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.content)),
		ContentType:   aws.String(obj.contentType),
		ContentLength: aws.Int64(int64(len(obj.content))),
		Metadata:      obj.metadata,
		LastModified:  aws.Time(obj.lastModified),
	}, nil
}

// ListObjectsV2 lists keys in lexical order; the continuation token is the
// offset of the next page.
func (m *MockS3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := aws.ToString(params.Prefix)
	var keys []string
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if params.ContinuationToken != nil {
		n, err := strconv.Atoi(*params.ContinuationToken)
		if err != nil {
			return nil, fmt.Errorf("bad continuation token %q", *params.ContinuationToken)
		}
		start = n
	}
	size := m.PageSize
	if size <= 0 {
		size = 1000
	}
	end := start + size
	if end > len(keys) {
		end = len(keys)
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, key := range keys[start:end] {
		obj := m.objects[key]
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(obj.content))),
			LastModified: aws.Time(obj.lastModified),
		})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

// GetObjectCount returns the number of stored objects (for testing)
func (m *MockS3Client) GetObjectCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// ContentType returns the stored content type of key (for testing)
func (m *MockS3Client) ContentType(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return "", false
	}
	return obj.contentType, true
}
