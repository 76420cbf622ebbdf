package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
)

// S3DocumentStore implements DocumentStore using AWS S3
// Bucket structure: s3://<bucket>/<prefix>/lists/<listID>.json
type S3DocumentStore struct {
	client     S3API // Use interface for testability
	bucketName string
	prefix     string
}

// S3Config holds S3 document store configuration
type S3Config struct {
	BucketName string // S3 bucket name
	Prefix     string // Optional key prefix
	Region     string // AWS region (optional, uses default if empty)
}

// NewS3DocumentStore creates a store using the default AWS credential chain
func NewS3DocumentStore(ctx context.Context, cfg S3Config) (*S3DocumentStore, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("s3 bucket name is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	}

	return NewS3DocumentStoreWithClient(s3.NewFromConfig(awsCfg), cfg.BucketName, cfg.Prefix), nil
}

// NewS3DocumentStoreWithClient creates a store with a custom S3 client
// This is primarily used for testing with mock S3 clients
func NewS3DocumentStoreWithClient(client S3API, bucketName, prefix string) *S3DocumentStore {
	return &S3DocumentStore{
		client:     client,
		bucketName: bucketName,
		prefix:     strings.Trim(prefix, "/"),
	}
}

func (s *S3DocumentStore) Load(ctx context.Context, listID string) ([]byte, error) {
	if err := list.ValidateID(listID); err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.key(listID)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, output.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get from S3: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read S3 object: %w", err)
	}
	return data, nil
}

func (s *S3DocumentStore) Save(ctx context.Context, listID string, data []byte) error {
	if err := list.ValidateID(listID); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(s.key(listID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"list-id": listID,
		},
	})
	if err != nil {
		return fmt.Errorf("upload to S3: %w", err)
	}
	return nil
}

func (s *S3DocumentStore) List(ctx context.Context) ([]output.DocumentInfo, error) {
	prefix := s.listsPrefix()
	var infos []output.DocumentInfo
	var token *string

	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucketName),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list S3 objects: %w", err)
		}

		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			name := strings.TrimPrefix(key, prefix)
			if strings.Contains(name, "/") || !strings.HasSuffix(name, documentExt) {
				continue
			}
			id := strings.TrimSuffix(name, documentExt)
			if list.ValidateID(id) != nil {
				continue
			}
			info := output.DocumentInfo{
				ListID:   id,
				Location: fmt.Sprintf("s3://%s/%s", s.bucketName, key),
				Size:     aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				info.UpdatedAt = *obj.LastModified
			}
			infos = append(infos, info)
		}

		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		token = out.NextContinuationToken
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ListID < infos[j].ListID })
	return infos, nil
}

// Delete removes the object. S3 treats a missing key as success.
func (s *S3DocumentStore) Delete(ctx context.Context, listID string) error {
	if err := list.ValidateID(listID); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.key(listID)),
	})
	if err != nil {
		return fmt.Errorf("delete from S3: %w", err)
	}
	return nil
}

func (s *S3DocumentStore) listsPrefix() string {
	if s.prefix == "" {
		return "lists/"
	}
	return s.prefix + "/lists/"
}

func (s *S3DocumentStore) key(listID string) string {
	return s.listsPrefix() + listID + documentExt
}
