package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config holds construction parameters for the S3 backend. Endpoint and
// PathStyle support S3-compatible servers such as MinIO.
type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string // object key prefix, default "blobs/"
	Endpoint        string // optional custom endpoint
	AccessKeyID     string // optional; falls back to default credentials chain
	SecretAccessKey string
	PathStyle       bool
}

// S3BlobStore stores blob content and a JSON metadata sidecar as paired
// objects in a single bucket.
type S3BlobStore struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3BlobStore builds an S3-backed store from explicit configuration.
func NewS3BlobStore(ctx context.Context, cfg S3Config) (*S3BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "blobs/"
	}
	return &S3BlobStore{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

func (s *S3BlobStore) contentKey(id string) string { return s.prefix + id + ".bin" }
func (s *S3BlobStore) metaKey(id string) string    { return s.prefix + id + ".json" }

func (s *S3BlobStore) Upload(ctx context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error) {
	if meta.FileName == "" {
		return nil, ErrMissingFileName
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	h := sha256.Sum256(data)

	meta.ID = uuid.New().String()
	meta.Size = int64(len(data))
	meta.Hash = fmt.Sprintf("%x", h)
	meta.CreatedAt = time.Now().UTC()
	if meta.Tags == nil {
		meta.Tags = make(map[string]string)
	}

	contentKey := s.contentKey(meta.ID)
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &contentKey,
		Body:        bytes.NewReader(data),
		ContentType: aws.String(meta.ContentType),
	}); err != nil {
		return nil, fmt.Errorf("putting blob content: %w", err)
	}

	buf, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encoding blob metadata: %w", err)
	}
	metaKey := s.metaKey(meta.ID)
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &metaKey,
		Body:        bytes.NewReader(buf),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("putting blob metadata: %w", err)
	}

	out := meta // copy
	return &out, nil
}

func (s *S3BlobStore) readMeta(ctx context.Context, id string) (*BlobMetadata, error) {
	key := s.metaKey(id)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("getting blob metadata: %w", err)
	}
	defer out.Body.Close()

	var meta BlobMetadata
	if err := json.NewDecoder(out.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decoding blob metadata: %w", err)
	}
	return &meta, nil
}

func (s *S3BlobStore) Download(ctx context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	meta, err := s.readMeta(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	key := s.contentKey(id)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrBlobNotFound
		}
		return nil, nil, fmt.Errorf("getting blob content: %w", err)
	}
	return out.Body, meta, nil
}

func (s *S3BlobStore) Delete(ctx context.Context, id string) error {
	if _, err := s.readMeta(ctx, id); err != nil {
		return err
	}
	for _, key := range []string{s.contentKey(id), s.metaKey(id)} {
		k := key
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &k}); err != nil {
			return fmt.Errorf("deleting blob object %s: %w", k, err)
		}
	}
	return nil
}

func (s *S3BlobStore) GetMetadata(ctx context.Context, id string) (*BlobMetadata, error) {
	return s.readMeta(ctx, id)
}

func (s *S3BlobStore) ListBySubject(ctx context.Context, subjectID, category string, limit, offset int) ([]*BlobMetadata, int, error) {
	return s.Search(ctx, SearchParams{
		SubjectID: subjectID,
		Category:  category,
		Limit:     limit,
		Offset:    offset,
	})
}

func (s *S3BlobStore) Search(ctx context.Context, params SearchParams) ([]*BlobMetadata, int, error) {
	var matched []*BlobMetadata
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.bucket,
			Prefix:            &s.prefix,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("listing blobs: %w", err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			id := strings.TrimSuffix(strings.TrimPrefix(key, s.prefix), ".json")
			meta, err := s.readMeta(ctx, id)
			if err != nil {
				continue
			}
			if matchesSearch(meta, params) {
				matched = append(matched, meta)
			}
		}
		if out.IsTruncated != nil && *out.IsTruncated && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}

	total := len(matched)
	matched = page(matched, params.Limit, params.Offset)
	return matched, total, nil
}

// isNotFound matches the smithy API error codes S3 returns for absent
// objects in both AWS and MinIO.
func isNotFound(err error) bool {
	var apiErr interface{ ErrorCode() string }
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
