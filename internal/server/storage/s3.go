// Package storage writes uploaded PDFs to an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/dmitrijs2005/immiconsole/internal/server/config"
)

const pdfContentType = "application/pdf"

// ObjectPutter is the subset of *s3.Client the store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// NewS3Client builds a client for the bucket described by cfg. Path-style
// addressing is forced so MinIO style endpoints work.
func NewS3Client(ctx context.Context, cfg *sc.Config) (*s3.Client, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	return newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// DocumentKey returns the object key of a new document stored at t.
func DocumentKey(t time.Time, id uuid.UUID) string {
	return fmt.Sprintf("documents/%04d/%02d/%02d/%s.pdf", t.Year(), t.Month(), t.Day(), id)
}

// DocumentStore puts PDFs into one bucket.
type DocumentStore struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
}

func NewDocumentStore(client ObjectPutter, bucket string) *DocumentStore {
	return &DocumentStore{client: client, bucket: bucket, now: time.Now}
}

// Put uploads body under a fresh key and returns that key.
func (s *DocumentStore) Put(ctx context.Context, body io.Reader, size int64) (string, error) {
	key := DocumentKey(s.now().UTC(), uuid.New())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(pdfContentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return key, nil
}
