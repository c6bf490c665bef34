// Package artifacts stores rendered documents in an S3-compatible bucket
// such as Cloudflare R2.
package artifacts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// DocxContentType is the media type of rendered resumes
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Config locates the bucket
type Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
	Prefix    string
}

// Enabled reports whether enough is configured to upload
func (c Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Sink receives rendered documents
type Sink interface {
	Put(ctx context.Context, name string, body []byte, contentType string) (string, error)
}

// ObjectPutter is the subset of the S3 client the sink uses
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads to a bucket under date-partitioned keys
type S3Sink struct {
	client ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Sink builds an S3 client with static credentials. A custom endpoint
// switches to path-style addressing for R2 and MinIO.
func NewS3Sink(ctx context.Context, cfg Config) (*S3Sink, error) {
	if !cfg.Enabled() {
		return nil, errors.New("artifact bucket is not configured")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewSinkWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewSinkWithClient wraps an existing client
func NewSinkWithClient(client ObjectPutter, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

// Key returns the object key for name: prefix/YYYY/MM/DD/<uuid>-name
func (s *S3Sink) Key(name string) string {
	return path.Join(s.prefix, s.now().UTC().Format("2006/01/02"), uuid.NewString()+"-"+path.Base(name))
}

// Put uploads body and returns its key
func (s *S3Sink) Put(ctx context.Context, name string, body []byte, contentType string) (string, error) {
	key := s.Key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}
