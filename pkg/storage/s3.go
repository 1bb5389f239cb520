package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"loftalgerie/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver stores finished export files.
type Archiver interface {
	Put(ctx context.Context, name, contentType string, body []byte) (string, error)
	Bucket() string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client putObjectAPI
	bucket string
	prefix string
	log    *logger.Logger
}

type S3Config struct {
	Bucket string
	Prefix string
	Region string
}

// NewS3Archiver loads the default AWS credential chain for the region.
func NewS3Archiver(ctx context.Context, cfg S3Config, log *logger.Logger) (*S3Archiver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("S3 archive configured", "bucket", cfg.Bucket, "prefix", cfg.Prefix, "region", cfg.Region)
	return newS3Archiver(s3.NewFromConfig(awsCfg), cfg, log), nil
}

func newS3Archiver(client putObjectAPI, cfg S3Config, log *logger.Logger) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		log:    log,
	}
}

func (a *S3Archiver) Bucket() string {
	return a.bucket
}

// Put uploads body under <prefix>/<name> and returns the object key.
func (a *S3Archiver) Put(ctx context.Context, name, contentType string, body []byte) (string, error) {
	key := name
	if a.prefix != "" {
		key = path.Join(a.prefix, name)
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to s3://%s: %w", key, a.bucket, err)
	}

	a.log.Info("Archived object", "bucket", a.bucket, "key", key, "bytes", len(body))
	return key, nil
}
