// Package storage persists item photos in an S3-compatible object
// store (AWS S3 or MinIO) and hands back public URLs for the items API
// to embed in listings.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/xid"
)

// Config holds the connection settings for the object store. Endpoint
// is the base URL of an S3-compatible backend (for MinIO something
// like http://127.0.0.1:9000); leave it empty to use AWS proper.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicBaseURL is the prefix for URLs returned to clients. When
	// empty, URLs are built from Endpoint and Bucket.
	PublicBaseURL string
}

// S3Store uploads objects via the AWS SDK.
type S3Store struct {
	client *s3.Client
	cfg    Config
}

// NewS3Store builds the SDK client with static credentials and an
// optional custom endpoint, matching how MinIO deployments are
// addressed.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO serves buckets as path prefixes, not subdomains.
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, cfg: cfg}, nil
}

// Put uploads the data under a generated date-partitioned key and
// returns the object's public URL.
func (s *S3Store) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	key := storageKey()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading object %s: %w", key, err)
	}

	return s.publicURL(key), nil
}

// storageKey partitions objects by upload date so the bucket stays
// browsable, with an xid for uniqueness.
func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("items/%d/%d/%d/%s.jpg", d.Year(), d.Month(), d.Day(), xid.New())
}

func (s *S3Store) publicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	if s.cfg.Endpoint != "" {
		return strings.TrimSuffix(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
