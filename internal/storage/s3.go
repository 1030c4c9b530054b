// Package storage provides the S3-compatible content storage backing the
// attachment pipeline. Locally this points at MinIO; in production at any
// S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"inkwell/internal/config"
)

// Client wraps an S3 bucket as the editor's BlobStorage.
type Client struct {
	s3        *s3.Client
	bucket    string
	publicURL string
	logger    *slog.Logger
}

// NewClient builds the storage client from configuration.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		// MinIO and most self-hosted gateways require path-style access.
		o.UsePathStyle = true
	})

	publicURL := cfg.S3PublicURL
	if publicURL == "" {
		publicURL = strings.TrimSuffix(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}

	return &Client{
		s3:        client,
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logger,
	}, nil
}

// Upload stores an object at the given path. Paths are derived to be
// unique per upload, so objects are never overwritten.
func (c *Client) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(path),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", path, err)
	}

	c.logger.Debug("object uploaded", "path", path, "content_type", contentType)
	return path, nil
}

// PublicURL returns the public access URL for a stored object.
func (c *Client) PublicURL(path string) string {
	return c.publicURL + "/" + path
}

// Remove deletes an object.
func (c *Client) Remove(ctx context.Context, path string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", path, err)
	}
	return nil
}
