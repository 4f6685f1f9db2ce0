package reliability

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/praxos/vaults/internal/config"
	"github.com/rs/zerolog"
)

// Uploader stores an object under key
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64) error
}

// S3Uploader uploads objects to an S3-compatible bucket (AWS, R2, MinIO)
type S3Uploader struct {
	bucket   string
	uploader *manager.Uploader
	log      zerolog.Logger
}

// NewS3Uploader builds an uploader from static credentials. A non-empty
// endpoint switches to path-style addressing against that endpoint.
func NewS3Uploader(ctx context.Context, cfg *config.ExportConfig, log zerolog.Logger) (*S3Uploader, error) {
	if !cfg.Enabled() {
		return nil, errors.New("export storage is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		bucket:   cfg.Bucket,
		uploader: manager.NewUploader(client),
		log:      log.With().Str("component", "s3_uploader").Logger(),
	}, nil
}

// Upload implements Uploader. size is informational; the manager streams
// body in parts.
func (u *S3Uploader) Upload(ctx context.Context, key string, body io.Reader, size int64) error {
	out, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	u.log.Debug().
		Str("bucket", u.bucket).
		Str("key", key).
		Int64("size_bytes", size).
		Str("location", out.Location).
		Msg("Object uploaded")
	return nil
}
