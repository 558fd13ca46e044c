// Package publish uploads artifacts to S3 compatible object storage.
package publish

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// EnvAccessKey and EnvSecretKey, when both set, replace the default AWS credential chain.
	EnvAccessKey = "FFBUILD_S3_ACCESS_KEY_ID"
	EnvSecretKey = "FFBUILD_S3_SECRET_ACCESS_KEY"
)

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ClientFactory builds a client for the given destination.
type ClientFactory func(ctx context.Context, cfg domain.PublishConfig) (ObjectPutter, error)

var _ ports.Publisher = (*Publisher)(nil)

// Publisher implements ports.Publisher.
type Publisher struct {
	logger    ports.Logger
	newClient ClientFactory
}

// NewPublisher creates a Publisher backed by the AWS SDK.
func NewPublisher(logger ports.Logger) *Publisher {
	return NewPublisherWithFactory(logger, NewS3Client)
}

// NewPublisherWithFactory creates a Publisher using a custom client factory.
func NewPublisherWithFactory(logger ports.Logger, factory ClientFactory) *Publisher {
	return &Publisher{logger: logger, newClient: factory}
}

// NewS3Client configures an S3 client. A custom endpoint switches to path style
// addressing, which R2 and MinIO expect.
func NewS3Client(ctx context.Context, cfg domain.PublishConfig) (ObjectPutter, error) {
	region := cfg.Region
	if region == "" && cfg.Endpoint != "" {
		region = "auto"
	}

	var options []func(*config.LoadOptions) error
	if region != "" {
		options = append(options, config.WithRegion(region))
	}
	ak, sk := os.Getenv(EnvAccessKey), os.Getenv(EnvSecretKey)
	if ak != "" && sk != "" {
		options = append(options, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(ak, sk, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load AWS config")
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Publish uploads every file and returns the keys written, in order.
func (p *Publisher) Publish(
	ctx context.Context,
	cfg domain.PublishConfig,
	root string,
	files []string,
) ([]string, error) {
	if cfg.Bucket == "" {
		return nil, zerr.Wrap(domain.ErrConfigInvalid, "publish.bucket is not set")
	}
	if len(files) == 0 {
		return nil, zerr.Wrap(domain.ErrNothingToPublish, "nothing to upload")
	}

	client, err := p.newClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(files))
	for _, file := range files {
		key, err := objectKey(cfg.Prefix, root, file)
		if err != nil {
			return keys, err
		}
		if err := upload(ctx, client, cfg.Bucket, key, file); err != nil {
			return keys, err
		}
		p.logger.Info("uploaded s3://" + cfg.Bucket + "/" + key)
		keys = append(keys, key)
	}
	return keys, nil
}

func upload(ctx context.Context, client ObjectPutter, bucket, key, file string) error {
	f, err := os.Open(file) //nolint:gosec // artifact paths come from the artifacts directory
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open artifact"), "path", file)
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", file)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType(key)),
	})
	if err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, "upload failed"), "bucket", bucket), "key", key)
	}
	return nil
}

func objectKey(prefix, root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "artifact outside artifacts directory"), "path", file)
	}
	return path.Join(strings.Trim(prefix, "/"), filepath.ToSlash(rel)), nil
}

func contentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".b3"):
		return "text/plain; charset=utf-8"
	case strings.HasSuffix(key, ".tar.gz"):
		return "application/gzip"
	case strings.HasSuffix(key, ".tar.xz"):
		return "application/x-xz"
	case strings.HasSuffix(key, ".tar.zst"):
		return "application/zstd"
	default:
		return "application/octet-stream"
	}
}
