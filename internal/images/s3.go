package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Options configures an S3-backed image provider. AccessKeyID and
// SecretAccessKey are optional; when empty the default credential chain
// applies.
type S3Options struct {
	Bucket          string
	Region          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

// s3Client is the slice of the S3 API the provider uses.
type s3Client interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Provider serves images from an S3 bucket. It has no local paths, so
// every read goes through Fetch.
type S3Provider struct {
	client s3Client
	bucket string
	prefix string
	log    *slog.Logger
}

// NewS3Provider builds an S3-backed provider.
func NewS3Provider(ctx context.Context, opts S3Options, logger *slog.Logger) (*S3Provider, error) {
	if opts.Bucket == "" {
		return nil, errors.New("images: s3 bucket is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	p := &S3Provider{
		client: s3.NewFromConfig(cfg),
		bucket: opts.Bucket,
		prefix: strings.Trim(opts.Prefix, "/"),
		log:    logger,
	}
	logger.Info("s3 image provider configured",
		"bucket", p.bucket, "prefix", p.prefix, "region", region)
	return p, nil
}

func (p *S3Provider) key(filename string) string {
	if p.prefix == "" {
		return filename
	}
	return p.prefix + "/" + filename
}

// LocalPath always returns ErrNoLocalPath; S3 objects have no local path.
func (p *S3Provider) LocalPath(context.Context, string) (string, error) {
	return "", ErrNoLocalPath
}

// Fetch downloads the object and returns its bytes.
func (p *S3Provider) Fetch(ctx context.Context, filename string) ([]byte, error) {
	key := p.key(filename)
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrNotFound
		}
		p.log.Error("s3 fetch failed", "op", "fetch", "bucket", p.bucket, "key", key, "error", err)
		return nil, fmt.Errorf("fetching s3://%s/%s: %w", p.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", p.bucket, key, err)
	}
	return data, nil
}

func isS3NotFound(err error) bool {
	var noKey *s3types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) &&
		(apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound")
}
