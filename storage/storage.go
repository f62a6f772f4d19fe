package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	Bucket    string
}

// Bridge uploads local artifacts to one fixed S3-compatible bucket and
// derives their public addresses. Uploads are single-attempt and
// idempotent: the same key overwrites.
type Bridge struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

func NewBridge(cfg Config) (*Bridge, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: cfg.Endpoint,
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	return &Bridge{
		client:   s3.NewFromConfig(awsCfg),
		bucket:   cfg.Bucket,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
	}, nil
}

// Upload stores the local file under key and returns its public URL.
func (b *Bridge) Upload(ctx context.Context, localPath, key string) (string, error) {
	const op = "Bridge.Upload"

	file, err := os.Open(localPath)
	if err != nil {
		return "", newUploadError(op, err, "failed to open artifact")
	}
	defer file.Close()

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return "", newUploadError(op, err, "failed to upload artifact")
	}

	return b.PublicURL(key), nil
}

// PublicURL derives the deterministic public address for a key. Re-deriving
// from the same key always yields the identical URL.
func (b *Bridge) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", b.endpoint, b.bucket, key)
}

// Bucket exposes the fixed bucket name.
func (b *Bridge) Bucket() string {
	return b.bucket
}
