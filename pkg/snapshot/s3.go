package snapshot

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/vango-dev/reflex/internal/errors"
)

// S3API is the subset of *s3.Client used by S3Source.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Source reads and writes a snapshot object.
//
// Example usage:
//
//	client, err := snapshot.NewS3Client(ctx, snapshot.S3Config{Region: "us-east-1"})
//	src := snapshot.NewS3Source(client, "my-bucket", "snapshots/counter.json")
//	snap, err := src.Load(ctx)
type S3Source struct {
	client S3API
	bucket string
	key    string
}

// NewS3Source creates a source for the object at bucket/key. The key's
// extension selects the format.
func NewS3Source(client S3API, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// Load fetches and decodes the object. A missing object fails with E302.
func (s *S3Source) Load(ctx context.Context) (Snapshot, error) {
	format, err := FormatFromPath(s.key)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if stderrors.As(err, &noSuchKey) {
			return nil, errors.New("E302").WithDetail(fmt.Sprintf("s3://%s/%s", s.bucket, s.key)).Wrap(err)
		}
		return nil, fmt.Errorf("snapshot: get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return Decode(format, data)
}

// Save encodes snap and uploads it, replacing the object.
func (s *S3Source) Save(ctx context.Context, snap Snapshot) error {
	format, err := FormatFromPath(s.key)
	if err != nil {
		return err
	}
	data, err := Encode(format, snap)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(format)),
	})
	if err != nil {
		return fmt.Errorf("snapshot: put s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func contentType(format Format) string {
	switch format {
	case FormatYAML:
		return "application/yaml"
	case FormatTOML:
		return "application/toml"
	default:
		return "application/json"
	}
}

// S3Config configures NewS3Client.
type S3Config struct {
	// Region is the bucket region.
	Region string

	// Endpoint overrides the service endpoint (MinIO, LocalStack).
	// Setting it also enables path-style addressing.
	Endpoint string
}

// NewS3Client builds an S3 client from the SDK's default configuration:
// credentials come from the environment, shared config and credentials
// files, SSO or the instance role, in that order. cfg.Region overrides the
// configured region when set.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("snapshot: load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = endpoint(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func endpoint(e string) *string {
	if e == "" {
		return nil
	}
	return aws.String(e)
}
