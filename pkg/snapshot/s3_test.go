package snapshot

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/vango-dev/reflex/internal/errors"
)

type fakeS3 struct {
	objects     map[string][]byte
	contentType map[string]string
	getErr      error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentType: map[string]string{}}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := *in.Bucket + "/" + *in.Key
	f.objects[key] = data
	f.contentType[key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func TestS3SourceRoundTrip(t *testing.T) {
	client := newFakeS3()
	src := NewS3Source(client, "bucket", "snapshots/counter.yaml")
	ctx := context.Background()

	if err := src.Save(ctx, Snapshot{"count": 4}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := client.contentType["bucket/snapshots/counter.yaml"]; got != "application/yaml" {
		t.Errorf("content type = %q", got)
	}

	snap, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap["count"] != 4 {
		t.Errorf("count = %#v, want 4", snap["count"])
	}
}

func TestS3SourceMissingObject(t *testing.T) {
	src := NewS3Source(newFakeS3(), "bucket", "missing.json")
	_, err := src.Load(context.Background())
	if !errors.HasCode(err, "E302") {
		t.Errorf("Load() error = %v, want E302", err)
	}
}

func TestS3SourceClientError(t *testing.T) {
	client := newFakeS3()
	client.getErr = stderrors.New("access denied")
	src := NewS3Source(client, "bucket", "state.json")

	_, err := src.Load(context.Background())
	if err == nil || errors.HasCode(err, "E302") {
		t.Errorf("Load() error = %v, want a plain client error", err)
	}
	if !stderrors.Is(err, client.getErr) {
		t.Errorf("Load() error does not wrap the client error")
	}
}

func TestS3SourceUnsupportedKey(t *testing.T) {
	src := NewS3Source(newFakeS3(), "bucket", "state")
	if _, err := src.Load(context.Background()); !errors.HasCode(err, "E301") {
		t.Errorf("Load() error = %v, want E301", err)
	}
}

func TestNewS3Client(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))

	client, err := NewS3Client(context.Background(), S3Config{Region: "us-east-1", Endpoint: "http://localhost:9000"})
	if err != nil {
		t.Fatalf("NewS3Client() error = %v", err)
	}
	opts := client.Options()
	if opts.Region != "us-east-1" {
		t.Errorf("Region = %q", opts.Region)
	}
	if !opts.UsePathStyle || opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://localhost:9000" {
		t.Errorf("endpoint options not applied: %+v", opts)
	}

	creds, err := opts.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if creds.AccessKeyID != "AKIDEXAMPLE" {
		t.Errorf("AccessKeyID = %q, want the environment key", creds.AccessKeyID)
	}
}

func TestNewS3ClientRegionFromEnvironment(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))

	client, err := NewS3Client(context.Background(), S3Config{})
	if err != nil {
		t.Fatalf("NewS3Client() error = %v", err)
	}
	opts := client.Options()
	if opts.Region != "eu-west-1" {
		t.Errorf("Region = %q, want eu-west-1", opts.Region)
	}
	if opts.UsePathStyle || opts.BaseEndpoint != nil {
		t.Errorf("endpoint options set without an endpoint: %+v", opts)
	}
}
