package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type stubS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (s *stubS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.input = params
	s.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil
}

func TestS3UploaderUpload(t *testing.T) {
	stub := &stubS3{}
	u := &S3Uploader{cfg: S3Config{Bucket: "avatars", Region: "us-east-1", PublicDomain: "https://cdn.example.com/"}, client: stub}

	res, err := u.Upload(context.Background(), UploadInput{Key: "/avatars/1/a.png", Body: []byte("png"), ContentType: "image/png"})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.URL != "https://cdn.example.com/avatars/1/a.png" {
		t.Fatalf("unexpected url %s", res.URL)
	}
	if res.ETag != "abc123" {
		t.Fatalf("unexpected etag %s", res.ETag)
	}
	if aws.ToString(stub.input.Bucket) != "avatars" || aws.ToString(stub.input.Key) != "avatars/1/a.png" {
		t.Fatalf("unexpected input %+v", stub.input)
	}
	if string(stub.body) != "png" {
		t.Fatalf("unexpected body %q", stub.body)
	}
}

func TestS3UploaderErrors(t *testing.T) {
	u := &S3Uploader{cfg: S3Config{Bucket: "b", Region: "r"}, client: &stubS3{err: errors.New("denied")}}
	if _, err := u.Upload(context.Background(), UploadInput{Key: "k", Body: []byte("x")}); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := u.Upload(context.Background(), UploadInput{Key: "k"}); err == nil {
		t.Fatalf("expected empty body error")
	}
}

func TestS3ConfigValidate(t *testing.T) {
	if err := (S3Config{Bucket: "b"}).validate(); err == nil {
		t.Fatalf("expected region error")
	}
	if err := (S3Config{Region: "r", Bucket: "b", Endpoint: "minio:9000"}).validate(); err == nil {
		t.Fatalf("expected endpoint error")
	}
	if err := (S3Config{Region: "r", Bucket: "b"}).validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLocalUploader(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocalUploader(dir, "http://localhost:8080/uploads/")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	res, err := u.Upload(context.Background(), UploadInput{Key: ObjectKey(3, "abc", "Foto.JPG"), Body: []byte("jpg")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.URL != "http://localhost:8080/uploads/avatars/3/abc.jpg" {
		t.Fatalf("unexpected url %s", res.URL)
	}
	data, err := os.ReadFile(filepath.Join(dir, "avatars", "3", "abc.jpg"))
	if err != nil || string(data) != "jpg" {
		t.Fatalf("file not written: %v %q", err, data)
	}

	if _, err := u.Upload(context.Background(), UploadInput{Key: "../escape", Body: []byte("x")}); err == nil {
		t.Fatalf("expected traversal error")
	}
}

func TestNoopUploader(t *testing.T) {
	if _, err := (NoopUploader{}).Upload(context.Background(), UploadInput{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name string
		u    Uploader
		want bool
	}{
		{"nil", nil, false},
		{"noop", NoopUploader{}, false},
		{"noop pointer", &NoopUploader{}, false},
		{"s3", &S3Uploader{}, true},
	}
	for _, tt := range tests {
		if got := Enabled(tt.u); got != tt.want {
			t.Errorf("%s: Enabled = %v, want %v", tt.name, got, tt.want)
		}
	}

	_, err := NoopUploader{}.Upload(context.Background(), UploadInput{Key: "avatars/1/a.png"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
