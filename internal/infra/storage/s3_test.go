package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	fake := &fakePutter{}
	u := NewS3UploaderWithClient(fake, S3Config{Bucket: "logos", Region: "sa-east-1"})

	url, err := u.Upload(context.Background(), "salons/1/logo.webp", "image/webp", []byte("data"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if url != "https://logos.s3.sa-east-1.amazonaws.com/salons/1/logo.webp" {
		t.Errorf("unexpected url %s", url)
	}
	if *fake.in.Bucket != "logos" || *fake.in.Key != "salons/1/logo.webp" || *fake.in.ContentType != "image/webp" {
		t.Errorf("unexpected put input: %+v", fake.in)
	}
	if string(fake.body) != "data" {
		t.Errorf("unexpected body %q", fake.body)
	}
}

func TestS3Uploader_PublicURL(t *testing.T) {
	u := NewS3UploaderWithClient(&fakePutter{}, S3Config{Bucket: "b", Endpoint: "http://minio:9000/"})
	url, _ := u.Upload(context.Background(), "k.webp", "image/webp", nil)
	if url != "http://minio:9000/b/k.webp" {
		t.Errorf("unexpected url %s", url)
	}

	u = NewS3UploaderWithClient(&fakePutter{}, S3Config{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"})
	url, _ = u.Upload(context.Background(), "k.webp", "image/webp", nil)
	if url != "https://cdn.example.com/k.webp" {
		t.Errorf("unexpected url %s", url)
	}
}

func TestS3Uploader_Error(t *testing.T) {
	u := NewS3UploaderWithClient(&fakePutter{err: errors.New("denied")}, S3Config{Bucket: "b", Region: "r"})
	if _, err := u.Upload(context.Background(), "k", "image/webp", nil); err == nil {
		t.Fatal("expected error")
	}
}
