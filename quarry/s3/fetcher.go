// Package s3 provides an S3-compatible object source for quarry.
//
// The fetcher supports AWS S3, MinIO, LocalStack, Cloudflare R2, and other
// S3-compatible object stores. The client must be pre-configured with
// credentials, region, and endpoint; see NewClient.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/quarryhq/quarry/quarry"
)

// API defines the subset of the S3 client interface used by the fetcher.
// This enables testing with mock implementations.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Fetcher implements quarry.ObjectFetcher over an S3-compatible backend.
type Fetcher struct {
	client API
}

// NewFetcher creates a fetcher with the given client.
//
// Example:
//
//	client, err := s3src.NewClient(ctx, s3src.ClientConfig{Region: "us-east-1"})
//	fetcher, err := s3src.NewFetcher(client)
func NewFetcher(client API) (*Fetcher, error) {
	if client == nil {
		return nil, errors.New("s3: client is required")
	}
	return &Fetcher{client: client}, nil
}

// Fetch streams the object bucket/key to the local file dest, overwriting an
// existing file. Returns an error wrapping quarry.ErrPathNotFound when the
// object does not exist.
func (f *Fetcher) Fetch(ctx context.Context, bucket, key, dest string) error {
	if bucket == "" || key == "" {
		return errors.New("s3: bucket and key are required")
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: s3://%s/%s", quarry.ErrPathNotFound, bucket, key)
		}
		return fmt.Errorf("s3: get object: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	file, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("s3: creating %s: %w", dest, err)
	}
	if _, err := io.Copy(file, out.Body); err != nil {
		_ = file.Close()
		return fmt.Errorf("s3: writing %s: %w", dest, err)
	}
	return file.Close()
}

// Ensure Fetcher implements quarry.ObjectFetcher
var _ quarry.ObjectFetcher = (*Fetcher)(nil)

// isNotFound checks if an error indicates the object was not found.
func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey" || code == "404"
	}
	return false
}

// -----------------------------------------------------------------------------
// Mock S3 Client for Testing
// -----------------------------------------------------------------------------

// MockS3Client is a test double for API.
type MockS3Client struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMockS3Client creates a new mock S3 client for testing.
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		objects: make(map[string][]byte),
	}
}

// PutObject seeds the mock with an object.
func (m *MockS3Client) PutObject(bucket, key string, data []byte) {
	m.mu.Lock()
	m.objects[bucket+"/"+key] = data
	m.mu.Unlock()
}

// GetObject implements API.GetObject for testing.
func (m *MockS3Client) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	id := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)

	m.mu.RLock()
	data, exists := m.objects[id]
	m.mu.RUnlock()

	if !exists {
		return nil, &types.NoSuchKey{}
	}

	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil
}

// HeadObject implements API.HeadObject for testing.
func (m *MockS3Client) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	id := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)

	m.mu.RLock()
	_, exists := m.objects[id]
	m.mu.RUnlock()

	if !exists {
		return nil, &types.NoSuchKey{}
	}
	return &s3.HeadObjectOutput{}, nil
}

// Ensure MockS3Client implements API
var _ API = (*MockS3Client)(nil)
