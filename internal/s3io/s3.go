// Package s3io stores showcase documents and thumbnails in S3 and mints
// presigned read URLs for the private documents.
package s3io

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/tanya-writes/showcase-portal/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrStorageWrite is returned when an object could not be written.
	ErrStorageWrite = errors.New("storage write error")
	// ErrStorageRead is returned when an object could not be read or signed.
	ErrStorageRead = errors.New("storage read error")
	// ErrNotFound is returned, alongside ErrStorageRead, for missing objects.
	ErrNotFound = errors.New("object not found")
)

// API is the subset of the S3 client used by Store.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Presigner defines the interface for presigning S3 read requests.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Ref names a stored object.
type Ref struct {
	Bucket string
	Key    string
}

// ObjectInfo describes an object returned by Open.
type ObjectInfo struct {
	ContentType string
	Size        int64
	ETag        string
}

// Store wraps an S3 client with the private/public bucket policy of the site.
type Store struct {
	Client  API
	Presign Presigner

	PrivateBucket string
	PublicBucket  string
	Region        string
	// PublicBaseURL overrides the virtual-hosted bucket URL (CDN, LocalStack).
	PublicBaseURL string
}

// Upload writes body under key. Objects in the public bucket are written with
// the public-read ACL in the same request, so a failed write never leaves a
// private copy behind.
func (s *Store) Upload(ctx context.Context, bucket, key string, body []byte, contentType string) (Ref, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	}
	if bucket == s.PublicBucket {
		input.ACL = types.ObjectCannedACLPublicRead
	}
	if _, err := s.Client.PutObject(ctx, input); err != nil {
		return Ref{}, fmt.Errorf("%w: put %s/%s: %w", ErrStorageWrite, bucket, key, err)
	}
	return Ref{Bucket: bucket, Key: key}, nil
}

// SignedReadURL returns a presigned GET URL for exactly key, valid for ttl.
// The object must exist.
func (s *Store) SignedReadURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	_, err := s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("%w: %w: %s/%s", ErrStorageRead, ErrNotFound, bucket, key)
		}
		return "", fmt.Errorf("%w: head %s/%s: %w", ErrStorageRead, bucket, key, err)
	}

	req, err := s.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) { o.Expires = ttl })
	if err != nil {
		return "", fmt.Errorf("%w: presign %s/%s: %w", ErrStorageRead, bucket, key, err)
	}
	return req.URL, nil
}

// PublicURL returns the anonymous URL of an object in a public bucket.
func (s *Store) PublicURL(bucket, key string) string {
	segs := strings.Split(key, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	escaped := strings.Join(segs, "/")
	if s.PublicBaseURL != "" {
		return strings.TrimRight(s.PublicBaseURL, "/") + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.Region, escaped)
}

// Open streams an object. The caller closes the reader.
func (s *Store) Open(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ObjectInfo{}, fmt.Errorf("%w: %w: %s/%s", ErrStorageRead, ErrNotFound, bucket, key)
		}
		return nil, ObjectInfo{}, fmt.Errorf("%w: get %s/%s: %w", ErrStorageRead, bucket, key, err)
	}
	info := ObjectInfo{
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
		ETag:        strings.Trim(aws.ToString(out.ETag), "\""),
	}
	return out.Body, info, nil
}

// IsReady checks that both buckets are reachable.
func (s *Store) IsReady(ctx context.Context) error {
	for _, b := range []string{s.PrivateBucket, s.PublicBucket} {
		if b == "" {
			continue
		}
		if _, err := s.Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(b)}); err != nil {
			return fmt.Errorf("head bucket %s: %w", b, err)
		}
	}
	return nil
}

// Name identifies the store in health output.
func (s *Store) Name() string {
	return "ObjectStore[" + s.PrivateBucket + "," + s.PublicBucket + "]"
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

// NewStore builds a Store from the shared AWS configuration. With a custom
// endpoint (LocalStack) requests use path-style addressing and public URLs
// point at the endpoint.
func NewStore(cfg aws.Config, endpoint string, env config.Env) *Store {
	c := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.UsePathStyle = true
		}
	})
	st := &Store{
		Client:        c,
		Presign:       s3.NewPresignClient(c),
		PrivateBucket: env.PDFBucket,
		PublicBucket:  env.ThumbnailBucket,
		Region:        env.Region,
	}
	if endpoint != "" {
		st.PublicBaseURL = strings.TrimRight(endpoint, "/") + "/" + env.ThumbnailBucket
	}
	return st
}
