package storage

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// s3API is the part of *s3.Client used here.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Options configures an S3 (or MinIO) photo bucket.
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS
	AccessKey string // empty to use the default credential chain
	SecretKey string
	// PublicURL is where clients load objects from, e.g. a CDN in front of
	// the bucket. Empty derives it from Endpoint or Region.
	PublicURL string
	MaxBytes  int64
}

// publicBase returns the URL objects of the bucket are readable under.
func (o S3Options) publicBase() string {
	switch {
	case o.PublicURL != "":
		return strings.TrimSuffix(o.PublicURL, "/")
	case o.Endpoint != "":
		return strings.TrimSuffix(o.Endpoint, "/") + "/" + o.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", o.Bucket, o.Region)
	}
}

// S3Store keeps photos in a bucket. References are "<public base>/<key>", so
// the bucket (or whatever serves PublicURL) must allow anonymous reads.
type S3Store struct {
	client   s3API
	bucket   string
	baseURL  string
	maxBytes int64
	now      func() time.Time
}

// NewS3Store builds an S3 client from opts.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, opts.Bucket, opts.publicBase(), opts.MaxBytes), nil
}

func newS3Store(client s3API, bucket, baseURL string, maxBytes int64) *S3Store {
	return &S3Store{client: client, bucket: bucket, baseURL: baseURL, maxBytes: maxBytes, now: time.Now}
}

func (s *S3Store) Save(ctx context.Context, prefix string, u Upload) (string, error) {
	ext, err := extension(u.Filename)
	if err != nil {
		return "", err
	}
	data, err := readLimited(u, s.maxBytes)
	if err != nil {
		return "", err
	}

	key := path.Join(prefix, s.now().UTC().Format("2006/01/02"), uuid.NewString()+ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mime.TypeByExtension(ext)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put photo object: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes the object behind ref. Refs outside the bucket are ignored.
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, s.baseURL+"/")
	if !ok || key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo object: %w", err)
	}
	return nil
}
