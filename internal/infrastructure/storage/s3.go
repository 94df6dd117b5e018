package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/baechuer/task-manager/internal/application/auth"
	appconfig "github.com/baechuer/task-manager/internal/config"
)

// objectAPI is the subset of *s3.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutBucketPolicy(ctx context.Context, in *s3.PutBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error)
}

// S3Store keeps profile images in an S3-compatible bucket (AWS, MinIO, R2).
type S3Store struct {
	client  objectAPI
	bucket  string
	baseURL string
	log     zerolog.Logger
}

// NewS3Store builds the client from config. Static credentials are used when
// provided, otherwise the default AWS chain applies.
func NewS3Store(ctx context.Context, cfg *appconfig.Config, log zerolog.Logger) (*S3Store, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return newS3Store(client, cfg.S3Bucket, publicBaseURL(cfg), log), nil
}

func newS3Store(client objectAPI, bucket, baseURL string, log zerolog.Logger) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// publicBaseURL picks where uploaded objects are served from.
func publicBaseURL(cfg *appconfig.Config) string {
	switch {
	case cfg.S3PublicBaseURL != "":
		return cfg.S3PublicBaseURL
	case cfg.S3Endpoint != "":
		return strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}
}

// Upload stores the image under <folder>/<uuid>. The key carries no extension
// so that it can be derived back from the public URL; the type travels as
// Content-Type.
func (s *S3Store) Upload(ctx context.Context, folder string, img auth.ImageUpload) (string, error) {
	key := uuid.NewString()
	if f := strings.Trim(folder, "/"); f != "" {
		key = f + "/" + key
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   img.Body,
	}
	if img.ContentType != "" {
		in.ContentType = aws.String(img.ContentType)
	}
	if img.Size > 0 {
		in.ContentLength = aws.Int64(img.Size)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// Delete removes an object by key. S3 treats a missing key as success.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

// EnsureBucket creates the bucket if missing and grants anonymous read.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		s.log.Info().Str("bucket", s.bucket).Msg("creating bucket")
		if _, createErr := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
			Bucket: aws.String(s.bucket),
		}); createErr != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, createErr)
		}
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, s.bucket)

	if _, err := s.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(s.bucket),
		Policy: aws.String(policy),
	}); err != nil {
		// bucket may already carry a policy we are not allowed to replace
		s.log.Warn().Err(err).Str("bucket", s.bucket).Msg("failed to set public bucket policy")
	}
	return nil
}
