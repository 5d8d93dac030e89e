package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/brianmacetas/admin-api/config"
)

// S3 stores catalog images in an S3 bucket. It is the alternative media
// driver for deployments that host their own assets instead of Cloudinary.
type S3 struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3 builds the driver from the application config. The base URL is the
// public prefix assets are served from (S3_URL), falling back to the
// virtual-hosted bucket URL.
func NewS3(ctx context.Context) (*S3, error) {
	region := config.MediaS3Region()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if key := config.MediaS3Key(); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, config.MediaS3Secret(), ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if ep := config.MediaS3Endpoint(); ep != "" {
			o.BaseEndpoint = aws.String(ep)
			o.UsePathStyle = true
		}
	})

	bucket := config.MediaS3Bucket()
	baseURL := config.MediaS3URL()
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload writes the file under a fresh uuid key, keeping the original
// extension, and returns the public URL.
func (s *S3) Upload(ctx context.Context, f File) (string, error) {
	key := uuid.NewString() + path.Ext(f.Name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(f.Content),
	})
	if err != nil {
		return "", fmt.Errorf("media: s3 put %s: %w", f.Name, err)
	}

	return s.baseURL + "/" + key, nil
}

// Delete removes the object whose key is derived from the asset URL.
func (s *S3) Delete(ctx context.Context, assetURL string) error {
	key := strings.TrimPrefix(assetURL, s.baseURL+"/")
	if key == "" || key == assetURL {
		return fmt.Errorf("media: cannot derive s3 key from %q: %w", assetURL, ErrDeleteRejected)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("media: s3 delete %s: %w", key, err)
	}

	return nil
}
