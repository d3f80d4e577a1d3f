package pictures

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/mycv/cvgen/internal/types"
)

// S3Config configures an S3 or S3-compatible bucket.
type S3Config struct {
	Endpoint string
	Region   string
	Key      string
	Secret   string
	Bucket   string
	Prefix   string
}

// S3Store reads pictures from an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates the store. A custom endpoint switches to path-style addressing.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.Key == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("key and secret are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, ""),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Store{client: s3.New(opts), bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// FetchPicture downloads the picture referenced by the profile.
func (s *S3Store) FetchPicture(ctx context.Context, ownerID uuid.UUID, profile *types.ProfileSnapshot) ([]byte, error) {
	key, err := pictureKey(ownerID, profile)
	if err != nil {
		return nil, err
	}
	objectKey := path.Join(s.prefix, key)

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, types.ErrPictureNotFound
		}
		return nil, fmt.Errorf("failed to get picture %s: %w", objectKey, err)
	}
	defer result.Body.Close()

	if result.ContentLength != nil && *result.ContentLength > MaxPictureSize {
		return nil, ErrPictureTooLarge
	}
	data, err := readLimited(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read picture %s: %w", objectKey, err)
	}
	return data, nil
}

func isNotFound(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var statusErr interface{ HTTPStatusCode() int }
	return errors.As(err, &statusErr) && statusErr.HTTPStatusCode() == http.StatusNotFound
}
