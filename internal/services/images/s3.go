package images

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fridgechef/marcel/internal/metrics"
)

const (
	s3KeyPrefix     = "recipe-images/"
	presignedURLTTL = 15 * time.Minute
)

// S3API is the subset of the S3 client used by the store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Presigner generates presigned GET URLs.
type S3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store persists images to an S3 bucket and hands out time-limited
// presigned URLs instead of serving bytes itself.
type S3Store struct {
	client     S3API
	presigner  S3Presigner
	bucket     string
	httpClient *http.Client
}

// NewS3Store builds an S3Store from the ambient AWS configuration.
func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}, nil
}

func (s *S3Store) Persist(ctx context.Context, sourceURL, recipeName string) (string, error) {
	filename := SanitizeName(recipeName)
	key := s3KeyPrefix + filename

	data, err := download(ctx, s.httpClient, sourceURL)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	metrics.AddCounter(ctx, metrics.ImagesStoredTotal, 1)

	return s.SignedURL(ctx, filename)
}

// SignedURL returns a time-limited GET URL for a stored image. The object
// must exist; a missing key surfaces as an error so the handler can 404.
func (s *S3Store) SignedURL(ctx context.Context, filename string) (string, error) {
	key := s3KeyPrefix + filename

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignedURLTTL
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign image URL: %w", err)
	}

	return req.URL, nil
}

// Exists checks whether an image has been stored under the given filename.
func (s *S3Store) Exists(ctx context.Context, filename string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3KeyPrefix + filename),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Ping verifies the bucket is reachable, used by the health endpoint.
func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	return err
}
