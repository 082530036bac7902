package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadURLTTL = 5 * time.Minute

// UploadService hands out pre-signed URLs for evidence-photo uploads. The
// resulting public URL goes into the recycling request at creation time.
type UploadService struct {
	s3Client *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewUploadService creates a new upload service. A non-empty endpoint
// switches to an S3-compatible store with path-style addressing.
func NewUploadService(region, bucket, accessKey, secretKey, endpoint string) (*UploadService, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &UploadService{
		s3Client: s3Client,
		bucket:   bucket,
		region:   region,
		endpoint: endpoint,
	}, nil
}

// EvidenceUpload is a pre-signed upload slot for one evidence photo
type EvidenceUpload struct {
	UploadURL string `json:"upload_url"`
	PhotoURL  string `json:"photo_url"`
	ExpiresIn int    `json:"expires_in"`
}

// CreateEvidenceUpload generates a pre-signed PUT URL for one evidence
// image, keyed under the uploading user
func (s *UploadService) CreateEvidenceUpload(ctx context.Context, userID, contentType string) (*EvidenceUpload, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := fmt.Sprintf("evidence/%s/%s.jpg", userID, uuid.New().String())

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLTTL
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &EvidenceUpload{
		UploadURL: request.URL,
		PhotoURL:  s.publicURL(key),
		ExpiresIn: int(uploadURLTTL.Seconds()),
	}, nil
}

func (s *UploadService) publicURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
