package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pav-beep/calorie.app/config"
)

// PhotoService keeps a copy of each analyzed meal photo in S3. It is
// best-effort: an upload failure never blocks the analysis flow.
type PhotoService struct {
	s3Config *config.S3Config
}

func NewPhotoService(s3Config *config.S3Config) *PhotoService {
	return &PhotoService{s3Config: s3Config}
}

// Enabled reports whether photo retention is configured.
func (s *PhotoService) Enabled() bool {
	return s != nil && s.s3Config != nil
}

// UploadMealPhoto uploads image data to S3 and returns the public URL.
func (s *PhotoService) UploadMealPhoto(ctx context.Context, imageData []byte, contentType string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("photo retention is not configured")
	}

	fileName := fmt.Sprintf("meal-photos/%s.%s", uuid.New().String(), extensionFor(contentType))

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[PhotoService] Uploaded meal photo to %s", publicURL)
	return publicURL, nil
}

func extensionFor(contentType string) string {
	if ext, ok := strings.CutPrefix(contentType, "image/"); ok && ext != "" {
		return ext
	}
	return "jpg"
}
