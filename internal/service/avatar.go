package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/hearthplan/backend/config"
)

// AvatarService stores user avatar images in S3.
type AvatarService struct {
	s3Config *config.S3Config
}

func NewAvatarService(s3Config *config.S3Config) *AvatarService {
	return &AvatarService{s3Config: s3Config}
}

// Upload stores the image under a fresh key and returns its public URL.
func (s *AvatarService) Upload(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty avatar image", ErrInvalidInput)
	}

	ext := "png"
	switch contentType {
	case "image/jpeg":
		ext = "jpg"
	case "image/gif":
		ext = "gif"
	}

	key := fmt.Sprintf("avatars/%s-%s.%s", userID, uuid.NewString()[:8], ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar to S3: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[AvatarService] uploaded avatar for user %s: %s", userID, url)
	return url, nil
}
