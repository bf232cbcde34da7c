package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageStorage abstracts image hosting for offer images and profile pictures.
type ImageStorage interface {
	UploadImage(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
	DeleteImage(ctx context.Context, imageURL string) error
}

type cloudinaryStorage struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryStorage builds an ImageStorage backed by Cloudinary using the
// CLOUDINARY_URL environment variable.
func NewCloudinaryStorage() (ImageStorage, error) {
	cloudinaryURL := os.Getenv("CLOUDINARY_URL")
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL is not set")
	}

	client, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &cloudinaryStorage{client: client}, nil
}

func (s *cloudinaryStorage) UploadImage(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	result, err := s.client.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return result.SecureURL, nil
}

func (s *cloudinaryStorage) DeleteImage(ctx context.Context, imageURL string) error {
	publicID := extractPublicID(imageURL)
	if publicID == "" {
		return fmt.Errorf("could not extract public id from url: %s", imageURL)
	}

	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

// extractPublicID parses the public ID out of a Cloudinary delivery URL.
// Example: https://res.cloudinary.com/demo/image/upload/v12345/offers/abc.jpg
// yields "offers/abc".
func extractPublicID(imageURL string) string {
	parts := strings.Split(imageURL, "/upload/")
	if len(parts) != 2 {
		return ""
	}

	path := parts[1]
	if idx := strings.Index(path, "/"); idx != -1 && strings.HasPrefix(path, "v") {
		version := path[:idx]
		if len(version) > 1 && isDigits(version[1:]) {
			path = path[idx+1:]
		}
	}

	if dot := strings.LastIndex(path, "."); dot != -1 {
		path = path[:dot]
	}

	return path
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
