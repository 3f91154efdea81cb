package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// AllowedImageTypes defines the allowed image file extensions
var AllowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var s3Client *s3.Client

// InitStorage prepares the S3 client when S3_BUCKET is configured.
// Without a bucket, uploads fall back to the local uploads directory.
func InitStorage() error {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		LogInfo("S3_BUCKET not set, storing uploads locally")
		return nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(os.Getenv("S3_REGION")))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %v", err)
	}
	s3Client = s3.NewFromConfig(cfg)
	LogInfo("S3 storage initialized for bucket %s", bucket)
	return nil
}

// ValidateImageFile checks if the uploaded file is a valid image
func ValidateImageFile(file *multipart.FileHeader) error {
	if file.Size > MaxFileSize {
		return fmt.Errorf("file size exceeds 5MB limit")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !AllowedImageTypes[ext] {
		return fmt.Errorf("invalid file type. Allowed types: jpg, jpeg, png, gif, webp")
	}

	return nil
}

// SaveUploadedFile validates and stores an uploaded image, returning its
// public URL or relative path.
func SaveUploadedFile(file *multipart.FileHeader) (string, error) {
	if err := ValidateImageFile(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %v", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	filename := uuid.New().String() + ext

	return StoreImage(filename, data, contentTypeForExt(ext))
}

// StoreImage stores raw image bytes under the given filename, to S3 when
// configured and to the local uploads directory otherwise.
func StoreImage(filename string, data []byte, contentType string) (string, error) {
	if s3Client != nil {
		bucket := os.Getenv("S3_BUCKET")
		_, err := s3Client.PutObject(context.Background(), &s3.PutObjectInput{
			Bucket:      &bucket,
			Key:         &filename,
			Body:        bytes.NewReader(data),
			ContentType: &contentType,
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload to S3: %v", err)
		}
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, os.Getenv("S3_REGION"), filename), nil
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %v", err)
	}

	path := filepath.Join(uploadDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	return uploadDir + "/" + filename, nil
}

// DeleteLocalFile deletes a locally stored upload
func DeleteLocalFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

func contentTypeForExt(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
