package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryUploader uploads images through the Cloudinary SDK and
// returns the hosted secure URL.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryUploader creates a new CloudinaryUploader. All three
// credentials are required by the underlying client.
func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure image host client: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// Upload sends the file to Cloudinary and returns the secure URL. A
// response without a secure_url counts as a failure even when the HTTP
// call itself succeeded.
func (u *CloudinaryUploader) Upload(file io.Reader, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID: uuid.New().String(),
	})
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("image host rejected upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("image host response did not contain a URL")
	}
	return resp.SecureURL, nil
}
