// Package cloudinary wraps image upload for deposit proof screenshots.
package cloudinary

import (
	"bytes"
	"context"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/pkg/errors"
)

type Client struct {
	uploader *uploader.API
}

func NewClientFromParams(cloudName, apiKey, apiSecret string) (*Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, errors.Wrap(err, "cloudinary config")
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "cloudinary uploader")
	}
	return &Client{uploader: up}, nil
}

// UploadImage stores the image and returns its secure URL.
func (c *Client) UploadImage(ctx context.Context, file []byte, folder, publicID string) (string, error) {
	result, err := c.uploader.Upload(ctx, bytes.NewReader(file), uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", errors.Wrap(err, "cloudinary upload")
	}
	return result.SecureURL, nil
}
