package aws

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Uploader stores product assets in a bucket and hands back their public
// URL.
type S3Uploader struct {
	uploader      *manager.Uploader
	bucket        string
	publicBaseURL string
}

// NewS3Uploader builds an uploader for bucket. publicBaseURL is the prefix
// prepended to object keys (a CDN or LocalStack URL); when empty the
// virtual-hosted S3 URL for the config's region is used.
func NewS3Uploader(cfg sdkaws.Config, bucket, publicBaseURL string) *S3Uploader {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// LocalStack only resolves path-style addressing.
		o.UsePathStyle = cfg.BaseEndpoint != nil
	})

	base := strings.TrimSuffix(publicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, cfg.Region)
	}

	return &S3Uploader{
		uploader:      manager.NewUploader(client),
		bucket:        bucket,
		publicBaseURL: base,
	}
}

// Upload writes body under folder/<uuid><ext> and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	key := ObjectKey(folder, filename)

	input := &s3.PutObjectInput{
		Bucket: sdkaws.String(u.bucket),
		Key:    sdkaws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = sdkaws.String(contentType)
	}

	if _, err := u.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("s3 upload failed for %s: %w", key, err)
	}
	return u.publicBaseURL + "/" + key, nil
}

// ObjectKey returns a collision-free key that keeps the file extension.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}
