package storage

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rahasiadapur/backend/internal/config"
)

var allowedExtensions = map[string]string{
	".jpg":  "image",
	".jpeg": "image",
	".png":  "image",
	".webp": "image",
	".gif":  "image",
	".mp4":  "video",
	".webm": "video",
	".mov":  "video",
}

// UploadResult describes a stored object. PublicID is the object key, needed
// later to delete the object.
type UploadResult struct {
	URL       string
	PublicID  string
	MediaType string // image, video
}

// MediaStore uploads recipe and tip media to an S3-compatible bucket
// (S3, R2, MinIO).
type MediaStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewMediaStore builds the store from config, or (nil, nil) when storage is
// disabled. Callers must treat a nil store as "uploads unavailable".
func NewMediaStore(cfg *config.StorageConfig) (*MediaStore, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage enabled but endpoint, bucket or credentials missing")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // required for R2 and MinIO
	})

	return &MediaStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores a multipart file under a fresh uuid key and returns its
// public URL and object key. The extension decides whether it counts as an
// image or a video.
func (m *MediaStore) Upload(ctx context.Context, prefix string, fh *multipart.FileHeader) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mediaType, ok := allowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("file type %q not allowed", ext)
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(ext)
	}
	if ct == "" {
		ct = "application/octet-stream"
	}

	key := fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), ext)

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ct),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", fh.Filename, err)
	}

	return &UploadResult{
		URL:       m.publicURL(key),
		PublicID:  key,
		MediaType: mediaType,
	}, nil
}

// Delete removes an object by its key. Deleting a missing object is not an
// error on S3-compatible stores.
func (m *MediaStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	return nil
}

func (m *MediaStore) publicURL(key string) string {
	if m.publicBaseURL != "" {
		return m.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("%s/%s", m.bucket, key)
}
