package upload

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pthm/formbuilder"
)

// S3API is the subset of *s3.Client used by S3Mover.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Mover stores uploads in an S3 bucket. Destinations are object keys
// relative to Prefix; a key ending in "/" is a directory.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	mover := upload.NewS3(s3.NewFromConfig(cfg), "my-bucket", "uploads/", logger)
//	formCfg := formbuilder.DefaultConfig().WithUploadMover(mover)
type S3Mover struct {
	client S3API
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3 creates an S3 mover. A nil logger uses slog.Default.
func NewS3(client S3API, bucket, prefix string, logger *slog.Logger) *S3Mover {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Mover{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Move deletes the objects matching dest, uploads u and returns its key.
func (m *S3Mover) Move(ctx context.Context, u *formbuilder.Upload, dest string) (string, error) {
	if u == nil || u.Error != formbuilder.UploadOK {
		return "", fmt.Errorf("s3: %w", formbuilder.ErrNotFound)
	}
	dest = m.prefix + strings.TrimPrefix(dest, "/")

	if err := m.removeConflicts(ctx, dest); err != nil {
		return "", err
	}

	key := destination(dest, u.Filename, strings.HasSuffix(dest, "/"))
	body, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("s3: %w", err)
	}
	defer body.Close()

	contentType := u.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(u.Size),
		ContentType:   aws.String(contentType),
		Metadata: map[string]string{
			"original-filename": u.Filename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3: upload %s: %w", key, err)
	}
	m.logger.Info("upload stored", "file", u.Filename, "bucket", m.bucket, "key", key, "size", u.Size)
	return key, nil
}

// removeConflicts lists the keys sharing the literal prefix of pattern and
// deletes those matching it.
func (m *S3Mover) removeConflicts(ctx context.Context, pattern string) error {
	if strings.HasSuffix(pattern, "/") {
		return nil
	}
	listPrefix := pattern
	if i := strings.IndexAny(pattern, "*?["); i >= 0 {
		listPrefix = pattern[:i]
	}

	paginator := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(listPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("s3: list %s: %w", listPrefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !conflicts(pattern, key) {
				continue
			}
			if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(m.bucket),
				Key:    aws.String(key),
			}); err != nil {
				return fmt.Errorf("s3: delete %s: %w", key, err)
			}
			m.logger.Debug("upload conflict removed", "bucket", m.bucket, "key", key)
		}
	}
	return nil
}

func conflicts(pattern, key string) bool {
	if !hasMeta(pattern) {
		return key == pattern
	}
	ok, err := path.Match(pattern, key)
	return err == nil && ok
}
