package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Options struct {
	Bucket          string
	Region          string
	Prefix          string // optional key prefix inside the bucket
	Endpoint        string // S3 compatible endpoint; empty for AWS
	PublicBaseURL   string // delivery base URL; defaults to the virtual-hosted bucket URL
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store keeps images in an S3 bucket. Object keys are the public IDs, so a
// repeated upload under the same ID replaces the object.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
	baseURL  string
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := strings.TrimSuffix(opts.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, cfg.Region)
	}

	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		prefix:   strings.Trim(opts.Prefix, "/"),
		baseURL:  baseURL,
	}, nil
}

func (s *S3Store) key(publicID string) string {
	if s.prefix == "" {
		return publicID
	}
	return s.prefix + "/" + publicID
}

func (s *S3Store) Upload(ctx context.Context, localPath, publicID string) (Asset, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return Asset{}, fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Asset{}, fmt.Errorf("stat %s: %w", localPath, err)
	}

	format, width, height := probeImage(f, localPath)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Asset{}, fmt.Errorf("rewind %s: %w", localPath, err)
	}

	key := s.key(publicID)

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(format)),
	})
	if err != nil {
		return Asset{}, fmt.Errorf("s3 upload %s: %w", key, err)
	}

	return Asset{
		PublicID:  publicID,
		SecureURL: s.baseURL + "/" + (&url.URL{Path: key}).EscapedPath(),
		Format:    format,
		Width:     width,
		Height:    height,
		Bytes:     info.Size(),
	}, nil
}

func (s *S3Store) Destroy(ctx context.Context, publicID string) error {
	key := s.key(publicID)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}

	return nil
}

func (s *S3Store) PublicIDFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, s.baseURL+"/") {
		return "", false
	}

	key, err := url.PathUnescape(strings.TrimPrefix(rawURL, s.baseURL+"/"))
	if err != nil || key == "" {
		return "", false
	}

	if s.prefix != "" {
		if !strings.HasPrefix(key, s.prefix+"/") {
			return "", false
		}
		key = strings.TrimPrefix(key, s.prefix+"/")
	}

	return key, true
}
