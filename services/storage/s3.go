package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	"soothe/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// MediaStorage stores and removes uploaded media (service photos, profile
// photos, certificates).
type MediaStorage interface {
	UploadFile(ctx context.Context, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error)
	DeleteByURL(ctx context.Context, url string) error
}

type s3Storage struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Storage builds an S3-backed media store from the app configuration.
func NewS3Storage() (MediaStorage, error) {
	cfg := config.AppConfig

	staticProvider := credentials.NewStaticCredentialsProvider(
		cfg.AWSAccessKeyID,
		cfg.AWSSecretAccessKey,
		"",
	)

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.TODO(),
		awsConfig.WithRegion(cfg.AWSRegion),
		awsConfig.WithCredentialsProvider(staticProvider),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS configuration: %w", err)
	}

	return &s3Storage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSS3Bucket,
		region: cfg.AWSRegion,
	}, nil
}

func (s *s3Storage) UploadFile(ctx context.Context, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (string, error) {
	buf := bytes.NewBuffer(nil)
	if _, err := buf.ReadFrom(file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	contentType := fileHeader.Header.Get("Content-Type")
	return s.upload(ctx, directory, fileName, contentType, buf.Bytes())
}

func (s *s3Storage) upload(ctx context.Context, directory, fileName, contentType string, data []byte) (string, error) {
	objectKey := path.Join(directory, fileName)
	reader := bytes.NewReader(data)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(reader.Size()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicDomain(), objectKey), nil
}

// DeleteByURL removes the object a public URL points at. URLs outside our
// bucket are ignored.
func (s *s3Storage) DeleteByURL(ctx context.Context, url string) error {
	prefix := s.publicDomain() + "/"
	if !strings.HasPrefix(url, prefix) {
		zap.L().Warn("Refusing to delete object outside bucket", zap.String("url", url))
		return nil
	}
	objectKey := strings.TrimPrefix(url, prefix)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *s3Storage) publicDomain() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.bucket, s.region)
}
