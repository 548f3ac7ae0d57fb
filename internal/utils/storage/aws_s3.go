package storage

import (
	"RecipeAPI/domain"
	"RecipeAPI/internal/utils"
	"bytes"
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"io"
	"mime/multipart"
	"path"
	"strings"
)

// MaxUploadSize bounds every uploaded image.
const MaxUploadSize = 10 << 20

var AllowImage = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

type (
	AwsS3 interface {
		UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
		UpdateFile(ctx context.Context, objectKey string, file *multipart.FileHeader, allowed ...string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	S3Config struct {
		Bucket    string
		Region    string
		Endpoint  string
		AccessKey string
		SecretKey string
	}

	awsS3 struct {
		client  *s3.Client
		bucket  string
		baseURL string
	}
)

func LoadS3Config() S3Config {
	return S3Config{
		Bucket:    utils.GetConfig("AWS_S3_BUCKET"),
		Region:    utils.GetConfigOr("AWS_S3_REGION", "us-east-1"),
		Endpoint:  utils.GetConfig("AWS_S3_ENDPOINT"),
		AccessKey: utils.GetConfig("AWS_ACCESS_KEY"),
		SecretKey: utils.GetConfig("AWS_SECRET_KEY"),
	}
}

func NewAwsS3(ctx context.Context, cfg S3Config) (AwsS3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &awsS3{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// ReadUpload reads a multipart file and checks its sniffed content type
// against allowed. The detected mime type is returned with the bytes.
func ReadUpload(file *multipart.FileHeader, allowed ...string) ([]byte, *mimetype.MIME, error) {
	if file == nil {
		return nil, nil, domain.Validation("image", "file is required")
	}
	if file.Size > MaxUploadSize {
		return nil, nil, domain.Validation("image", "file is too large")
	}

	src, err := file.Open()
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return nil, nil, err
	}
	if len(data) > MaxUploadSize {
		return nil, nil, domain.Validation("image", "file is too large")
	}

	mime := mimetype.Detect(data)
	if len(allowed) > 0 && !mimetype.EqualsAny(mime.String(), allowed...) {
		return nil, nil, domain.ErrInvalidImage
	}
	return data, mime, nil
}

func (s *awsS3) put(ctx context.Context, objectKey string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

func (s *awsS3) UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	data, mime, err := ReadUpload(file, allowed...)
	if err != nil {
		return "", err
	}

	objectKey := path.Join(folder, fmt.Sprintf("%s-%s%s", fileName, uuid.NewString(), mime.Extension()))
	if err := s.put(ctx, objectKey, data, mime.String()); err != nil {
		log.Errorf("s3 upload %s: %v", objectKey, err)
		return "", err
	}
	return objectKey, nil
}

func (s *awsS3) UpdateFile(ctx context.Context, objectKey string, file *multipart.FileHeader, allowed ...string) (string, error) {
	data, mime, err := ReadUpload(file, allowed...)
	if err != nil {
		return "", err
	}
	if err := s.put(ctx, objectKey, data, mime.String()); err != nil {
		log.Errorf("s3 update %s: %v", objectKey, err)
		return "", err
	}
	return objectKey, nil
}

func (s *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (s *awsS3) GetPublicLinkKey(objectKey string) string {
	return s.baseURL + "/" + objectKey
}

func (s *awsS3) GetObjectKeyFromLink(link string) string {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}
