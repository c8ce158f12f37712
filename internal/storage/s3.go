package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config descreve o bucket de destino (AWS S3 ou compatível, ex.: R2, MinIO).
type S3Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	PublicDomain string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader envia objetos com PutObject.
type S3Uploader struct {
	cfg    S3Config
	client putObjectAPI
}

// NewS3Uploader cria cliente S3 a partir da configuração; sem chaves usa a cadeia padrão da AWS.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: configuração AWS: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(strings.TrimRight(cfg.Endpoint, "/"))
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{cfg: cfg, client: client}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := strings.TrimLeft(input.Key, "/")
	params := &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(input.Body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(input.Body))),
	}
	if strings.TrimSpace(input.CacheControl) != "" {
		params.CacheControl = aws.String(input.CacheControl)
	}

	out, err := u.client.PutObject(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("storage: upload falhou: %w", err)
	}

	var etag string
	if out != nil && out.ETag != nil {
		etag = strings.Trim(*out.ETag, "\"")
	}

	return &UploadResult{URL: u.publicURL(key), ETag: etag}, nil
}

func (u *S3Uploader) publicURL(key string) string {
	if domain := strings.TrimSpace(u.cfg.PublicDomain); domain != "" {
		return strings.TrimRight(domain, "/") + "/" + key
	}
	if u.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.cfg.Endpoint, "/"), u.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}

func (cfg S3Config) validate() error {
	if strings.TrimSpace(cfg.Region) == "" {
		return errors.New("storage: região do S3 ausente")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return errors.New("storage: bucket do S3 ausente")
	}
	if cfg.Endpoint != "" && !strings.HasPrefix(cfg.Endpoint, "http://") && !strings.HasPrefix(cfg.Endpoint, "https://") {
		return errors.New("storage: endpoint deve incluir protocolo http/https")
	}
	return nil
}
