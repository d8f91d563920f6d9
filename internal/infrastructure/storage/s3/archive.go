// Package s3 archiva los reportes generados en un bucket S3 compatible (AWS S3 o MinIO).
package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/ports"
	appconfig "github.com/VishalKmk/Inventory-Management-App/pkg/config"
)

var _ ports.ReportArchive = (*Archive)(nil)

// Archive guarda objetos en un único bucket. Las claves se usan tal cual.
type Archive struct {
	client *s3.Client
	bucket string
}

// New construye el archivo a partir de la configuración. Sin credenciales explícitas
// se usa la cadena por defecto de AWS (env, perfil, rol de instancia).
func New(ctx context.Context, cfg appconfig.S3Config) (*Archive, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket requerido")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: cargar configuración: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Archive{client: client, bucket: cfg.Bucket}, nil
}

// Put sube body bajo key y devuelve su ubicación s3://bucket/key.
func (a *Archive) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := a.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3: subir %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
