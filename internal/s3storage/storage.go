// Package s3storage wraps MinIO/S3 interactions for evidence files.
package s3storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/verifik-ops/visitas-backend/internal/config"
)

// Storage holds the client and the evidence bucket name.
type Storage struct {
	client *minio.Client
	bucket string
	region string
}

// New creates a MinIO client from the Config.
func New(cfg *config.Config) (*Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Storage{client: client, bucket: cfg.EvidenceBucket, region: cfg.S3Region}, nil
}

// EnsureBucket makes sure the evidence bucket exists before use.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Subir uploads one evidence object.
func (s *Storage) Subir(ctx context.Context, objectKey string, datos []byte, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(datos), int64(len(datos)), opts)
	if err != nil {
		return fmt.Errorf("subir evidencia: %w", err)
	}
	return nil
}

// Descargar fetches the evidence bytes, used by the PDF extraction worker.
func (s *Storage) Descargar(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("obtener evidencia: %w", err)
	}
	defer obj.Close()
	buf, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("leer evidencia: %w", err)
	}
	return buf, nil
}

// Abrir returns a streaming reader plus content type for the download handler.
func (s *Storage) Abrir(ctx context.Context, objectKey string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("obtener evidencia: %w", err)
	}
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, "", fmt.Errorf("stat evidencia: %w", err)
	}
	return obj, stat.ContentType, nil
}

// Eliminar removes an object; the compensation step when a caso update fails
// after a successful upload.
func (s *Storage) Eliminar(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("eliminar evidencia: %w", err)
	}
	return nil
}
