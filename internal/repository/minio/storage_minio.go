package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/repository/ports"
)

func NewClient(endpoint, key, secret string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(key, secret, ""),
		Secure: useSSL,
	})
}

// Storage reads whole objects from a MinIO or S3 compatible endpoint.
type Storage struct {
	client  *minio.Client
	maxSize int64
}

func NewStorage(client *minio.Client, maxSize int64) *Storage {
	if maxSize <= 0 {
		maxSize = 4 << 20
	}
	return &Storage{client: client, maxSize: maxSize}
}

func (s *Storage) Fetch(ctx context.Context, bucket, objectName string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, objectName, err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat object %s/%s: %w", bucket, objectName, err)
	}
	if info.Size > s.maxSize {
		return nil, fmt.Errorf("object %s/%s is %d bytes, limit %d", bucket, objectName, info.Size, s.maxSize)
	}

	data, err := io.ReadAll(io.LimitReader(obj, s.maxSize))
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, objectName, err)
	}
	return data, nil
}

var _ ports.ObjectStorage = (*Storage)(nil)
