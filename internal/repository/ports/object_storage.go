package ports

import "context"

type ObjectStorage interface {
	Fetch(ctx context.Context, bucket, objectName string) ([]byte, error)
}
