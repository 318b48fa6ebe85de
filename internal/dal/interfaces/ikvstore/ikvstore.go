package ikvstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = errors.New("key not found")
	// ErrQuotaExceeded is returned by Set when the backend refuses the value for lack of space.
	ErrQuotaExceeded = errors.New("store quota exceeded")
)

// IKVStore is the opaque key/value store all persisted state lives in.
type IKVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
