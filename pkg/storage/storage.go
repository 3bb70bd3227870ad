package storage

import (
	"context"
	"strings"
)

// ServiceStorage is a minimal namespaced key-value store for durable service
// artifacts. At present a single provider works for all services.
type ServiceStorage interface {
	Write(ctx context.Context, namespace, key string, value []byte) error
	Read(ctx context.Context, namespace, key string) ([]byte, error)
	ReadAll(ctx context.Context, namespace string) (map[string][]byte, error)
	Delete(ctx context.Context, namespace, key string) error
	Close() error
}

// MakeNamespace takes a set of possible namespace values and combines them as a convention
func MakeNamespace(ns ...string) string {
	return strings.Join(ns, "-")
}
