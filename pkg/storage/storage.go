package storage

import "context"

// Well-known snapshot keys. Each holds one serialized document that is
// read once at startup and fully rewritten on every relevant mutation,
// never merged.
const (
	KeyStock = "library_stock"
	KeyCart  = "cart"
	KeyTheme = "theme"
)

// KV is the durable local snapshot store backing the storefront. Values
// are opaque documents; Write replaces the prior value wholesale.
type KV interface {
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
