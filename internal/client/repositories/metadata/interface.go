// Package metadata is the console's durable key/value store. The session
// token lives here.
package metadata

import (
	"context"
)

type Repository interface {
	// Get reports found=false, with no error, when key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
