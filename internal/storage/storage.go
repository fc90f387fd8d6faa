package storage

import (
	"context"
	"time"
)

// SignInput describes one object a client wants to upload directly.
type SignInput struct {
	Key         string
	ContentType string
	TTL         time.Duration
}

// Signer issues time-limited PUT URLs so design files go straight from the
// browser to storage without transiting the app server.
type Signer interface {
	SignPut(ctx context.Context, in SignInput) (string, error)
	Delete(ctx context.Context, key string) error
	String() string
}
