package cache

import (
	"bytes"
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// GetValue reads key from c and msgpack-decodes it into a T. A nil cache always misses, and
// an undecodable entry is reported as a miss.
func GetValue[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var zero T
	if c == nil {
		return zero, false, nil
	}
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}

	var v T
	dec := msgpack.NewDecoder(bytes.NewReader(raw))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&v); err != nil {
		return zero, false, nil
	}
	return v, true, nil
}

// SetValue msgpack-encodes v and stores it under key. A nil cache is a no-op.
func SetValue[T any](ctx context.Context, c Cache, key string, v T, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return c.Set(ctx, key, buf.Bytes(), ttl)
}
