// Package kv is the local key-value store: sessions, guest carts and the
// catalog cache live here as JSON documents.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMissing = errors.New("kv: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Save stores v as JSON under key.
func Save(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, b)
}

// Load decodes the JSON stored under key into v. A missing key returns
// ErrMissing and leaves v untouched.
func Load(ctx context.Context, s Store, key string, v any) error {
	b, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return nil
}

func SessionKey(sid string) string { return "session:" + sid }
func CartKey(sid string) string    { return "cart:" + sid }

const ProductsKey = "products"
