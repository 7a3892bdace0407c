package services

import (
	"context"
	"errors"

	"gymfit/internal/domain"
	"gymfit/internal/kv"
)

// CartRepository is one session's cart, wherever it is stored.
type CartRepository interface {
	Lines(ctx context.Context) ([]domain.CartLine, error)
	Upsert(ctx context.Context, line domain.CartLine) error
	Remove(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
	Name() string
}

// CartStrategy picks the cart repository for a session: guests keep their
// cart in the local store, signed-in users in the cart backend.
type CartStrategy struct {
	KV      kv.Store
	Backend CartBackend
}

func (s CartStrategy) For(sess *Session) CartRepository {
	if sess.Authenticated() {
		return backendCart{backend: s.Backend, userID: sess.User.ID}
	}
	return s.Guest(sess.ID)
}

func (s CartStrategy) Guest(sid string) CartRepository {
	return guestCart{kv: s.KV, key: kv.CartKey(sid)}
}

type guestCart struct {
	kv  kv.Store
	key string
}

func (g guestCart) Name() string { return "local" }

func (g guestCart) Lines(ctx context.Context) ([]domain.CartLine, error) {
	lines := []domain.CartLine{}
	err := kv.Load(ctx, g.kv, g.key, &lines)
	if errors.Is(err, kv.ErrMissing) {
		return []domain.CartLine{}, nil
	}
	return lines, err
}

func (g guestCart) Upsert(ctx context.Context, line domain.CartLine) error {
	lines, err := g.Lines(ctx)
	if err != nil {
		return err
	}
	found := false
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i].Quantity = line.Quantity
			found = true
		}
	}
	if !found {
		lines = append(lines, line)
	}
	return kv.Save(ctx, g.kv, g.key, lines)
}

func (g guestCart) Remove(ctx context.Context, productID string) error {
	lines, err := g.Lines(ctx)
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	return kv.Save(ctx, g.kv, g.key, kept)
}

func (g guestCart) Clear(ctx context.Context) error { return g.kv.Delete(ctx, g.key) }

type backendCart struct {
	backend CartBackend
	userID  string
}

func (b backendCart) Name() string { return "backend" }

func (b backendCart) Lines(ctx context.Context) ([]domain.CartLine, error) {
	return b.backend.Lines(ctx, b.userID)
}

func (b backendCart) Upsert(ctx context.Context, line domain.CartLine) error {
	return b.backend.Upsert(ctx, b.userID, line)
}

func (b backendCart) Remove(ctx context.Context, productID string) error {
	return b.backend.Remove(ctx, b.userID, productID)
}

func (b backendCart) Clear(ctx context.Context) error { return b.backend.Clear(ctx, b.userID) }
