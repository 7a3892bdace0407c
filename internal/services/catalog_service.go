package services

import (
	"context"
	"errors"
	"strings"

	"gymfit/internal/domain"
	"gymfit/internal/kv"
	applog "gymfit/internal/log"
)

// CatalogService reads products from the catalog backend and keeps the
// last good listing in the local store, which is served when the backend
// is unreachable.
type CatalogService struct {
	Products ProductCatalog
	Cache    kv.Store
}

func NewCatalogService(products ProductCatalog, cache kv.Store) *CatalogService {
	return &CatalogService{Products: products, Cache: cache}
}

func (s *CatalogService) cached(ctx context.Context, cause error) ([]domain.Product, error) {
	var ps []domain.Product
	if err := kv.Load(ctx, s.Cache, kv.ProductsKey, &ps); err != nil {
		return nil, cause
	}
	applog.Warn("catalog.cache_fallback", cause, map[string]any{"products": len(ps)})
	return ps, nil
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	ps, err := s.Products.List(ctx)
	if err != nil {
		return s.cached(ctx, err)
	}
	if err := kv.Save(ctx, s.Cache, kv.ProductsKey, ps); err != nil {
		applog.Warn("catalog.cache_write", err, nil)
	}
	return ps, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.Products.Get(ctx, id)
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return p, err
	}
	ps, cerr := s.cached(ctx, err)
	if cerr != nil {
		return domain.Product{}, cerr
	}
	for _, c := range ps {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Product{}, err
}

func (s *CatalogService) ByCategory(ctx context.Context, cat domain.Category) ([]domain.Product, error) {
	if !cat.Valid() {
		return nil, invalid("category", "unknown category")
	}
	ps, err := s.Products.ByCategory(ctx, cat)
	if err == nil {
		return ps, nil
	}
	all, cerr := s.cached(ctx, err)
	if cerr != nil {
		return nil, cerr
	}
	out := []domain.Product{}
	for _, p := range all {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *CatalogService) Search(ctx context.Context, name string) ([]domain.Product, error) {
	ps, err := s.Products.Search(ctx, name)
	if err == nil {
		return ps, nil
	}
	all, cerr := s.cached(ctx, err)
	if cerr != nil {
		return nil, cerr
	}
	q := strings.ToLower(name)
	out := []domain.Product{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Invalidate drops the cached listing after a catalog write.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if err := s.Cache.Delete(ctx, kv.ProductsKey); err != nil {
		applog.Warn("catalog.cache_invalidate", err, nil)
	}
}
