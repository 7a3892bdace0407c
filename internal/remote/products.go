package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"gymfit/internal/domain"
)

// Products talks to the products service, which serves its resources at
// the base URL root.
type Products struct{ c *Client }

func NewProducts(c *Client) *Products { return &Products{c: c} }

func toCategory(s string) domain.Category {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "supplement") || strings.HasPrefix(s, "suplement") {
		return domain.CategorySupplement
	}
	return domain.CategoryAccessory
}

func toProduct(r gjson.Result) domain.Product {
	return domain.Product{
		ID:          r.Get("id").String(),
		Name:        firstString(r, "nombre", "name"),
		Description: firstString(r, "descripcion", "description"),
		Price:       r.Get("precio").Float(),
		Stock:       int(r.Get("stock").Int()),
		Category:    toCategory(r.Get("categoria").String()),
		Image:       firstString(r, "imagen", "image"),
		CreatedAt:   firstString(r, "fechaCreacion", "createdAt"),
	}
}

func productBody(p domain.Product) map[string]any {
	return map[string]any{
		"nombre":      p.Name,
		"descripcion": p.Description,
		"precio":      p.Price,
		"stock":       p.Stock,
		"categoria":   string(p.Category),
		"imagen":      p.Image,
	}
}

func (p *Products) many(ctx context.Context, path string) ([]domain.Product, error) {
	r, err := p.c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	out := []domain.Product{}
	for _, it := range list(r) {
		out = append(out, toProduct(it))
	}
	return out, nil
}

func (p *Products) one(ctx context.Context, method, path string, in any) (domain.Product, error) {
	r, err := p.c.do(ctx, method, path, in)
	if err != nil {
		return domain.Product{}, err
	}
	if !r.Get("id").Exists() {
		return domain.Product{}, fmt.Errorf("products: malformed product: %s", r.Raw)
	}
	return toProduct(r), nil
}

func (p *Products) List(ctx context.Context) ([]domain.Product, error) { return p.many(ctx, "/") }

func (p *Products) Get(ctx context.Context, id string) (domain.Product, error) {
	return p.one(ctx, http.MethodGet, "/"+url.PathEscape(id), nil)
}

func (p *Products) ByCategory(ctx context.Context, cat domain.Category) ([]domain.Product, error) {
	return p.many(ctx, "/categoria/"+url.PathEscape(string(cat)))
}

func (p *Products) Search(ctx context.Context, name string) ([]domain.Product, error) {
	return p.many(ctx, "/buscar?nombre="+url.QueryEscape(name))
}

func (p *Products) Create(ctx context.Context, prod domain.Product) (domain.Product, error) {
	return p.one(ctx, http.MethodPost, "/", productBody(prod))
}

func (p *Products) Update(ctx context.Context, prod domain.Product) (domain.Product, error) {
	return p.one(ctx, http.MethodPut, "/"+url.PathEscape(prod.ID), productBody(prod))
}

func (p *Products) Delete(ctx context.Context, id string) error {
	_, err := p.c.do(ctx, http.MethodDelete, "/"+url.PathEscape(id), nil)
	return err
}

// AdjustStock adds delta to the product's stock; the service rejects a
// result below zero.
func (p *Products) AdjustStock(ctx context.Context, id string, delta int) (domain.Product, error) {
	r, err := p.c.do(ctx, http.MethodPut, "/"+url.PathEscape(id)+"/stock", map[string]int{"cantidad": delta})
	if err != nil {
		return domain.Product{}, err
	}
	if !r.Get("id").Exists() {
		return p.Get(ctx, id)
	}
	return toProduct(r), nil
}
