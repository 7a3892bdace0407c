package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"gymfit/internal/domain"
)

// Cart talks to the cart service. Lines are addressed by the service's own
// item id, which is looked up from the user's cart on every write.
type Cart struct{ c *Client }

func NewCart(c *Client) *Cart { return &Cart{c: c} }

type cartItem struct {
	ID   string
	Line domain.CartLine
}

func toCartItem(r gjson.Result) cartItem {
	return cartItem{
		ID: r.Get("id").String(),
		Line: domain.CartLine{
			ProductID: r.Get("productoId").String(),
			Quantity:  int(r.Get("cantidad").Int()),
			UnitPrice: r.Get("precioUnitario").Float(),
		},
	}
}

func (c *Cart) items(ctx context.Context, userID string) ([]cartItem, error) {
	r, err := c.c.do(ctx, http.MethodGet, "/usuario/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	var out []cartItem
	for _, it := range list(r) {
		out = append(out, toCartItem(it))
	}
	return out, nil
}

func (c *Cart) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	items, err := c.items(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CartLine, 0, len(items))
	for _, it := range items {
		out = append(out, it.Line)
	}
	return out, nil
}

// Upsert sets the quantity of the user's line for line.ProductID. The
// service is asked for the current line first, so the item id always comes
// from the server.
func (c *Cart) Upsert(ctx context.Context, userID string, line domain.CartLine) error {
	items, err := c.items(ctx, userID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.Line.ProductID == line.ProductID {
			_, err := c.c.do(ctx, http.MethodPut, "/item/"+url.PathEscape(it.ID), map[string]int{"cantidad": line.Quantity})
			return err
		}
	}
	_, err = c.c.do(ctx, http.MethodPost, "/agregar", map[string]any{
		"usuarioId":      numID(userID),
		"productoId":     numID(line.ProductID),
		"cantidad":       line.Quantity,
		"precioUnitario": line.UnitPrice,
	})
	return err
}

func (c *Cart) Remove(ctx context.Context, userID, productID string) error {
	_, err := c.c.do(ctx, http.MethodDelete, "/usuario/"+url.PathEscape(userID)+"/producto/"+url.PathEscape(productID), nil)
	return err
}

func (c *Cart) Clear(ctx context.Context, userID string) error {
	_, err := c.c.do(ctx, http.MethodDelete, "/usuario/"+url.PathEscape(userID), nil)
	return err
}
