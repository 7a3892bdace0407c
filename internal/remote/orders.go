package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"gymfit/internal/domain"
)

// Orders talks to the orders service under /api/v1/ordenes.
type Orders struct{ c *Client }

func NewOrders(c *Client) *Orders { return &Orders{c: c} }

const ordersPath = "/api/v1/ordenes"

var orderEstados = map[string]string{
	domain.OrderPending:       "PENDIENTE",
	domain.OrderCompleted:     "COMPLETADA",
	domain.OrderCancelled:     "CANCELADA",
	domain.OrderPaymentFailed: "PAGO_FALLIDO",
}

func toEstado(m map[string]string, status string) string {
	if e, ok := m[status]; ok {
		return e
	}
	return status
}

func fromEstado(m map[string]string, estado string) string {
	for k, v := range m {
		if v == estado {
			return k
		}
	}
	return estado
}

func toOrder(r gjson.Result) domain.Order {
	o := domain.Order{
		ID:        r.Get("id").String(),
		UserID:    r.Get("usuarioId").String(),
		Total:     r.Get("total").Float(),
		Status:    fromEstado(orderEstados, r.Get("estado").String()),
		CreatedAt: r.Get("fechaCreacion").String(),
		Items:     []domain.OrderItem{},
	}
	r.Get("items").ForEach(func(_, it gjson.Result) bool {
		o.Items = append(o.Items, toOrderItem(it))
		return true
	})
	return o
}

func toOrderItem(it gjson.Result) domain.OrderItem {
	return domain.OrderItem{
		ProductID: it.Get("productoId").String(),
		Quantity:  int(it.Get("cantidad").Int()),
		UnitPrice: it.Get("precioUnitario").Float(),
		Subtotal:  it.Get("subtotal").Float(),
	}
}

func (o *Orders) Create(ctx context.Context, ord domain.Order) (domain.Order, error) {
	items := make([]map[string]any, 0, len(ord.Items))
	for _, it := range ord.Items {
		items = append(items, map[string]any{
			"productoId":     numID(it.ProductID),
			"cantidad":       it.Quantity,
			"precioUnitario": it.UnitPrice,
		})
	}
	r, err := o.c.do(ctx, http.MethodPost, ordersPath, map[string]any{
		"usuarioId": numID(ord.UserID),
		"total":     ord.Total,
		"items":     items,
	})
	if err != nil {
		return domain.Order{}, err
	}
	if !r.Get("id").Exists() {
		return domain.Order{}, fmt.Errorf("orders: malformed order: %s", r.Raw)
	}
	out := toOrder(r)
	if len(out.Items) == 0 {
		out.Items = ord.Items
	}
	return out, nil
}

func (o *Orders) Get(ctx context.Context, id string) (domain.Order, error) {
	r, err := o.c.do(ctx, http.MethodGet, ordersPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Order{}, err
	}
	ord := toOrder(r)
	if len(ord.Items) == 0 {
		ir, err := o.c.do(ctx, http.MethodGet, ordersPath+"/"+url.PathEscape(id)+"/items", nil)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.Order{}, err
		}
		for _, it := range list(ir) {
			ord.Items = append(ord.Items, toOrderItem(it))
		}
	}
	return ord, nil
}

func (o *Orders) many(ctx context.Context, path string) ([]domain.Order, error) {
	r, err := o.c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	out := []domain.Order{}
	for _, it := range list(r) {
		out = append(out, toOrder(it))
	}
	return out, nil
}

func (o *Orders) ByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return o.many(ctx, ordersPath+"/usuario/"+url.PathEscape(userID))
}

// List returns at most limit orders as served by the service.
func (o *Orders) List(ctx context.Context, limit int) ([]domain.Order, error) {
	out, err := o.many(ctx, ordersPath)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (o *Orders) SetStatus(ctx context.Context, id, status string) error {
	_, err := o.c.do(ctx, http.MethodPut, ordersPath+"/"+url.PathEscape(id)+"/estado",
		map[string]string{"estado": toEstado(orderEstados, status)})
	return err
}
