package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"gymfit/internal/domain"
)

// Payments talks to the payments service under /api/v1/pagos.
type Payments struct{ c *Client }

func NewPayments(c *Client) *Payments { return &Payments{c: c} }

const paymentsPath = "/api/v1/pagos"

var paymentEstados = map[string]string{
	domain.PaymentPending:  "PENDIENTE",
	domain.PaymentApproved: "APROBADO",
	domain.PaymentRejected: "RECHAZADO",
}

func toPayment(r gjson.Result) domain.Payment {
	return domain.Payment{
		ID:        r.Get("id").String(),
		OrderID:   r.Get("ordenId").String(),
		UserID:    r.Get("usuarioId").String(),
		Amount:    r.Get("monto").Float(),
		Method:    r.Get("metodoPago").String(),
		Status:    fromEstado(paymentEstados, r.Get("estado").String()),
		CreatedAt: r.Get("fechaPago").String(),
	}
}

func (p *Payments) Create(ctx context.Context, pay domain.Payment) (domain.Payment, error) {
	r, err := p.c.do(ctx, http.MethodPost, paymentsPath, map[string]any{
		"ordenId":    numID(pay.OrderID),
		"usuarioId":  numID(pay.UserID),
		"monto":      pay.Amount,
		"metodoPago": pay.Method,
	})
	if err != nil {
		return domain.Payment{}, err
	}
	if !r.Get("id").Exists() {
		return domain.Payment{}, fmt.Errorf("payments: malformed payment: %s", r.Raw)
	}
	return toPayment(r), nil
}

func (p *Payments) many(ctx context.Context, path string) ([]domain.Payment, error) {
	r, err := p.c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	out := []domain.Payment{}
	for _, it := range list(r) {
		out = append(out, toPayment(it))
	}
	return out, nil
}

func (p *Payments) ByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	return p.many(ctx, paymentsPath+"/usuario/"+url.PathEscape(userID))
}

func (p *Payments) List(ctx context.Context, limit int) ([]domain.Payment, error) {
	out, err := p.many(ctx, paymentsPath)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (p *Payments) SetStatus(ctx context.Context, id, status string) error {
	_, err := p.c.do(ctx, http.MethodPut, paymentsPath+"/"+url.PathEscape(id)+"/estado",
		map[string]string{"estado": toEstado(paymentEstados, status)})
	return err
}
