package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gymfit/internal/domain"
)

type PaymentRepo struct{ db *sqlx.DB }

func NewPaymentRepo(db *sqlx.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentCols = `id, order_id, user_id, amount, method, status, COALESCE(created_at,'') AS created_at`

func (r *PaymentRepo) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.PaymentPending
	}
	if _, err := r.db.ExecContext(ctx, `
	  INSERT INTO payments(id, order_id, user_id, amount, method, status, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, p.ID, p.OrderID, p.UserID, p.Amount, p.Method, p.Status); err != nil {
		return domain.Payment{}, err
	}
	var out domain.Payment
	err := r.db.GetContext(ctx, &out, `SELECT `+paymentCols+` FROM payments WHERE id = ?`, p.ID)
	return out, notFound(err)
}

func (r *PaymentRepo) ByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	out := []domain.Payment{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+paymentCols+` FROM payments
		WHERE user_id = ?
		ORDER BY datetime(created_at) DESC, id
	`, userID)
	return out, err
}

func (r *PaymentRepo) List(ctx context.Context, limit int) ([]domain.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Payment{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+paymentCols+` FROM payments
		ORDER BY datetime(created_at) DESC, id
		LIMIT ?
	`, limit)
	return out, err
}

func (r *PaymentRepo) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE payments SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
