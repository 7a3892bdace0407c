package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gymfit/internal/domain"
)

// CartRepo stores authenticated users' carts in local mode.
type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) Lines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	out := []domain.CartLine{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT product_id, qty, unit_price
	  FROM cart_items
	  WHERE user_id = ?
	  ORDER BY created_at, product_id
	`, userID)
	return out, err
}

// Upsert sets the line's quantity, creating the line if needed. The unit
// price of an existing line is kept.
func (r *CartRepo) Upsert(ctx context.Context, userID string, line domain.CartLine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items(user_id,product_id,qty,unit_price,created_at)
		VALUES(?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(user_id,product_id) DO UPDATE
		SET qty = excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, userID, line.ProductID, line.Quantity, line.UnitPrice)
	return err
}

func (r *CartRepo) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	return err
}

func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}
