package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gymfit/internal/domain"
)

// CheckoutRepo persists checkout runs. It is always local, whatever the
// backend mode, so partially applied checkouts can be found and repaired.
type CheckoutRepo struct{ db *sqlx.DB }

func NewCheckoutRepo(db *sqlx.DB) *CheckoutRepo { return &CheckoutRepo{db: db} }

const runCols = `id, user_id, order_id, payment_id, state, error, COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

func (r *CheckoutRepo) Start(ctx context.Context, userID string) (domain.CheckoutRun, error) {
	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO checkout_runs(id, user_id, state, created_at) VALUES(?, ?, ?, CURRENT_TIMESTAMP)
	`, id, userID, domain.RunStarted); err != nil {
		return domain.CheckoutRun{}, err
	}
	return r.Get(ctx, id)
}

// Save writes the run's progress fields.
func (r *CheckoutRepo) Save(ctx context.Context, run domain.CheckoutRun) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE checkout_runs
		SET order_id = ?, payment_id = ?, state = ?, error = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, run.OrderID, run.PaymentID, run.State, run.Error, run.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CheckoutRepo) Get(ctx context.Context, id string) (domain.CheckoutRun, error) {
	var run domain.CheckoutRun
	err := r.db.GetContext(ctx, &run, `SELECT `+runCols+` FROM checkout_runs WHERE id = ?`, id)
	return run, notFound(err)
}

func (r *CheckoutRepo) ByState(ctx context.Context, state string) ([]domain.CheckoutRun, error) {
	out := []domain.CheckoutRun{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+runCols+` FROM checkout_runs
		WHERE state = ?
		ORDER BY datetime(created_at) DESC
	`, state)
	return out, err
}
