package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"gymfit/internal/domain"
)

// UserRepo is the local-mode user directory.
type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,name,password_hash,role,phone,address,COALESCE(created_at,'') AS created_at`

func (r *UserRepo) Authenticate(ctx context.Context, email, password string) error {
	u, err := r.ByEmail(ctx, email)
	if err != nil {
		return domain.ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return domain.ErrBadCredentials
	}
	return nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User, password string) (*domain.User, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u.ID = uuid.NewString()
	if _, err := r.DB.ExecContext(ctx, `
		INSERT INTO users(id,email,name,password_hash,role,phone,address)
		VALUES(?,?,?,?,?,?,?)`,
		u.ID, u.Email, u.Name, string(h), string(u.Role), u.Phone, u.Address); err != nil {
		return nil, err
	}
	return r.ByID(ctx, u.ID)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.SelectContext(ctx, &out, `SELECT `+userCols+` FROM users ORDER BY email`)
	return out, err
}

// Update overwrites the editable profile fields and the role.
func (r *UserRepo) Update(ctx context.Context, u domain.User) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET name=?, role=?, phone=?, address=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=?`, u.Name, string(u.Role), u.Phone, u.Address, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a user with their cart and hires, and cancels their open
// orders while keeping the rows for audit.
func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE orders SET status='cancelled', updated_at=CURRENT_TIMESTAMP
		WHERE user_id=? AND status='pending'`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM hires WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM cart_items WHERE user_id=?`, userID); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}
