package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gymfit/internal/domain"
)

// ProductRepo is the local-mode product catalog.
type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, description, price, stock, category, image, COALESCE(created_at,'') AS created_at`

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+productCols+` FROM products ORDER BY name`)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, notFound(err)
}

func (r *ProductRepo) ByCategory(ctx context.Context, cat domain.Category) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+productCols+` FROM products WHERE category = ? ORDER BY name`, string(cat))
	return out, err
}

func (r *ProductRepo) Search(ctx context.Context, name string) ([]domain.Product, error) {
	out := []domain.Product{}
	q := "%" + strings.ToLower(name) + "%"
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+productCols+` FROM products
	  WHERE LOWER(name) LIKE ? OR LOWER(description) LIKE ?
	  ORDER BY name`, q, q)
	return out, err
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO products(id,name,description,price,stock,category,image,created_at)
	  VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, string(p.Category), p.Image)
	if err != nil {
		return domain.Product{}, err
	}
	return r.Get(ctx, p.ID)
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	res, err := r.db.ExecContext(ctx, `
	  UPDATE products SET name=?, description=?, price=?, stock=?, category=?, image=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?`, p.Name, p.Description, p.Price, p.Stock, string(p.Category), p.Image, p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Product{}, domain.ErrNotFound
	}
	return r.Get(ctx, p.ID)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock adds delta (negative to decrement) if the result stays >= 0.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta int) (domain.Product, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock + ? >= 0
	`, delta, id, delta)
	if err != nil {
		return domain.Product{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		if _, gerr := r.Get(ctx, id); gerr != nil {
			return domain.Product{}, gerr
		}
		return domain.Product{}, fmt.Errorf("insufficient stock for %s (delta %d)", id, delta)
	}
	return r.Get(ctx, id)
}
