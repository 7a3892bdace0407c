package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gymfit/internal/domain"
	"gymfit/internal/validate"
)

type AdminService struct {
	Users    UserDirectory
	Products ProductCatalog
	Catalog  *CatalogService
	Orders   OrderStore
	Payments PaymentStore
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Users.List(ctx)
}

type UserUpdate struct {
	ID      string `json:"-"`
	Name    string `json:"name" form:"name"`
	Phone   string `json:"phone" form:"phone"`
	Address string `json:"address" form:"address"`
	Role    string `json:"role" form:"role"`
}

// UpdateUser edits a user's profile and role. Empty fields keep their
// current value.
func (s *AdminService) UpdateUser(ctx context.Context, in UserUpdate) (*domain.User, error) {
	u, err := s.Users.ByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		name, ok := validate.Name(in.Name)
		if !ok {
			return nil, invalid("name", "name must be 2-50 letters")
		}
		u.Name = name
	}
	if in.Phone != "" {
		phone, ok := validate.Phone(in.Phone)
		if !ok {
			return nil, invalid("phone", "phone must look like +56912345678")
		}
		u.Phone = phone
	}
	if strings.TrimSpace(in.Address) != "" {
		u.Address = strings.TrimSpace(in.Address)
	}
	if in.Role != "" {
		r := domain.Role(in.Role)
		if !r.Valid() {
			return nil, invalid("role", "unknown role")
		}
		u.Role = r
	}
	if err := s.Users.Update(ctx, *u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// DeleteUser removes a user. Admins cannot remove themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actor *Session, id string) error {
	if actor.Authenticated() && actor.User.ID == id {
		return ErrSelfDelete
	}
	return s.Users.Delete(ctx, id)
}

type ProductInput struct {
	Name        string  `json:"name" form:"name"`
	Description string  `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price"`
	Stock       int     `json:"stock" form:"stock"`
	Category    string  `json:"category" form:"category"`
	Image       string  `json:"image" form:"image"`
}

func (in ProductInput) check() (domain.Product, error) {
	if !validate.NotEmpty(in.Name) {
		return domain.Product{}, invalid("name", "name required")
	}
	if !validate.NotEmpty(in.Description) {
		return domain.Product{}, invalid("description", "description required")
	}
	if !validate.PositiveNumber(in.Price) || math.IsInf(in.Price, 0) {
		return domain.Product{}, invalid("price", "price must be greater than zero")
	}
	if in.Stock < 0 {
		return domain.Product{}, invalid("stock", "stock cannot be negative")
	}
	cat := domain.Category(in.Category)
	if cat == "" {
		cat = domain.CategoryAccessory
	}
	if !cat.Valid() {
		return domain.Product{}, invalid("category", "unknown category")
	}
	return domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    cat,
		Image:       strings.TrimSpace(in.Image),
	}, nil
}

func (s *AdminService) CreateProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	p, err := in.check()
	if err != nil {
		return domain.Product{}, err
	}
	p, err = s.Products.Create(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.Catalog.Invalidate(ctx)
	return p, nil
}

// SetStock overwrites a product's stock level.
func (s *AdminService) SetStock(ctx context.Context, id string, stock int) (domain.Product, error) {
	if stock < 0 {
		return domain.Product{}, invalid("stock", "stock cannot be negative")
	}
	p, err := s.Products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	p.Stock = stock
	p, err = s.Products.Update(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("set stock: %w", err)
	}
	s.Catalog.Invalidate(ctx)
	return p, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Products.Delete(ctx, id); err != nil {
		return err
	}
	s.Catalog.Invalidate(ctx)
	return nil
}

func (s *AdminService) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	return s.Orders.List(ctx, limit)
}

func (s *AdminService) ListPayments(ctx context.Context, limit int) ([]domain.Payment, error) {
	return s.Payments.List(ctx, limit)
}
