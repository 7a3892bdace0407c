package services

import (
	"context"

	"gymfit/internal/domain"
)

// The ports below are served either by the SQLite repositories in
// internal/repos or by the HTTP clients in internal/remote.

type UserDirectory interface {
	Authenticate(ctx context.Context, email, password string) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, u domain.User, password string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u domain.User) error
	Delete(ctx context.Context, id string) error
}

type ProductCatalog interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	ByCategory(ctx context.Context, cat domain.Category) ([]domain.Product, error)
	Search(ctx context.Context, name string) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (domain.Product, error)
}

// CartBackend stores authenticated users' carts. Upsert sets the absolute
// quantity of the line for a product, creating it when absent.
type CartBackend interface {
	Lines(ctx context.Context, userID string) ([]domain.CartLine, error)
	Upsert(ctx context.Context, userID string, line domain.CartLine) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type OrderStore interface {
	Create(ctx context.Context, o domain.Order) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	ByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context, limit int) ([]domain.Order, error)
	SetStatus(ctx context.Context, id, status string) error
}

type PaymentStore interface {
	Create(ctx context.Context, p domain.Payment) (domain.Payment, error)
	ByUser(ctx context.Context, userID string) ([]domain.Payment, error)
	List(ctx context.Context, limit int) ([]domain.Payment, error)
	SetStatus(ctx context.Context, id, status string) error
}

type HireStore interface {
	Trainers(ctx context.Context) ([]domain.Trainer, error)
	Trainer(ctx context.Context, id string) (domain.Trainer, error)
	TrainerByUser(ctx context.Context, userID string) (domain.Trainer, error)
	EnsureTrainer(ctx context.Context, u domain.User) (domain.Trainer, error)
	CreateHire(ctx context.Context, userID, trainerID string) (domain.TrainerHire, error)
	Hire(ctx context.Context, id string) (domain.TrainerHire, error)
	ByUser(ctx context.Context, userID string) ([]domain.TrainerHire, error)
	ByTrainer(ctx context.Context, trainerID string) ([]domain.TrainerHire, error)
	AppendMessage(ctx context.Context, hireID string, m domain.Message) (domain.Message, error)
	SetStatus(ctx context.Context, id, status string) error
}

type CheckoutLog interface {
	Start(ctx context.Context, userID string) (domain.CheckoutRun, error)
	Save(ctx context.Context, run domain.CheckoutRun) error
	ByState(ctx context.Context, state string) ([]domain.CheckoutRun, error)
}
