package services

import (
	"context"

	"gymfit/internal/domain"
)

// PanelService assembles the per-role landing documents.
type PanelService struct {
	Admin    *AdminService
	Hires    *HireService
	Checkout *CheckoutService
	Orders   OrderStore
	Payments PaymentStore
}

type AdminPanel struct {
	Users        []domain.User        `json:"users"`
	Products     []domain.Product     `json:"products"`
	Orders       []domain.Order       `json:"orders"`
	Unreconciled []domain.CheckoutRun `json:"unreconciledCheckouts"`
}

type TrainerPanel struct {
	Trainer domain.Trainer       `json:"trainer"`
	Hires   []domain.TrainerHire `json:"hires"`
}

type UserPanel struct {
	User     *domain.User         `json:"user"`
	Orders   []domain.Order       `json:"orders"`
	Payments []domain.Payment     `json:"payments"`
	Hires    []domain.TrainerHire `json:"hires"`
}

const panelOrders = 20

func (s *PanelService) AdminPanel(ctx context.Context) (AdminPanel, error) {
	var out AdminPanel
	var err error
	if out.Users, err = s.Admin.ListUsers(ctx); err != nil {
		return AdminPanel{}, err
	}
	if out.Products, err = s.Admin.Catalog.List(ctx); err != nil {
		return AdminPanel{}, err
	}
	if out.Orders, err = s.Admin.ListOrders(ctx, panelOrders); err != nil {
		return AdminPanel{}, err
	}
	if out.Unreconciled, err = s.Checkout.Unreconciled(ctx); err != nil {
		return AdminPanel{}, err
	}
	return out, nil
}

func (s *PanelService) TrainerPanel(ctx context.Context, sess *Session) (TrainerPanel, error) {
	t, hs, err := s.Hires.HiresForTrainer(ctx, sess)
	if err != nil {
		return TrainerPanel{}, err
	}
	return TrainerPanel{Trainer: t, Hires: hs}, nil
}

func (s *PanelService) UserPanel(ctx context.Context, sess *Session) (UserPanel, error) {
	if !sess.Authenticated() {
		return UserPanel{}, ErrNotAuthenticated
	}
	out := UserPanel{User: sess.User}
	var err error
	if out.Orders, err = s.Orders.ByUser(ctx, sess.User.ID); err != nil {
		return UserPanel{}, err
	}
	if out.Payments, err = s.Payments.ByUser(ctx, sess.User.ID); err != nil {
		return UserPanel{}, err
	}
	if out.Hires, err = s.Hires.HiresForUser(ctx, sess); err != nil {
		return UserPanel{}, err
	}
	return out, nil
}
