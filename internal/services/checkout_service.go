package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gymfit/internal/domain"
	"gymfit/internal/events"
	applog "gymfit/internal/log"
	"gymfit/internal/metrics"
)

// CheckoutService turns a signed-in user's cart into an order and a
// payment, then takes the stock and empties the cart. Every step is
// recorded on a CheckoutRun; steps that fail after a write are compensated.
type CheckoutService struct {
	Carts    *CartService
	Products ProductCatalog
	Orders   OrderStore
	Payments PaymentStore
	Runs     CheckoutLog
	Events   events.Publisher
}

type Receipt struct {
	RunID     string  `json:"runId"`
	OrderID   string  `json:"orderId"`
	PaymentID string  `json:"paymentId"`
	Items     int     `json:"items"`
	Total     float64 `json:"total"`
}

// CheckoutError reports a checkout that did not complete. It matches
// ErrCheckoutFailed and unwraps to the step's cause.
type CheckoutError struct {
	RunID string
	Step  string
	State string
	Err   error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout %s failed at %s (%s): %v", e.RunID, e.Step, e.State, e.Err)
}

func (e *CheckoutError) Unwrap() error { return e.Err }

func (e *CheckoutError) Is(target error) bool { return target == ErrCheckoutFailed }

const defaultPaymentMethod = "card"

func (s *CheckoutService) Checkout(ctx context.Context, sess *Session, method string) (Receipt, error) {
	if !sess.Authenticated() {
		return Receipt{}, ErrNotAuthenticated
	}
	if sess.User.Role != domain.RoleUser {
		return Receipt{}, ErrForbiddenRole
	}
	method = strings.TrimSpace(method)
	if method == "" {
		method = defaultPaymentMethod
	}

	unlock := s.Carts.lock(sess)
	defer unlock()

	items, err := s.Carts.Items(ctx, sess)
	if err != nil {
		return Receipt{}, err
	}
	if len(items) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	run, err := s.Runs.Start(ctx, sess.User.ID)
	if err != nil {
		return Receipt{}, fmt.Errorf("start checkout: %w", err)
	}
	rc, err := s.run(ctx, sess, &run, items, method)
	s.finish(ctx, &run, rc, err)
	return rc, err
}

func (s *CheckoutService) run(ctx context.Context, sess *Session, run *domain.CheckoutRun, items []domain.CartItem, method string) (Receipt, error) {
	fail := func(step, state string, cause error) error {
		run.State = state
		run.Error = fmt.Sprintf("%s: %v", step, cause)
		return &CheckoutError{RunID: run.ID, Step: step, State: state, Err: cause}
	}

	// 1. stock pre-check, before anything is written
	for _, it := range items {
		p, err := s.Products.Get(ctx, it.Product.ID)
		if err != nil {
			return Receipt{}, fail("stock_check", domain.RunFailed, err)
		}
		if p.Stock < it.Quantity {
			return Receipt{}, fail("stock_check", domain.RunFailed,
				fmt.Errorf("%w: %s needs %d, has %d", ErrInsufficientStock, p.ID, it.Quantity, p.Stock))
		}
	}

	// 2. order
	order := domain.Order{UserID: sess.User.ID, Status: domain.OrderPending}
	for _, it := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
			UnitPrice: it.Product.Price,
			Subtotal:  it.Subtotal(),
		})
		order.Total += it.Subtotal()
	}
	order, err := s.Orders.Create(ctx, order)
	if err != nil {
		return Receipt{}, fail("create_order", domain.RunFailed, err)
	}
	run.OrderID = order.ID
	s.save(ctx, run)

	// 3. payment
	pay, err := s.Payments.Create(ctx, domain.Payment{
		OrderID: order.ID,
		UserID:  sess.User.ID,
		Amount:  order.Total,
		Method:  method,
	})
	if err != nil {
		state := domain.RunFailed
		if cerr := s.Orders.SetStatus(ctx, order.ID, domain.OrderPaymentFailed); cerr != nil {
			state = domain.RunNeedsReconciliation
			err = errors.Join(err, fmt.Errorf("mark order payment_failed: %w", cerr))
		}
		return Receipt{}, fail("create_payment", state, err)
	}
	run.PaymentID = pay.ID
	s.save(ctx, run)
	if err := s.Payments.SetStatus(ctx, pay.ID, domain.PaymentApproved); err != nil {
		return Receipt{}, fail("approve_payment", domain.RunNeedsReconciliation, err)
	}

	// 4. confirm order
	if err := s.Orders.SetStatus(ctx, order.ID, domain.OrderCompleted); err != nil {
		return Receipt{}, fail("complete_order", domain.RunNeedsReconciliation, err)
	}

	// 5. stock, one line at a time
	var taken []domain.CartItem
	for _, it := range items {
		if _, err := s.Products.AdjustStock(ctx, it.Product.ID, -it.Quantity); err != nil {
			return Receipt{}, fail("decrement_stock", s.compensateStock(ctx, order.ID, pay.ID, taken), err)
		}
		taken = append(taken, it)
	}

	// 6. cart
	if err := s.Carts.clear(ctx, sess); err != nil {
		applog.Warn("checkout.clear_cart", err, map[string]any{"run_id": run.ID, "order_id": order.ID})
	}

	run.State = domain.RunCompleted
	return Receipt{
		RunID:     run.ID,
		OrderID:   order.ID,
		PaymentID: pay.ID,
		Items:     TotalItems(items),
		Total:     order.Total,
	}, nil
}

// compensateStock puts back the stock already taken and voids the order
// and payment. It returns the state the run ends in.
func (s *CheckoutService) compensateStock(ctx context.Context, orderID, paymentID string, taken []domain.CartItem) string {
	state := domain.RunFailed
	for _, it := range taken {
		if _, err := s.Products.AdjustStock(ctx, it.Product.ID, it.Quantity); err != nil {
			applog.Warn("checkout.restore_stock", err, map[string]any{"order_id": orderID, "product_id": it.Product.ID, "qty": it.Quantity})
			state = domain.RunNeedsReconciliation
		}
	}
	if err := s.Orders.SetStatus(ctx, orderID, domain.OrderCancelled); err != nil {
		applog.Warn("checkout.cancel_order", err, map[string]any{"order_id": orderID})
		state = domain.RunNeedsReconciliation
	}
	if err := s.Payments.SetStatus(ctx, paymentID, domain.PaymentRejected); err != nil {
		applog.Warn("checkout.reject_payment", err, map[string]any{"payment_id": paymentID})
		state = domain.RunNeedsReconciliation
	}
	return state
}

func (s *CheckoutService) save(ctx context.Context, run *domain.CheckoutRun) {
	if err := s.Runs.Save(ctx, *run); err != nil {
		applog.Warn("checkout.save_run", err, map[string]any{"run_id": run.ID, "state": run.State})
	}
}

func (s *CheckoutService) finish(ctx context.Context, run *domain.CheckoutRun, rc Receipt, err error) {
	s.save(ctx, run)
	metrics.RecordCheckout(run.State)

	key := events.CheckoutCompleted
	payload := map[string]any{
		"runId":     run.ID,
		"userId":    run.UserID,
		"orderId":   run.OrderID,
		"paymentId": run.PaymentID,
		"state":     run.State,
	}
	if err != nil {
		key = events.CheckoutFailed
		payload["error"] = run.Error
	} else {
		payload["total"] = rc.Total
		payload["items"] = rc.Items
	}
	if s.Events == nil {
		return
	}
	if perr := s.Events.Publish(ctx, key, payload); perr != nil {
		applog.Warn("checkout.publish", perr, map[string]any{"run_id": run.ID})
	}
}

// Unreconciled lists runs that stopped between a write and its
// compensation.
func (s *CheckoutService) Unreconciled(ctx context.Context) ([]domain.CheckoutRun, error) {
	return s.Runs.ByState(ctx, domain.RunNeedsReconciliation)
}
