package domain

// Checkout run states. A run only leaves "started" once.
const (
	RunStarted             = "started"
	RunCompleted           = "completed"
	RunFailed              = "failed"
	RunNeedsReconciliation = "needs_reconciliation"
)

// CheckoutRun records how far a checkout got, for audit and manual repair.
type CheckoutRun struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"userId"`
	OrderID   string `db:"order_id" json:"orderId,omitempty"`
	PaymentID string `db:"payment_id" json:"paymentId,omitempty"`
	State     string `db:"state" json:"state"`
	Error     string `db:"error" json:"error,omitempty"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}
