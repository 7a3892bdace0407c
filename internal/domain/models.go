package domain

type Category string

const (
	CategoryAccessory  Category = "accessory"
	CategorySupplement Category = "supplement"
)

func (c Category) Valid() bool { return c == CategoryAccessory || c == CategorySupplement }

type Product struct {
	ID          string   `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Description string   `db:"description" json:"description"`
	Price       float64  `db:"price" json:"price"`
	Stock       int      `db:"stock" json:"stock"`
	Category    Category `db:"category" json:"category"`
	Image       string   `db:"image" json:"image"`
	CreatedAt   string   `db:"created_at" json:"createdAt"`
}

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (it CartItem) Subtotal() float64 { return it.Product.Price * float64(it.Quantity) }

const (
	OrderPending       = "pending"
	OrderCompleted     = "completed"
	OrderCancelled     = "cancelled"
	OrderPaymentFailed = "payment_failed"
)

type Order struct {
	ID        string      `db:"id" json:"id"`
	UserID    string      `db:"user_id" json:"userId"`
	Total     float64     `db:"total" json:"total"`
	Status    string      `db:"status" json:"status"`
	Items     []OrderItem `db:"-" json:"items"`
	CreatedAt string      `db:"created_at" json:"createdAt"`
}

type OrderItem struct {
	ProductID string  `db:"product_id" json:"productId"`
	Quantity  int     `db:"qty" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unitPrice"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

type Payment struct {
	ID        string  `db:"id" json:"id"`
	OrderID   string  `db:"order_id" json:"orderId"`
	UserID    string  `db:"user_id" json:"userId"`
	Amount    float64 `db:"amount" json:"amount"`
	Method    string  `db:"method" json:"method"`
	Status    string  `db:"status" json:"status"`
	CreatedAt string  `db:"created_at" json:"createdAt"`
}

// CartLine is a persisted cart row: the product reference, quantity and the
// unit price captured when the line was first added.
type CartLine struct {
	ProductID string  `db:"product_id" json:"productId"`
	Quantity  int     `db:"qty" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unitPrice"`
}
