package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	OrderDate     time.Time       `json:"order_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Status        Status          `json:"status"`
	Items         []OrderItem     `json:"items"`
}

// OrderItem is immutable once the order is created; UnitPrice is the
// product price snapshot taken at creation time.
type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// Invoice snapshots an order's total; one per order.
type Invoice struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	InvoiceDate time.Time       `json:"invoice_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
