package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-order-management.git/internal/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tx is the slice of the store an order-creation transaction needs. All
// mutations made through it commit or roll back together.
type Tx interface {
	// ProductForUpdate loads a product row and locks it until the
	// transaction ends, so the stock check and decrement cannot race.
	ProductForUpdate(ctx context.Context, productID string) (*catalog.Product, error)
	SetProductStock(ctx context.Context, productID string, stock int) error
	InsertOrder(ctx context.Context, o *Order) error
	InsertInvoice(ctx context.Context, inv *Invoice) error
}

type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status Status) error
	InsertInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, invoiceID string) (*Invoice, error)
	ListInvoices(ctx context.Context) ([]Invoice, error)
}

type CustomerStore interface {
	GetCustomer(ctx context.Context, id string) (*catalog.Customer, error)
}

// Notifier dispatches a status-change message to the customer. Delivery is
// fire-and-forget from the workflow's point of view.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, o *Order, customerEmail string)
}

type Service struct {
	Store     Store
	Customers CustomerStore
	Notifier  Notifier
}

type ItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderInput struct {
	CustomerID    string      `json:"customer_id"`
	PaymentMethod string      `json:"payment_method"`
	Items         []ItemInput `json:"items"`
}

// CreateOrder runs the whole workflow in one transaction: per line it locks
// the product, checks stock, snapshots the unit price, applies the tiered
// discount and decrements stock; then it persists the order, its items and
// the invoice. Any failure rolls everything back, so a rejected later line
// never leaves earlier decrements behind.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	if in.CustomerID == "" || in.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: customer_id and payment_method are required", ErrValidation)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrValidation)
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %s", ErrValidation, it.ProductID)
		}
	}

	customer, err := s.Customers.GetCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	order := &Order{
		ID:            uuid.NewString(),
		CustomerID:    in.CustomerID,
		OrderDate:     time.Now().UTC(),
		PaymentMethod: in.PaymentMethod,
		Status:        StatusPending,
	}

	err = s.Store.InTx(ctx, func(tx Tx) error {
		total := decimal.Zero
		for _, it := range in.Items {
			p, err := tx.ProductForUpdate(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p.Stock < it.Quantity {
				return fmt.Errorf("%w: product %s has %d, need %d", ErrInsufficientStock, p.Name, p.Stock, it.Quantity)
			}
			if err := tx.SetProductStock(ctx, p.ID, p.Stock-it.Quantity); err != nil {
				return err
			}

			gross := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			discount := LineDiscount(gross)
			order.Items = append(order.Items, OrderItem{
				ID:        uuid.NewString(),
				OrderID:   order.ID,
				ProductID: p.ID,
				Quantity:  it.Quantity,
				UnitPrice: p.Price,
				Discount:  discount,
			})
			total = total.Add(gross.Sub(discount))
		}
		order.TotalAmount = total

		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		return tx.InsertInvoice(ctx, &Invoice{
			ID:          uuid.NewString(),
			OrderID:     order.ID,
			InvoiceDate: time.Now().UTC(),
			TotalAmount: order.TotalAmount,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.OrderStatusChanged(ctx, order, customer.Email)
	return order, nil
}

// GenerateInvoice creates an invoice for an order that does not have one
// yet. Orders created through CreateOrder already carry theirs.
func (s *Service) GenerateInvoice(ctx context.Context, orderID string) (*Invoice, error) {
	o, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	inv := &Invoice{
		ID:          uuid.NewString(),
		OrderID:     o.ID,
		InvoiceDate: time.Now().UTC(),
		TotalAmount: o.TotalAmount,
	}
	if err := s.Store.InsertInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateStatus persists the new status and notifies the customer.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}
	if err := s.Store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}
	o, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	customer, err := s.Customers.GetCustomer(ctx, o.CustomerID)
	if err != nil {
		return err
	}
	s.Notifier.OrderStatusChanged(ctx, o, customer.Email)
	return nil
}
