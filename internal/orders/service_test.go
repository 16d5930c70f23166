package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ariefcatur/go-order-management.git/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore implements Store with copy-on-commit transactions so a failed
// create leaves products untouched, like the real Postgres transaction.
type memStore struct {
	products map[string]catalog.Product
	orders   map[string]*Order
	invoices map[string]*Invoice // keyed by invoice id
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]catalog.Product{},
		orders:   map[string]*Order{},
		invoices: map[string]*Invoice{},
	}
}

func (m *memStore) InTx(_ context.Context, fn func(tx Tx) error) error {
	tx := &memTx{products: map[string]catalog.Product{}}
	for k, v := range m.products {
		tx.products[k] = v
	}
	if err := fn(tx); err != nil {
		return err
	}
	m.products = tx.products
	for _, o := range tx.orders {
		m.orders[o.ID] = o
	}
	for _, inv := range tx.invoices {
		m.invoices[inv.ID] = inv
	}
	return nil
}

type memTx struct {
	products map[string]catalog.Product
	orders   []*Order
	invoices []*Invoice
}

func (t *memTx) ProductForUpdate(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := t.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrProductNotFound, id)
	}
	cp := p
	return &cp, nil
}

func (t *memTx) SetProductStock(_ context.Context, id string, stock int) error {
	p := t.products[id]
	p.Stock = stock
	t.products[id] = p
	return nil
}

func (t *memTx) InsertOrder(_ context.Context, o *Order) error {
	t.orders = append(t.orders, o)
	return nil
}

func (t *memTx) InsertInvoice(_ context.Context, inv *Invoice) error {
	t.invoices = append(t.invoices, inv)
	return nil
}

func (m *memStore) GetOrder(_ context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return o, nil
}

func (m *memStore) ListOrders(_ context.Context) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *memStore) ListOrdersByCustomer(_ context.Context, customerID string) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, id string, status Status) error {
	o, ok := m.orders[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	o.Status = status
	return nil
}

func (m *memStore) InsertInvoice(_ context.Context, inv *Invoice) error {
	for _, existing := range m.invoices {
		if existing.OrderID == inv.OrderID {
			return fmt.Errorf("%w: %s", ErrInvoiceExists, inv.OrderID)
		}
	}
	m.invoices[inv.ID] = inv
	return nil
}

func (m *memStore) GetInvoice(_ context.Context, id string) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}
	return inv, nil
}

func (m *memStore) ListInvoices(_ context.Context) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range m.invoices {
		out = append(out, *inv)
	}
	return out, nil
}

func (m *memStore) invoiceForOrder(orderID string) *Invoice {
	for _, inv := range m.invoices {
		if inv.OrderID == orderID {
			return inv
		}
	}
	return nil
}

type memCustomers struct {
	customers map[string]catalog.Customer
}

func (m *memCustomers) GetCustomer(_ context.Context, id string) (*catalog.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrCustomerNotFound, id)
	}
	return &c, nil
}

type sentNote struct {
	orderID string
	status  Status
	email   string
}

type noteRecorder struct {
	sent []sentNote
}

func (n *noteRecorder) OrderStatusChanged(_ context.Context, o *Order, email string) {
	n.sent = append(n.sent, sentNote{orderID: o.ID, status: o.Status, email: email})
}

func newFixture() (*Service, *memStore, *noteRecorder) {
	store := newMemStore()
	customers := &memCustomers{customers: map[string]catalog.Customer{
		"cust-1": {ID: "cust-1", Name: "Ada", Email: "ada@example.com", CreatedAt: time.Now()},
	}}
	rec := &noteRecorder{}
	return &Service{Store: store, Customers: customers, Notifier: rec}, store, rec
}

func addProduct(store *memStore, id, price string, stock int) {
	store.products[id] = catalog.Product{
		ID:    id,
		Name:  "product " + id,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

func eqDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func TestCreateOrderAppliesDiscountAndDecrementsStock(t *testing.T) {
	svc, store, rec := newFixture()
	addProduct(store, "p1", "100", 10)

	o, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    "cust-1",
		PaymentMethod: "CreditCard",
		Items:         []ItemInput{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)

	// gross 200 sits on the strict 10% boundary, so the 5% tier applies
	eqDec(t, "190", o.TotalAmount)
	require.Len(t, o.Items, 1)
	eqDec(t, "100", o.Items[0].UnitPrice)
	eqDec(t, "10", o.Items[0].Discount)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 8, store.products["p1"].Stock)

	inv := store.invoiceForOrder(o.ID)
	require.NotNil(t, inv, "invoice must be created with the order")
	eqDec(t, "190", inv.TotalAmount)
	assert.True(t, inv.TotalAmount.Equal(o.TotalAmount))

	require.Len(t, rec.sent, 1)
	assert.Equal(t, StatusPending, rec.sent[0].status)
	assert.Equal(t, "ada@example.com", rec.sent[0].email)
}

func TestCreateOrderTenPercentTierAboveBoundary(t *testing.T) {
	svc, store, _ := newFixture()
	addProduct(store, "p1", "200.01", 5)

	o, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    "cust-1",
		PaymentMethod: "CreditCard",
		Items:         []ItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	// 200.01 - 20.00 after rounding the discount to cents
	eqDec(t, "180.01", o.TotalAmount)
	eqDec(t, "20", o.Items[0].Discount)
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	svc, store, rec := newFixture()
	addProduct(store, "p1", "10", 100)
	addProduct(store, "p2", "10", 1)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    "cust-1",
		PaymentMethod: "CreditCard",
		Items: []ItemInput{
			{ProductID: "p1", Quantity: 3},
			{ProductID: "p2", Quantity: 5},
		},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// the first line's decrement must not survive the failure
	assert.Equal(t, 100, store.products["p1"].Stock)
	assert.Equal(t, 1, store.products["p2"].Stock)
	assert.Empty(t, store.orders)
	assert.Empty(t, store.invoices)
	assert.Empty(t, rec.sent)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    "cust-1",
		PaymentMethod: "CreditCard",
		Items:         []ItemInput{{ProductID: "ghost", Quantity: 1}},
	})
	require.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	svc, store, _ := newFixture()
	addProduct(store, "p1", "10", 10)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    "nobody",
		PaymentMethod: "CreditCard",
		Items:         []ItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.ErrorIs(t, err, catalog.ErrCustomerNotFound)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, store, _ := newFixture()
	addProduct(store, "p1", "10", 10)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: "cust-1", PaymentMethod: "CreditCard",
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    "cust-1",
		PaymentMethod: "CreditCard",
		Items:         []ItemInput{{ProductID: "p1", Quantity: 0}},
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: "cust-1",
		Items:      []ItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrderSnapshotsUnitPrice(t *testing.T) {
	svc, store, _ := newFixture()
	addProduct(store, "p1", "42.50", 10)

	o, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    "cust-1",
		PaymentMethod: "Cash",
		Items:         []ItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	// later price changes must not touch the captured item price
	p := store.products["p1"]
	p.Price = decimal.RequireFromString("99.99")
	store.products["p1"] = p

	got, err := svc.Store.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	eqDec(t, "42.50", got.Items[0].UnitPrice)
}

func TestUpdateStatusNotifiesCustomer(t *testing.T) {
	svc, store, rec := newFixture()
	addProduct(store, "p1", "10", 10)

	o, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    "cust-1",
		PaymentMethod: "CreditCard",
		Items:         []ItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Len(t, rec.sent, 1) // the Pending notification

	require.NoError(t, svc.UpdateStatus(context.Background(), o.ID, StatusShipped))

	assert.Equal(t, StatusShipped, store.orders[o.ID].Status)
	require.Len(t, rec.sent, 2)
	assert.Equal(t, StatusShipped, rec.sent[1].status)
	assert.Equal(t, "ada@example.com", rec.sent[1].email)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _, _ := newFixture()
	err := svc.UpdateStatus(context.Background(), "ghost", StatusShipped)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc, _, _ := newFixture()
	err := svc.UpdateStatus(context.Background(), "whatever", Status("Lost"))
	require.ErrorIs(t, err, ErrValidation)
}

func TestGenerateInvoiceMatchesOrderTotal(t *testing.T) {
	svc, store, _ := newFixture()
	addProduct(store, "p1", "120", 10)

	o, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:    "cust-1",
		PaymentMethod: "CreditCard",
		Items:         []ItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	// the order already has its invoice; a second one is refused
	_, err = svc.GenerateInvoice(context.Background(), o.ID)
	require.ErrorIs(t, err, ErrInvoiceExists)

	// fabricate an order without an invoice to exercise the standalone path
	bare := &Order{ID: "manual-1", CustomerID: "cust-1", TotalAmount: decimal.RequireFromString("77.70"), Status: StatusPending}
	store.orders[bare.ID] = bare

	inv, err := svc.GenerateInvoice(context.Background(), bare.ID)
	require.NoError(t, err)
	assert.True(t, inv.TotalAmount.Equal(bare.TotalAmount))
	assert.False(t, inv.InvoiceDate.IsZero())

	_, err = svc.GenerateInvoice(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrOrderNotFound)
}
