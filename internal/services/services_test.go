package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"electrostore/internal/domain"
	"electrostore/internal/repos"
	"electrostore/internal/services"
)

type fixture struct {
	db       *sqlx.DB
	cart     *services.CartService
	catalog  *services.CatalogService
	orders   *services.OrderService
	checkout *services.CheckoutService
	events   *recordingPublisher
}

type recordingPublisher struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, o *domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, o.ID)
	return p.err
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.ids...)
}

// failingClear lets every cart operation through except Clear.
type failingClear struct {
	services.CartStore
}

func (failingClear) Clear(context.Context, repos.Queryer, string) (int64, error) {
	return 0, errors.New("disk I/O error")
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repos.Open(":memory:", repos.Options{Seed: true, BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	carts, prods, orders := repos.NewCartRepo(), repos.NewProductRepo(), repos.NewOrderRepo()
	pub := &recordingPublisher{}
	return &fixture{
		db:       db,
		cart:     services.NewCartService(db, carts, prods),
		catalog:  services.NewCatalogService(db, repos.NewCategoryRepo(), prods, repos.NewSupplierRepo()),
		orders:   services.NewOrderService(db, orders),
		checkout: services.NewCheckoutService(db, carts, prods, orders, repos.NewAddressRepo(), pub),
		events:   pub,
	}
}

func (f *fixture) product(t *testing.T, name, price string, stock int) domain.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(context.Background(), services.ProductInput{
		CategoryID:    "audio",
		Name:          &name,
		Price:         ptr(decimal.RequireFromString(price)),
		StockQuantity: &stock,
	})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func homeDelivery(addr, price string) services.CheckoutInput {
	return services.CheckoutInput{
		AddressID:      addr,
		PaymentMethod:  domain.PaymentCard,
		IsHomeDelivery: true,
		DeliveryPrice:  ptr(money(price)),
	}
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

func TestCheckout_TotalsAndClearsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "Cable A", "10.00", 10)
	b := f.product(t, "Cable B", "5.00", 10)

	_, err := f.cart.Add(ctx, "u-alice", a.ID, 2)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "u-alice", b.ID, 1)
	require.NoError(t, err)

	o, err := f.checkout.Checkout(ctx, "u-alice", homeDelivery("addr-alice", "3.00"))
	require.NoError(t, err)

	assert.True(t, o.TotalAmount.Equal(money("28.00")), "total %s", o.TotalAmount)
	assert.Equal(t, domain.StatusPending, o.Status)
	require.Len(t, o.Details, 2)
	prices := map[string]decimal.Decimal{}
	for _, d := range o.Details {
		prices[d.ProductID] = d.UnitPrice
	}
	assert.True(t, prices[a.ID].Equal(money("10.00")))
	assert.True(t, prices[b.ID].Equal(money("5.00")))
	assert.True(t, o.TotalAmount.Equal(o.ItemsTotal().Add(o.DeliveryPrice)))

	view, err := f.cart.View(ctx, "u-alice")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	left, err := f.catalog.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, left.StockQuantity)

	assert.Equal(t, []string{o.ID}, f.events.published())
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.checkout.Checkout(context.Background(), "u-alice", homeDelivery("addr-alice", "3.00"))
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Zero(t, countRows(t, f.db, "orders"))
	assert.Empty(t, f.events.published())
}

func TestCheckout_ValidatesBeforeTouchingAnything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.cart.Add(ctx, "u-alice", "aud-001", 1)
	require.NoError(t, err)

	_, err = f.checkout.Checkout(ctx, "u-alice", services.CheckoutInput{
		AddressID: "addr-alice", PaymentMethod: domain.PaymentCash, IsHomeDelivery: true,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "missing delivery price")

	_, err = f.checkout.Checkout(ctx, "u-alice", homeDelivery("addr-alice", "-1.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "negative delivery price")

	_, err = f.checkout.Checkout(ctx, "u-alice", services.CheckoutInput{
		AddressID: "addr-alice", PaymentMethod: "cheque",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.checkout.Checkout(ctx, "u-alice", homeDelivery("addr-bob", "3.00"))
	assert.ErrorIs(t, err, domain.ErrNotFound, "someone else's address")

	assert.Zero(t, countRows(t, f.db, "orders"))
	view, err := f.cart.View(ctx, "u-alice")
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
}

func TestCheckout_PickupIgnoresDeliveryPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Adapter", "12.50", 5)
	_, err := f.cart.Add(ctx, "u-bob", p.ID, 2)
	require.NoError(t, err)

	o, err := f.checkout.Checkout(ctx, "u-bob", services.CheckoutInput{
		AddressID: "addr-bob", PaymentMethod: domain.PaymentCash, DeliveryPrice: ptr(money("9.99")),
	})
	require.NoError(t, err)
	assert.True(t, o.DeliveryPrice.IsZero())
	assert.True(t, o.TotalAmount.Equal(money("25.00")))
}

func TestCheckout_StorageFaultLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Cable", "10.00", 10)
	_, err := f.cart.Add(ctx, "u-alice", p.ID, 2)
	require.NoError(t, err)

	co := services.NewCheckoutService(f.db, failingClear{repos.NewCartRepo()}, repos.NewProductRepo(),
		repos.NewOrderRepo(), repos.NewAddressRepo(), f.events)
	_, err = co.Checkout(ctx, "u-alice", homeDelivery("addr-alice", "3.00"))
	require.ErrorIs(t, err, domain.ErrCheckoutFailed)

	var ce *domain.CheckoutError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Cause.Error(), "disk I/O error")

	assert.Zero(t, countRows(t, f.db, "orders"))
	assert.Zero(t, countRows(t, f.db, "order_details"))
	view, err := f.cart.View(ctx, "u-alice")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	left, err := f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, left.StockQuantity, "stock reservation rolled back")
	assert.Empty(t, f.events.published())
}

func TestCheckout_InsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	plenty := f.product(t, "Plenty", "1.00", 50)
	scarce := f.product(t, "Scarce", "1.00", 1)
	_, err := f.cart.Add(ctx, "u-alice", plenty.ID, 3)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "u-alice", scarce.ID, 2)
	require.NoError(t, err)

	_, err = f.checkout.Checkout(ctx, "u-alice", homeDelivery("addr-alice", "0"))
	assert.ErrorIs(t, err, domain.ErrCheckoutFailed)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.catalog.GetProduct(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.StockQuantity)
	assert.Zero(t, countRows(t, f.db, "orders"))
}

func TestCheckout_ConcurrentCallsPlaceOneOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Cable", "10.00", 100)
	_, err := f.cart.Add(ctx, "u-alice", p.ID, 2)
	require.NoError(t, err)

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.checkout.Checkout(ctx, "u-alice", homeDelivery("addr-alice", "3.00"))
		}(i)
	}
	wg.Wait()

	var ok, empty int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrEmptyCart):
			empty++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, empty)
	assert.Equal(t, 1, countRows(t, f.db, "orders"))
	got, err := f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 98, got.StockQuantity)
}

func TestCheckout_SnapshotSurvivesPriceChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Cable", "10.00", 10)
	_, err := f.cart.Add(ctx, "u-alice", p.ID, 1)
	require.NoError(t, err)
	o, err := f.checkout.Checkout(ctx, "u-alice", homeDelivery("addr-alice", "0"))
	require.NoError(t, err)

	_, err = f.catalog.UpdateProduct(ctx, p.ID, services.ProductInput{Price: ptr(money("99.00"))})
	require.NoError(t, err)

	again, err := f.orders.Get(ctx, &domain.User{ID: "u-alice", Role: domain.RoleUser}, o.ID)
	require.NoError(t, err)
	require.Len(t, again.Details, 1)
	assert.True(t, again.Details[0].UnitPrice.Equal(money("10.00")))
	assert.True(t, again.TotalAmount.Equal(money("10.00")))
}

func TestCheckout_UsesDiscountedPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	// pho-001 is 799.00 with a 10% discount.
	_, err := f.cart.Add(ctx, "u-bob", "pho-001", 1)
	require.NoError(t, err)
	o, err := f.checkout.Checkout(ctx, "u-bob", homeDelivery("addr-bob", "5.00"))
	require.NoError(t, err)
	assert.True(t, o.Details[0].UnitPrice.Equal(money("719.10")), "got %s", o.Details[0].UnitPrice)
	assert.True(t, o.TotalAmount.Equal(money("724.10")))
}

func TestCheckout_PublishFailureKeepsOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.events.err = errors.New("broker down")
	_, err := f.cart.Add(ctx, "u-alice", "aud-001", 1)
	require.NoError(t, err)

	o, err := f.checkout.Checkout(ctx, "u-alice", homeDelivery("addr-alice", "0"))
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, 1, countRows(t, f.db, "orders"))
}

func TestCart_AddMergesAndValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.cart.Add(ctx, "u-alice", "lap-001", 2)
	require.NoError(t, err)
	line, err := f.cart.Add(ctx, "u-alice", "lap-001", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	view, err := f.cart.View(ctx, "u-alice")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.True(t, view.Total.Equal(money("7495.00")))

	_, err = f.cart.Add(ctx, "u-alice", "lap-001", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.cart.Add(ctx, "u-alice", "nope", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.cart.Update(ctx, "u-alice", "aud-001", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	line, err = f.cart.Update(ctx, "u-alice", "lap-001", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	require.NoError(t, f.cart.Clear(ctx, "u-alice"))
	require.NoError(t, f.cart.Clear(ctx, "u-alice"))
	assert.ErrorIs(t, f.cart.Remove(ctx, "u-alice", "lap-001"), domain.ErrNotFound)
}

func TestOrders_OwnershipAndPaging(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.cart.Add(ctx, "u-alice", "aud-001", 1)
		require.NoError(t, err)
		_, err = f.checkout.Checkout(ctx, "u-alice", homeDelivery("addr-alice", "0"))
		require.NoError(t, err)
	}

	page, err := f.orders.ListForUser(ctx, "u-alice", 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.GreaterOrEqual(t, page[0].CreatedAt, page[1].CreatedAt)
	assert.Equal(t, "WH-1000XM5", page[0].Details[0].ProductName)

	rest, err := f.orders.ListForUser(ctx, "u-alice", 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	_, err = f.orders.Get(ctx, &domain.User{ID: "u-bob", Role: domain.RoleUser}, page[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.orders.Get(ctx, &domain.User{ID: "u-admin", Role: domain.RoleAdmin}, page[0].ID)
	assert.NoError(t, err)
}

func TestOrders_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.cart.Add(ctx, "u-alice", "aud-001", 1)
	require.NoError(t, err)
	o, err := f.checkout.Checkout(ctx, "u-alice", homeDelivery("addr-alice", "0"))
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(ctx, o.ID, "shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "pending cannot ship")
	_, err = f.orders.UpdateStatus(ctx, o.ID, "lost")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.orders.UpdateStatus(ctx, "missing", "paid")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, st := range []string{"paid", "PAID", "shipped", "completed"} {
		got, err := f.orders.UpdateStatus(ctx, o.ID, st)
		require.NoError(t, err, st)
		assert.Equal(t, domain.OrderStatus(strings.ToLower(st)), got.Status)
	}
	_, err = f.orders.UpdateStatus(ctx, o.ID, "cancelled")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "completed is terminal")

	latest, err := f.orders.ListLatest(ctx, 10)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, domain.StatusCompleted, latest[0].Status)
}

func TestCatalog_AdminInputs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.catalog.CreateProduct(ctx, services.ProductInput{CategoryID: "audio", Name: ptr("X"), Price: ptr(money("1.999"))})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.catalog.CreateProduct(ctx, services.ProductInput{CategoryID: "nope", Name: ptr("X"), Price: ptr(money("1"))})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.catalog.UpdateProduct(ctx, "aud-001", services.ProductInput{
		Discount: &decimal.NullDecimal{Decimal: money("150"), Valid: true},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	sup, err := f.catalog.CreateSupplier(ctx, services.SupplierInput{Name: "Acme", Email: "sales@acme.test"})
	require.NoError(t, err)
	require.NoError(t, f.catalog.LinkSupplier(ctx, "pho-001", sup.ID, money("500.00")))
	links, err := f.catalog.ProductSuppliers(ctx, "pho-001")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Acme", links[0].SupplierName)

	prods, err := f.catalog.ListProductsByCategory(ctx, "phones", 1, 0)
	require.NoError(t, err)
	assert.Len(t, prods, 1)
}
