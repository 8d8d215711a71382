package services

import (
	"context"

	"electrostore/internal/domain"
	"electrostore/internal/repos"
)

// The stores below are implemented by the repos package. Every method takes
// the Queryer (db or tx) its statements run on.

type CartStore interface {
	Lines(ctx context.Context, q repos.Queryer, userID string, lock bool) ([]domain.CartLine, error)
	Line(ctx context.Context, q repos.Queryer, userID, productID string) (domain.CartLine, error)
	Add(ctx context.Context, q repos.Queryer, userID, productID string, qty int) error
	SetQuantity(ctx context.Context, q repos.Queryer, userID, productID string, qty int) error
	Remove(ctx context.Context, q repos.Queryer, userID, productID string) error
	Clear(ctx context.Context, q repos.Queryer, userID string) (int64, error)
}

type ProductStore interface {
	Get(ctx context.Context, q repos.Queryer, id string) (domain.Product, error)
	ListByCategory(ctx context.Context, q repos.Queryer, catID string, limit, offset int) ([]domain.Product, error)
	Create(ctx context.Context, q repos.Queryer, p *domain.Product) error
	Update(ctx context.Context, q repos.Queryer, p *domain.Product) error
	ReserveStock(ctx context.Context, q repos.Queryer, productID string, qty int) error
}

type OrderStore interface {
	Create(ctx context.Context, q repos.Queryer, o *domain.Order) error
	InsertDetail(ctx context.Context, q repos.Queryer, d *domain.OrderDetail) error
	Get(ctx context.Context, q repos.Queryer, id string) (*domain.Order, error)
	GetForUpdate(ctx context.Context, q repos.Queryer, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, q repos.Queryer, userID string, limit, offset int) ([]domain.Order, error)
	ListLatest(ctx context.Context, q repos.Queryer, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, q repos.Queryer, id string, status domain.OrderStatus) error
}

type AddressStore interface {
	Create(ctx context.Context, q repos.Queryer, a *domain.Address) error
	GetForUser(ctx context.Context, q repos.Queryer, userID, id string) (domain.Address, error)
	ListByUser(ctx context.Context, q repos.Queryer, userID string) ([]domain.Address, error)
}

var (
	_ CartStore    = (*repos.CartRepo)(nil)
	_ ProductStore = (*repos.ProductRepo)(nil)
	_ OrderStore   = (*repos.OrderRepo)(nil)
	_ AddressStore = (*repos.AddressRepo)(nil)
)

// pageBounds turns 1-based paging input into LIMIT/OFFSET.
func pageBounds(page, pageSize, def, max int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = def
	}
	if pageSize > max {
		pageSize = max
	}
	return pageSize, (page - 1) * pageSize
}
