package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"electrostore/internal/domain"
	"electrostore/internal/repos"
	"electrostore/internal/validate"
)

type CatalogService struct {
	DB        *sqlx.DB
	Cats      *repos.CategoryRepo
	Prods     ProductStore
	Suppliers *repos.SupplierRepo
}

func NewCatalogService(db *sqlx.DB, cats *repos.CategoryRepo, prods ProductStore, sups *repos.SupplierRepo) *CatalogService {
	return &CatalogService{DB: db, Cats: cats, Prods: prods, Suppliers: sups}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Cats.List(ctx, s.DB)
}

func (s *CatalogService) ListProductsByCategory(ctx context.Context, catID string, page, pageSize int) ([]domain.Product, error) {
	if _, err := s.Cats.Get(ctx, s.DB, catID); err != nil {
		return nil, err
	}
	limit, offset := pageBounds(page, pageSize, 12, 100)
	return s.Prods.ListByCategory(ctx, s.DB, catID, limit, offset)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Prods.Get(ctx, s.DB, id)
}

// ProductInput is the allow-listed shape an admin may write. Fields left nil
// on update keep their stored value.
type ProductInput struct {
	CategoryID    string               `json:"category_id"`
	Name          *string              `json:"name"`
	Description   *string              `json:"description"`
	Brand         *string              `json:"brand"`
	Price         *decimal.Decimal     `json:"price"`
	StockQuantity *int                 `json:"stock_quantity"`
	Discount      *decimal.NullDecimal `json:"discount"`
}

func (in ProductInput) apply(p *domain.Product) error {
	if in.Name != nil {
		name, ok := validate.Text(*in.Name, 1, 200)
		if !ok {
			return fmt.Errorf("%w: name must be 1-200 characters", domain.ErrInvalidArgument)
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Price != nil {
		if !validate.Money(*in.Price) {
			return fmt.Errorf("%w: price must be a non-negative amount with at most 2 decimals", domain.ErrInvalidArgument)
		}
		p.Price = *in.Price
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return fmt.Errorf("%w: stock_quantity must be >= 0", domain.ErrInvalidArgument)
		}
		p.StockQuantity = *in.StockQuantity
	}
	if in.Discount != nil {
		if in.Discount.Valid && !validate.Percent(in.Discount.Decimal) {
			return fmt.Errorf("%w: discount must be within 0..100", domain.ErrInvalidArgument)
		}
		p.Discount = *in.Discount
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	if in.Name == nil || in.Price == nil {
		return domain.Product{}, fmt.Errorf("%w: name and price are required", domain.ErrInvalidArgument)
	}
	if _, err := s.Cats.Get(ctx, s.DB, in.CategoryID); err != nil {
		return domain.Product{}, err
	}
	p := domain.Product{ID: uuid.NewString(), CategoryID: in.CategoryID}
	if err := in.apply(&p); err != nil {
		return domain.Product{}, err
	}
	if err := s.Prods.Create(ctx, s.DB, &p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(ctx, s.DB, p.ID)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (domain.Product, error) {
	var out domain.Product
	err := repos.WithTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		p, err := s.Prods.Get(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := in.apply(&p); err != nil {
			return err
		}
		if err := s.Prods.Update(ctx, tx, &p); err != nil {
			return err
		}
		out, err = s.Prods.Get(ctx, tx, id)
		return err
	})
	return out, err
}

type SupplierInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *CatalogService) CreateSupplier(ctx context.Context, in SupplierInput) (domain.Supplier, error) {
	name, ok := validate.Text(in.Name, 1, 200)
	if !ok {
		return domain.Supplier{}, fmt.Errorf("%w: supplier name must be 1-200 characters", domain.ErrInvalidArgument)
	}
	email := in.Email
	if email != "" {
		if email, ok = validate.Email(email); !ok {
			return domain.Supplier{}, fmt.Errorf("%w: invalid supplier email", domain.ErrInvalidArgument)
		}
	}
	sup := domain.Supplier{ID: uuid.NewString(), Name: name, Email: email, Phone: in.Phone}
	if err := s.Suppliers.Create(ctx, s.DB, &sup); err != nil {
		return domain.Supplier{}, err
	}
	return sup, nil
}

func (s *CatalogService) LinkSupplier(ctx context.Context, productID, supplierID string, supplyPrice decimal.Decimal) error {
	if !validate.Money(supplyPrice) {
		return fmt.Errorf("%w: supply_price must be a non-negative amount", domain.ErrInvalidArgument)
	}
	if _, err := s.Prods.Get(ctx, s.DB, productID); err != nil {
		return err
	}
	if _, err := s.Suppliers.Get(ctx, s.DB, supplierID); err != nil {
		return err
	}
	return s.Suppliers.Link(ctx, s.DB, domain.ProductSupplier{ProductID: productID, SupplierID: supplierID, SupplyPrice: supplyPrice})
}

func (s *CatalogService) ProductSuppliers(ctx context.Context, productID string) ([]domain.ProductSupplier, error) {
	if _, err := s.Prods.Get(ctx, s.DB, productID); err != nil {
		return nil, err
	}
	return s.Suppliers.ListForProduct(ctx, s.DB, productID)
}
