package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Product struct {
	ID            string          `db:"id" json:"id"`
	CategoryID    string          `db:"category_id" json:"category_id"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	Brand         string          `db:"brand" json:"brand"`
	Price         decimal.Decimal `db:"price" json:"price"`
	StockQuantity int             `db:"stock_quantity" json:"stock_quantity"`
	// Discount is a percentage in [0,100]; NULL means none.
	Discount  decimal.NullDecimal `db:"discount" json:"discount"`
	CreatedAt string              `db:"created_at" json:"created_at"`
	UpdatedAt string              `db:"updated_at" json:"updated_at"`
}

// UnitPrice is the price a buyer pays right now: list price less discount,
// rounded to cents.
func (p Product) UnitPrice() decimal.Decimal {
	if !p.Discount.Valid || p.Discount.Decimal.IsZero() {
		return p.Price.Round(2)
	}
	off := p.Price.Mul(p.Discount.Decimal).Div(decimal.NewFromInt(100))
	return p.Price.Sub(off).Round(2)
}

type Supplier struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
	Phone string `db:"phone" json:"phone"`
}

type ProductSupplier struct {
	ProductID    string          `db:"product_id" json:"product_id"`
	SupplierID   string          `db:"supplier_id" json:"supplier_id"`
	SupplierName string          `db:"supplier_name" json:"supplier_name"`
	SupplyPrice  decimal.Decimal `db:"supply_price" json:"supply_price"`
}

type Address struct {
	ID         string              `db:"id" json:"id"`
	UserID     string              `db:"user_id" json:"user_id"`
	Address    string              `db:"address" json:"address"`
	Label      string              `db:"label" json:"label"`
	Latitude   decimal.NullDecimal `db:"latitude" json:"latitude"`
	Longitude  decimal.NullDecimal `db:"longitude" json:"longitude"`
	StreetName string              `db:"streetname" json:"streetname"`
	CreatedAt  string              `db:"created_at" json:"created_at"`
}

// CartLine is one (user, product, quantity) row joined with the product's
// current catalog data.
type CartLine struct {
	UserID        string              `db:"user_id" json:"-"`
	ProductID     string              `db:"product_id" json:"product_id"`
	Quantity      int                 `db:"quantity" json:"quantity"`
	Name          string              `db:"name" json:"name"`
	Price         decimal.Decimal     `db:"price" json:"price"`
	Discount      decimal.NullDecimal `db:"discount" json:"-"`
	StockQuantity int                 `db:"stock_quantity" json:"-"`
}

func (l CartLine) UnitPrice() decimal.Decimal {
	return Product{Price: l.Price, Discount: l.Discount}.UnitPrice()
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}
