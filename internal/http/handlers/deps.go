package handlers

import (
	"github.com/jmoiron/sqlx"

	"electrostore/internal/events"
	"electrostore/internal/repos"
	"electrostore/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler    *AuthHandler
	CatalogHandler *CatalogHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AddressHandler *AddressHandler
	AdminHandler   *AdminHandler
}

func NewDeps(db *sqlx.DB, pub events.Publisher) *Deps {
	catRepo := repos.NewCategoryRepo()
	prodRepo := repos.NewProductRepo()
	supRepo := repos.NewSupplierRepo()
	cartRepo := repos.NewCartRepo()
	orderRepo := repos.NewOrderRepo()
	addrRepo := repos.NewAddressRepo()
	userRepo := repos.NewUserRepo()

	authSvc := services.NewAuthService(db, userRepo)
	catalogSvc := services.NewCatalogService(db, catRepo, prodRepo, supRepo)
	cartSvc := services.NewCartService(db, cartRepo, prodRepo)
	addrSvc := services.NewAddressService(db, addrRepo)
	orderSvc := services.NewOrderService(db, orderRepo)
	checkoutSvc := services.NewCheckoutService(db, cartRepo, prodRepo, orderRepo, addrRepo, pub)

	return &Deps{
		Auth:           authSvc,
		AuthHandler:    &AuthHandler{Auth: authSvc},
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Checkout: checkoutSvc, Orders: orderSvc},
		AddressHandler: &AddressHandler{Addrs: addrSvc},
		AdminHandler:   &AdminHandler{Orders: orderSvc},
	}
}
