package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"electrostore/internal/domain"
	"electrostore/internal/validate"
)

type AddressService struct {
	DB    *sqlx.DB
	Addrs AddressStore
}

func NewAddressService(db *sqlx.DB, addrs AddressStore) *AddressService {
	return &AddressService{DB: db, Addrs: addrs}
}

type AddressInput struct {
	Address    string           `json:"address"`
	Label      string           `json:"label"`
	Latitude   *decimal.Decimal `json:"latitude"`
	Longitude  *decimal.Decimal `json:"longitude"`
	StreetName string           `json:"streetname"`
}

func (s *AddressService) Create(ctx context.Context, userID string, in AddressInput) (domain.Address, error) {
	line, ok := validate.Text(in.Address, 1, 255)
	if !ok {
		return domain.Address{}, fmt.Errorf("%w: address must be 1-255 characters", domain.ErrInvalidArgument)
	}
	label, ok := validate.Text(in.Label, 0, 50)
	if !ok {
		return domain.Address{}, fmt.Errorf("%w: label must be at most 50 characters", domain.ErrInvalidArgument)
	}
	a := domain.Address{ID: uuid.NewString(), UserID: userID, Address: line, Label: label, StreetName: in.StreetName}
	if in.Latitude != nil {
		if in.Latitude.Abs().GreaterThan(decimal.NewFromInt(90)) {
			return domain.Address{}, fmt.Errorf("%w: latitude out of range", domain.ErrInvalidArgument)
		}
		a.Latitude = decimal.NewNullDecimal(*in.Latitude)
	}
	if in.Longitude != nil {
		if in.Longitude.Abs().GreaterThan(decimal.NewFromInt(180)) {
			return domain.Address{}, fmt.Errorf("%w: longitude out of range", domain.ErrInvalidArgument)
		}
		a.Longitude = decimal.NewNullDecimal(*in.Longitude)
	}
	if err := s.Addrs.Create(ctx, s.DB, &a); err != nil {
		return domain.Address{}, err
	}
	return a, nil
}

func (s *AddressService) List(ctx context.Context, userID string) ([]domain.Address, error) {
	return s.Addrs.ListByUser(ctx, s.DB, userID)
}

// Get resolves an address only for its owner.
func (s *AddressService) Get(ctx context.Context, userID, id string) (domain.Address, error) {
	return s.Addrs.GetForUser(ctx, s.DB, userID, id)
}
