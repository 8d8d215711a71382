package repos

import (
	"context"

	"electrostore/internal/domain"
)

type AddressRepo struct{}

func NewAddressRepo() *AddressRepo { return &AddressRepo{} }

const addressCols = `id, user_id, address, label, latitude, longitude, streetname, created_at`

func (r *AddressRepo) Create(ctx context.Context, q Queryer, a *domain.Address) error {
	a.CreatedAt = now()
	_, err := exec(ctx, q, `
	  INSERT INTO addresses(id, user_id, address, label, latitude, longitude, streetname, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.UserID, a.Address, a.Label, a.Latitude, a.Longitude, a.StreetName, a.CreatedAt)
	return err
}

// GetForUser resolves an address only if userID owns it.
func (r *AddressRepo) GetForUser(ctx context.Context, q Queryer, userID, id string) (domain.Address, error) {
	var a domain.Address
	err := get(ctx, q, &a, `SELECT `+addressCols+` FROM addresses WHERE id = ? AND user_id = ?`, id, userID)
	return a, notFound(err, "address "+id)
}

func (r *AddressRepo) ListByUser(ctx context.Context, q Queryer, userID string) ([]domain.Address, error) {
	out := []domain.Address{}
	err := sel(ctx, q, &out, `SELECT `+addressCols+` FROM addresses WHERE user_id = ? ORDER BY created_at, id`, userID)
	return out, err
}
