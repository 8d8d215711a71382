package repos

import (
	"context"

	"electrostore/internal/domain"
)

type CategoryRepo struct{}

func NewCategoryRepo() *CategoryRepo { return &CategoryRepo{} }

func (r *CategoryRepo) List(ctx context.Context, q Queryer) ([]domain.Category, error) {
	out := []domain.Category{}
	err := sel(ctx, q, &out, `SELECT id, name, created_at FROM categories ORDER BY name`)
	return out, err
}

func (r *CategoryRepo) Get(ctx context.Context, q Queryer, id string) (domain.Category, error) {
	var c domain.Category
	err := get(ctx, q, &c, `SELECT id, name, created_at FROM categories WHERE id = ?`, id)
	return c, notFound(err, "category "+id)
}
