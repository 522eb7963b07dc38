package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/wojp/backoffice/internal/model"
)

// CreateNewsCategory inserts a category. Returns ErrDuplicate when the name
// or slug is already taken.
func (s *Store) CreateNewsCategory(ctx context.Context, cat *model.NewsCategory) error {
	now := time.Now().UTC()
	cat.CreatedAt = now
	cat.UpdatedAt = now

	const q = `INSERT INTO news_categories
		(name, slug, color, sort_order, created_at, updated_at)
		VALUES
		(:name, :slug, :color, :sort_order, :created_at, :updated_at)`

	result, err := s.db.NamedExecContext(ctx, q, cat)
	if err != nil {
		return translate(err, "insert news category")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return translate(err, "get news category id")
	}
	cat.ID = id
	return nil
}

// GetNewsCategoryByID returns one category.
func (s *Store) GetNewsCategoryByID(ctx context.Context, id int64) (*model.NewsCategory, error) {
	var cat model.NewsCategory
	if err := s.db.GetContext(ctx, &cat,
		"SELECT * FROM news_categories WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translate(err, "get news category")
	}
	return &cat, nil
}

// ListNewsCategories returns all categories in display order.
func (s *Store) ListNewsCategories(ctx context.Context) ([]model.NewsCategory, error) {
	var cats []model.NewsCategory
	if err := s.db.SelectContext(ctx, &cats,
		"SELECT * FROM news_categories ORDER BY sort_order, name"); err != nil {
		return nil, translate(err, "list news categories")
	}
	return cats, nil
}

// UpdateNewsCategory replaces the mutable fields of a category.
func (s *Store) UpdateNewsCategory(ctx context.Context, cat *model.NewsCategory) error {
	cat.UpdatedAt = time.Now().UTC()

	const q = `UPDATE news_categories SET
		name = :name, slug = :slug, color = :color, sort_order = :sort_order,
		updated_at = :updated_at
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, q, cat)
	if err != nil {
		return translate(err, "update news category")
	}
	return rowsAffected(result, "update news category")
}

// DeleteNewsCategory removes a category. Articles keep their category string;
// there is no foreign key between news and the category master.
func (s *Store) DeleteNewsCategory(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM news_categories WHERE id = ?", id)
	if err != nil {
		return translate(err, "delete news category")
	}
	return rowsAffected(result, "delete news category")
}
