package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/wojp/backoffice/internal/model"
)

// CreateNews inserts a new article. Returns ErrDuplicate on a slug collision.
func (s *Store) CreateNews(ctx context.Context, article *model.News) error {
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	const q = `INSERT INTO news
		(title, slug, content, excerpt, thumbnail_url, category, is_published,
			published_at, author_id, created_at, updated_at)
		VALUES
		(:title, :slug, :content, :excerpt, :thumbnail_url, :category, :is_published,
			:published_at, :author_id, :created_at, :updated_at)`

	result, err := s.db.NamedExecContext(ctx, q, article)
	if err != nil {
		return translate(err, "insert news")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return translate(err, "get news id")
	}
	article.ID = id
	return nil
}

// GetNewsByID returns one article.
func (s *Store) GetNewsByID(ctx context.Context, id int64) (*model.News, error) {
	var article model.News
	if err := s.db.GetContext(ctx, &article, "SELECT * FROM news WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translate(err, "get news by id")
	}
	return &article, nil
}

// ListNews returns all articles, newest first.
func (s *Store) ListNews(ctx context.Context) ([]model.News, error) {
	var articles []model.News
	if err := s.db.SelectContext(ctx, &articles,
		"SELECT * FROM news ORDER BY created_at DESC, id DESC"); err != nil {
		return nil, translate(err, "list news")
	}
	return articles, nil
}

// UpdateNews replaces the mutable fields of an article.
func (s *Store) UpdateNews(ctx context.Context, article *model.News) error {
	article.UpdatedAt = time.Now().UTC()

	const q = `UPDATE news SET
		title = :title, slug = :slug, content = :content, excerpt = :excerpt,
		thumbnail_url = :thumbnail_url, category = :category,
		is_published = :is_published, published_at = :published_at,
		updated_at = :updated_at
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, q, article)
	if err != nil {
		return translate(err, "update news")
	}
	return rowsAffected(result, "update news")
}

// DeleteNews removes an article.
func (s *Store) DeleteNews(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM news WHERE id = ?", id)
	if err != nil {
		return translate(err, "delete news")
	}
	return rowsAffected(result, "delete news")
}

// NewsSlugTaken reports whether slug is used by an article other than
// excludeID. Pass 0 to check against all articles.
func (s *Store) NewsSlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM news WHERE slug = ? AND id != ?", slug, excludeID); err != nil {
		return false, translate(err, "check news slug")
	}
	return count > 0, nil
}
