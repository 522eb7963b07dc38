package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/wojp/backoffice/internal/model"
)

// CreateJob inserts a new job posting. Returns ErrDuplicate on a slug
// collision.
func (s *Store) CreateJob(ctx context.Context, job *model.Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	const q = `INSERT INTO jobs
		(title, slug, description, requirements, location, employment_type,
			salary_range, is_published, published_at, closing_date, author_id,
			created_at, updated_at)
		VALUES
		(:title, :slug, :description, :requirements, :location, :employment_type,
			:salary_range, :is_published, :published_at, :closing_date, :author_id,
			:created_at, :updated_at)`

	result, err := s.db.NamedExecContext(ctx, q, job)
	if err != nil {
		return translate(err, "insert job")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return translate(err, "get job id")
	}
	job.ID = id
	return nil
}

// GetJobByID returns one job posting.
func (s *Store) GetJobByID(ctx context.Context, id int64) (*model.Job, error) {
	var job model.Job
	if err := s.db.GetContext(ctx, &job, "SELECT * FROM jobs WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, translate(err, "get job by id")
	}
	return &job, nil
}

// ListJobs returns all job postings, newest first.
func (s *Store) ListJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	if err := s.db.SelectContext(ctx, &jobs,
		"SELECT * FROM jobs ORDER BY created_at DESC, id DESC"); err != nil {
		return nil, translate(err, "list jobs")
	}
	return jobs, nil
}

// UpdateJob replaces the mutable fields of a job posting.
func (s *Store) UpdateJob(ctx context.Context, job *model.Job) error {
	job.UpdatedAt = time.Now().UTC()

	const q = `UPDATE jobs SET
		title = :title, slug = :slug, description = :description,
		requirements = :requirements, location = :location,
		employment_type = :employment_type, salary_range = :salary_range,
		is_published = :is_published, published_at = :published_at,
		closing_date = :closing_date, updated_at = :updated_at
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, q, job)
	if err != nil {
		return translate(err, "update job")
	}
	return rowsAffected(result, "update job")
}

// DeleteJob removes a job posting.
func (s *Store) DeleteJob(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return translate(err, "delete job")
	}
	return rowsAffected(result, "delete job")
}

// JobSlugTaken reports whether slug is used by a posting other than
// excludeID. Pass 0 to check against all postings.
func (s *Store) JobSlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM jobs WHERE slug = ? AND id != ?", slug, excludeID); err != nil {
		return false, translate(err, "check job slug")
	}
	return count > 0, nil
}
