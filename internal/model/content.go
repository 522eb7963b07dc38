package model

import "time"

// News is a published or draft news article. The slug is the public URL
// fragment and must be unique across all articles.
type News struct {
	ID           int64      `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Slug         string     `json:"slug" db:"slug"`
	Content      string     `json:"content" db:"content"`
	Excerpt      *string    `json:"excerpt,omitempty" db:"excerpt"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Category     string     `json:"category" db:"category"`
	IsPublished  bool       `json:"is_published" db:"is_published"`
	PublishedAt  *time.Time `json:"published_at,omitempty" db:"published_at"`
	AuthorID     int64      `json:"author_id" db:"author_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Employment types for job postings.
const (
	EmploymentFullTime   = "full_time"
	EmploymentPartTime   = "part_time"
	EmploymentContract   = "contract"
	EmploymentInternship = "internship"
)

// Job is a job posting managed through the panel.
type Job struct {
	ID             int64      `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Slug           string     `json:"slug" db:"slug"`
	Description    string     `json:"description" db:"description"`
	Requirements   *string    `json:"requirements,omitempty" db:"requirements"`
	Location       *string    `json:"location,omitempty" db:"location"`
	EmploymentType string     `json:"employment_type" db:"employment_type"`
	SalaryRange    *string    `json:"salary_range,omitempty" db:"salary_range"`
	IsPublished    bool       `json:"is_published" db:"is_published"`
	PublishedAt    *time.Time `json:"published_at,omitempty" db:"published_at"`
	ClosingDate    *time.Time `json:"closing_date,omitempty" db:"closing_date"`
	AuthorID       int64      `json:"author_id" db:"author_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidEmploymentType reports whether t is one of the known employment types.
func ValidEmploymentType(t string) bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship:
		return true
	}
	return false
}

// NewsCategory is a category master record used to group news articles.
type NewsCategory struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	Color     string    `json:"color" db:"color"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
