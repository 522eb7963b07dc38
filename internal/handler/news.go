package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/wojp/backoffice/internal/audit"
	"github.com/wojp/backoffice/internal/model"
	"github.com/wojp/backoffice/internal/server/middleware"
	"github.com/wojp/backoffice/internal/store"
)

// slugPattern is shared by news and job slugs: lowercase letters, digits,
// and hyphens only.
var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

const (
	maxTitleLen   = 200
	maxSlugLen    = 100
	maxExcerptLen = 500

	defaultNewsCategory = "news"
)

// NewsHandler manages news articles. Every successful mutation records
// exactly one audit entry after the primary write.
type NewsHandler struct {
	store    *store.Store
	recorder *audit.Recorder
}

// NewNewsHandler creates a NewsHandler.
func NewNewsHandler(st *store.Store, recorder *audit.Recorder) *NewsHandler {
	return &NewsHandler{store: st, recorder: recorder}
}

// List returns all articles, newest first.
// GET /api/v1/admin/news
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.store.ListNews(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

// Get returns one article.
// GET /api/v1/admin/news/{newsID}
func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	article, err := h.store.GetNewsByID(r.Context(), urlID(r, "newsID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

type newsRequest struct {
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	Content      string  `json:"content"`
	Excerpt      *string `json:"excerpt"`
	ThumbnailURL *string `json:"thumbnail_url"`
	Category     string  `json:"category"`
	IsPublished  bool    `json:"is_published"`
}

func (req *newsRequest) validate() (string, bool) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len(req.Title) > maxTitleLen {
		return "Title is required and must be at most 200 characters", false
	}
	if req.Slug == "" || len(req.Slug) > maxSlugLen || !slugPattern.MatchString(req.Slug) {
		return "Slug is required and may only contain lowercase letters, digits, and hyphens", false
	}
	if req.Content == "" {
		return "Content is required", false
	}
	if req.Excerpt != nil && len(*req.Excerpt) > maxExcerptLen {
		return "Excerpt must be at most 500 characters", false
	}
	if req.Category == "" {
		req.Category = defaultNewsCategory
	}
	return "", true
}

// Create inserts a new article authored by the caller.
// POST /api/v1/admin/news
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())

	var req newsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, msg)
		return
	}

	article := &model.News{
		Title:        req.Title,
		Slug:         req.Slug,
		Content:      req.Content,
		Excerpt:      req.Excerpt,
		ThumbnailURL: req.ThumbnailURL,
		Category:     req.Category,
		IsPublished:  req.IsPublished,
		AuthorID:     admin.ID,
	}
	if req.IsPublished {
		now := time.Now().UTC()
		article.PublishedAt = &now
	}

	if err := h.store.CreateNews(r.Context(), article); err != nil {
		writeServiceError(w, err)
		return
	}

	h.recorder.Record(r.Context(), admin, r, "create_news", "news", &article.ID,
		map[string]string{"title": article.Title})
	writeJSON(w, http.StatusOK, model.CreatedResponse{Success: true, ID: article.ID})
}

// Update replaces an article's fields. Toggling the publish flag through
// this endpoint also maintains the published_at timestamp.
// PUT /api/v1/admin/news/{newsID}
func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	id := urlID(r, "newsID")

	existing, err := h.store.GetNewsByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req newsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, msg)
		return
	}

	article := &model.News{
		ID:           id,
		Title:        req.Title,
		Slug:         req.Slug,
		Content:      req.Content,
		Excerpt:      req.Excerpt,
		ThumbnailURL: req.ThumbnailURL,
		Category:     req.Category,
		IsPublished:  req.IsPublished,
		PublishedAt:  existing.PublishedAt,
		AuthorID:     existing.AuthorID,
		CreatedAt:    existing.CreatedAt,
	}
	if req.IsPublished != existing.IsPublished {
		if req.IsPublished {
			now := time.Now().UTC()
			article.PublishedAt = &now
		} else {
			article.PublishedAt = nil
		}
	}

	if err := h.store.UpdateNews(r.Context(), article); err != nil {
		writeServiceError(w, err)
		return
	}

	h.recorder.Record(r.Context(), admin, r, "update_news", "news", &id,
		map[string]string{"title": existing.Title})
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// Delete removes an article.
// DELETE /api/v1/admin/news/{newsID}
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	id := urlID(r, "newsID")

	existing, err := h.store.GetNewsByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.store.DeleteNews(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	h.recorder.Record(r.Context(), admin, r, "delete_news", "news", &id,
		map[string]string{"title": existing.Title})
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// TogglePublish flips the publish state, stamping or clearing published_at.
// POST /api/v1/admin/news/{newsID}/publish
func (h *NewsHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	id := urlID(r, "newsID")

	existing, err := h.store.GetNewsByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	existing.IsPublished = !existing.IsPublished
	if existing.IsPublished {
		now := time.Now().UTC()
		existing.PublishedAt = &now
	} else {
		existing.PublishedAt = nil
	}

	if err := h.store.UpdateNews(r.Context(), existing); err != nil {
		writeServiceError(w, err)
		return
	}

	action := "unpublish_news"
	if existing.IsPublished {
		action = "publish_news"
	}
	h.recorder.Record(r.Context(), admin, r, action, "news", &id,
		map[string]string{"title": existing.Title})
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

type slugCheckResponse struct {
	Available bool `json:"available"`
}

// CheckSlug reports whether a slug is free. The exclude parameter skips one
// article ID, for edit forms.
// GET /api/v1/admin/news/slug-check?slug=...&exclude=...
func (h *NewsHandler) CheckSlug(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "slug query parameter is required")
		return
	}

	taken, err := h.store.NewsSlugTaken(r.Context(), slug, int64(queryInt(r, "exclude", 0)))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slugCheckResponse{Available: !taken})
}
