package handler

import (
	"net/http"
	"strings"

	"github.com/wojp/backoffice/internal/audit"
	"github.com/wojp/backoffice/internal/model"
	"github.com/wojp/backoffice/internal/server/middleware"
	"github.com/wojp/backoffice/internal/store"
)

// CategoryHandler manages the news category master.
type CategoryHandler struct {
	store    *store.Store
	recorder *audit.Recorder
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(st *store.Store, recorder *audit.Recorder) *CategoryHandler {
	return &CategoryHandler{store: st, recorder: recorder}
}

// List returns all categories in display order.
// GET /api/v1/admin/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.store.ListNewsCategories(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

type categoryRequest struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order"`
}

func (req *categoryRequest) validate() (string, bool) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "Name is required", false
	}
	if req.Slug == "" || len(req.Slug) > maxSlugLen || !slugPattern.MatchString(req.Slug) {
		return "Slug is required and may only contain lowercase letters, digits, and hyphens", false
	}
	if req.Color == "" {
		req.Color = "#6B7280"
	}
	return "", true
}

// Create inserts a category.
// POST /api/v1/admin/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())

	var req categoryRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, msg)
		return
	}

	cat := &model.NewsCategory{
		Name:      req.Name,
		Slug:      req.Slug,
		Color:     req.Color,
		SortOrder: req.SortOrder,
	}
	if err := h.store.CreateNewsCategory(r.Context(), cat); err != nil {
		writeServiceError(w, err)
		return
	}

	h.recorder.Record(r.Context(), admin, r, "create_category", "news_category", &cat.ID,
		map[string]string{"name": cat.Name})
	writeJSON(w, http.StatusOK, model.CreatedResponse{Success: true, ID: cat.ID})
}

// Update replaces a category's fields.
// PUT /api/v1/admin/categories/{categoryID}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	id := urlID(r, "categoryID")

	existing, err := h.store.GetNewsCategoryByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req categoryRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, msg)
		return
	}

	cat := &model.NewsCategory{
		ID:        id,
		Name:      req.Name,
		Slug:      req.Slug,
		Color:     req.Color,
		SortOrder: req.SortOrder,
		CreatedAt: existing.CreatedAt,
	}
	if err := h.store.UpdateNewsCategory(r.Context(), cat); err != nil {
		writeServiceError(w, err)
		return
	}

	h.recorder.Record(r.Context(), admin, r, "update_category", "news_category", &id,
		map[string]string{"name": existing.Name})
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// Delete removes a category.
// DELETE /api/v1/admin/categories/{categoryID}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	id := urlID(r, "categoryID")

	existing, err := h.store.GetNewsCategoryByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.store.DeleteNewsCategory(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	h.recorder.Record(r.Context(), admin, r, "delete_category", "news_category", &id,
		map[string]string{"name": existing.Name})
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}
