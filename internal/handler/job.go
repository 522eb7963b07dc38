package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/wojp/backoffice/internal/audit"
	"github.com/wojp/backoffice/internal/model"
	"github.com/wojp/backoffice/internal/server/middleware"
	"github.com/wojp/backoffice/internal/store"
)

// JobHandler manages job postings with the same audit discipline as news.
type JobHandler struct {
	store    *store.Store
	recorder *audit.Recorder
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(st *store.Store, recorder *audit.Recorder) *JobHandler {
	return &JobHandler{store: st, recorder: recorder}
}

// List returns all postings, newest first.
// GET /api/v1/admin/jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.store.ListJobs(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// Get returns one posting.
// GET /api/v1/admin/jobs/{jobID}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.store.GetJobByID(r.Context(), urlID(r, "jobID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

type jobRequest struct {
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Description    string     `json:"description"`
	Requirements   *string    `json:"requirements"`
	Location       *string    `json:"location"`
	EmploymentType string     `json:"employment_type"`
	SalaryRange    *string    `json:"salary_range"`
	IsPublished    bool       `json:"is_published"`
	ClosingDate    *time.Time `json:"closing_date"`
}

func (req *jobRequest) validate() (string, bool) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len(req.Title) > maxTitleLen {
		return "Title is required and must be at most 200 characters", false
	}
	if req.Slug == "" || len(req.Slug) > maxSlugLen || !slugPattern.MatchString(req.Slug) {
		return "Slug is required and may only contain lowercase letters, digits, and hyphens", false
	}
	if req.Description == "" {
		return "Description is required", false
	}
	if !model.ValidEmploymentType(req.EmploymentType) {
		return "Employment type must be one of full_time, part_time, contract, internship", false
	}
	return "", true
}

// Create inserts a new posting authored by the caller.
// POST /api/v1/admin/jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())

	var req jobRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, msg)
		return
	}

	job := &model.Job{
		Title:          req.Title,
		Slug:           req.Slug,
		Description:    req.Description,
		Requirements:   req.Requirements,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		SalaryRange:    req.SalaryRange,
		IsPublished:    req.IsPublished,
		ClosingDate:    req.ClosingDate,
		AuthorID:       admin.ID,
	}
	if req.IsPublished {
		now := time.Now().UTC()
		job.PublishedAt = &now
	}

	if err := h.store.CreateJob(r.Context(), job); err != nil {
		writeServiceError(w, err)
		return
	}

	h.recorder.Record(r.Context(), admin, r, "create_job", "job", &job.ID,
		map[string]string{"title": job.Title})
	writeJSON(w, http.StatusOK, model.CreatedResponse{Success: true, ID: job.ID})
}

// Update replaces a posting's fields.
// PUT /api/v1/admin/jobs/{jobID}
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	id := urlID(r, "jobID")

	existing, err := h.store.GetJobByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req jobRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, msg)
		return
	}

	job := &model.Job{
		ID:             id,
		Title:          req.Title,
		Slug:           req.Slug,
		Description:    req.Description,
		Requirements:   req.Requirements,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		SalaryRange:    req.SalaryRange,
		IsPublished:    req.IsPublished,
		PublishedAt:    existing.PublishedAt,
		ClosingDate:    req.ClosingDate,
		AuthorID:       existing.AuthorID,
		CreatedAt:      existing.CreatedAt,
	}
	if req.IsPublished != existing.IsPublished {
		if req.IsPublished {
			now := time.Now().UTC()
			job.PublishedAt = &now
		} else {
			job.PublishedAt = nil
		}
	}

	if err := h.store.UpdateJob(r.Context(), job); err != nil {
		writeServiceError(w, err)
		return
	}

	h.recorder.Record(r.Context(), admin, r, "update_job", "job", &id,
		map[string]string{"title": existing.Title})
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// Delete removes a posting.
// DELETE /api/v1/admin/jobs/{jobID}
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	id := urlID(r, "jobID")

	existing, err := h.store.GetJobByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.store.DeleteJob(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	h.recorder.Record(r.Context(), admin, r, "delete_job", "job", &id,
		map[string]string{"title": existing.Title})
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// TogglePublish flips the publish state, stamping or clearing published_at.
// POST /api/v1/admin/jobs/{jobID}/publish
func (h *JobHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	id := urlID(r, "jobID")

	existing, err := h.store.GetJobByID(r.Context(), id)
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

	if err := h.store.UpdateJob(r.Context(), existing); err != nil {
		writeServiceError(w, err)
		return
	}

	action := "unpublish_job"
	if existing.IsPublished {
		action = "publish_job"
	}
	h.recorder.Record(r.Context(), admin, r, action, "job", &id,
		map[string]string{"title": existing.Title})
	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// CheckSlug reports whether a job slug is free.
// GET /api/v1/admin/jobs/slug-check?slug=...&exclude=...
func (h *JobHandler) CheckSlug(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, model.StatusBadRequest, "slug query parameter is required")
		return
	}

	taken, err := h.store.JobSlugTaken(r.Context(), slug, int64(queryInt(r, "exclude", 0)))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slugCheckResponse{Available: !taken})
}
