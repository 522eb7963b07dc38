package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wojp/backoffice/internal/model"
	"github.com/wojp/backoffice/internal/service"
	"github.com/wojp/backoffice/internal/store"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "admin@example.co.jp", "a+tag@example.com"}
	for _, e := range valid {
		if !validEmail(e) {
			t.Errorf("validEmail(%q) = false, want true", e)
		}
	}
	invalid := []string{"", "plain", "@example.com", "a@", "has space@example.com"}
	for _, e := range invalid {
		if validEmail(e) {
			t.Errorf("validEmail(%q) = true, want false", e)
		}
	}
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=25&bad=xyz", nil)
	if got := queryInt(r, "limit", 0); got != 25 {
		t.Errorf("limit = %d, want 25", got)
	}
	if got := queryInt(r, "bad", 7); got != 7 {
		t.Errorf("unparseable param = %d, want default 7", got)
	}
	if got := queryInt(r, "missing", 7); got != 7 {
		t.Errorf("missing param = %d, want default 7", got)
	}
}

func TestWriteServiceErrorMapping(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantTag  string
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized, model.StatusUnauthorized},
		{service.ErrEmailTaken, http.StatusBadRequest, model.StatusBadRequest},
		{service.ErrPasswordTooShort, http.StatusBadRequest, model.StatusBadRequest},
		{service.ErrPasswordMismatch, http.StatusBadRequest, model.StatusBadRequest},
		{store.ErrNotFound, http.StatusNotFound, model.StatusNotFound},
		{store.ErrDuplicate, http.StatusBadRequest, model.StatusBadRequest},
		{store.ErrUnavailable, http.StatusInternalServerError, model.StatusInternal},
		{errors.New("anything else"), http.StatusInternalServerError, model.StatusInternal},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		writeServiceError(rr, tt.err)
		if rr.Code != tt.wantCode {
			t.Errorf("%v: status %d, want %d", tt.err, rr.Code, tt.wantCode)
		}
		var resp model.ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%v: bad envelope: %v", tt.err, err)
		}
		if resp.Error.Status != tt.wantTag {
			t.Errorf("%v: tag %q, want %q", tt.err, resp.Error.Status, tt.wantTag)
		}
		// Wrapped errors map the same way.
		rr = httptest.NewRecorder()
		writeServiceError(rr, errors.Join(errors.New("context"), tt.err))
		if rr.Code != tt.wantCode {
			t.Errorf("wrapped %v: status %d, want %d", tt.err, rr.Code, tt.wantCode)
		}
	}
}
