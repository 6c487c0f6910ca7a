package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrValidation, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{fmt.Errorf("%w: name required", domain.ErrValidation), http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{domain.ErrRegistrationClosed, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{domain.ErrCancellationWindowClosed, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{domain.ErrCapacityBelowRegistrations, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized, helpers.ErrCodeUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, helpers.ErrCodeUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden, helpers.ErrCodeForbidden},
		{domain.ErrNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
		{domain.ErrNotRegistered, http.StatusNotFound, helpers.ErrCodeNotFound},
		{domain.ErrAlreadyRegistered, http.StatusConflict, helpers.ErrCodeConflict},
		{domain.ErrCapacityExceeded, http.StatusConflict, helpers.ErrCodeConflict},
		{domain.ErrDuplicateEmail, http.StatusConflict, helpers.ErrCodeConflict},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			w := httptest.NewRecorder()

			handleServiceError(w, req, discardLogger(), tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp helpers.APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Error == nil {
				t.Fatal("expected an error payload")
			}
			if resp.Error.Code != tt.wantCode {
				t.Fatalf("expected code %q, got %q", tt.wantCode, resp.Error.Code)
			}
			if tt.wantStatus == http.StatusInternalServerError && resp.Error.Message != "internal server error" {
				t.Fatalf("internal errors must not leak details, got %q", resp.Error.Message)
			}
		})
	}
}
