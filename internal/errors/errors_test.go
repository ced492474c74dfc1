package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderError(t *testing.T, apiErr *APIError) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, render.Render(rec, req, apiErr))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestAPIErrorRenderContract(t *testing.T) {
	tests := []struct {
		name       string
		apiErr     *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"pipeline running", ErrPipelineRunning, http.StatusConflict, "PIPELINE_RUNNING"},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"internal", ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := renderError(t, tt.apiErr)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, float64(tt.wantStatus), body["status_code"])
			assert.Equal(t, tt.wantCode, body["error_code"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestErrValidationCarriesFieldDetails(t *testing.T) {
	rec, body := renderError(t, ErrValidation("cohorte", "must be an integer year"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])

	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "cohorte", details["field"])
	assert.Equal(t, "must be an integer year", details["message"])
}

func TestNotFoundErrorNamesResource(t *testing.T) {
	rec, body := renderError(t, NotFoundError("kpi 9.9"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "kpi 9.9 not found", body["message"])
	assert.Equal(t, "kpi 9.9", body["details"])
}

func TestInternalErrorWrapsCause(t *testing.T) {
	rec, body := renderError(t, InternalError(errors.New("connection reset")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["message"])
	assert.Equal(t, "connection reset", body["details"])
}

func TestAPIErrorImplementsError(t *testing.T) {
	var err error = New(http.StatusConflict, "CONFLICT", "already running")
	assert.Equal(t, "already running", err.Error())
}
