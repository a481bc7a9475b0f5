package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitsdash/campuskeys/internal/app/models/dto"
	"github.com/mitsdash/campuskeys/internal/pkg/apperrors"
)

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	HandleAPIError(c, err)

	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHandleAPIErrorSurfacesStorageDetails(t *testing.T) {
	err := apperrors.NewCustomError(apperrors.ErrStorage, "failed to write student fields: backend unavailable").
		WithDetails(map[string]interface{}{"path": "students/CSE/A-III/21CSE045"})

	rec, resp := handleError(t, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeStorageError, resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]interface{})
	require.True(t, ok, "producer-attached details should reach the client")
	assert.Equal(t, "students/CSE/A-III/21CSE045", details["path"])
}

func TestHandleAPIErrorMapsSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"student not found", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeStudentNotFound},
		{"index entry not found", apperrors.NewResourceNotFoundError("index document not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"bad request", apperrors.NewBadRequestError("empty account id"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"account creation", apperrors.ErrAccountCreation, http.StatusBadGateway, dto.ErrorCodeAccountCreation},
		{"link conflict", apperrors.ErrAccountLinkConflict, http.StatusConflict, dto.ErrorCodeAccountLinkConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := handleError(t, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}
