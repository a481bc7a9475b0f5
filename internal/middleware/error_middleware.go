package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mitsdash/campuskeys/internal/app/models/dto"
	"github.com/mitsdash/campuskeys/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto the standard error envelope.
// Controllers call it instead of building responses per error type.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeStudentNotFound, "Student not found", err)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found", err)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied", err)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials", err)
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired", err)
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token", err)
	case errors.Is(err, apperrors.ErrAccountLinkConflict):
		respond(c, http.StatusConflict, dto.ErrorCodeAccountLinkConflict, "Record linked to a different account", err)
	case errors.Is(err, apperrors.ErrUnknownOperation):
		respond(c, http.StatusBadRequest, dto.ErrorCodeUnknownOperation, "Unknown lifecycle operation", err)
	case errors.Is(err, apperrors.ErrGeneration):
		respond(c, http.StatusBadRequest, dto.ErrorCodeGenerationFailed, "Credential generation failed", err)
	case errors.Is(err, apperrors.ErrNoRollNumber),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid request", err)
	case errors.Is(err, apperrors.ErrAccountCreation):
		respond(c, http.StatusBadGateway, dto.ErrorCodeAccountCreation, "Identity provider error", err)
	case errors.Is(err, apperrors.ErrStorage):
		respond(c, http.StatusInternalServerError, dto.ErrorCodeStorageError, "Storage error", err)
	default:
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error", nil)
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string, err error) {
	detail := dto.NewErrorDetail(code, message)
	if err != nil {
		detail = detail.WithDetails(err.Error())
		// Structured context attached by the producer, e.g. the document path
		// a repository failed on, rides along with the flat message.
		var ce *apperrors.CustomError
		if errors.As(err, &ce) && ce.Details != nil {
			detail = detail.WithDetails(ce.Details).WithDebugInfo("%s", err.Error())
		}
	}
	c.JSON(status, dto.APIResponse{
		Error:     detail,
		Timestamp: time.Now(),
	})
}
