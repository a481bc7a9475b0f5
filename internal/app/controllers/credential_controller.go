package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mitsdash/campuskeys/internal/app/models"
	"github.com/mitsdash/campuskeys/internal/app/models/dto"
	"github.com/mitsdash/campuskeys/internal/app/services"
	"github.com/mitsdash/campuskeys/internal/middleware"
	"github.com/mitsdash/campuskeys/internal/pkg/apperrors"
	"github.com/mitsdash/campuskeys/internal/pkg/validation"
	"github.com/mitsdash/campuskeys/internal/pkg/websocket"
)

// CredentialController handles provisioning and bulk lifecycle operations.
type CredentialController struct {
	provisioner *services.ProvisionerService
	lifecycle   *services.LifecycleService
	hub         *websocket.Hub
}

// NewCredentialController creates a new CredentialController
func NewCredentialController(provisioner *services.ProvisionerService, lifecycle *services.LifecycleService, hub *websocket.Hub) *CredentialController {
	return &CredentialController{
		provisioner: provisioner,
		lifecycle:   lifecycle,
		hub:         hub,
	}
}

// progressPublisher streams per-item progress for the run id the client
// subscribed to before launching the batch. Returns nil when the client did
// not ask for streaming.
func (c *CredentialController) progressPublisher(ctx *gin.Context, operation string) services.ProgressFunc {
	runID := ctx.Query("runId")
	if runID == "" || c.hub == nil {
		return nil
	}
	return func(p models.Progress) {
		c.hub.Publish(websocket.ProgressEvent{
			RunID:     runID,
			Operation: operation,
			Current:   p.Current,
			Total:     p.Total,
			Done:      p.Current == p.Total,
		})
	}
}

// Preview returns the credentials a run would generate without writing
// anything.
func (c *CredentialController) Preview(ctx *gin.Context) {
	req, ok := bindProvisionRequest(ctx)
	if !ok {
		return
	}
	results := c.provisioner.Preview(req.Students, req.Pattern.ToPattern())
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewProvisionResponse(results),
		Timestamp: time.Now(),
	})
}

// Provision runs the full provisioning flow for a batch. A client disconnect
// cancels the run between students; students already processed stay
// provisioned, and the partial results are still returned.
func (c *CredentialController) Provision(ctx *gin.Context) {
	req, ok := bindProvisionRequest(ctx)
	if !ok {
		return
	}

	results, err := c.provisioner.Provision(ctx.Request.Context(), req.Students, req.Pattern.ToPattern(), c.progressPublisher(ctx, "provision"))
	if err != nil && !apperrors.Is(err, apperrors.ErrOperationCancelled, context.Canceled) {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewProvisionResponse(results),
		Error:     cancellationDetail(err),
		Timestamp: time.Now(),
	})
}

// cancellationDetail annotates a partial success after a cancelled run. The
// status stays 200 because the returned results are real; clients read the
// error detail to learn the run did not finish.
func cancellationDetail(err error) *dto.ErrorDetail {
	if err == nil {
		return nil
	}
	return dto.NewErrorDetail(dto.ErrorCodeOperationCancelled, "Run cancelled, partial results returned").
		WithSeverity(dto.ErrorSeverityWarning)
}

// BulkLifecycle applies one lifecycle operation to a batch and returns the
// per-student summary.
func (c *CredentialController) BulkLifecycle(ctx *gin.Context) {
	var req dto.BulkLifecycleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lifecycle request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if err := middleware.ValidateStruct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	summary, err := c.lifecycle.Execute(ctx.Request.Context(), models.LifecycleOperation(req.Operation), req.Students, c.progressPublisher(ctx, req.Operation))
	if err != nil && !apperrors.Is(err, apperrors.ErrOperationCancelled, context.Canceled) {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      summary,
		Error:     cancellationDetail(err),
		Timestamp: time.Now(),
	})
}

func bindProvisionRequest(ctx *gin.Context) (dto.ProvisionRequest, bool) {
	var req dto.ProvisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid provisioning request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return req, false
	}
	if err := middleware.ValidateStruct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return req, false
	}
	if req.Pattern.EmailDomain != "" && !validation.ValidEmailDomain(req.Pattern.EmailDomain) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Email domain must start with @ and name a valid domain").WithField("emailDomain")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return req, false
	}
	return req, true
}
