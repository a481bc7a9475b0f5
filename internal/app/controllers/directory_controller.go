package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mitsdash/campuskeys/internal/app/models"
	"github.com/mitsdash/campuskeys/internal/app/models/dto"
	"github.com/mitsdash/campuskeys/internal/app/services"
	"github.com/mitsdash/campuskeys/internal/middleware"
	"github.com/mitsdash/campuskeys/internal/pkg/helpers"
	"github.com/mitsdash/campuskeys/internal/pkg/validation"
)

// DirectoryController handles student directory listing and search.
type DirectoryController struct {
	directory *services.DirectoryService
}

// NewDirectoryController creates a new DirectoryController
func NewDirectoryController(directory *services.DirectoryService) *DirectoryController {
	return &DirectoryController{directory: directory}
}

// ListStudents returns one page of the records inside the requested scope.
// Without any scope parameters this enumerates the full organizational space.
func (c *DirectoryController) ListStudents(ctx *gin.Context) {
	query, ok := bindDirectoryQuery(ctx)
	if !ok {
		return
	}

	students, err := c.directory.List(ctx.Request.Context(), query.Scope())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondDirectoryPage(ctx, students, query)
}

// SearchStudents filters the scope by a case-insensitive substring query and
// an optional credential status.
func (c *DirectoryController) SearchStudents(ctx *gin.Context) {
	query, ok := bindDirectoryQuery(ctx)
	if !ok {
		return
	}

	students, err := c.searchWithQuery(ctx, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondDirectoryPage(ctx, students, query)
}

// GetStudentByAccountID resolves an identity account id to its primary
// student record.
func (c *DirectoryController) GetStudentByAccountID(ctx *gin.Context) {
	accountID := ctx.Param("accountId")

	student, err := c.directory.FindByAccountID(ctx.Request.Context(), accountID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      student,
		Timestamp: time.Now(),
	})
}

func (c *DirectoryController) searchWithQuery(ctx *gin.Context, query dto.DirectoryQuery) ([]models.StudentRecord, error) {
	return c.directory.Search(
		ctx.Request.Context(),
		query.Query,
		services.SearchField(query.Field),
		query.Scope(),
		services.StatusFilter(query.Status),
	)
}

func bindDirectoryQuery(ctx *gin.Context) (dto.DirectoryQuery, bool) {
	var query dto.DirectoryQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query parameters")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return query, false
	}
	if query.Year != "" && !validation.ValidYear(query.Year) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Year must be a roman numeral").WithField("year")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return query, false
	}
	if query.Section != "" && !validation.ValidSection(query.Section) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Section must be a single letter").WithField("section")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return query, false
	}
	return query, true
}

func respondDirectoryPage(ctx *gin.Context, students []models.StudentRecord, query dto.DirectoryQuery) {
	total := len(students)
	start, end, page, size := helpers.PageBounds(query.Page, query.Size, total)

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.DirectoryResponse{
			Students:   students[start:end],
			Count:      total,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}
