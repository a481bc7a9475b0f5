package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mitsdash/campuskeys/internal/app/models/dto"
	"github.com/mitsdash/campuskeys/internal/pkg/auth"
)

// OperatorCredentials holds the single configured operator login. The
// password is stored as a bcrypt hash, never plaintext.
type OperatorCredentials struct {
	Username     string
	PasswordHash string
}

// AuthController issues operator tokens for the credential dashboard.
type AuthController struct {
	jwtService *auth.JWTService
	operator   OperatorCredentials
	tokenTTL   time.Duration
}

// NewAuthController creates a new AuthController
func NewAuthController(jwtService *auth.JWTService, operator OperatorCredentials, tokenTTL time.Duration) *AuthController {
	return &AuthController{
		jwtService: jwtService,
		operator:   operator,
		tokenTTL:   tokenTTL,
	}
}

// Login authenticates the operator and returns a bearer token.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid login data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if req.Username != c.operator.Username || !auth.CheckPassword(c.operator.PasswordHash, req.Password) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid username or password")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	token, err := c.jwtService.GenerateToken(req.Username, auth.OperatorRole)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to issue token")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.TokenResponse{
			Token:     token,
			ExpiresIn: int64(c.tokenTTL.Seconds()),
		},
		Timestamp: time.Now(),
	})
}
