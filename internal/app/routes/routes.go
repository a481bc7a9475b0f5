package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mitsdash/campuskeys/internal/app/controllers"
	"github.com/mitsdash/campuskeys/internal/app/models/dto"
	"github.com/mitsdash/campuskeys/internal/middleware"
	"github.com/mitsdash/campuskeys/internal/pkg/auth"
	"github.com/mitsdash/campuskeys/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	credentialController *controllers.CredentialController,
	directoryController *controllers.DirectoryController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", authController.Login)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})

	// Prometheus metrics (public, usually fenced off at the ingress)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Directory routes: any authenticated caller may read
	students := authenticated.Group("/students")
	{
		students.GET("", directoryController.ListStudents)
		students.GET("/search", directoryController.SearchStudents)
		students.GET("/by-account/:accountId", directoryController.GetStudentByAccountID)
	}

	// Progress stream for bulk runs
	authenticated.GET("/ws/runs/:runId", wsHandler.HandleConnection)

	// Credential routes: operator role required for anything that writes
	credentials := authenticated.Group("/credentials")
	{
		credentials.POST("/preview", credentialController.Preview)

		operatorProtected := credentials.Group("")
		operatorProtected.Use(authMiddleware.RoleRequired(auth.OperatorRole))
		{
			operatorProtected.POST("/provision", credentialController.Provision)
			operatorProtected.POST("/lifecycle", credentialController.BulkLifecycle)
		}
	}
}
