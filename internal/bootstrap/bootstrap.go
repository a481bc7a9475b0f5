package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	appControllers "github.com/mitsdash/campuskeys/internal/app/controllers"
	"github.com/mitsdash/campuskeys/internal/app/directory"
	appRepos "github.com/mitsdash/campuskeys/internal/app/repositories"
	appRoutes "github.com/mitsdash/campuskeys/internal/app/routes"
	appServices "github.com/mitsdash/campuskeys/internal/app/services"
	"github.com/mitsdash/campuskeys/internal/config"
	"github.com/mitsdash/campuskeys/internal/identity"
	appMiddleware "github.com/mitsdash/campuskeys/internal/middleware"
	pkgAuth "github.com/mitsdash/campuskeys/internal/pkg/auth"
	"github.com/mitsdash/campuskeys/internal/pkg/email"
	"github.com/mitsdash/campuskeys/internal/pkg/logger"
	"github.com/mitsdash/campuskeys/internal/pkg/pacing"
	"github.com/mitsdash/campuskeys/internal/pkg/websocket"
	"github.com/mitsdash/campuskeys/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services             *appServices.Services
	Repos                *appRepos.Repositories
	Identity             identity.Service
	Mailer               email.Sender
	JWTService           *pkgAuth.JWTService
	AuthController       *appControllers.AuthController
	CredentialController *appControllers.CredentialController
	DirectoryController  *appControllers.DirectoryController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	ProgressHub          *websocket.Hub
	ProgressHandler      *websocket.Handler
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupFirebase initializes the Firestore client and the identity provider.
// In dev identity mode the provider is an in-memory fake; Firestore itself
// still connects, typically to the local emulator via FIRESTORE_EMULATOR_HOST.
func SetupFirebase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*firestore.Client, identity.Service, email.Sender, error) {
	projectID := cfg.Firebase.ProjectID
	if projectID == "" {
		projectID = "demo-local"
	}

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}

	mailer := setupMailer(cfg, lgr)

	var identitySvc identity.Service
	switch cfg.Firebase.IdentityMode {
	case config.IdentityModeFirebase:
		authClient, err := app.Auth(ctx)
		if err != nil {
			client.Close()
			return nil, nil, nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
		}
		identitySvc = identity.NewFirebaseService(authClient, mailer, lgr)
		lgr.Info().Str("projectId", projectID).Msg("Firebase identity provider initialized")
	default:
		identitySvc = identity.NewDevService(lgr)
		lgr.Warn().Msg("Using in-memory dev identity provider, accounts are not persisted")
	}

	return client, identitySvc, mailer, nil
}

func setupMailer(cfg *config.Config, lgr zerolog.Logger) email.Sender {
	if cfg.Email.Mode == config.EmailModeSendgrid {
		return email.NewSendgridSender(cfg.Email.SendgridKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}
	return email.NewConsoleSender(lgr)
}

// BuildDependencies initializes repositories, services, and controllers.
func BuildDependencies(
	cfg *config.Config,
	client *firestore.Client,
	identitySvc identity.Service,
	mailer email.Sender,
	lgr zerolog.Logger,
) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Identity: identitySvc, Mailer: mailer}

	deps.Repos = appRepos.NewRepositories(client)

	if cfg.Firebase.IdentityMode == config.IdentityModeDev {
		if err := seed.CreateDefaultData(context.Background(), deps.Repos, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to seed demo data, proceeding anyway...")
		}
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	departments := directory.NewDepartments()
	deps.Services = appServices.NewServices(
		deps.Repos.Students,
		deps.Repos.AccountIndex,
		identitySvc,
		departments,
		pacing.NewFixedInterval(cfg.IdentityPacing()),
		pacing.NewFixedInterval(cfg.LifecyclePacing()),
		cfg.IdentityTimeout(),
		lgr,
	)

	deps.ProgressHub = websocket.NewHub(lgr)
	go deps.ProgressHub.Run()
	deps.ProgressHandler = websocket.NewHandler(deps.ProgressHub, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(
		deps.JWTService,
		appControllers.OperatorCredentials{
			Username:     cfg.Operator.Username,
			PasswordHash: cfg.Operator.PasswordHash,
		},
		cfg.AccessTokenTTL(),
	)
	deps.CredentialController = appControllers.NewCredentialController(deps.Services.Provisioner, deps.Services.Lifecycle, deps.ProgressHub)
	deps.DirectoryController = appControllers.NewDirectoryController(deps.Services.Directory)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CredentialController,
		deps.DirectoryController,
		deps.ProgressHandler,
		deps.AuthMiddleware,
	)

	return router
}
