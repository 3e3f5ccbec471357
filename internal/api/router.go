package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/quillcms/quill/docs"
	"github.com/quillcms/quill/internal/api/handler"
	"github.com/quillcms/quill/internal/api/middleware"
	"github.com/quillcms/quill/internal/core/domain"
	"github.com/quillcms/quill/internal/core/ports"
	"github.com/quillcms/quill/internal/core/service"
	mongodb "github.com/quillcms/quill/internal/infrastructure/db/mongo"
	redisdb "github.com/quillcms/quill/internal/infrastructure/db/redis"
)

// RouterConfig carries everything the HTTP layer needs. The object store and
// job sink are ports so tests can swap them without touching the router.
type RouterConfig struct {
	DB    *mongo.Database
	Redis *redis.Client
	Store ports.ObjectStore
	Jobs  ports.MediaJobSink
	Usage ports.MediaUsage

	JWTSecret           string
	JWTAlgorithm        string
	RotateRefreshTokens bool

	Log zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("quill"))

	// --- Dependencies ---
	codec, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		return nil, err
	}
	hasher := service.NewBcryptHasher()

	userRepo := mongodb.NewUserRepository(cfg.DB)
	roleRepo := mongodb.NewRoleRepository(cfg.DB)
	tenantRepo := mongodb.NewTenantRepository(cfg.DB)
	appRepo := mongodb.NewAppRepository(cfg.DB)
	contentRepo := mongodb.NewContentRepository(cfg.DB)
	mediaRepo := mongodb.NewMediaRepository(cfg.DB)
	cache := redisdb.NewContentCache(cfg.Redis, cfg.Log)

	authService := service.NewAuthService(userRepo, roleRepo, tenantRepo, codec, hasher, cfg.RotateRefreshTokens, cfg.Log)
	tenantService := service.NewTenantService(tenantRepo, userRepo, cfg.Log)
	appService := service.NewAppService(appRepo, cfg.Log)
	contentService := service.NewContentService(contentRepo, appRepo, cache, cfg.Log)
	mediaService := service.NewMediaService(mediaRepo, appRepo, cfg.Store, cfg.Jobs, cfg.Usage, cfg.Log)

	authHandler := handler.NewAuthHandler(authService)
	domainHandler := handler.NewDomainHandler(tenantService)
	appHandler := handler.NewAppHandler(appService)
	contentHandler := handler.NewContentHandler(contentService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)

	// The gate runs on every route; its exclusion list covers the public
	// surface (auth, docs, probes, metrics).
	e.Use(middleware.Auth(codec, middleware.DefaultExcludedPaths))

	// --- Auth routes (excluded from the gate) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/token/refresh", authHandler.Refresh)
	e.GET("/auth/token/refresh", authHandler.Refresh)

	// --- Domain ---
	e.POST("/domain", domainHandler.Create, middleware.RequireRole(domain.RoleSuperAdmin))

	// --- Apps ---
	e.POST("/apps", appHandler.Create)
	e.GET("/apps", appHandler.List)
	e.DELETE("/apps/:app_id", appHandler.Delete, middleware.RequireRole(domain.RoleAdmin))

	// --- Content ---
	e.POST("/content/:app_id", contentHandler.Create)
	e.GET("/content/:app_id", contentHandler.List)

	// --- Media ---
	e.POST("/media/:app_id", mediaHandler.Upload)
	e.GET("/media/:app_id", mediaHandler.List)
	e.GET("/media/:app_id/stats", mediaHandler.Stats)
	e.GET("/media/:app_id/:media_id", mediaHandler.Get)
	e.PUT("/media/:app_id/:media_id", mediaHandler.Update)
	e.DELETE("/media/:app_id/:media_id", mediaHandler.Delete)

	// --- Operational surface ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/docs/*", echoswagger.WrapHandler)

	return e, nil
}
