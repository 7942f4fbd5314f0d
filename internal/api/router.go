package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/cafeice/shop-api/docs"
	"github.com/cafeice/shop-api/internal/api/handler"
	"github.com/cafeice/shop-api/internal/api/middleware"
	"github.com/cafeice/shop-api/internal/core/domain"
	"github.com/cafeice/shop-api/internal/core/ports"
	"github.com/cafeice/shop-api/internal/core/service"
	mongorepo "github.com/cafeice/shop-api/internal/infrastructure/db/mongo"
	rediscache "github.com/cafeice/shop-api/internal/infrastructure/db/redis"
	"github.com/cafeice/shop-api/internal/infrastructure/security"
	"github.com/cafeice/shop-api/internal/pkg/config"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Auth          ports.AuthService
	Users         ports.UserService
	Categories    ports.CategoryService
	Products      ports.ProductService
	Announcements ports.AnnouncementService
	Memories      ports.MemoryService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator(cfg.PhoneRegion)
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echoprometheus.NewMiddleware("shop"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	categoryRepo := mongorepo.NewCategoryRepository(db)
	productRepo := mongorepo.NewProductRepository(db)
	announcementRepo := mongorepo.NewAnnouncementRepository(db)
	memoryRepo := mongorepo.NewMemoryRepository(db)
	categoryCache := rediscache.NewCategoryCache(rdb, cfg.CategoryCacheTTL)

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	svcs := Services{
		Auth:          service.NewAuthService(userRepo, hasher, tokens, cfg.Auth.BootstrapEmail, log),
		Users:         service.NewUserService(userRepo, log),
		Categories:    service.NewCategoryService(categoryRepo, categoryCache, log),
		Products:      service.NewProductService(productRepo, categoryRepo, log),
		Announcements: service.NewAnnouncementService(announcementRepo, log),
		Memories:      service.NewMemoryService(memoryRepo, log),
	}
	authenticator := middleware.NewAuthenticator(tokens, userRepo, log)

	mountAPI(e, svcs, authenticator)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// mountAPI registers the /api routes. Routes without a guard are public.
func mountAPI(e *echo.Echo, s Services, auth *middleware.Authenticator) {
	managers := []domain.Role{domain.RoleFounder, domain.RoleAdmin}
	founder := auth.Guard(domain.RoleFounder)
	manage := auth.Guard(managers...)
	anyone := auth.Guard(domain.AnyRole...)

	api := e.Group("/api")

	authH := handler.NewAuthHandler(s.Auth)
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.GET("/auth/profile", authH.Profile, anyone)
	api.PATCH("/auth/profile", authH.UpdateProfile, anyone)

	userH := handler.NewUserHandler(s.Auth, s.Users)
	users := api.Group("/users")
	users.POST("", userH.Create, manage)
	users.GET("", userH.List, manage)
	users.GET("/:id", userH.Get, manage)
	users.PATCH("/:id/status", userH.SetStatus, manage)
	users.PATCH("/:id/role", userH.SetRole, founder)

	catH := handler.NewCategoryHandler(s.Categories)
	cats := api.Group("/categories")
	cats.GET("", catH.List)
	cats.GET("/:id", catH.Get)
	cats.POST("", catH.Create, manage)
	cats.PATCH("/:id", catH.Update, manage)
	cats.DELETE("/:id", catH.Delete, founder)

	prodH := handler.NewProductHandler(s.Products)
	prods := api.Group("/products")
	prods.GET("", prodH.List, anyone)
	prods.GET("/:id", prodH.Get, anyone)
	prods.POST("", prodH.Create, manage)
	prods.PATCH("/:id", prodH.Update, manage)
	prods.DELETE("/:id", prodH.Delete, founder)

	annH := handler.NewAnnouncementHandler(s.Announcements)
	anns := api.Group("/announcements")
	anns.GET("", annH.List)
	anns.POST("", annH.Create, manage)
	anns.DELETE("/:id", annH.Delete, manage)

	memH := handler.NewMemoryHandler(s.Memories)
	mems := api.Group("/memories")
	mems.GET("", memH.List)
	mems.POST("", memH.Submit)
	mems.GET("/admin", memH.ListAll, manage)
	mems.PATCH("/:id", memH.ToggleApproval, manage)
	mems.DELETE("/:id", memH.Delete, manage)
}

// requestLogger replaces echo's text logger with one structured zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
