package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/handler"
	authmw "storefront/internal/middleware"
)

// Deps bundles everything the routes need.
type Deps struct {
	Config         *config.Config
	Logger         *zap.Logger
	Verifier       authmw.TokenVerifier
	Accounts       authmw.AccountLoader
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	ProductHandler *handler.ProductHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, d Deps) {
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Config.IsProduction(), d.Logger)

	e.Use(middleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{d.Config.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	e.Use(middleware.Secure())
	e.Use(middleware.Gzip())
	e.Use(middleware.BodyLimit("1M"))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	protect := authmw.Protect(d.Verifier)
	loadAccount := authmw.LoadAccount(d.Accounts)
	admin := authmw.RequireAdmin()
	throttle := authmw.RateLimit(d.Config.AuthRateLimit)

	// Users
	users := api.Group("/users")
	users.POST("", d.AuthHandler.Register, throttle)
	users.POST("/login", d.AuthHandler.Login, throttle)
	users.GET("/profile", d.UserHandler.GetProfile, protect, loadAccount)
	users.PUT("/profile", d.UserHandler.UpdateProfile, protect, loadAccount)
	users.GET("", d.UserHandler.ListUsers, protect, loadAccount, admin)
	users.GET("/:id", d.UserHandler.GetUser, protect, loadAccount, admin)
	users.PUT("/:id", d.UserHandler.UpdateUser, protect, loadAccount, admin)
	users.DELETE("/:id", d.UserHandler.DeleteUser, protect, loadAccount, admin)

	// Products
	products := api.Group("/products")
	products.GET("", d.ProductHandler.ListProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, protect, loadAccount, admin)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, protect, loadAccount, admin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, protect, loadAccount, admin)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency.Round(time.Microsecond)),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	})
}
