package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"gorm.io/gorm"

	_ "github.com/Skotchmaster/shop_api/docs"
	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/shop_api/internal/middleware/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/internal/validation"
)

type Deps struct {
	UserHandler    *UserHTTP
	ProductHandler *ProductHTTP
	Gate           *auth.Gate
	DB             *gorm.DB
	Logger         *slog.Logger
}

// New builds the echo instance with the shared middleware stack and all
// routes registered.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			logging.FromContext(c.Request().Context()).Error("readiness_failed", "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	e.GET("/docs/*", echo.WrapHandler(httpSwagger.WrapHandler))

	users := e.Group("/users")
	users.POST("/register", d.UserHandler.Register)
	users.POST("/login", d.UserHandler.Login)

	// route-level middleware keeps unknown /users paths on the structured 404
	users.GET("", d.UserHandler.ListUsers, d.Gate.RequireAuth, auth.RequireRole(models.RoleAdmin))
	users.GET("/me", d.UserHandler.Me, d.Gate.RequireAuth)
	users.PUT("/:id", d.UserHandler.UpdateUser, d.Gate.RequireAuth)
	users.DELETE("/:id", d.UserHandler.DeleteUser, d.Gate.RequireAuth)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.ListProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct)
	products.PUT("/:id", d.ProductHandler.UpdateProduct)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct)

	products.POST("/add", d.ProductHandler.CreateProduct)
	products.POST("/update/:id", d.ProductHandler.UpdateProduct)
	products.POST("/delete/:id", d.ProductHandler.DeleteProduct)

	e.RouteNotFound("/*", routeNotFound)
}

func routeNotFound(c echo.Context) error {
	req := c.Request()
	return c.JSON(http.StatusNotFound, transport.NotFoundResponse{
		Error:      "Not Found",
		Message:    fmt.Sprintf("The route %s %s does not exist.", req.Method, req.URL.RequestURI()),
		StatusCode: http.StatusNotFound,
	})
}
