package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/avelichko/catalog-api/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	ProductHandler *ProductHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "product catalog API",
			"status":  "ok",
			"endpoints": echo.Map{
				"auth":     "/api/auth/login",
				"products": "/api/products",
			},
		})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/api/auth/login", d.AuthHandler.Login)

	authMW := middleware.NewBearerAuth(d.JWTSecret)

	products := e.Group("/api/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	protected := products.Group("", authMW.RequireAuth)
	protected.POST("", d.ProductHandler.CreateProduct)
	protected.PUT("/:id", d.ProductHandler.UpdateProduct)
	protected.DELETE("/:id", d.ProductHandler.DeleteProduct)
}
