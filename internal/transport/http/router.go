package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avoronov/online-store/internal/handlers"
	"github.com/avoronov/online-store/internal/service/token"
)

// Permission codes gating privileged mutations.
const (
	PermCategoryAdd       = "category.add"
	PermCategoryDelete    = "category.delete"
	PermProductAdd        = "product.add"
	PermProductChange     = "product.change"
	PermProductDelete     = "product.delete"
	PermUserView          = "user.view"
	PermOrderChangeStatus = "order.change_status"
)

type Deps struct {
	DB              *gorm.DB
	AuthHandler     *handlers.AuthHandler
	CategoryHandler *handlers.CategoryHandler
	ProductHandler  *handlers.ProductHandler
	CartHandler     *handlers.CartHandler
	OrderHandler    *handlers.OrderHandler
	SearchHandler   *handlers.SearchHandler
	Tokens          *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.LogOut)
	auth.GET("/check", d.AuthHandler.Check, d.Tokens.Authenticated)

	api.GET("/search", d.SearchHandler.Search)

	categories := api.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.GET("/:slug", d.CategoryHandler.GetCategory)
	categories.GET("/:slug/products", d.CategoryHandler.GetCategoryProducts)
	categories.POST("", d.CategoryHandler.CreateCategory, d.Tokens.RequirePermission(PermCategoryAdd))
	categories.DELETE("/:slug", d.CategoryHandler.DeleteCategory, d.Tokens.RequirePermission(PermCategoryDelete))

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/filter", d.ProductHandler.FilterProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, d.Tokens.RequirePermission(PermProductAdd))
	products.PUT("/:id", d.ProductHandler.UpdateProduct, d.Tokens.RequirePermission(PermProductChange))
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.Tokens.RequirePermission(PermProductDelete))

	cart := api.Group("/cart", d.Tokens.Authenticated)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.DELETE("/:id", d.CartHandler.DeleteOneFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	orders := api.Group("/orders", d.Tokens.Authenticated)
	orders.POST("", d.OrderHandler.MakeOrder)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	admin := api.Group("/admin")
	admin.GET("/users", d.AuthHandler.GetUsers, d.Tokens.RequirePermission(PermUserView))
	admin.PUT("/orders/:id/status", d.OrderHandler.SetOrderStatus, d.Tokens.RequirePermission(PermOrderChangeStatus))
}
