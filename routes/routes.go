package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/controllers"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/realtime"
)

// Controllers bundles every handler group the router mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Product  *controllers.ProductController
	Cart     *controllers.CartController
	Voucher  *controllers.VoucherController
	Order    *controllers.OrderController
	Settings *controllers.SettingsController
	Health   *controllers.HealthController
	Realtime *realtime.Handler
}

// RegisterRoutes mounts the storefront API. authenticate resolves the session
// cookie; adminOnly must run after it.
func RegisterRoutes(r *gin.Engine, c Controllers, authenticate, adminOnly gin.HandlerFunc, logger *zap.Logger) {
	r.GET("/", c.Health.Health)
	r.GET("/health", c.Health.Health)
	r.GET("/ws", c.Realtime.Serve)

	auth := r.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/register", c.Auth.Register)
		auth.GET("/logout", c.Auth.Logout)
		auth.POST("/forgotPassword", c.Auth.ForgotPassword)
		auth.POST("/create-password/:id", c.Auth.CreatePassword)

		session := auth.Group("", authenticate)
		session.GET("/myProfile", c.Auth.MyProfile)
		session.PATCH("/updateProfile", c.Auth.UpdateProfile)
		session.POST("/addAddress", c.Auth.AddAddress)
		session.PUT("/address/:id", c.Auth.UpdateAddress)
		session.DELETE("/address/:id", c.Auth.DeleteAddress)
	}

	users := r.Group("/users", authenticate, adminOnly)
	{
		users.GET("/all", c.User.List)
		users.GET("/:id", c.User.Get)
		users.DELETE("/:id", c.User.Delete)
		users.PATCH("/:id/status", c.User.UpdateStatus)
	}

	products := r.Group("/products")
	{
		products.GET("/all", c.Product.List)
		products.GET("/:id", c.Product.Get)

		admin := products.Group("", authenticate, adminOnly)
		admin.POST("/create", c.Product.Create)
		admin.PUT("/update/:id", c.Product.Update)
		admin.DELETE("/delete/:id", c.Product.Delete)
	}

	cart := r.Group("/cart", authenticate)
	{
		cart.GET("", c.Cart.Get)
		cart.POST("", c.Cart.Add)
		cart.PUT("", c.Cart.Update)
		cart.DELETE("", c.Cart.Remove)
		cart.POST("/checkout", c.Cart.Checkout)
	}

	voucher := r.Group("/voucher", authenticate)
	{
		voucher.POST("/apply", c.Voucher.Apply)
		voucher.POST("/remove", c.Voucher.Remove)

		admin := voucher.Group("", adminOnly)
		admin.POST("/create", c.Voucher.Create)
		admin.GET("/all", c.Voucher.List)
		admin.GET("/:id", c.Voucher.Get)
		admin.PUT("/:id", c.Voucher.Update)
		admin.DELETE("/:id", c.Voucher.Delete)
	}

	orders := r.Group("/orders", authenticate)
	{
		orders.GET("/my", c.Order.ListMine)
		orders.GET("/all", adminOnly, c.Order.List)
		orders.PATCH("/:id/status", adminOnly, c.Order.UpdateStatus)
	}

	settings := r.Group("/settings", authenticate, adminOnly)
	{
		settings.GET("", c.Settings.List)
		settings.POST("", c.Settings.Create)
		settings.PUT("/:id", c.Settings.Update)
	}

	logger.Info("Routes registered", zap.Int("count", len(r.Routes())))
}
