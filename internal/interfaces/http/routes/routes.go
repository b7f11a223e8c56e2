// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/favorite"
	"github.com/your-org/storefront-backend/internal/domain/interaction"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// SetupRoutes wires all services and mounts the API routes.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	// Domain services
	products := product.NewService(db, cfg)
	users := user.NewService(db, cfg)
	addresses := user.NewAddressService(db, cfg)

	guestStore := cart.NewGuestStore(cart.NewRedisPersister(redisClient, cfg.Pricing.GuestCartTTL), log)
	cartRepo := cart.NewRepository(db)
	carts := cart.NewService(cartRepo, guestStore, products, log)

	mailer := email.NewService(cfg, log)
	orders := order.NewService(db, cartRepo, addresses, mailer, cfg, log)
	checkouts := checkout.NewService(carts, orders, cfg, log)
	favorites := favorite.NewService(favorite.NewRedisKV(redisClient), products, log)
	interactions := interaction.NewService(db, log)
	invoices := pdf.NewService(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(users, carts, log)
	productHandler := handlers.NewProductHandler(products)
	cartHandler := handlers.NewCartHandler(carts)
	checkoutHandler := handlers.NewCheckoutHandler(checkouts)
	favoriteHandler := handlers.NewFavoriteHandler(favorites)
	interactionHandler := handlers.NewInteractionHandler(interactions)
	orderHandler := handlers.NewOrderHandler(orders, invoices, log)
	profileHandler := handlers.NewUserProfileHandler(users)
	addressHandler := handlers.NewUserAddressHandler(addresses)

	// Authentication
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Catalog, public
	productsGroup := rg.Group("/products")
	{
		productsGroup.GET("", productHandler.List)
		productsGroup.GET("/:id", productHandler.Get)
		productsGroup.GET("/slug/:slug", productHandler.GetBySlug)
	}
	promotions := rg.Group("/promotions")
	{
		promotions.GET("", productHandler.ListPromotions)
		promotions.GET("/:id", productHandler.GetPromotion)
	}

	// Cart: same endpoints for guests and signed-in customers
	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.DELETE("", cartHandler.Clear)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PUT("/items/:id", cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
		cartGroup.POST("/merge", cartHandler.Merge)
	}

	// Checkout wizard
	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		checkoutGroup.GET("/state", checkoutHandler.GetState)
		checkoutGroup.POST("/advance", checkoutHandler.Advance)
		checkoutGroup.POST("/step", checkoutHandler.GoToStep)
		checkoutGroup.GET("/summary", checkoutHandler.GetSummary)
		checkoutGroup.POST("/submit", checkoutHandler.Submit)
	}

	// Favorites follow the device session
	favoritesGroup := rg.Group("/favorites")
	{
		favoritesGroup.GET("", favoriteHandler.List)
		favoritesGroup.DELETE("", favoriteHandler.Clear)
		favoritesGroup.POST("/toggle", favoriteHandler.Toggle)
		favoritesGroup.GET("/check", favoriteHandler.Check)
	}

	// Interaction tracking, fire and forget
	interactionsGroup := rg.Group("/interactions")
	interactionsGroup.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		interactionsGroup.POST("", interactionHandler.Track)
	}

	// Order history, authenticated only
	ordersGroup := rg.Group("/orders")
	ordersGroup.Use(middleware.AuthMiddleware(cfg))
	{
		ordersGroup.GET("", orderHandler.List)
		ordersGroup.GET("/client/:userId", orderHandler.ListByClient)
		ordersGroup.GET("/:id", orderHandler.Get)
		ordersGroup.GET("/:id/invoice", orderHandler.Invoice)
	}

	// Account
	usersGroup := rg.Group("/users")
	usersGroup.Use(middleware.AuthMiddleware(cfg))
	{
		usersGroup.GET("/me", profileHandler.GetProfile)
		usersGroup.PUT("/me", profileHandler.UpdateProfile)
		usersGroup.PUT("/me/password", profileHandler.ChangePassword)

		usersGroup.GET("/me/addresses", addressHandler.List)
		usersGroup.POST("/me/addresses", addressHandler.Create)
		usersGroup.PUT("/me/addresses/:id", addressHandler.Update)
		usersGroup.DELETE("/me/addresses/:id", addressHandler.Delete)
	}
}
