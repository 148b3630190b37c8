package routes

import (
	"ghibli-backend/internal/api/handlers"
	"ghibli-backend/internal/middleware"
	"ghibli-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	SessionHandler   handlers.SessionHandler
	PhotoHandler     handlers.PhotoHandler
	TransformHandler handlers.TransformHandler
	CoinHandler      handlers.CoinHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Session()
	c.Photos()
	c.Transform()
	c.Coins()
	c.GuestRoute()
}

func (c *Config) Session() {
	sessions := c.App.Group("/api/v1/sessions")
	{
		sessions.Post("", c.SessionHandler.CreateSession)
	}
}

func (c *Config) Photos() {
	photos := c.App.Group("/api/v1/photos", c.Middleware.AuthMiddleware(c.JWTService))
	{
		photos.Get("", c.PhotoHandler.GetPhotos)
		photos.Delete("", c.PhotoHandler.DeleteAllPhotos)
		photos.Get("/:id", c.PhotoHandler.GetPhotoByID)
		photos.Get("/:id/download", c.PhotoHandler.DownloadPhoto)
		photos.Post("/:id/share", c.PhotoHandler.SharePhoto)
		photos.Post("/:id/regenerate", c.TransformHandler.Regenerate)
	}
}

func (c *Config) Transform() {
	c.App.Post(
		"/api/v1/transform",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.TransformHandler.Transform,
	)
}

func (c *Config) Coins() {
	coins := c.App.Group("/api/v1/coins", c.Middleware.AuthMiddleware(c.JWTService))
	{
		coins.Get("", c.CoinHandler.GetBalance)
		coins.Get("/packages", c.CoinHandler.GetCoinPackages)
		coins.Post("/purchase", c.CoinHandler.PurchaseCoins)
		coins.Post("/invoice", c.CoinHandler.CreateInvoice)
		coins.Post("/restore", c.CoinHandler.RestorePurchases)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.CoinHandler.MidtransWebhookHandler)
}
