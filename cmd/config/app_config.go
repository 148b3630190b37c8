package config

import (
	"os"
	"time"

	"ghibli-backend/internal/api/handlers"
	"ghibli-backend/internal/api/routes"
	"ghibli-backend/internal/middleware"
	"ghibli-backend/internal/utils"
	"ghibli-backend/internal/utils/mailing"
	"ghibli-backend/internal/utils/storage"
	"ghibli-backend/internal/utils/stylize"
	"ghibli-backend/pkg/coin"
	"ghibli-backend/pkg/iap"
	"ghibli-backend/pkg/jwt"
	"ghibli-backend/pkg/kvstore"
	"ghibli-backend/pkg/photo"
	"ghibli-backend/pkg/transform"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer := mailing.NewMailer()
	stylizeClient := stylize.NewClient(
		utils.GetConfig("STYLIZE_API_URL"),
		utils.GetConfig("STYLIZE_API_KEY"),
	)
	kv := newStateStore(db)

	// Repository
	coinRepository := coin.NewCoinRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	coinService, err := coin.NewCoinService(kv, iap.NewMockProvider(), iap.NewMidtransGateway(), coinRepository)
	if err != nil {
		return nil, err
	}
	photoService, err := photo.NewPhotoService(kv, mailer, s3)
	if err != nil {
		return nil, err
	}
	transformService := transform.NewTransformService(coinService, photoService, s3, stylizeClient)

	// Handler
	sessionHandler := handlers.NewSessionHandler(jwtService, validator)
	coinHandler := handlers.NewCoinHandler(coinService, validator)
	photoHandler := handlers.NewPhotoHandler(photoService, validator)
	transformHandler := handlers.NewTransformHandler(transformService, validator)

	// routes
	routesConfig := routes.Config{
		App:              app,
		SessionHandler:   sessionHandler,
		PhotoHandler:     photoHandler,
		TransformHandler: transformHandler,
		CoinHandler:      coinHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

// newStateStore picks the snapshot backend from config. Postgres reuses the
// main database connection; anything unrecognized falls back to memory.
func newStateStore(db *gorm.DB) kvstore.Store {
	switch utils.GetConfig("KV_BACKEND") {
	case "postgres":
		return kvstore.NewGormStore(db)
	case "redis":
		return kvstore.NewRedisStore(
			utils.GetConfig("REDIS_ADDR"),
			utils.GetConfig("REDIS_PASSWORD"),
		)
	default:
		return kvstore.NewMemoryStore()
	}
}
