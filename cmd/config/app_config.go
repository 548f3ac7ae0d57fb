package config

import (
	"RecipeAPI/internal/api/handlers"
	"RecipeAPI/internal/api/routes"
	"RecipeAPI/internal/middleware"
	"RecipeAPI/internal/utils"
	"RecipeAPI/internal/utils/mailing"
	"RecipeAPI/internal/utils/storage"
	"RecipeAPI/pkg/gdpr"
	"RecipeAPI/pkg/jwt"
	"RecipeAPI/pkg/notification"
	"RecipeAPI/pkg/permission"
	"RecipeAPI/pkg/recipe"
	"RecipeAPI/pkg/review"
	"RecipeAPI/pkg/social"
	"RecipeAPI/pkg/user"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// AppOptions overrides pieces of the wiring. Zero fields are built from config.
type AppOptions struct {
	Storage   storage.AwsS3
	Mailer    mailing.Mailer
	LogOutput io.Writer
	// RateLimit of 0 reads RATE_LIMIT_MAX; a negative value disables the limiter.
	RateLimit int
}

func logOutput() io.Writer {
	dir := utils.GetConfig("LOG_DIR")
	if dir == "" {
		return os.Stdout
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		filepath.Join(dir, "app.log"),
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	return file
}

func newStorage() storage.AwsS3 {
	cfg := storage.LoadS3Config()
	if cfg.Bucket == "" {
		log.Warnf("AWS_S3_BUCKET is not set, keeping uploads in memory")
		return storage.NewMemoryStorage(utils.GetConfigOr("APP_URL", "http://localhost:8080") + "/media")
	}
	s3, err := storage.NewAwsS3(context.Background(), cfg)
	if err != nil {
		log.Fatalf("error configuring s3: %v", err)
	}
	return s3
}

// tokenTTLs returns the access and refresh token lifetimes. Refresh tokens
// last one day unless REFRESH_TOKEN_TTL_HOURS says otherwise.
func tokenTTLs() (time.Duration, time.Duration) {
	access := time.Duration(utils.GetConfigInt("ACCESS_TOKEN_TTL_MINUTES", 60)) * time.Minute
	refresh := time.Duration(utils.GetConfigInt("REFRESH_TOKEN_TTL_HOURS", 24)) * time.Hour
	return access, refresh
}

func NewApp(db *gorm.DB, opts AppOptions) (*fiber.App, error) {
	secret := utils.GetConfig("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: utils.GetConfig("ENVIRONMENT") == "development",
	})
	middlewares := middleware.NewMiddleware(utils.GetConfig("CORS_ALLOW_ORIGINS"))
	validator := utils.Validate

	// setting up logging, recovery and limiter
	if opts.LogOutput == nil {
		opts.LogOutput = logOutput()
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     opts.LogOutput,
	}))

	if opts.RateLimit == 0 {
		opts.RateLimit = utils.GetConfigInt("RATE_LIMIT_MAX", 20)
	}
	if opts.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimit,
			Expiration: 1 * time.Second,
		}))
	}

	// utils
	if opts.Storage == nil {
		opts.Storage = newStorage()
	}
	if opts.Mailer == nil {
		opts.Mailer = mailing.NewMailer(mailing.LoadMailConfig())
	}
	s3 := opts.Storage

	// Repository
	userRepository := user.NewUserRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	tagRepository := recipe.NewTagRepository(db)
	reviewRepository := review.NewReviewRepository(db)
	socialRepository := social.NewSocialRepository(db)
	notificationRepository := notification.NewNotificationRepository(db)
	gdprRepository := gdpr.NewGDPRRepository(db)

	// Service
	accessTTL, refreshTTL := tokenTTLs()
	jwtService := jwt.NewJWTService(secret, accessTTL, refreshTTL)
	policy := permission.NewPolicy(utils.GetConfigBool("SCALE_REQUIRES_OWNER", false))
	trendingTTL := time.Duration(utils.GetConfigInt("TRENDING_CACHE_TTL_SECONDS", 300)) * time.Second

	notificationService := notification.NewNotificationService(notificationRepository, opts.Mailer)
	userService := user.NewUserService(userRepository, jwtService, s3)
	recipeService := recipe.NewRecipeService(recipeRepository, tagRepository, policy, s3, trendingTTL)
	catalogService := recipe.NewCatalogService(recipeRepository, tagRepository, policy)
	reviewService := review.NewReviewService(reviewRepository, policy, notificationService)
	socialService := social.NewSocialService(socialRepository, policy, notificationService)
	gdprService := gdpr.NewGDPRService(gdprRepository, s3)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	reviewHandler := handlers.NewReviewHandler(reviewService, validator)
	socialHandler := handlers.NewSocialHandler(socialService, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, validator)
	gdprHandler := handlers.NewGDPRHandler(gdprService)
	systemHandler := handlers.NewSystemHandler(db, utils.GetConfig("ENVIRONMENT"))

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		RecipeHandler:       recipeHandler,
		ReviewHandler:       reviewHandler,
		SocialHandler:       socialHandler,
		NotificationHandler: notificationHandler,
		CatalogHandler:      catalogHandler,
		GDPRHandler:         gdprHandler,
		SystemHandler:       systemHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
