package routes

import (
	"RecipeAPI/internal/api/handlers"
	"RecipeAPI/internal/middleware"
	"RecipeAPI/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	RecipeHandler       handlers.RecipeHandler
	ReviewHandler       handlers.ReviewHandler
	SocialHandler       handlers.SocialHandler
	NotificationHandler handlers.NotificationHandler
	CatalogHandler      handlers.CatalogHandler
	GDPRHandler         handlers.GDPRHandler
	SystemHandler       handlers.SystemHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use(c.Middleware.MetricsMiddleware())
	c.GuestRoute()
	c.User()
	c.Recipe()
	c.Catalog()
	c.Admin()
}

func (c *Config) auth() fiber.Handler {
	return c.Middleware.AuthMiddleware(c.JWTService)
}

func (c *Config) optionalAuth() fiber.Handler {
	return c.Middleware.OptionalAuthMiddleware(c.JWTService)
}

func (c *Config) GuestRoute() {
	c.App.Get("/health", c.SystemHandler.Health)
	c.App.Get("/status", c.SystemHandler.Status)
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	c.App.Post("/api/v1/token/refresh", c.UserHandler.RefreshToken)
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// static paths first so they are not taken for an :id
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)

		user.Get("/me", c.auth(), c.UserHandler.Me)
		user.Get("/me/favorites", c.auth(), c.SocialHandler.GetFavorites)
		user.Get("/me/notifications", c.auth(), c.NotificationHandler.GetNotifications)
		user.Get("/me/notifications/unread-count", c.auth(), c.NotificationHandler.UnreadCount)
		user.Post("/me/notifications/read-all", c.auth(), c.NotificationHandler.MarkAllAsRead)
		user.Post("/me/notifications/:id/read", c.auth(), c.NotificationHandler.MarkAsRead)

		user.Get("/gdpr/export", c.auth(), c.GDPRHandler.ExportUserData)
		user.Delete("/gdpr/delete", c.auth(), c.GDPRHandler.EraseUserData)
	}
	// profile and social graph
	{
		user.Get("/:id", c.optionalAuth(), c.UserHandler.GetProfile)
		user.Put("/:id", c.auth(), c.UserHandler.UpdateProfile)
		user.Post("/:id/picture", c.auth(), c.UserHandler.UploadProfilePicture)

		user.Post("/:id/follow", c.auth(), c.SocialHandler.Follow)
		user.Delete("/:id/follow", c.auth(), c.SocialHandler.Unfollow)
		user.Get("/:id/followers", c.SocialHandler.GetFollowers)
		user.Get("/:id/following", c.SocialHandler.GetFollowing)

		user.Get("/:id/messages", c.auth(), c.SocialHandler.GetMessages)
		user.Post("/:id/messages", c.auth(), c.SocialHandler.SendMessage)
		user.Get("/:id/messages/:messageId", c.auth(), c.SocialHandler.GetMessage)
	}
}

func (c *Config) Recipe() {
	recipe := c.App.Group("/api/v1/recipes")
	{
		recipe.Get("/", c.RecipeHandler.GetRecipes)
		recipe.Post("/", c.auth(), c.RecipeHandler.CreateRecipe)
		recipe.Get("/trending", c.RecipeHandler.GetTrendingRecipes)
		recipe.Get("/search", c.RecipeHandler.SearchRecipes)

		recipe.Get("/:id", c.optionalAuth(), c.RecipeHandler.GetRecipeDetail)
		recipe.Patch("/:id", c.auth(), c.RecipeHandler.UpdateRecipe)
		recipe.Delete("/:id", c.auth(), c.RecipeHandler.DeleteRecipe)
		recipe.Post("/:id/publish", c.auth(), c.RecipeHandler.PublishRecipe)
		recipe.Post("/:id/scale-ingredients", c.optionalAuth(), c.RecipeHandler.ScaleIngredients)
		recipe.Get("/:id/versions", c.optionalAuth(), c.RecipeHandler.GetVersions)
		recipe.Get("/:id/versions/:number", c.optionalAuth(), c.RecipeHandler.GetVersion)
		recipe.Get("/:id/stats", c.optionalAuth(), c.RecipeHandler.GetRecipeStats)
		recipe.Post("/:id/images", c.auth(), c.RecipeHandler.UploadRecipeImage)
	}
	// reviews
	{
		recipe.Get("/:id/comments", c.optionalAuth(), c.ReviewHandler.GetComments)
		recipe.Post("/:id/comments", c.auth(), c.ReviewHandler.CreateComment)
		recipe.Delete("/:id/comments/:commentId", c.auth(), c.ReviewHandler.DeleteComment)

		recipe.Get("/:id/ratings", c.optionalAuth(), c.ReviewHandler.GetRatings)
		recipe.Post("/:id/ratings", c.auth(), c.ReviewHandler.RateRecipe)
		recipe.Delete("/:id/ratings", c.auth(), c.ReviewHandler.DeleteRating)

		recipe.Post("/:id/favorite", c.auth(), c.SocialHandler.AddFavorite)
		recipe.Delete("/:id/favorite", c.auth(), c.SocialHandler.RemoveFavorite)
	}
}

func (c *Config) Catalog() {
	v1 := c.App.Group("/api/v1")
	{
		v1.Get("/tags", c.CatalogHandler.GetTags)
		v1.Get("/tags/:slug", c.CatalogHandler.GetTag)
		v1.Get("/ingredients", c.CatalogHandler.GetIngredients)
		v1.Get("/ingredients/:id", c.CatalogHandler.GetIngredient)
	}
}

func (c *Config) Admin() {
	admin := c.App.Group("/api/v1/admin", c.auth(), c.Middleware.AdminMiddleware())
	{
		admin.Patch("/comments/:id", c.ReviewHandler.ModerateComment)
		admin.Patch("/ratings/:id", c.ReviewHandler.ModerateRating)
		admin.Post("/tags", c.CatalogHandler.CreateTag)
	}
}
