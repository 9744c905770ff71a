package api

import (
	"github.com/bilgisen/cryptonews/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers) {
	// The JSON API is consumed cross-origin by the front end
	app.Use(cors.New())

	app.Get("/health", handlers.HealthCheck)
	app.Get("/sitemap.xml", handlers.GetSitemap)
	app.Get("/feed.xml", handlers.GetFeed)

	api := app.Group("/api")

	api.Get("/news", handlers.GetNews)
	api.Get("/popular", handlers.GetPopular)
	api.Get("/article", middleware.ValidateQuery[URLQuery](), handlers.GetArticle)
	api.Get("/view-count", middleware.ValidateQuery[URLQuery](), handlers.GetViewCount)
	api.Get("/related-posts", middleware.ValidateQuery[RelatedQuery](), handlers.GetRelatedPosts)
	api.Get("/proxy-content", middleware.ValidateQuery[URLQuery](), handlers.ProxyContent)

	// 404 for anything the static handler did not already serve
	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
