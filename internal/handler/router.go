package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/offerfinder/internal/metrics"
	"github.com/GTDGit/offerfinder/internal/middleware"
)

// Handlers groups every HTTP handler of the service.
type Handlers struct {
	Health    *HealthHandler
	Offer     *OfferHandler
	Reference *ReferenceHandler
}

// SetupRoutes registers all routes. m may be nil, in which case /metrics is
// not exposed.
func SetupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware, m *metrics.Metrics) {
	RegisterValidators()

	router.GET("/v1/health", handlers.Health.GetHealth)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Buyer routes (public)
	offers := router.Group("/v1/offers")
	{
		offers.POST("/search", handlers.Offer.Search)
		offers.GET("/:id", handlers.Offer.Get)
		offers.GET("/:id/addons", handlers.Offer.AddOns)
		offers.POST("/:id/compare", handlers.Offer.Compare)
	}

	reference := router.Group("/v1/reference")
	{
		reference.GET("/regions", handlers.Reference.GetRegions)
		reference.GET("/manufacturers", handlers.Reference.GetManufacturers)
		reference.GET("/models", handlers.Reference.GetModels)
		reference.GET("/models/:id/storages", handlers.Reference.GetStorages)
		reference.GET("/carriers", handlers.Reference.GetCarriers)
	}

	// Store operator routes (protected with JWT)
	store := router.Group("/v1/store")
	store.Use(jwtMiddleware.Handle())
	{
		store.POST("/offers", handlers.Offer.Submit)
	}
}
