package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the health and API v1 routes on router.
func RegisterRoutes(router *gin.Engine, health *HealthHandler, valuations *ValuationHandler) {
	router.GET("/health", health.Health)
	router.GET("/health/ready", health.Ready)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", health.Info)
		v1.GET("/road-bands", valuations.RoadBands)

		areas := v1.Group("/areas")
		{
			areas.GET("", valuations.Areas)
			areas.GET("/:name", valuations.Area)
		}

		vals := v1.Group("/valuations")
		{
			vals.POST("", valuations.Create)
			vals.GET("", valuations.History)
		}
	}
}
