package routes

import (
	"github.com/gin-gonic/gin"

	"appointments-server/internal/appointments"
	"appointments-server/internal/handlers"
	"appointments-server/internal/middleware"
	"appointments-server/internal/services"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, repo appointments.Repository, engine *appointments.Engine, clock appointments.Clock, managers *services.ManagerService) {
	// Initialize handlers
	appointmentHandler := handlers.NewAppointmentHandler(repo, engine, clock)
	managerHandler := handlers.NewManagerHandler(repo, managers)

	api := router.Group("/api/v1")
	api.Use(middleware.RequestorIdentity())
	{
		appointmentRoutes := api.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/query", appointmentHandler.QueryAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)

			// Lifecycle transitions; authorization happens in the engine
			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment)
			appointmentRoutes.PATCH("/:id/sign", appointmentHandler.SignAppointment)
			appointmentRoutes.DELETE("/:id", appointmentHandler.RemoveAppointment)
		}

		managerRoutes := api.Group("/managers")
		{
			managerRoutes.GET("", managerHandler.GetManagers)
			managerRoutes.POST("", managerHandler.SubscribeManager)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
