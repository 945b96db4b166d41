package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slotbook/handlers"
)

// RegisterSchedulingRoutes registers all endpoints for the scheduling core.
func RegisterSchedulingRoutes(r *gin.Engine, h *handlers.SchedulingHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	scheduling := r.Group("/api/scheduling")
	{
		scheduling.GET("/availability", h.GetAvailability)
		scheduling.POST("/session", h.StartBookingSession)                    // Phase 1: list slots
		scheduling.POST("/session/:sessionID/confirm", h.ConfirmBooking)      // Phase 2: confirm chosen slot
		scheduling.POST("/appointments", h.BookAppointment)                   // Direct booking (admin)
		scheduling.PUT("/appointments/:appointmentID", h.RescheduleAppointment)
		scheduling.DELETE("/appointments/:appointmentID", h.CancelAppointment)
		scheduling.GET("/appointments", h.ListOwnerAppointments)
	}
}
