package routes

import (
	"github.com/gin-gonic/gin"

	"tourhub/internal/controllers"
)

// SegmentRoutes registers flights, ground transportation and lodging.
func SegmentRoutes(read, write *gin.RouterGroup, ctl *controllers.Controller) {
	read.GET("/flights", ctl.ListFlights)
	write.POST("/flights", ctl.CreateFlight)
	write.PUT("/flights/:id", ctl.UpdateFlight)
	write.DELETE("/flights/:id", ctl.DeleteFlight)

	read.GET("/transportation", ctl.ListTransportation)
	write.POST("/transportation", ctl.CreateTransportation)
	write.PUT("/transportation/:id", ctl.UpdateTransportation)
	write.DELETE("/transportation/:id", ctl.DeleteTransportation)

	read.GET("/lodging", ctl.ListLodging)
	write.POST("/lodging", ctl.CreateLodging)
	write.PUT("/lodging/:id", ctl.UpdateLodging)
	write.DELETE("/lodging/:id", ctl.DeleteLodging)
}
