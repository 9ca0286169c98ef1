package routes

import (
	"github.com/gin-gonic/gin"

	"tourhub/internal/controllers"
)

func GroupRoutes(read, write *gin.RouterGroup, ctl *controllers.Controller) {
	read.GET("/groups", ctl.ListGroups)
	read.GET("/groups/:id", ctl.GetGroup)
	read.GET("/groups/:id/summary", ctl.GroupSummary)

	write.POST("/groups", ctl.CreateGroup)
	write.PUT("/groups/:id", ctl.UpdateGroup)
	write.DELETE("/groups/:id", ctl.DeleteGroup)
	write.POST("/groups/:id/auto-coordinate", ctl.AutoCoordinate)
}
