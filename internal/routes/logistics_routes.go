package routes

import (
	"github.com/gin-gonic/gin"

	"tourhub/internal/controllers"
)

func LogisticsRoutes(read, write *gin.RouterGroup, ctl *controllers.Controller) {
	read.GET("/analytics", ctl.Analytics)

	read.GET("/logistics", ctl.ListLogistics)
	read.GET("/logistics/:id/progress", ctl.LogisticsProgress)
	write.POST("/logistics", ctl.CreateLogistics)
	write.PUT("/logistics/:id", ctl.UpdateLogistics)
}
