package routes

import (
	"github.com/gin-gonic/gin"

	"tourhub/internal/controllers"
)

func MemberRoutes(read, write *gin.RouterGroup, ctl *controllers.Controller) {
	read.GET("/members", ctl.ListMembers)

	write.POST("/groups/:id/members/bulk", ctl.BulkAddMembers)
	write.PATCH("/members/:id/status", ctl.UpdateMemberStatus)
	write.DELETE("/members/:id", ctl.DeleteMember)
}
