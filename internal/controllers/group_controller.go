package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tourhub/internal/middleware"
	"tourhub/internal/models"
	"tourhub/internal/store"
)

type listGroupsQuery struct {
	store.Filter
	store.Page
}

// ListGroups handles GET /groups.
func (ctl *Controller) ListGroups(c *gin.Context) {
	var q listGroupsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, invalidBody(err))
		return
	}
	groups, err := ctl.store.FetchGroups(c.Request.Context(), q.Filter, q.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	page := q.Page.Normalized()
	c.JSON(http.StatusOK, gin.H{"groups": groups, "limit": page.Limit, "offset": page.Offset})
}

// CreateGroup handles POST /groups. Identity, counters and coordination
// state are server-owned and ignored in the body.
func (ctl *Controller) CreateGroup(c *gin.Context) {
	var g models.TravelGroup
	if err := c.ShouldBindJSON(&g); err != nil {
		respondError(c, invalidBody(err))
		return
	}
	g.Base = models.Base{}
	if err := ctl.travel.CreateGroup(c.Request.Context(), &g); err != nil {
		respondError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"group_id": g.ID,
		"user_id":  c.GetString(middleware.CtxUserID),
	}).Debug("Group created via API.")
	c.JSON(http.StatusCreated, gin.H{"group": g})
}

func (ctl *Controller) GetGroup(c *gin.Context) {
	g, err := ctl.store.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": g})
}

// UpdateGroup handles PUT /groups/:id as a partial update.
func (ctl *Controller) UpdateGroup(c *gin.Context) {
	var patch store.GroupPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, invalidBody(err))
		return
	}
	g, err := ctl.travel.UpdateGroup(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": g})
}

func (ctl *Controller) DeleteGroup(c *gin.Context) {
	if err := ctl.travel.DeleteGroup(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group deleted"})
}

// GroupSummary handles GET /groups/:id/summary.
func (ctl *Controller) GroupSummary(c *gin.Context) {
	sum, err := ctl.travel.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// AutoCoordinate handles POST /groups/:id/auto-coordinate.
func (ctl *Controller) AutoCoordinate(c *gin.Context) {
	out, err := ctl.coordinator.AutoCoordinateGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
