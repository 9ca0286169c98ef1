package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourhub/internal/models"
	"tourhub/internal/store"
)

// Analytics handles GET /analytics.
func (ctl *Controller) Analytics(c *gin.Context) {
	var f store.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		respondError(c, invalidBody(err))
		return
	}
	a, err := ctl.store.FetchAnalytics(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (ctl *Controller) ListLogistics(c *gin.Context) {
	var f store.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		respondError(c, invalidBody(err))
		return
	}
	out, err := ctl.store.FetchLogistics(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logistics": out})
}

func (ctl *Controller) CreateLogistics(c *gin.Context) {
	var l models.TourLogistics
	if err := bindOnto(c, &l, &l.Base); err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.store.CreateLogistics(c.Request.Context(), &l); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"logistics": l})
}

func (ctl *Controller) UpdateLogistics(c *gin.Context) {
	l, err := ctl.store.UpdateLogistics(c.Request.Context(), c.Param("id"), func(l *models.TourLogistics) error {
		return bindOnto(c, l, &l.Base)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logistics": l})
}

// LogisticsProgress handles GET /logistics/:id/progress.
func (ctl *Controller) LogisticsProgress(c *gin.Context) {
	p, err := ctl.travel.LogisticsProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
