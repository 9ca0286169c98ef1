package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Healthz reports whether the database is reachable.
func (ctl *Controller) Healthz(c *gin.Context) {
	if err := ctl.store.Ping(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
