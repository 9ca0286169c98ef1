// Package controllers holds the gin handlers for the travel coordination API.
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"tourhub/internal/apperr"
	"tourhub/internal/events"
	"tourhub/internal/middleware"
	"tourhub/internal/services"
	"tourhub/internal/store"
)

// Deps are the collaborators a Controller needs.
type Deps struct {
	Store          *store.Store
	Travel         *services.TravelService
	Coordinator    *services.Coordinator
	Hub            *events.Hub
	Auth           *middleware.Auth
	AllowedOrigins []string
}

// Controller serves every API route.
type Controller struct {
	store       *store.Store
	travel      *services.TravelService
	coordinator *services.Coordinator
	hub         *events.Hub
	auth        *middleware.Auth
	upgrader    websocket.Upgrader
}

func New(d Deps) *Controller {
	return &Controller{
		store:       d.Store,
		travel:      d.Travel,
		coordinator: d.Coordinator,
		hub:         d.Hub,
		auth:        d.Auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(d.AllowedOrigins),
		},
	}
}

// originChecker accepts any origin when none are configured.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if len(allowed) == 0 || origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// respondError writes a coded error body. Internal failures are logged and
// their detail is not sent to the client.
func respondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":   c.FullPath(),
			"method": c.Request.Method,
			"code":   code,
		}).Error("Request failed.")
		if code == apperr.CodeInternal {
			msg = "internal server error"
		}
	}
	c.JSON(status, gin.H{"error": msg, "code": code})
}

// invalidBody wraps a binding failure as a validation error.
func invalidBody(err error) error {
	return apperr.Validation("invalid request body: %v", err)
}
