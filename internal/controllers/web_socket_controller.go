package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"tourhub/internal/events"
	"tourhub/internal/middleware"
)

// wsScope picks the subscription scope from the query. A tour id wins over
// an event id; neither subscribes to every group.
func wsScope(c *gin.Context) string {
	if id := c.Query("tour_id"); id != "" {
		return events.TourScope(id)
	}
	if id := c.Query("event_id"); id != "" {
		return events.EventScope(id)
	}
	return events.ScopeAll
}

// authenticateWebSocket validates the token passed in the query string, since
// browsers cannot set headers on a WebSocket handshake.
func (ctl *Controller) authenticateWebSocket(c *gin.Context) (*middleware.Claims, error) {
	token := c.Query("token")
	if token == "" {
		return nil, errors.New("missing authentication token")
	}
	claims, err := ctl.auth.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// HandleCoordinationWebSocket streams group events for one tour, one event or
// everything to a dashboard client. Clients only listen; anything they send
// is discarded.
func (ctl *Controller) HandleCoordinationWebSocket(c *gin.Context) {
	claims, err := ctl.authenticateWebSocket(c)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket connection attempt rejected.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	conn, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	scope := wsScope(c)
	fields := logrus.Fields{
		"user_id":  claims.UserID,
		"scope":    scope,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}
	logrus.WithFields(fields).Info("Coordination WebSocket connection established.")

	ctl.hub.Register(scope, conn)
	defer ctl.hub.Unregister(scope, conn)

	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithFields(fields).Warn("Error reading from coordination WebSocket.")
			}
			break
		}
	}
	logrus.WithFields(fields).Info("Coordination WebSocket connection closed.")
}
