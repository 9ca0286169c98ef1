package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"tourhub/internal/apperr"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", apperr.Validation("name is required"), http.StatusBadRequest,
			`{"error":"name is required","code":"VALIDATION"}`},
		{"not found", apperr.NotFound("travel group", "g1"), http.StatusNotFound,
			`{"error":"travel group \"g1\" not found","code":"NOT_FOUND"}`},
		{"conflict", apperr.Conflict("flight is full", nil), http.StatusConflict,
			`{"error":"flight is full","code":"CONFLICT"}`},
		{"timeout", apperr.Timeout("query timed out", nil), http.StatusGatewayTimeout,
			`{"error":"query timed out","code":"TIMEOUT"}`},
		{"internal detail hidden", errors.New("pq: relation missing"), http.StatusInternalServerError,
			`{"error":"internal server error","code":"INTERNAL"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws/coordination", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	open := originChecker(nil)
	assert.True(t, open(req("https://anywhere.example")))

	strict := originChecker([]string{"https://ops.example"})
	assert.True(t, strict(req("https://ops.example")))
	assert.True(t, strict(req("")))
	assert.False(t, strict(req("https://evil.example")))
}

func TestWsScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	scope := func(query string) string {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/ws/coordination"+query, nil)
		return wsScope(c)
	}

	assert.Equal(t, "*", scope(""))
	assert.Equal(t, "tour:t1", scope("?tour_id=t1"))
	assert.Equal(t, "event:e1", scope("?event_id=e1"))
	assert.Equal(t, "tour:t1", scope("?event_id=e1&tour_id=t1"))
}
