package controllers

import (
	"net/http"

	"github.com/dimsumluna/ordering-backend/events"
	"github.com/dimsumluna/ordering-backend/middlewares"
	"github.com/dimsumluna/ordering-backend/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsHandler -> websocket endpoint for live order/menu updates
func EventsHandler(c *gin.Context) {
	sess, exists := middlewares.SessionFrom(c)
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	switch sess.Role {
	case models.RoleCustomer, models.RoleStaff, models.RoleAdmin:
	default:
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	events.RegisterClient(ws, sess.Role)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	events.UnregisterClient(ws)
}
