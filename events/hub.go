package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/dimsumluna/ordering-backend/models"
	"github.com/gorilla/websocket"
)

// Event types pushed to connected dashboards and customer views. This
// is the cross-client change-notification channel: consumers re-read
// on receipt, no ordering guarantee beyond eventual observation.
const (
	EventOrderUpdate     = "order_update"
	EventMenuUpdate      = "menu_update"
	EventDashboardUpdate = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected client (customer, staff, admin) keyed by role.
type Hub struct {
	clients map[*websocket.Conn]string
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient releases a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderUpdate notifies every client that an order changed.
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{
		Event: EventOrderUpdate,
		Data:  order,
	})
}

// BroadcastMenuUpdate notifies every client that the catalog changed.
func BroadcastMenuUpdate(item models.MenuItem) {
	broadcast(Message{
		Event: EventMenuUpdate,
		Data:  item,
	})
}

// BroadcastDashboardUpdate pushes refreshed dashboard figures.
func BroadcastDashboardUpdate(data interface{}) {
	broadcast(Message{
		Event: EventDashboardUpdate,
		Data:  data,
	})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, role := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to %s client: %v", role, err)
			continue
		}
	}
}
