package kds

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// Event types
const (
	EventOrderCreated    = "order_created"
	EventOrderUpdate     = "order_update"
	EventTableUpdate     = "table_update"
	EventTableCreate     = "table_create"
	EventTableDelete     = "table_delete"
	EventDashboardUpdate = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn adalah bagian dari *websocket.Conn yang dipakai hub.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub menampung semua client (kasir, chef, admin) yang mendengarkan
// perubahan meja dan order.
type Hub struct {
	clients map[Conn]string // conn -> role
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Conn]string)}
}

var defaultHub = NewHub()

// Default returns the hub used by the package-level helpers.
func Default() *Hub {
	return defaultHub
}

// Register -> menambahkan connection dengan role
func (h *Hub) Register(conn Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

// Unregister -> melepaskan connection
func (h *Hub) Unregister(conn Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast mengirim pesan ke semua client. Client yang gagal menerima
// dilepas dari hub.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, role := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"event": msg.Event,
				"role":  role,
			}).Errorf("Error sending message to client: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"event":   msg.Event,
		"clients": len(h.clients),
	}).Debug("broadcast")
}

func RegisterClient(conn Conn, role string) {
	defaultHub.Register(conn, role)
}

func UnregisterClient(conn Conn) {
	defaultHub.Unregister(conn)
}

// BroadcastOrderCreated -> order baru dari terminal POS, untuk dapur
func BroadcastOrderCreated(order models.Order) {
	defaultHub.Broadcast(Message{Event: EventOrderCreated, Data: order})
}

// BroadcastOrderUpdate -> perubahan status order
func BroadcastOrderUpdate(order models.Order) {
	defaultHub.Broadcast(Message{Event: EventOrderUpdate, Data: order})
}

// BroadcastTableUpdate -> perubahan status meja, termasuk stats dashboard
func BroadcastTableUpdate(table models.Table, stats map[string]int64) {
	defaultHub.Broadcast(Message{
		Event: EventTableUpdate,
		Data: map[string]interface{}{
			"table": table,
			"stats": stats,
		},
	})
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	defaultHub.Broadcast(msg)
}
