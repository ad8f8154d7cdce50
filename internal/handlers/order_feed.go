package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/creativeyMedia/Fwkantine-sub001/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OrderFeed is the single feed hub for the whole application. Kitchen and
// counter displays subscribe per department and receive order events as they
// happen.
var OrderFeed = NewFeedHub()

// OrderEvent is one message on the feed.
type OrderEvent struct {
	Type         string        `json:"type"`
	DepartmentID uint          `json:"department_id"`
	Order        *models.Order `json:"order,omitempty"`
}

type feedClient struct {
	hub          *FeedHub
	conn         *websocket.Conn
	send         chan []byte
	departmentID uint
}

// FeedHub fans order events out to the subscribed clients of a department.
type FeedHub struct {
	clients    map[*feedClient]bool
	events     chan OrderEvent
	register   chan *feedClient
	unregister chan *feedClient
	mu         sync.Mutex
}

func NewFeedHub() *FeedHub {
	return &FeedHub{
		clients:    make(map[*feedClient]bool),
		events:     make(chan OrderEvent, 256),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
	}
}

// Run processes registrations and events. Started once from main.
func (h *FeedHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("feed client registered", "department_id", client.departmentID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			slog.Info("feed client unregistered", "department_id", client.departmentID)

		case event := <-h.events:
			h.broadcast(event)
		}
	}
}

// Publish queues an event without ever blocking the request handler. When the
// buffer is full (or the hub is not running, as in tests) the event is
// dropped: the feed is a live view, not a durable log.
func (h *FeedHub) Publish(departmentID uint, event OrderEvent) {
	event.DepartmentID = departmentID
	select {
	case h.events <- event:
	default:
	}
}

func (h *FeedHub) broadcast(event OrderEvent) {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal feed event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if client.departmentID != event.DepartmentID {
			continue
		}
		select {
		case client.send <- messageBytes:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (c *feedClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	// The feed is one-way; the read loop only notices disconnects.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("unexpected websocket close", "error", err)
			}
			break
		}
	}
}

func (c *feedClient) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			slog.Error("failed to write feed message", "error", err)
			return
		}
	}
}

// OrderFeedEndpoint upgrades the connection and subscribes it to the session
// department's events.
func OrderFeedEndpoint(c *gin.Context) {
	departmentID := sessionDepartmentID(c)
	if departmentID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("failed to upgrade connection to websocket", "error", err)
		return
	}

	client := &feedClient{
		hub:          OrderFeed,
		conn:         conn,
		send:         make(chan []byte, 256),
		departmentID: departmentID,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
