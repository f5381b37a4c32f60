package signaling

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// PresenceEvent is pushed to subscribed clients whenever a character's
// resolved status changes between sweeps.
type PresenceEvent struct {
	Type        string  `json:"type"`
	CharacterID string  `json:"character_id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Activity    *string `json:"activity"`
	NextChange  *string `json:"next_change"`
	Timestamp   int64   `json:"timestamp"`
}

type client struct {
	conn   *websocket.Conn
	sendCh chan []byte
	subs   map[string]bool // character IDs; empty means everything
	mu     sync.Mutex
}

// PresenceHub fans presence transitions out to connected UI clients.
type PresenceHub struct {
	clients map[*client]struct{}
	mu      sync.RWMutex
}

func NewPresenceHub() *PresenceHub {
	return &PresenceHub{
		clients: make(map[*client]struct{}),
	}
}

// HandleWebSocket upgrades the connection and serves the feed until the
// client goes away.
func (h *PresenceHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{
		conn:   conn,
		sendCh: make(chan []byte, 64),
		subs:   make(map[string]bool),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	log.Printf("🔌 Presence feed client connected (%d total)", h.ClientCount())

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *PresenceHub) readLoop(c *client) {
	defer h.drop(c)

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg struct {
			Type         string   `json:"type"`
			CharacterIDs []string `json:"character_ids"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "subscribe":
			c.mu.Lock()
			for _, id := range msg.CharacterIDs {
				c.subs[id] = true
			}
			c.mu.Unlock()
		case "unsubscribe":
			c.mu.Lock()
			for _, id := range msg.CharacterIDs {
				delete(c.subs, id)
			}
			c.mu.Unlock()
		}
	}
}

func (h *PresenceHub) writeLoop(c *client) {
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case data, ok := <-c.sendCh:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-pingTicker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Broadcast delivers one event to every client subscribed to the character
// (or to everything). Slow clients are skipped rather than blocking the
// sweep.
func (h *PresenceHub) Broadcast(ev PresenceEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		c.mu.Lock()
		interested := len(c.subs) == 0 || c.subs[ev.CharacterID]
		c.mu.Unlock()
		if !interested {
			continue
		}

		select {
		case c.sendCh <- data:
		default:
		}
	}
}

func (h *PresenceHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *PresenceHub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.sendCh)
	}
	h.mu.Unlock()

	c.conn.Close()
	log.Printf("🔌 Presence feed client disconnected (%d total)", h.ClientCount())
}
