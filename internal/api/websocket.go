package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"reachz/internal/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins as this is a local network tool
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSManager handles WebSocket connections and broadcasting
type WSManager struct {
	server     *Server
	clients    map[*WebSocketClient]bool
	clientsMu  sync.RWMutex
	broadcast  chan []byte
	register   chan *WebSocketClient
	unregister chan *WebSocketClient
	shutdown   chan struct{}
	stopOnce   sync.Once
}

// WebSocketClient represents a connected controller
type WebSocketClient struct {
	manager *WSManager
	conn    *websocket.Conn
	id      string
	ip      string

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newWSManager(s *Server) *WSManager {
	return &WSManager{
		server:     s,
		clients:    make(map[*WebSocketClient]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *WebSocketClient),
		unregister: make(chan *WebSocketClient),
		shutdown:   make(chan struct{}),
	}
}

func (m *WSManager) start() {
	for {
		select {
		case client := <-m.register:
			m.clientsMu.Lock()
			m.clients[client] = true
			n := len(m.clients)
			m.clientsMu.Unlock()
			log.Printf("WS: Client %s registered from %s. Total clients: %d", client.id, client.ip, n)

		case client := <-m.unregister:
			m.clientsMu.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				client.close()
				log.Printf("WS: Client %s unregistered. Total clients: %d", client.id, len(m.clients))
			}
			m.clientsMu.Unlock()

		case message := <-m.broadcast:
			m.broadcastMessage(message)

		case <-m.shutdown:
			m.clientsMu.Lock()
			for client := range m.clients {
				client.close()
				delete(m.clients, client)
			}
			m.clientsMu.Unlock()
			return
		}
	}
}

func (m *WSManager) stop() {
	m.stopOnce.Do(func() { close(m.shutdown) })
}

// Clients returns the number of connected clients
func (m *WSManager) Clients() int {
	m.clientsMu.RLock()
	defer m.clientsMu.RUnlock()
	return len(m.clients)
}

func (m *WSManager) broadcastMessage(message []byte) {
	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()

	for client := range m.clients {
		if !client.queue(message) {
			// Slow client: drop it rather than stall everyone else
			client.close()
			delete(m.clients, client)
		}
	}
}

// Broadcast encodes payload and queues it for every client. It never blocks
// the caller; when the hub is backed up the message is dropped.
func (m *WSManager) Broadcast(t protocol.MessageType, payload any) {
	data, err := protocol.Encode(t, payload)
	if err != nil {
		log.Errorf("WS: Failed to encode broadcast message: %v", err)
		return
	}
	select {
	case m.broadcast <- data:
	default:
		log.Warnf("WS: broadcast queue full, dropping %s message", t)
	}
}

func (m *WSManager) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WS: Failed to upgrade connection: %v", err)
		return
	}

	client := &WebSocketClient{
		manager: m,
		conn:    conn,
		send:    make(chan []byte, 256),
		id:      uuid.NewString(),
		ip:      r.RemoteAddr,
	}

	select {
	case m.register <- client:
	case <-m.shutdown:
		conn.Close()
		return
	}

	// Start pump goroutines
	go client.writePump()
	go client.readPump()
}

// queue adds data to the send buffer. It reports false when the client is
// closed or its buffer is full.
func (c *WebSocketClient) queue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *WebSocketClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *WebSocketClient) reply(t protocol.MessageType, payload any) {
	data, err := protocol.Encode(t, payload)
	if err != nil {
		log.Errorf("WS: Failed to encode %s reply: %v", t, err)
		return
	}
	c.queue(data)
}

// readPump pumps messages from the websocket connection to the engine.
func (c *WebSocketClient) readPump() {
	defer func() {
		select {
		case c.manager.unregister <- c:
		case <-c.manager.shutdown:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1 << 16)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WS: Read error from %s: %v", c.id, err)
			}
			break
		}
		// Any traffic counts as liveness
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		c.handleMessage(message)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(50 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WebSocketClient) handleMessage(data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		log.Debugf("WS: Invalid message from %s: %v", c.id, err)
		c.reply(protocol.TypeError, protocol.ErrorPayload{Message: err.Error()})
		return
	}

	switch msg.Type {
	case protocol.TypeControl:
		ctl, err := protocol.DecodeControl(msg.Payload)
		if err != nil {
			log.Debugf("WS: Invalid control payload from %s: %v", c.id, err)
			c.reply(protocol.TypeError, protocol.ErrorPayload{Message: err.Error()})
			return
		}
		c.manager.server.ctl.Dispatch(ctl)

	case protocol.TypeStatusRequest:
		c.reply(protocol.TypeStatus, c.manager.server.status())

	case protocol.TypePing:
		c.reply(protocol.TypePing, nil)

	default:
		c.reply(protocol.TypeError, protocol.ErrorPayload{Message: "unknown message type " + string(msg.Type)})
	}
}
