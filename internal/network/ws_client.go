package network

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"reachz/internal/protocol"
	"reachz/internal/router"
)

// ErrClientClosed is returned when sending on a closed client
var ErrClientClosed = errors.New("ws client: closed")

// WSClient connects to the receiver's WebSocket control channel and keeps the
// connection up, reconnecting after failures.
type WSClient struct {
	hostAddr  string
	token     string
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// Callbacks
	OnConnect func()
	OnCarry   func(protocol.CarryPayload)
	OnStatus  func(json.RawMessage)
	OnError   func(protocol.ErrorPayload)

	// RetryDelay is the wait between reconnection attempts
	RetryDelay time.Duration

	mu          sync.Mutex
	isConnected bool
}

// NewWSClient creates a new WebSocket client for hostAddr ("host:port")
func NewWSClient(hostAddr, token string) *WSClient {
	return &WSClient{
		hostAddr:   hostAddr,
		token:      token,
		send:       make(chan []byte, 100),
		done:       make(chan struct{}),
		RetryDelay: 5 * time.Second,
	}
}

// Start begins the client loop (connect & process)
func (c *WSClient) Start() {
	go c.loop()
}

func (c *WSClient) loop() {
	for {
		c.connect()

		// If connect returns, it means we disconnected. Wait a bit and retry.
		select {
		case <-c.done:
			return
		case <-time.After(c.RetryDelay):
			log.Println("WS Client: Attempting reconnection...")
		}
	}
}

func (c *WSClient) connect() {
	u := url.URL{Scheme: "ws", Host: c.hostAddr, Path: "/ws"}
	log.Printf("WS Client: Connecting to %s", u.String())

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		log.Printf("WS Client: Connection failed: %v", err)
		return
	}
	defer conn.Close()

	c.setConnected(true)
	log.Println("WS Client: Connected")
	if c.OnConnect != nil {
		c.OnConnect()
	}

	connDone := make(chan struct{})
	stopWrite := make(chan struct{})
	go func() {
		defer close(connDone)
		c.writePump(conn, stopWrite)
	}()

	c.readPump(conn)

	c.setConnected(false)
	close(stopWrite)
	<-connDone
}

func (c *WSClient) setConnected(v bool) {
	c.mu.Lock()
	c.isConnected = v
	c.mu.Unlock()
}

func (c *WSClient) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(1 << 16)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	// Unblock the read when Close is called
	readDone := make(chan struct{})
	defer close(readDone)
	go func() {
		select {
		case <-c.done:
			conn.Close()
		case <-readDone:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WS Client: Read error: %v", err)
			}
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			log.Debugf("WS Client: Invalid message: %v", err)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) writePump(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second) // Ping ticker
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("WS Client: Write error: %v", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-stop:
			return

		case <-c.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}
	}
}

func (c *WSClient) handleMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeCarry:
		var payload protocol.CarryPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Debugf("WS Client: Bad carry payload: %v", err)
			return
		}
		if c.OnCarry != nil {
			c.OnCarry(payload)
		}

	case protocol.TypeStatus:
		if c.OnStatus != nil {
			c.OnStatus(msg.Payload)
		}

	case protocol.TypeError:
		var payload protocol.ErrorPayload
		json.Unmarshal(msg.Payload, &payload)
		log.Printf("WS Client: Server reported error: %s", payload.Message)
		if c.OnError != nil {
			c.OnError(payload)
		}
	}
}

func (c *WSClient) enqueue(data []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	}
}

// SendControl queues one address/args message for the receiver
func (c *WSClient) SendControl(msg router.Message) error {
	data, err := protocol.EncodeControl(msg)
	if err != nil {
		return err
	}
	return c.enqueue(data)
}

// RequestStatus asks the receiver for an engine snapshot
func (c *WSClient) RequestStatus() error {
	data, err := protocol.Encode(protocol.TypeStatusRequest, nil)
	if err != nil {
		return err
	}
	return c.enqueue(data)
}

// IsConnected returns true while the connection is up
func (c *WSClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected
}

// Close stops the client
func (c *WSClient) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
