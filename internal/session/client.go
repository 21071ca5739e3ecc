package session

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	readLimitBytes = 4096
)

// Client owns one WebSocket connection and its per-connection Session.
// A Client/SafeSend/SafeClose pattern narrowed to a single connection:
// this engine's sessions never broadcast to any client but their own.
type Client struct {
	ID      string
	conn    *websocket.Conn
	send    chan []byte
	session *Session

	closeOnce sync.Once
	quit      chan struct{}
}

// NewClient wraps an upgraded WebSocket connection in a Client with a
// fresh, idle Session.
func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:      id,
		conn:    conn,
		send:    make(chan []byte, 64),
		session: New(),
		quit:    make(chan struct{}),
	}
}

// SafeSend enqueues a message for delivery, dropping it rather than
// blocking if the client's send buffer is full or already closed.
func (c *Client) SafeSend(v interface{}) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[session] send channel closed for %s, dropping message", c.ID)
			sent = false
		}
	}()
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("[session] failed to marshal outbound message for %s: %v", c.ID, err)
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		log.Printf("[session] send buffer full for %s, dropping message", c.ID)
		return false
	}
}

// Close stops the client's cadence loop and closes its send channel
// exactly once, however many goroutines call it.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.quit)
		close(c.send)
	})
}

// Run drives the client's full lifecycle: inbound message processing, the
// AI/comparison cadence timer, and the outbound write pump. It blocks
// until the connection closes.
func (c *Client) Run() {
	go c.writePump()
	c.readLoopWithCadence()
}

// readLoopWithCadence reads inbound frames and, concurrently, fires the
// session's cadence timer whenever AI or comparison play is active. Both
// sources of work are serialized onto this single goroutine so the
// session itself never needs its own locking (one cooperative
// event loop per connection).
func (c *Client) readLoopWithCadence() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[session] panic in client %s: %v", c.ID, r)
		}
		c.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimitBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	inbound := make(chan []byte)
	go func() {
		defer close(inbound)
		for {
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				return
			}
			select {
			case inbound <- message:
			case <-c.quit:
				return
			}
		}
	}()

	var cadence *time.Timer
	var cadenceC <-chan time.Time
	resetCadence := func() {
		if cadence != nil {
			cadence.Stop()
		}
		if c.session.State() == StateAIPlaying || c.session.State() == StateComparing {
			cadence = time.NewTimer(c.session.CadenceInterval())
			cadenceC = cadence.C
		} else {
			cadenceC = nil
		}
	}

	for {
		select {
		case message, ok := <-inbound:
			if !ok {
				return
			}
			c.handleInbound(message)
			resetCadence()
		case <-cadenceC:
			msgs, finished, err := c.session.Advance()
			if err != nil {
				log.Printf("[session] cadence error for %s: %v", c.ID, err)
			}
			for _, m := range msgs {
				c.SafeSend(m)
			}
			if !finished {
				resetCadence()
			} else {
				cadenceC = nil
			}
		case <-c.quit:
			return
		}
	}
}

func (c *Client) handleInbound(raw []byte) {
	msg, err := ParseClientMessage(raw)
	if err != nil {
		c.SafeSend(NewErrorMessage(ErrInvalidMessage, err.Error()))
		return
	}
	replies, err := c.session.Handle(msg)
	if err != nil {
		c.SafeSend(NewErrorMessage(ErrInvalidMessage, err.Error()))
		return
	}
	for _, r := range replies {
		c.SafeSend(r)
	}
}

// writePump owns the connection's write side: draining the send channel
// and sending periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.quit:
			return
		}
	}
}
