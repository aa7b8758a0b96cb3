package server

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"legislature/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// ClientType distinguishes the shared table display from player connections.
type ClientType int

const (
	ClientTable  ClientType = 0
	ClientPlayer ClientType = 1
)

func (t ClientType) String() string {
	if t == ClientTable {
		return "table"
	}
	return "player"
}

// Client is one websocket connection. The table display only watches until
// it joins as a player. PlayerID and Type belong to the hub goroutine; the
// pumps never read them.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	doneOnce sync.Once
	PlayerID string
	Type     ClientType
}

func NewClient(hub *Hub, conn *websocket.Conn, clientType ClientType) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
		Type: clientType,
	}
}

func (c *Client) name() string {
	if c.PlayerID == "" {
		return c.Type.String()
	}
	return c.Type.String() + " " + c.PlayerID
}

func (c *Client) addr() string {
	if c.conn == nil {
		return "detached"
	}
	return c.conn.RemoteAddr().String()
}

// release tells the write pump to say goodbye. The send queue is never
// closed, so a late enqueue is dropped instead of panicking.
func (c *Client) release() {
	c.doneOnce.Do(func() { close(c.done) })
}

// ReadPump forwards client messages to the hub until the connection drops
// or the hub stops. The write pump owns closing the socket, after the hub
// has released the client.
func (c *Client) ReadPump() {
	defer c.hub.Unregister(c)
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env protocol.Envelope
		err := c.conn.ReadJSON(&env)
		if malformed(err) {
			if !c.hub.Deliver(IncomingMessage{Client: c, Malformed: true}) {
				return
			}
			continue
		}
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error from %s: %v", c.addr(), err)
			}
			return
		}
		if !c.hub.Deliver(IncomingMessage{Client: c, Envelope: env}) {
			return
		}
	}
}

func malformed(err error) bool {
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	return errors.As(err, &syntax) || errors.As(err, &typ)
}

// check filters what the hub will not act on. Called on the hub goroutine.
func (c *Client) check(msg IncomingMessage) string {
	if msg.Malformed {
		return "malformed message"
	}
	typ := msg.Envelope.Type
	if !protocol.IsClientMessage(typ) {
		return "unknown message type " + typ
	}
	if c.Type == ClientTable && typ != protocol.MsgJoin {
		return "the table display cannot act"
	}
	return ""
}

// WritePump drains the send queue to the socket and keeps the connection
// alive with pings. Once the hub releases the client it flushes what is
// queued and closes the socket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			if err := c.write(websocket.TextMessage, message); err != nil {
				log.Printf("ws write to %s: %v", c.addr(), err)
				return
			}
		case <-c.done:
			c.flush()
			c.write(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game closed"))
			return
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

func (c *Client) flush() {
	for {
		select {
		case message := <-c.send:
			if c.write(websocket.TextMessage, message) != nil {
				return
			}
		default:
			return
		}
	}
}

// SendEnvelope queues a typed message for this client.
func (c *Client) SendEnvelope(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("marshal %s for %s: %v", env.Type, c.name(), err)
		return
	}
	c.enqueue(data)
}

// enqueue never blocks the hub; a client that stops reading loses messages
// and catches up on the next full state.
func (c *Client) enqueue(data []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- data:
	default:
		log.Printf("send queue full for %s, dropping message", c.name())
	}
}

// IncomingMessage pairs a message with its source client. Malformed marks
// a frame that did not decode.
type IncomingMessage struct {
	Client    *Client
	Envelope  protocol.Envelope
	Malformed bool
}
