package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	w3m "github.com/status-im/status-web3-mock-go"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
)

const (
	frameDelivery = "delivery"
	frameEvent    = "event"
)

// frame is a server -> content message on the websocket.
type frame struct {
	Type   string        `json:"type"`
	ID     string        `json:"id,omitempty"`
	Error  *w3m.RPCError `json:"error,omitempty"`
	Result interface{}   `json:"result"`
	Name   string        `json:"name,omitempty"`
	Data   interface{}   `json:"data,omitempty"`
}

// conn is one connected page. Its bridge lives exactly as long as the socket.
type conn struct {
	id     uuid.UUID
	server *Server
	ws     *websocket.Conn
	bridge *w3m.Bridge

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newConn(s *Server, ws *websocket.Conn) *conn {
	c := &conn{
		id:     uuid.New(),
		server: s,
		ws:     ws,
	}
	c.bridge = w3m.NewBridge(s.session, s.dispatcher, c)
	return c
}

func (c *conn) write(f *frame) {
	data, err := json.Marshal(f)
	if err != nil {
		logger.Error("encoding frame", "conn", c.id, "error", err)
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		logger.Debug("write failed", "conn", c.id, "error", err)
	}
}

func (c *conn) Deliver(d *w3m.Delivery) {
	c.write(&frame{Type: frameDelivery, ID: d.ID, Error: d.Error, Result: d.Result})
}

func (c *conn) Notify(n *w3m.Notification) {
	c.write(&frame{Type: frameEvent, Name: n.Name, Data: n.Data})
}

func (c *conn) readLoop() {
	defer c.close()

	c.ws.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("connection closed", "conn", c.id, "error", err)
			}
			return
		}
		if err := c.bridge.HandleMessage(data); err != nil {
			logger.Debug("bridge rejected message", "conn", c.id, "error", err)
		}
	}
}

// close tears the page down: in-flight results are dropped, not written.
func (c *conn) close() {
	c.closeOnce.Do(func() {
		c.server.remove(c)
		c.bridge.Teardown()
		_ = c.ws.Close()
		c.bridge.Close()
		logger.Debug("page disconnected", "conn", c.id)
	})
}
