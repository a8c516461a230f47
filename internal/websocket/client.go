package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 50 * time.Second
	sendBuffer     = 16
	maxInboundSize = 512
)

// Client is one live connection subscribed to a single organization.
// Inbound frames are only read for control messages.
type Client struct {
	hub   *Hub
	orgID string
	conn  *websocket.Conn
	send  chan []byte
	done  chan struct{}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and streams orgID's events until the peer
// disconnects.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, orgID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{
		hub:   hub,
		orgID: orgID,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		done:  make(chan struct{}),
	}
	hub.Register(orgID, client)
	go client.writeLoop()
	client.readLoop()
}

func (c *Client) readLoop() {
	defer func() {
		c.hub.Unregister(c.orgID, c)
		close(c.done)
	}()
	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
