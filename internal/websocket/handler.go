package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches the connection to the hub until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, correlationId string) {
	client := &Client{Hub: hub, Conn: c, CorrelationID: correlationId, Send: make(chan []byte, 16)}
	if !hub.Register(client) {
		_ = c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
