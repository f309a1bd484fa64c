package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/mrizkyrn/open-forum-sub001/internal/live"
	"github.com/mrizkyrn/open-forum-sub001/internal/mw"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and attaches it to the live hub. The
// session is joined to its personal room immediately; discussion rooms are
// joined via client control messages.
func (h *Handler) ServeWS(c *gin.Context) {
	userID := mw.UserID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error for user %d: %v", userID, err)
		return
	}

	client := live.NewClient(h.hub, conn, userID)
	h.hub.Register(client)
	h.hub.JoinRoom(client, live.UserRoom(userID))

	go client.WritePump()
	go client.ReadPump()
}
