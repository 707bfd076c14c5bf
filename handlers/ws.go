package handlers

import (
	"net/http"

	"soothe/config"
	"soothe/utils"

	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"
)

// WSHandler upgrades to a websocket subscribed to one booking's chat
// channel. Browsers cannot set an Authorization header on the native
// WebSocket API, so the token rides in the query string.
func (hb *HandlerBundle) WSHandler(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	claims, err := utils.ValidateToken(tokenStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	bookingID := c.Param("id")
	b, err := hb.Booking.Get(c.Request.Context(), bookingID, claims.UserID)
	if err != nil || !b.IsParticipant(claims.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		return
	}

	opts := &websocket.AcceptOptions{}
	if !config.IsProduction() {
		// Dev frontends run on a different origin.
		opts.InsecureSkipVerify = true
	}

	conn, err := websocket.Accept(c.Writer, c.Request, opts)
	if err != nil {
		return // Accept already wrote the error response
	}

	// Push-only channel: the read side only services control frames.
	readCtx := conn.CloseRead(c.Request.Context())

	client := hb.Hub.AddClient(bookingID, claims.UserID, conn)
	defer hb.Hub.RemoveClient(client)

	<-readCtx.Done()
}
