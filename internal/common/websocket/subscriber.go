package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Andiyp/nauticalapp/internal/common/auth"
	"github.com/Andiyp/nauticalapp/internal/common/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// SubscriberHandler upgrades the connection, waits for a single auth message,
// then registers the client with the hub. From that point the client only
// receives snapshot broadcasts; the read loop exists to observe pongs and
// connection teardown. Subscriptions live until the client disconnects.
// onConnect, if set, runs after registration so the new subscriber starts
// from a current snapshot instead of an empty one.
func SubscriberHandler(hub *Hub, mgr *auth.Manager, onConnect func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("ws_upgrade_failed", "Failed to upgrade WebSocket", requestID, "", err.Error())
			return
		}
		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(5 * time.Second))

		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Error("ws_auth_read_failed", "Failed to read auth message", requestID, "", err.Error())
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"auth_timeout"}`))
			return
		}

		var incoming authMessage
		_ = json.Unmarshal(msg, &incoming)

		if incoming.Type != "auth" {
			logger.Warn("ws_invalid_auth_message", "Invalid auth message type", requestID, "", "")
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid_auth_message"}`))
			return
		}

		claims, err := mgr.ParseToken(incoming.Token)
		if err != nil || claims.Type != "access" {
			logger.Warn("ws_invalid_token", "Subscriber token invalid", requestID, "", "")
			conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid_token"}`))
			return
		}

		conn.WriteMessage(websocket.TextMessage, []byte(`{"status":"authenticated"}`))
		logger.Info("ws_subscriber_connected", fmt.Sprintf("Subscriber %s connected", claims.UserID), requestID, claims.UserID)

		client := &Client{
			ID:            uuid.NewString(),
			UserID:        claims.UserID,
			Conn:          conn,
			Send:          make(chan []byte, 32),
			Authenticated: true,
			LastPong:      time.Now(),
		}
		hub.AddClient(client)
		defer hub.RemoveClient(client.ID)

		if onConnect != nil {
			onConnect()
		}

		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(appData string) error {
			client.LastPong = time.Now()
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				logger.Info("ws_subscriber_disconnected", fmt.Sprintf("Subscriber %s disconnected", claims.UserID), requestID, claims.UserID)
				return

			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					logger.Error("ws_ping_failed", "Ping to subscriber failed", requestID, claims.UserID, err.Error())
					return
				}

			case message := <-client.Send:
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					logger.Error("ws_write_failed", "Failed to write snapshot to subscriber", requestID, claims.UserID, err.Error())
					return
				}
			}
		}
	}
}
