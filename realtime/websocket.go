package realtime

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type joinMessage struct {
	Action string `json:"action"`
	Email  string `json:"email"`
}

// UpgradeRequired rejects plain HTTP requests on the websocket path
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler upgrades the connection and serves hub events to it. Clients pick
// their rooms by sending {"action":"joinAdminRoom"} or
// {"action":"joinUserRoom","email":"..."}.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := hub.Register()
		defer hub.Unregister(client)

		log.Printf("Realtime client connected: %s", client.ID)

		done := make(chan struct{})
		go func() {
			for {
				select {
				case msg := <-client.Messages():
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			var msg joinMessage
			if err := conn.ReadJSON(&msg); err != nil {
				break
			}
			switch msg.Action {
			case "joinAdminRoom":
				hub.Join(client, AdminRoom)
				log.Printf("Client %s joined admin room", client.ID)
			case "joinUserRoom":
				if msg.Email != "" {
					hub.Join(client, UserRoom(msg.Email))
					log.Printf("Client %s joined room for %s", client.ID, msg.Email)
				}
			}
		}

		close(done)
		log.Printf("Realtime client disconnected: %s", client.ID)
	})
}
