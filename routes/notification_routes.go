package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mkamau56/tutorhub/auth"
	ws "github.com/mkamau56/tutorhub/websocket"
)

// NotificationRoutes exposes the per-user notification stream. The
// browser cannot set headers on a websocket handshake, so the token
// travels as a query parameter instead.
func NotificationRoutes(app *fiber.App, store *auth.Store) {
	app.Use("/ws/notifications", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		cred, err := store.ParseCredential(c.Context(), c.Query("token"))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		c.Locals("identity", cred.IdentityID)
		return c.Next()
	})

	app.Get("/ws/notifications", websocket.New(func(conn *websocket.Conn) {
		client := &ws.Client{
			UserID: conn.Locals("identity").(uuid.UUID),
			Conn:   conn,
		}
		ws.Register <- client
		defer func() {
			ws.Unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}
