package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// The hub keeps one connection per signed-in user and pushes
// notification payloads to the user they concern. Dashboards keep the
// stream open for the lifetime of the page.

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)

type push struct {
	userID  uuid.UUID
	payload interface{}
}

var pushes = make(chan push, 64)

// Push queues a payload for delivery to one user. Users without an
// open connection are skipped silently.
func Push(userID uuid.UUID, payload interface{}) {
	if userID == uuid.Nil {
		return
	}
	select {
	case pushes <- push{userID: userID, payload: payload}:
	default:
		log.Printf("Push queue full, dropping payload for user %s", userID)
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case p := <-pushes:
			clientsMu.RLock()
			conn, ok := clients[p.userID]
			clientsMu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(p.payload); err != nil {
				log.Printf("Error pushing to client %s: %v", p.userID, err)
				conn.Close()
				clientsMu.Lock()
				if cur, ok := clients[p.userID]; ok && cur == conn {
					delete(clients, p.userID)
				}
				clientsMu.Unlock()
			}
		}
	}
}
