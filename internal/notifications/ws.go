package notifications

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsCommand is the incoming WebSocket message format.
type wsCommand struct {
	Type  string `json:"type"` // "fetch", "mark_read", "mark_all_read" or "delete"
	ID    string `json:"id,omitempty"`
	Query *Query `json:"query,omitempty"`
}

// wsMessage is the outgoing WebSocket message format.
type wsMessage struct {
	Type     string        `json:"type"` // "snapshot", "result" or "error"
	Action   string        `json:"action,omitempty"`
	Snapshot *Snapshot     `json:"snapshot,omitempty"`
	Result   *ActionResult `json:"result,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// wsConn serialises writes; gorilla allows only one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(msg wsMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Printf("notifications: websocket write: %v", err)
	}
}

func handleWebSocket(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("notifications: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()
		c := &wsConn{conn: conn}

		updates, unsubscribe := store.Subscribe()
		snap := store.Snapshot()
		c.send(wsMessage{Type: "snapshot", Snapshot: &snap})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for snap := range updates {
				c.send(wsMessage{Type: "snapshot", Snapshot: &snap})
			}
		}()
		defer wg.Wait()
		defer unsubscribe()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("notifications: websocket read: %v", err)
				}
				return
			}

			var cmd wsCommand
			if err := json.Unmarshal(msg, &cmd); err != nil {
				c.send(wsMessage{Type: "error", Error: "invalid message format"})
				continue
			}
			handleCommand(r, store, c, cmd)
		}
	}
}

func handleCommand(r *http.Request, store *Store, c *wsConn, cmd wsCommand) {
	ctx := r.Context()

	var res ActionResult
	switch cmd.Type {
	case "fetch":
		q := Query{}
		if cmd.Query != nil {
			q = *cmd.Query
		}
		list, err := store.Fetch(ctx, q)
		if err != nil {
			c.send(wsMessage{Type: "error", Action: cmd.Type, Error: err.Error()})
			return
		}
		res = ActionResult{Success: true, Message: fmt.Sprintf("fetched %d notification(s)", len(list)), Affected: len(list)}
	case "mark_read", "delete":
		if cmd.ID == "" {
			c.send(wsMessage{Type: "error", Action: cmd.Type, Error: "id is required"})
			return
		}
		if cmd.Type == "mark_read" {
			res = store.MarkAsRead(ctx, cmd.ID)
		} else {
			res = store.DeleteNotification(ctx, cmd.ID)
		}
	case "mark_all_read":
		res = store.MarkAllAsRead(ctx)
	default:
		c.send(wsMessage{Type: "error", Error: "unknown message type: " + cmd.Type})
		return
	}
	c.send(wsMessage{Type: "result", Action: cmd.Type, Result: &res})
}
