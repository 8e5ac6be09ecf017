package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"atithi/internal/assistant"
	"atithi/internal/session"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced on the HTTP surface
	},
}

// wsConnection maintains one chat client's WebSocket connection. Each
// connection owns its own session, like a browser tab does.
type wsConnection struct {
	conn   *websocket.Conn
	send   chan []byte
	mu     sync.Mutex
	server *Server
	sess   *session.Session
}

// wsRequest is one chat turn sent over the socket.
type wsRequest struct {
	Message    string `json:"message"`
	UserLocale string `json:"userLocale"`
}

// handleWebSocket upgrades the connection and starts the pumps.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	wsConn := &wsConnection{
		conn:   conn,
		send:   make(chan []byte, 256),
		server: s,
		sess:   session.New(newSessionID()),
	}

	go wsConn.writePump()
	go wsConn.readPump()
}

// readPump pumps messages from the WebSocket connection to the handler
func (c *wsConnection) readPump() {
	defer func() {
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the server to the WebSocket connection
func (c *wsConnection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage runs one chat turn for the connection's session. Turns
// run on the read pump so the session is never mutated concurrently.
func (c *wsConnection) handleMessage(message []byte) {
	var req wsRequest
	if err := json.Unmarshal(message, &req); err != nil {
		c.sendError("Invalid message: " + err.Error())
		return
	}
	if req.Message == "" {
		c.sendError("Message is required")
		return
	}

	s := c.server
	ctx := context.Background()

	start := time.Now()
	reply, source := s.bot.Chat(ctx, assistant.ChatRequest{
		Message:    req.Message,
		UserLocale: req.UserLocale,
		History:    c.sess.History,
		Session:    c.sess,
	})
	if s.metrics != nil {
		s.metrics.ObserveChat(string(source), time.Since(start))
	}

	resp := ChatResponse{
		Reply:     reply,
		SessionID: c.sess.ID,
		Source:    string(source),
	}
	s.applyReply(&resp, reply, source, c.sess)

	c.sess.AppendTurn("user", req.Message)
	c.sess.AppendTurn("model", reply.Response)
	resp.SessionState = c.sess.State

	if err := s.sessions.Put(ctx, c.sess); err != nil {
		log.Printf("ws chat: failed to save session %s: %v", c.sess.ID, err)
	}

	c.sendJSON(resp)
}

// sendJSON marshals and queues a payload for the client.
func (c *wsConnection) sendJSON(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling payload: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case c.send <- data:
	default:
		log.Println("WebSocket buffer full, dropping message")
	}
}

// sendError sends an error message to the client
func (c *wsConnection) sendError(message string) {
	response := map[string]string{"error": message}
	data, _ := json.Marshal(response)

	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case c.send <- data:
	default:
		log.Println("WebSocket buffer full, dropping error message")
	}
}
