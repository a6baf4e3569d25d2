package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/goliatone/go-builderkit/internal/logging"
	"github.com/goliatone/go-builderkit/pkg/shell"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	sendBuffer   = 16
)

// liveMessage is pushed to websocket clients.
type liveMessage struct {
	Type           string        `json:"type"`
	HTML           string        `json:"html,omitempty"`
	CSS            string        `json:"css,omitempty"`
	PreviewVisible bool          `json:"preview_visible"`
	Notice         *shell.Notice `json:"notice,omitempty"`
}

func renderMessage(snap shell.Snapshot) []byte {
	data, _ := json.Marshal(liveMessage{
		Type:           "render",
		HTML:           snap.Output.HTML,
		CSS:            snap.Output.CSS,
		PreviewVisible: snap.PreviewVisible,
	})
	return data
}

func noticeMessage(n shell.Notice) []byte {
	data, _ := json.Marshal(liveMessage{Type: "notice", Notice: &n})
	return data
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) stop() {
	c.once.Do(func() { close(c.send) })
}

// hub fans messages out to every websocket client of one session. Slow
// clients whose buffer is full are dropped.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	wg      sync.WaitGroup
	logger  *logging.Logger
}

func newHub(logger *logging.Logger) *hub {
	return &hub{clients: make(map[*client]struct{}), logger: logger}
}

func (h *hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping slow websocket client")
			delete(h.clients, c)
			c.stop()
		}
	}
}

// register adds c and queues initial() as its first message under the hub
// lock, so no broadcast can slip between the two.
func (h *hub) register(c *client, initial func() []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	c.send <- initial()
	h.clients[c] = struct{}{}
	h.wg.Add(1)
	return true
}

func (h *hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.stop()
	}
}

// serve runs one connection until the peer leaves or the hub closes. The
// first message is initial(), read once the client is registered.
func (h *hub) serve(conn *websocket.Conn, initial func() []byte) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(c, initial) {
		_ = conn.Close()
		return
	}

	go func() {
		defer h.wg.Done()
		h.writeLoop(c)
	}()
	h.readLoop(c)
}

func (h *hub) readLoop(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket closed: " + err.Error())
			}
			return
		}
	}
}

func (h *hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close disconnects every client and waits for their writers to exit.
func (h *hub) close() {
	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.stop()
	}
	h.mu.Unlock()
	h.wg.Wait()
}

func newUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || sameHost(origin, r.Host)
		},
	}
}
