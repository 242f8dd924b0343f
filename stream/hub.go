// Package stream broadcasts battle rounds to websocket viewers.
package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/tankwar/battle"
	"github.com/brensch/tankwar/output"
)

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 64
)

type TankMessage struct {
	ID      int    `json:"id"`
	Side    int    `json:"side"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Dir     string `json:"dir"`
	Alive   bool   `json:"alive"`
	Ammo    int    `json:"ammo"`
	Action  string `json:"action"`
	Ignored bool   `json:"ignored"`
	Killed  bool   `json:"killed"`
}

// Message is the JSON frame sent to viewers. Type is "round" or "result".
type Message struct {
	Type     string        `json:"type"`
	BattleID string        `json:"battle_id"`
	Round    int           `json:"round"`
	Board    []string      `json:"board,omitempty"`
	Tanks    []TankMessage `json:"tanks,omitempty"`
	Line     string        `json:"line,omitempty"`
	Summary  string        `json:"summary,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Winner   int           `json:"winner"`
}

func roundMessage(f battle.Frame) Message {
	m := Message{
		Type:     "round",
		BattleID: f.BattleID,
		Round:    f.Round,
		Board:    f.Board,
		Tanks:    make([]TankMessage, len(f.Tanks)),
		Line:     output.RoundLine(f),
		Winner:   f.Verdict.Winner,
	}
	for i, t := range f.Tanks {
		m.Tanks[i] = TankMessage{
			ID:      t.ID,
			Side:    t.Side,
			X:       t.Pos.X,
			Y:       t.Pos.Y,
			Dir:     t.Dir.String(),
			Alive:   t.Alive,
			Ammo:    t.Ammo,
			Action:  t.Action.String(),
			Ignored: t.Ignored,
			Killed:  t.Killed,
		}
	}
	return m
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub is an http.Handler that upgrades viewers to websockets and a
// battle.Observer that fans every round out to them. A viewer that falls
// sendBuffer messages behind is disconnected. The latest message is replayed
// to new viewers.
type Hub struct {
	upgrader websocket.Upgrader
	log      *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	closed  bool
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     log,
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("viewer connected", "remote", r.RemoteAddr, "viewers", n)

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards viewer input and unregisters the viewer once the
// connection fails.
func (h *Hub) readPump(c *client) {
	defer h.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
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
				h.log.Debug("viewer write failed", "error", err)
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

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(m Message) {
	b, err := json.Marshal(m)
	if err != nil {
		h.log.Error("marshal stream message", "error", err)
		return
	}

	var slow []*client
	h.mu.Lock()
	h.last = b
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			slow = append(slow, c)
			delete(h.clients, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.log.Warn("dropping slow viewer", "remote", c.conn.RemoteAddr().String())
		c.close()
	}
}

func (h *Hub) ObserveRound(f battle.Frame) {
	h.broadcast(roundMessage(f))
}

// Finish sends the final result to every viewer.
func (h *Hub) Finish(res battle.Result) {
	h.broadcast(Message{
		Type:     "result",
		BattleID: res.ID,
		Round:    res.Verdict.Round,
		Summary:  res.Summary,
		Reason:   res.Verdict.Reason.String(),
		Winner:   res.Verdict.Winner,
	})
}

// Close disconnects every viewer and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = map[*client]struct{}{}
	h.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}
