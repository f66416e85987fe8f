// Package server exposes tables over HTTP and websockets, and the process
// health over gRPC.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/magefree/realms-server-go/internal/game"
	"github.com/magefree/realms-server-go/internal/game/rules"
	"github.com/magefree/realms-server-go/internal/table"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Message types exchanged on the websocket
const (
	MessageSnapshot = "snapshot"
	MessageDeltas   = "deltas"
	MessageAction   = "action"
	MessageAccepted = "accepted"
	MessageError    = "error"
	MessageWait     = "wait"
	MessageYourTurn = "your_turn"
)

// DefaultActionTimeout bounds a wait frame when Options leaves it unset.
const DefaultActionTimeout = 5 * time.Minute

// WSMessage is the envelope for every websocket frame
type WSMessage struct {
	Type   string        `json:"type"`
	Action *rules.Action `json:"action,omitempty"`
	Data   any           `json:"data,omitempty"`
}

// Options tunes a Server.
type Options struct {
	// ActionTimeout is how long a wait frame blocks for the seat's turn.
	ActionTimeout time.Duration
	// Replays serves GET /tables/{id}/replay. Nil disables the route.
	Replays *game.ReplayRecorder
}

// Server serves the lobby API and per-viewer delta streams.
type Server struct {
	tables   *table.Manager
	opts     Options
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a server over a table manager
func NewServer(tables *table.Manager, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = DefaultActionTimeout
	}
	return &Server{
		tables: tables,
		opts:   opts,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tables", s.listTables)
	mux.HandleFunc("POST /tables", s.createTable)
	mux.HandleFunc("POST /tables/{id}/join", s.joinTable)
	mux.HandleFunc("POST /tables/{id}/ready", s.readyTable)
	mux.HandleFunc("POST /tables/{id}/start", s.startTable)
	mux.HandleFunc("GET /tables/{id}/replay", s.tableReplay)
	mux.HandleFunc("GET /ws", s.serveWS)
	return mux
}

type createRequest struct {
	Name string `json:"name"`
}

type joinRequest struct {
	Name string `json:"name"`
}

type joinResponse struct {
	Seat  int    `json:"seat"`
	Token string `json:"token"`
}

type seatRequest struct {
	Token string `json:"token"`
	Ready bool   `json:"ready"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, table.ErrTableNotFound), errors.Is(err, errNoReplay):
		status = http.StatusNotFound
	case errors.Is(err, table.ErrBadToken), errors.Is(err, table.ErrNotAdmin):
		status = http.StatusForbidden
	case errors.Is(err, table.ErrTableFull), errors.Is(err, table.ErrSeatTaken),
		errors.Is(err, table.ErrAlreadyStarted), errors.Is(err, table.ErrNotReady),
		errors.Is(err, table.ErrTooFewPlayers):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decode(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) table(r *http.Request) (*table.Table, error) {
	id := r.PathValue("id")
	if id == "" {
		id = r.URL.Query().Get("table")
	}
	t, ok := s.tables.GetTable(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, table.ErrTableNotFound)
	}
	return t, nil
}

func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tables.GetAllTables())
}

func (s *Server) createTable(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	t := s.tables.CreateTable(req.Name)
	writeJSON(w, http.StatusCreated, t.Snapshot())
}

func (s *Server) joinTable(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req joinRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	seat, token, err := t.Join(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, joinResponse{Seat: seat, Token: token})
}

func (s *Server) readyTable(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req seatRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := t.SetReady(req.Token, req.Ready); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t.Snapshot())
}

func (s *Server) startTable(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req seatRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := t.Start(req.Token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t.Snapshot())
}

var errNoReplay = errors.New("replay not available")

type replayResponse struct {
	GameID    string            `json:"game_id"`
	Setup     string            `json:"setup"`
	Seed      uint64            `json:"seed"`
	Names     []string          `json:"names"`
	Recording bool              `json:"recording"`
	Checksum  string            `json:"checksum,omitempty"`
	From      int               `json:"from"`
	Steps     []game.ReplayStep `json:"steps"`
}

// tableReplay returns the action log of a table's match: the live recording
// while it runs, the saved file once it has finished. ?from=N skips the
// first N steps.
func (s *Server) tableReplay(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.opts.Replays == nil {
		writeError(w, fmt.Errorf("%s: recording disabled: %w", id, errNoReplay))
		return
	}
	from := 0
	if q := r.URL.Query().Get("from"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeError(w, fmt.Errorf("invalid from %q", q))
			return
		}
		from = n
	}

	resp := replayResponse{From: from, Recording: s.opts.Replays.IsRecording(id)}
	replay, ok := s.opts.Replays.GetReplay(id)
	if !ok {
		loaded, err := s.opts.Replays.LoadReplay(id)
		if err != nil {
			writeError(w, fmt.Errorf("%s: %w", id, errNoReplay))
			return
		}
		replay = loaded
		resp.Recording = false
		resp.Checksum = loaded.Checksum
	}
	resp.GameID = replay.GameID
	resp.Setup = replay.Setup
	resp.Seed = replay.Seed
	resp.Names = replay.Names

	resp.Steps = make([]game.ReplayStep, 0)
	for i := from; ; i++ {
		step, ok := replay.GetStepAt(i)
		if !ok {
			break
		}
		resp.Steps = append(resp.Steps, step)
	}
	writeJSON(w, http.StatusOK, resp)
}

// client is one websocket connection attached to a table as a viewer.
type client struct {
	conn    *websocket.Conn
	send    chan WSMessage // replies to this client only
	table   *table.Table
	viewer  *table.Viewer
	token   string
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *zap.Logger
}

// serveWS upgrades /ws?table=<id>&token=<seat token>. Without a token the
// connection watches as a spectator and cannot submit actions.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	t, err := s.table(r)
	if err != nil {
		writeError(w, err)
		return
	}
	token := r.URL.Query().Get("token")
	viewer, err := t.Watch(token)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		_ = t.Unwatch(viewer.ID)
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		conn:    conn,
		send:    make(chan WSMessage, 16),
		table:   t,
		viewer:  viewer,
		token:   token,
		timeout: s.opts.ActionTimeout,
		ctx:     ctx,
		cancel:  cancel,
		logger:  s.logger.With(
			zap.String("table_id", t.ID),
			zap.String("viewer_id", viewer.ID),
			zap.Int("seat", viewer.Seat),
		),
	}
	c.logger.Info("client connected")

	go c.writePump()
	go c.readPump()
}

func (c *client) reply(msg WSMessage) {
	select {
	case c.send <- msg:
	default:
		c.logger.Warn("dropping reply to busy client", zap.String("type", msg.Type))
	}
}

func (c *client) readPump() {
	defer func() {
		c.cancel()
		_ = c.table.Unwatch(c.viewer.ID)
		c.conn.Close()
		c.logger.Info("client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				c.reply(WSMessage{Type: MessageError, Data: "malformed message"})
				continue
			}
			return
		}
		c.handle(msg)
	}
}

func (c *client) handle(msg WSMessage) {
	switch {
	case msg.Type == MessageWait:
		c.wait()
		return
	case msg.Type != MessageAction || msg.Action == nil:
		c.reply(WSMessage{Type: MessageError, Data: fmt.Sprintf("unsupported message %q", msg.Type)})
		return
	case c.token == "":
		c.reply(WSMessage{Type: MessageError, Data: "spectators cannot act"})
		return
	}
	deltas, err := c.table.Submit(c.token, *msg.Action)
	if err != nil {
		c.logger.Debug("action rejected", zap.String("action", msg.Action.String()), zap.Error(err))
		c.reply(WSMessage{Type: MessageError, Data: err.Error()})
		return
	}
	c.reply(WSMessage{Type: MessageAccepted, Data: len(deltas)})
}

// wait answers a wait frame with your_turn once the seat may act, or an
// error when the action timeout passes first. It does not block reads.
func (c *client) wait() {
	if c.token == "" {
		c.reply(WSMessage{Type: MessageError, Data: "spectators cannot act"})
		return
	}
	seat := c.viewer.Seat
	go func() {
		err := c.table.WaitForTurn(c.ctx, seat, c.timeout)
		switch {
		case err == nil:
			c.reply(WSMessage{Type: MessageYourTurn, Data: seat})
		case errors.Is(err, context.Canceled):
		case errors.Is(err, table.ErrActionTimeout):
			c.logger.Debug("wait timed out", zap.Duration("timeout", c.timeout))
			c.reply(WSMessage{Type: MessageError, Data: err.Error()})
		default:
			c.reply(WSMessage{Type: MessageError, Data: err.Error()})
		}
	}()
}

// writePump is the connection's only writer. It sends the initial board,
// then forwards the viewer's delta batches in order and this client's replies.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	write := func(msg WSMessage) error {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		return c.conn.WriteJSON(msg)
	}

	if err := write(WSMessage{Type: MessageSnapshot, Data: c.viewer.Initial}); err != nil {
		return
	}
	for {
		select {
		case batch, ok := <-c.viewer.Updates():
			if !ok {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "viewer closed"))
				return
			}
			if err := write(WSMessage{Type: MessageDeltas, Data: batch}); err != nil {
				return
			}
		case msg := <-c.send:
			if err := write(msg); err != nil {
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
