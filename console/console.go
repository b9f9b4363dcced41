// Package console exposes a running game to remote tools over a WebSocket.
//
// Clients send one JSON request per frame:
//
//	{"id": 1, "target": "hero", "tags": "target", "method": "get_position", "value": null}
//
// Requests are queued by the connection goroutines and executed on the game
// thread by Drain. Each request gets one reply:
//
//	{"id": 1, "result": {"x": 4, "y": 0}}
//	{"id": 2, "error": "greenmoon: object \"ghost\" not found"}
package console

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phanxgames/greenmoon"
	"github.com/tidwall/gjson"
)

const (
	DefaultAddr         = "127.0.0.1:7777"
	DefaultQueueSize    = 256
	DefaultWriteTimeout = 2 * time.Second
)

// ErrBusy is reported to a client whose request did not fit in the queue.
var ErrBusy = errors.New("console: request queue full")

// Dispatcher executes a message against the running game.
// *greenmoon.SceneManager implements it.
type Dispatcher interface {
	Dispatch(target greenmoon.Target, msg greenmoon.Message) (greenmoon.Value, error)
}

// DispatchFunc adapts a function to a Dispatcher.
type DispatchFunc func(greenmoon.Target, greenmoon.Message) (greenmoon.Value, error)

func (f DispatchFunc) Dispatch(t greenmoon.Target, m greenmoon.Message) (greenmoon.Value, error) {
	return f(t, m)
}

// Response is the reply to one request.
type Response struct {
	ID     json.RawMessage  `json:"id"`
	Result *greenmoon.Value `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type request struct {
	id     json.RawMessage
	target greenmoon.Target
	msg    greenmoon.Message
	conn   *safeConn
}

// safeConn serializes writes; the game thread and the reader goroutine both
// reply on the same connection.
type safeConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *safeConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(DefaultWriteTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *safeConn) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// Server accepts console connections.
type Server struct {
	upgrader websocket.Upgrader
	requests chan request
	log      *slog.Logger

	mu    sync.Mutex
	conns map[*safeConn]struct{}
}

// NewServer creates a server whose queue holds up to queueSize pending
// requests. A size <= 0 selects DefaultQueueSize.
func NewServer(queueSize int) *Server {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		requests: make(chan request, queueSize),
		log:      greenmoon.Logger().With("component", "console"),
		conns:    make(map[*safeConn]struct{}),
	}
}

// Clients returns the number of open connections.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Pending returns the number of queued requests.
func (s *Server) Pending() int { return len(s.requests) }

// ServeHTTP upgrades the connection and reads requests until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	conn := &safeConn{conn: ws}
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	s.log.Info("client connected", "remote", ws.RemoteAddr())

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.close()
		s.log.Info("client disconnected", "remote", ws.RemoteAddr())
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("read failed", "remote", ws.RemoteAddr(), "err", err)
			}
			return
		}
		req, err := parseRequest(data)
		req.conn = conn
		if err != nil {
			s.reply(req, greenmoon.None(), err)
			continue
		}
		select {
		case s.requests <- req:
		default:
			s.reply(req, greenmoon.None(), ErrBusy)
		}
	}
}

func parseRequest(data []byte) (request, error) {
	req := request{id: json.RawMessage("null")}
	if !gjson.ValidBytes(data) {
		return req, errors.New("console: malformed JSON")
	}
	r := gjson.ParseBytes(data)
	if id := r.Get("id"); id.Exists() {
		req.id = json.RawMessage(id.Raw)
	}
	t, err := greenmoon.TargetFromJSON(r.Get("target"))
	if err != nil {
		return req, err
	}
	m, err := greenmoon.MessageFromJSON(r)
	if err != nil {
		return req, err
	}
	req.target, req.msg = t, m
	return req, nil
}

// Drain executes every queued request against d and replies to each. Call
// it once per frame from the game thread. It returns the number of requests
// executed.
func (s *Server) Drain(d Dispatcher) int {
	n := 0
	for {
		select {
		case req := <-s.requests:
			v, err := d.Dispatch(req.target, req.msg)
			s.reply(req, v, err)
			n++
		default:
			return n
		}
	}
}

func (s *Server) reply(req request, v greenmoon.Value, err error) {
	resp := Response{ID: req.id}
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Result = &v
	}
	if werr := req.conn.writeJSON(resp); werr != nil {
		s.log.Warn("reply failed", "id", string(req.id), "err", werr)
	}
}

// ListenAndServe serves console connections on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/console", s)
	srv := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.closeAll()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		c.close()
	}
}
