package console

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phanxgames/greenmoon"
	"github.com/tidwall/gjson"
)

func newTestConsole(t *testing.T, queue int) (*Server, *websocket.Conn) {
	t.Helper()
	srv := NewServer(queue)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return srv, conn
}

func send(t *testing.T, conn *websocket.Conn, js string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(js)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// drainUntil runs Drain until n requests have been executed.
func drainUntil(t *testing.T, srv *Server, d Dispatcher, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	done := 0
	for done < n {
		if time.Now().After(deadline) {
			t.Fatalf("drained %d requests, want %d", done, n)
		}
		done += srv.Drain(d)
		time.Sleep(time.Millisecond)
	}
}

func readReply(t *testing.T, conn *websocket.Conn) gjson.Result {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return gjson.ParseBytes(data)
}

func newScenes(t *testing.T) *greenmoon.SceneManager {
	t.Helper()
	s := greenmoon.NewScene("main", nil)
	s.Objects().AddDrawObject("hero", greenmoon.NewSprite(nil, greenmoon.Vec2{X: 3, Y: 4}))
	sm := greenmoon.NewSceneManager()
	if err := sm.AddScene(s); err != nil {
		t.Fatal(err)
	}
	return sm
}

func TestConsoleDispatch(t *testing.T) {
	srv, conn := newTestConsole(t, 0)
	sm := newScenes(t)

	send(t, conn, `{"id": 1, "target": "hero", "method": "set_position", "value": {"x": 7, "y": 1}}`)
	drainUntil(t, srv, sm, 1)
	r := readReply(t, conn)
	if r.Get("id").Int() != 1 || r.Get("error").Exists() {
		t.Errorf("reply = %s", r.Raw)
	}

	send(t, conn, `{"id": "two", "target": "hero", "method": "get_position"}`)
	drainUntil(t, srv, sm, 1)
	r = readReply(t, conn)
	if r.Get("id").String() != "two" {
		t.Errorf("id = %s, want two", r.Get("id").Raw)
	}
	if x, y := r.Get("result.x").Float(), r.Get("result.y").Float(); x != 7 || y != 1 {
		t.Errorf("result = %s, want {7 1}", r.Get("result").Raw)
	}
}

func TestConsoleErrors(t *testing.T) {
	srv, conn := newTestConsole(t, 0)
	sm := newScenes(t)

	// Parse errors are answered without reaching the game thread.
	send(t, conn, `{"id": 1, "target": "hero"}`)
	r := readReply(t, conn)
	if !strings.Contains(r.Get("error").String(), "method") {
		t.Errorf("reply = %s, want a missing method error", r.Raw)
	}
	send(t, conn, `not json`)
	r = readReply(t, conn)
	if r.Get("id").Type != gjson.Null || r.Get("error").String() == "" {
		t.Errorf("reply = %s, want null id with error", r.Raw)
	}
	if srv.Pending() != 0 {
		t.Errorf("pending = %d, want 0", srv.Pending())
	}

	send(t, conn, `{"id": 3, "target": "ghost", "method": "get_position"}`)
	drainUntil(t, srv, sm, 1)
	r = readReply(t, conn)
	if !strings.Contains(r.Get("error").String(), `"ghost" not found`) || r.Get("result").Exists() {
		t.Errorf("reply = %s, want not found", r.Raw)
	}
}

func TestConsoleQueueFull(t *testing.T) {
	srv, conn := newTestConsole(t, 1)

	send(t, conn, `{"id": 1, "target": "a", "method": "m"}`)
	send(t, conn, `{"id": 2, "target": "a", "method": "m"}`)
	r := readReply(t, conn)
	if r.Get("id").Int() != 2 || r.Get("error").String() != ErrBusy.Error() {
		t.Errorf("reply = %s, want busy for id 2", r.Raw)
	}

	var got []string
	d := DispatchFunc(func(target greenmoon.Target, msg greenmoon.Message) (greenmoon.Value, error) {
		got = append(got, target.String()+" "+msg.Method)
		return greenmoon.Int(len(got)), nil
	})
	drainUntil(t, srv, d, 1)
	r = readReply(t, conn)
	if r.Get("id").Int() != 1 || r.Get("result").Int() != 1 {
		t.Errorf("reply = %s", r.Raw)
	}
	if len(got) != 1 {
		t.Errorf("dispatched %v, want one request", got)
	}
}

func TestConsoleClients(t *testing.T) {
	srv, conn := newTestConsole(t, 0)
	deadline := time.Now().Add(2 * time.Second)
	for srv.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want 1", srv.Clients())
		}
		time.Sleep(time.Millisecond)
	}
	conn.Close()
	for srv.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d after close, want 0", srv.Clients())
		}
		time.Sleep(time.Millisecond)
	}
}
