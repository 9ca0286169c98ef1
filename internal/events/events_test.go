package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupEvent_Scopes(t *testing.T) {
	assert.Equal(t, []string{ScopeAll, "tour:t1"}, GroupEvent{TourID: "t1"}.Scopes())
	assert.Equal(t, []string{ScopeAll, "event:e1"}, GroupEvent{EventID: "e1"}.Scopes())
	assert.Equal(t, []string{ScopeAll}, GroupEvent{}.Scopes())
}

type recorder struct {
	events []GroupEvent
}

func (r *recorder) Publish(_ context.Context, ev GroupEvent) { r.events = append(r.events, ev) }

func TestFanout(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Fanout{a, Nop{}, b}.Publish(context.Background(), GroupEvent{Kind: GroupCreated})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

type fakeConn struct {
	subject string
	data    []byte
	err     error
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	f.subject, f.data = subj, data
	return f.err
}

func TestNATSPublisher(t *testing.T) {
	fc := &fakeConn{}
	p := &NATSPublisher{conn: fc}
	p.Publish(context.Background(), GroupEvent{Kind: MembersAdded, GroupID: "g1", Payload: map[string]int{"added": 3}})

	assert.Equal(t, "tour.travel.members.added", fc.subject)
	var got map[string]any
	require.NoError(t, json.Unmarshal(fc.data, &got))
	assert.Equal(t, "g1", got["group_id"])
	assert.Equal(t, "members.added", got["kind"])

	fc.err = errors.New("nats: connection closed")
	assert.NotPanics(t, func() { p.Publish(context.Background(), GroupEvent{Kind: GroupDeleted}) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fc.subject = ""
	p.Publish(ctx, GroupEvent{Kind: GroupUpdated})
	assert.Empty(t, fc.subject)
}

func dialHub(t *testing.T, hub *Hub, scope string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(scope, conn)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.Eventually(t, func() bool { return hub.Clients(scope) > 0 }, time.Second, 10*time.Millisecond)
	return client
}

func TestHub_DeliversByScope(t *testing.T) {
	hub := NewHub(10)
	defer hub.Close()

	tour := dialHub(t, hub, TourScope("t1"))
	other := dialHub(t, hub, TourScope("t2"))

	hub.Publish(context.Background(), GroupEvent{Kind: GroupUpdated, GroupID: "g1", TourID: "t1"})

	_ = tour.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got GroupEvent
	require.NoError(t, tour.ReadJSON(&got))
	assert.Equal(t, GroupUpdated, got.Kind)
	assert.Equal(t, "g1", got.GroupID)

	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "tour t2 must not receive t1 events")
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := &Hub{
		clients:   map[string]map[*websocket.Conn]bool{},
		writeMu:   map[*websocket.Conn]*sync.Mutex{},
		broadcast: make(chan GroupEvent, 1),
	}
	done := make(chan struct{})
	go func() {
		hub.Publish(context.Background(), GroupEvent{Kind: GroupCreated})
		hub.Publish(context.Background(), GroupEvent{Kind: GroupCreated})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}
	assert.Len(t, hub.broadcast, 1)
}

func TestHub_PublishAfterClose(t *testing.T) {
	hub := NewHub(4)
	hub.Publish(context.Background(), GroupEvent{Kind: GroupCreated})
	hub.Close()

	assert.NotPanics(t, func() {
		hub.Publish(context.Background(), GroupEvent{Kind: GroupUpdated})
	})
	assert.NotPanics(t, hub.Close)
}
