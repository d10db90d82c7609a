package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workdesk/internal/domain/messages"
)

type fakeRecorder struct {
	mu     sync.Mutex
	stored []messages.Message
}

func (f *fakeRecorder) Record(_ context.Context, draft messages.Draft) (messages.Message, error) {
	if draft.Content == "fail" {
		return messages.Message{}, errors.New("insert failed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := messages.Message{
		ID:             int64(len(f.stored) + 1),
		Username:       draft.Username,
		Content:        draft.Content,
		Timestamp:      time.Now().UTC(),
		Department:     draft.Department,
		RecipientEmail: draft.RecipientEmail,
		IsPrivate:      draft.IsPrivate,
	}
	f.stored = append(f.stored, msg)
	return msg, nil
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

type countingStats struct {
	open    int64
	dropped int64
}

func (s *countingStats) ConnectionOpened()  { atomic.AddInt64(&s.open, 1) }
func (s *countingStats) ConnectionClosed()  { atomic.AddInt64(&s.open, -1) }
func (s *countingStats) MessageRelayed(int) {}
func (s *countingStats) MessageDropped()    { atomic.AddInt64(&s.dropped, 1) }
func (s *countingStats) SlowClientEvicted() {}

type relayFixture struct {
	hub      *Hub
	stats    *countingStats
	recorder *fakeRecorder
	server   *httptest.Server
}

func newRelayFixture(t *testing.T, policy DeliveryPolicy) *relayFixture {
	t.Helper()
	stats := &countingStats{}
	recorder := &fakeRecorder{}
	hub := NewHub(recorder, policy, zerolog.Nop(), stats)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(r.Context(), conn, r.URL.Query().Get("email"), 1<<20)
	}))

	t.Cleanup(func() {
		cancel()
		server.Close()
	})
	return &relayFixture{hub: hub, stats: stats, recorder: recorder, server: server}
}

func (f *relayFixture) dial(t *testing.T, email string) *websocket.Conn {
	t.Helper()
	before := atomic.LoadInt64(&f.stats.open)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/?email=" + email
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return atomic.LoadInt64(&f.stats.open) > before }, 2*time.Second, 5*time.Millisecond)
	return conn
}

func send(t *testing.T, conn *websocket.Conn, draft map[string]any) {
	t.Helper()
	data, err := json.Marshal(draft)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Envelope{Event: EventSendMessage, Data: data}))
}

func receive(t *testing.T, conn *websocket.Conn) Outbound {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	require.Equal(t, EventReceiveMessage, env.Event)
	var out Outbound
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func privateDraft(content string) map[string]any {
	return map[string]any{
		"username":        "alice",
		"content":         content,
		"department":      "eng",
		"recipient_email": "bob@x.com",
		"is_private":      true,
	}
}

func TestBroadcastAllDeliversPrivateMessageToEveryone(t *testing.T) {
	f := newRelayFixture(t, BroadcastAll{})
	a := f.dial(t, "alice@x.com")
	b := f.dial(t, "")

	sentAt := time.Now().UTC()
	send(t, a, privateDraft("hi"))

	for _, conn := range []*websocket.Conn{a, b} {
		got := receive(t, conn)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "hi", got.Content)
		assert.Equal(t, "eng", got.Department)
		require.NotNil(t, got.RecipientEmail)
		assert.Equal(t, "bob@x.com", *got.RecipientEmail)
		assert.True(t, got.IsPrivate)
		assert.False(t, got.Timestamp.Before(sentAt.Add(-time.Millisecond)))
	}
	assert.Equal(t, 1, f.recorder.count())
}

func TestRecipientOnlyLimitsPrivateMessages(t *testing.T) {
	f := newRelayFixture(t, RecipientOnly{})
	a := f.dial(t, "alice@x.com")
	b := f.dial(t, "Bob@x.com")
	c := f.dial(t, "carol@x.com")

	send(t, a, privateDraft("secret"))
	assert.Equal(t, "secret", receive(t, a).Content)
	assert.Equal(t, "secret", receive(t, b).Content)

	public := privateDraft("hello all")
	public["is_private"] = false
	send(t, a, public)

	// carol's first frame is the public one: the private message never reached her.
	assert.Equal(t, "hello all", receive(t, c).Content)
	assert.Equal(t, "hello all", receive(t, b).Content)
}

func TestFailedInsertIsNotBroadcast(t *testing.T) {
	f := newRelayFixture(t, BroadcastAll{})
	a := f.dial(t, "alice@x.com")
	b := f.dial(t, "")

	send(t, a, privateDraft("fail"))
	require.Eventually(t, func() bool { return atomic.LoadInt64(&f.stats.dropped) == 1 }, 2*time.Second, 5*time.Millisecond)

	send(t, a, privateDraft("after"))
	assert.Equal(t, "after", receive(t, a).Content)
	assert.Equal(t, "after", receive(t, b).Content)
	assert.Equal(t, 1, f.recorder.count())
}

func TestUnknownEventsAndGarbageAreIgnored(t *testing.T) {
	f := newRelayFixture(t, BroadcastAll{})
	a := f.dial(t, "")

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, a.WriteJSON(Envelope{Event: "typing", Data: json.RawMessage(`{}`)}))
	send(t, a, privateDraft("still here"))

	assert.Equal(t, "still here", receive(t, a).Content)
	assert.Equal(t, 1, f.recorder.count())
}

func TestDisconnectedClientIsUnregistered(t *testing.T) {
	f := newRelayFixture(t, BroadcastAll{})
	a := f.dial(t, "")
	b := f.dial(t, "")
	require.EqualValues(t, 2, atomic.LoadInt64(&f.stats.open))

	require.NoError(t, b.Close())
	require.Eventually(t, func() bool { return atomic.LoadInt64(&f.stats.open) == 1 }, 2*time.Second, 5*time.Millisecond)

	send(t, a, privateDraft("anyone?"))
	assert.Equal(t, "anyone?", receive(t, a).Content)
}

func TestStopClosesClients(t *testing.T) {
	f := newRelayFixture(t, BroadcastAll{})
	a := f.dial(t, "")

	f.hub.Stop()

	require.NoError(t, a.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := a.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

type blockingRecorder struct {
	started chan struct{}
	release chan struct{}
	calls   int64
}

func (b *blockingRecorder) Record(_ context.Context, draft messages.Draft) (messages.Message, error) {
	atomic.AddInt64(&b.calls, 1)
	close(b.started)
	<-b.release
	return messages.Message{ID: 1, Content: draft.Content, Timestamp: time.Now().UTC()}, nil
}

func TestWaitCoversInFlightInsertAndStopRejectsNewOnes(t *testing.T) {
	recorder := &blockingRecorder{started: make(chan struct{}), release: make(chan struct{})}
	stats := &countingStats{}
	hub := NewHub(recorder, BroadcastAll{}, zerolog.Nop(), stats)
	go hub.Run(context.Background())

	go hub.Publish(context.Background(), nil, messages.Draft{Content: "in flight"})
	<-recorder.started

	hub.Stop()
	waited := make(chan struct{})
	go func() {
		hub.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		t.Fatal("Wait returned while an insert was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(recorder.release)
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after the insert finished")
	}

	hub.Publish(context.Background(), nil, messages.Draft{Content: "too late"})
	assert.EqualValues(t, 1, atomic.LoadInt64(&recorder.calls))
	assert.EqualValues(t, 1, atomic.LoadInt64(&stats.dropped))
}
