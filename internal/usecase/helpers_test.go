package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const waitTimeout = 2 * time.Second

var errBrokenPipe = errors.New("broken pipe")

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type received struct {
	msg entity.Inbound
	err error
}

// fakeConn is an in-memory Conn. Tests push inbound messages and read what the server sent.
type fakeConn struct {
	inbox  chan received
	outbox chan entity.Outbound

	mu        sync.Mutex
	sendErr   error
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbox:  make(chan received, 16),
		outbox: make(chan entity.Outbound, 64),
	}
}

func (that *fakeConn) Receive(ctx context.Context) (entity.Inbound, error) {
	select {
	case in, ok := <-that.inbox:
		if !ok {
			return nil, io.EOF
		}
		return in.msg, in.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (that *fakeConn) Send(_ context.Context, msg entity.Outbound) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.sendErr != nil {
		return that.sendErr
	}

	that.outbox <- msg

	return nil
}

func (that *fakeConn) push(msg entity.Inbound) {
	that.inbox <- received{msg: msg}
}

func (that *fakeConn) pushErr(err error) {
	that.inbox <- received{err: err}
}

func (that *fakeConn) hangUp() {
	that.closeOnce.Do(func() { close(that.inbox) })
}

func (that *fakeConn) failSends(err error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sendErr = err
}

func (that *fakeConn) next(t *testing.T) entity.Outbound {
	t.Helper()

	select {
	case msg := <-that.outbox:
		return msg
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a message")
		return nil
	}
}

func (that *fakeConn) expectNotice(t *testing.T, text string) {
	t.Helper()

	require.Equal(t, entity.Notice{Text: text}, that.next(t))
}

func (that *fakeConn) expectState(t *testing.T) entity.StateView {
	t.Helper()

	msg := that.next(t)
	state, ok := msg.(entity.StateView)
	require.Truef(t, ok, "expected state view, got %#v", msg)

	return state
}

func (that *fakeConn) expectNothing(t *testing.T) {
	t.Helper()

	select {
	case msg := <-that.outbox:
		t.Fatalf("unexpected message %#v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

// mockEventPublisher is a testify mock of eventPublisher.
type mockEventPublisher struct {
	mock.Mock
}

func (that *mockEventPublisher) Publish(ctx context.Context, event *entity.RoomEvent) error {
	args := that.Called(ctx, event)
	return args.Error(0)
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(event *entity.RoomEvent) bool {
		return event.Type == eventType
	})
}

type testServer struct {
	manager  *GameManager
	registry *Registry
	events   *mockEventPublisher
	ctx      context.Context
	wg       sync.WaitGroup

	mu   sync.Mutex
	errs map[*fakeConn]error
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	events := &mockEventPublisher{}
	events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	return newTestServerWith(t, events)
}

func newTestServerWith(t *testing.T, events *mockEventPublisher) *testServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	registry := NewRegistry(newTestLogger(), entity.DefaultBoardSize)

	srv := &testServer{
		manager:  NewGameManager(newTestLogger(), registry, events),
		registry: registry,
		events:   events,
		ctx:      ctx,
		errs:     make(map[*fakeConn]error),
	}

	t.Cleanup(func() {
		cancel()
		srv.wg.Wait()
	})

	return srv
}

// connect starts a connection loop for playerID in roomID and sends the join message.
func (that *testServer) connect(roomID, playerID, name string) *fakeConn {
	conn := newFakeConn()
	conn.push(entity.Join{Name: name})

	that.start(roomID, playerID, conn)

	return conn
}

// start runs the connection loop for conn without sending anything on its behalf.
func (that *testServer) start(roomID, playerID string, conn *fakeConn) {
	that.wg.Add(1)
	go func() {
		defer that.wg.Done()

		err := that.manager.Serve(that.ctx, roomID, playerID, conn)

		that.mu.Lock()
		that.errs[conn] = err
		that.mu.Unlock()
	}()
}

func (that *testServer) serveErr(t *testing.T, conn *fakeConn) error {
	t.Helper()

	var err error
	require.Eventually(t, func() bool {
		that.mu.Lock()
		defer that.mu.Unlock()

		var done bool
		err, done = that.errs[conn]
		return done
	}, waitTimeout, 5*time.Millisecond)

	return err
}

// seatTwo joins alice and bob to roomID and drains the join announcements.
func (that *testServer) seatTwo(t *testing.T, roomID string) (*fakeConn, *fakeConn) {
	t.Helper()

	alice := that.connect(roomID, "p1", "alice")
	require.Equal(t, entity.SymbolAssigned{Symbol: entity.PlayerX}, alice.next(t))
	alice.expectNotice(t, "alice joined the room.")
	alice.expectNotice(t, "Waiting for another player...")

	bob := that.connect(roomID, "p2", "bob")
	require.Equal(t, entity.SymbolAssigned{Symbol: entity.PlayerO}, bob.next(t))

	for _, conn := range []*fakeConn{alice, bob} {
		conn.expectNotice(t, "bob joined the room.")
		conn.expectNotice(t, "The game begins!")
		conn.expectState(t)
	}

	return alice, bob
}
