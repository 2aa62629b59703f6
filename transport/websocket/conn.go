package websocket

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

var ErrConnClosed = errors.New("connection closed")

const closeGracePeriod = time.Second

// Conn adapts a websocket connection to the game's message types.
// Receive must be called from one goroutine; Send is safe for concurrent use.
type Conn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool

	closeOnce sync.Once
	stop      func() bool
}

// NewConn wraps ws and closes it once ctx is done.
func NewConn(ctx context.Context, ws *websocket.Conn, readLimit int64, writeTimeout time.Duration) *Conn {
	if readLimit > 0 {
		ws.SetReadLimit(readLimit)
	}

	conn := &Conn{
		ws:           ws,
		writeTimeout: writeTimeout,
	}
	conn.mu.Lock()
	conn.stop = context.AfterFunc(ctx, func() { _ = conn.Close() })
	conn.mu.Unlock()

	return conn
}

func (that *Conn) Receive(ctx context.Context) (entity.Inbound, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, data, err := that.ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	return DecodeInbound(data)
}

// Send writes msg as one frame. A failed write closes the connection.
func (that *Conn) Send(_ context.Context, msg entity.Outbound) error {
	kind, payload, err := EncodeOutbound(msg)
	if err != nil {
		return err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return ErrConnClosed
	}

	if that.writeTimeout > 0 {
		if err = that.ws.SetWriteDeadline(time.Now().Add(that.writeTimeout)); err != nil {
			that.closeLocked()
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
	}

	if err = that.ws.WriteMessage(kind, payload); err != nil {
		that.closeLocked()
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}

// Close sends a close frame and releases the socket. It is safe to call more than once.
func (that *Conn) Close() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.closeLocked()
}

func (that *Conn) closeLocked() error {
	var err error

	that.closeOnce.Do(func() {
		that.closed = true
		that.stop()

		_ = that.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGracePeriod),
		)

		err = that.ws.Close()
	})

	return err
}
