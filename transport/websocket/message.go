package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const actionReset = "reset"

// frame is the union of every payload a client may send.
type frame struct {
	Action string  `json:"action"`
	Name   *string `json:"name"`
	Row    *int    `json:"row"`
	Col    *int    `json:"col"`
}

// DecodeInbound turns a client frame into a join, reset or move message.
func DecodeInbound(data []byte) (entity.Inbound, error) {
	var msg frame
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedMessage, err)
	}

	switch {
	case msg.Action == actionReset:
		return entity.Reset{}, nil
	case msg.Action != "":
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownAction, msg.Action)
	case msg.Row != nil && msg.Col != nil:
		return entity.Move{Row: *msg.Row, Col: *msg.Col}, nil
	case msg.Row != nil || msg.Col != nil:
		return nil, fmt.Errorf("%w: move needs both row and col", apperror.ErrMalformedMessage)
	}

	var join entity.Join
	if msg.Name != nil {
		join.Name = *msg.Name
	}

	return join, nil
}

// EncodeOutbound returns the frame type and payload for msg. Notices go out as plain text, everything else as JSON.
func EncodeOutbound(msg entity.Outbound) (int, []byte, error) {
	if notice, ok := msg.(entity.Notice); ok {
		return websocket.TextMessage, []byte(notice.Text), nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}

	return websocket.TextMessage, payload, nil
}
