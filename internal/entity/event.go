package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventJoined = "joined"
	EventLeft   = "left"
	EventMoved  = "moved"
	EventReset  = "reset"
	EventEnded  = "ended"
)

// RoomEvent describes one lifecycle transition of a room for outside observers.
type RoomEvent struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	RoomID   string    `json:"room_id"`
	PlayerID string    `json:"player_id,omitempty"`
	Name     string    `json:"name,omitempty"`
	Symbol   string    `json:"symbol,omitempty"`
	Row      *int      `json:"row,omitempty"`
	Col      *int      `json:"col,omitempty"`
	Winner   string    `json:"winner,omitempty"`
	At       time.Time `json:"at"`
}

func NewRoomEvent(eventType, roomID string, player Player) *RoomEvent {
	return &RoomEvent{
		ID:       uuid.NewString(),
		Type:     eventType,
		RoomID:   roomID,
		PlayerID: player.ID,
		Name:     player.Name,
		Symbol:   player.Symbol,
		At:       time.Now().UTC(),
	}
}

func (that *RoomEvent) WithCell(row, col int) *RoomEvent {
	that.Row = &row
	that.Col = &col
	return that
}

func (that *RoomEvent) WithWinner(winner string) *RoomEvent {
	that.Winner = winner
	return that
}
