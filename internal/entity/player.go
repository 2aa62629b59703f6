package entity

import "context"

const DefaultPlayerName = "Anonymous Player"

// Handle delivers messages to the connection a participant joined from.
type Handle interface {
	Send(ctx context.Context, msg Outbound) error
}

type Player struct {
	ID     string
	Name   string
	Symbol string
	Score  int
	Handle Handle

	// seat tells apart two memberships of the same id in one room.
	seat uint64
}
