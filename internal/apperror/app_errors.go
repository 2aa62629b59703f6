package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrSeatUnavailable   = errors.New("room is full")
	ErrParticipantExists = errors.New("participant is already in the room")
	ErrNotParticipant    = errors.New("participant is not in the room")

	ErrIllegalMove      = errors.New("illegal move")
	ErrOutOfBounds      = errors.New("cell is out of bounds")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")

	ErrMalformedMessage = errors.New("malformed message")
	ErrUnknownAction    = errors.New("unknown action")
	ErrDeliveryFailure  = errors.New("message delivery failed")
)

// IllegalMove marks reason as an illegal move, keeping both matchable with errors.Is.
func IllegalMove(reason error) error {
	return fmt.Errorf("%w: %w", ErrIllegalMove, reason)
}
