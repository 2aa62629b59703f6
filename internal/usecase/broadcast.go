package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// Broadcast sends msg to every player currently in the room. A player whose delivery fails
// is treated as disconnected and loses its seat; the others still get the message.
func (that *GameManager) Broadcast(ctx context.Context, room *entity.Room, msg entity.Outbound) {
	log := that.logger.With("method", "Broadcast", "roomID", room.ID)

	for _, player := range room.Participants() {
		if err := player.Handle.Send(ctx, msg); err != nil {
			log.Warn("failed to deliver message, dropping player", "playerID", player.ID, "error", err)

			if room.ReleaseSeat(player) {
				that.publish(ctx, entity.NewRoomEvent(entity.EventLeft, room.ID, player))
			}
		}
	}
}

// NotifyEach sends every player its own message built by build. Failures are reported, not acted on:
// the player's connection loop sees the broken transport and leaves on its own.
func (that *GameManager) NotifyEach(ctx context.Context, room *entity.Room, build func(player entity.Player) entity.Outbound) error {
	var errs []error

	for _, player := range room.Participants() {
		if err := player.Handle.Send(ctx, build(player)); err != nil {
			errs = append(errs, fmt.Errorf("%w: player %s: %w", apperror.ErrDeliveryFailure, player.ID, err))
		}
	}

	return errors.Join(errs...)
}
