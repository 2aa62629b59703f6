package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const (
	msgRoomFull     = "Room is full."
	msgAlreadyIn    = "You are already in this room."
	msgInvalidJoin  = "Invalid join message."
	msgInvalidMove  = "Invalid move or not your turn."
	msgInvalidInput = "Invalid message."
	msgGameBegins   = "The game begins!"
	msgWaiting      = "Waiting for another player..."
	msgGameReset    = "Game has been reset."
)

// Conn is one participant's connection: it receives decoded messages and delivers outbound ones.
type Conn interface {
	entity.Handle
	Receive(ctx context.Context) (entity.Inbound, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event *entity.RoomEvent) error
}

type GameManager struct {
	logger *slog.Logger
	rooms  *Registry
	events eventPublisher
}

func NewGameManager(logger *slog.Logger, rooms *Registry, events eventPublisher) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),
		rooms:  rooms,
		events: events,
	}
}

// Serve runs the connection loop of one participant until the connection goes away.
// It returns an error only when the connection was refused a seat.
func (that *GameManager) Serve(ctx context.Context, roomID, playerID string, conn Conn) error {
	log := that.logger.With("method", "Serve", "roomID", roomID, "playerID", playerID)

	room := that.rooms.GetOrCreate(roomID)

	player, err := that.join(ctx, room, playerID, conn)
	if err != nil {
		return err
	}

	log.Info("player joined", "symbol", player.Symbol, "name", player.Name)

	defer that.leave(ctx, room, player)

	if err = conn.Send(ctx, entity.SymbolAssigned{Symbol: player.Symbol}); err != nil {
		log.Warn("failed to send symbol", "error", err)
		return nil
	}

	that.Broadcast(ctx, room, entity.Notice{Text: player.Name + " joined the room."})

	if room.IsFull() {
		that.Broadcast(ctx, room, entity.Notice{Text: msgGameBegins})
		that.Broadcast(ctx, room, room.Serialize())
	} else {
		that.Broadcast(ctx, room, entity.Notice{Text: msgWaiting})
	}

	for {
		msg, err := conn.Receive(ctx)
		if errors.Is(err, apperror.ErrMalformedMessage) || errors.Is(err, apperror.ErrUnknownAction) {
			log.Debug("rejected message", "error", err)
			if err = conn.Send(ctx, entity.ErrorMessage{Error: msgInvalidInput}); err != nil {
				return nil
			}
			continue
		}

		if err != nil {
			log.Info("player disconnected", "reason", err)
			return nil
		}

		switch msg := msg.(type) {
		case entity.Reset:
			that.handleReset(ctx, room, player, conn)
		case entity.Move:
			that.handleMove(ctx, room, player, conn, msg)
		default:
			if err = conn.Send(ctx, entity.ErrorMessage{Error: msgInvalidMove}); err != nil {
				return nil
			}
		}
	}
}

// join reads the join message and seats the player. A refused connection gets an error message and is not registered.
func (that *GameManager) join(ctx context.Context, room *entity.Room, playerID string, conn Conn) (entity.Player, error) {
	msg, err := conn.Receive(ctx)
	if errors.Is(err, apperror.ErrMalformedMessage) || errors.Is(err, apperror.ErrUnknownAction) {
		that.refuse(ctx, conn, msgInvalidJoin)
		return entity.Player{}, fmt.Errorf("failed to read join message: %w", err)
	}

	if err != nil {
		return entity.Player{}, fmt.Errorf("connection closed before join: %w", err)
	}

	var name string
	if join, ok := msg.(entity.Join); ok {
		name = join.Name
	}

	player, err := room.AssignParticipant(playerID, name, conn)
	switch {
	case errors.Is(err, apperror.ErrSeatUnavailable):
		that.refuse(ctx, conn, msgRoomFull)
		return entity.Player{}, fmt.Errorf("failed to join room %s: %w", room.ID, err)
	case errors.Is(err, apperror.ErrParticipantExists):
		that.refuse(ctx, conn, msgAlreadyIn)
		return entity.Player{}, fmt.Errorf("failed to join room %s: %w", room.ID, err)
	case err != nil:
		return entity.Player{}, fmt.Errorf("failed to join room %s: %w", room.ID, err)
	}

	that.publish(ctx, entity.NewRoomEvent(entity.EventJoined, room.ID, player))

	return player, nil
}

func (that *GameManager) refuse(ctx context.Context, conn Conn, text string) {
	if err := conn.Send(ctx, entity.ErrorMessage{Error: text}); err != nil {
		that.logger.Debug("failed to send refusal", "error", err)
	}
}

func (that *GameManager) handleReset(ctx context.Context, room *entity.Room, player entity.Player, conn Conn) {
	state, err := room.ResetGame(player.ID)
	if err != nil {
		that.logger.Warn("failed to reset game", "roomID", room.ID, "playerID", player.ID, "error", err)
		that.refuse(ctx, conn, msgInvalidInput)
		return
	}

	that.publish(ctx, entity.NewRoomEvent(entity.EventReset, room.ID, player))

	that.Broadcast(ctx, room, entity.Notice{Text: msgGameReset})
	that.Broadcast(ctx, room, state)
}

func (that *GameManager) handleMove(ctx context.Context, room *entity.Room, player entity.Player, conn Conn, move entity.Move) {
	log := that.logger.With("method", "handleMove", "roomID", room.ID, "playerID", player.ID)

	outcome, err := room.Move(player.ID, move.Row, move.Col)
	if err != nil {
		log.Debug("move rejected", "row", move.Row, "col", move.Col, "error", err)
		that.refuse(ctx, conn, msgInvalidMove)
		return
	}

	that.publish(ctx, entity.NewRoomEvent(entity.EventMoved, room.ID, player).WithCell(move.Row, move.Col))

	that.Broadcast(ctx, room, outcome.State)

	if !outcome.Result.Ended() {
		return
	}

	log.Info("game finished", "result", outcome.Result.String(), "winner", outcome.Winner)

	that.publish(ctx, entity.NewRoomEvent(entity.EventEnded, room.ID, player).WithWinner(outcome.Winner))

	err = that.NotifyEach(ctx, room, func(recipient entity.Player) entity.Outbound {
		return entity.OutcomeFor(outcome.Winner, recipient.Name)
	})
	if err != nil {
		log.Warn("failed to notify players about the result", "error", err)
	}
}

// leave gives up the seat and tells whoever is left. It runs even if ctx is already cancelled.
func (that *GameManager) leave(ctx context.Context, room *entity.Room, player entity.Player) {
	ctx = context.WithoutCancel(ctx)

	if room.ReleaseSeat(player) {
		that.publish(ctx, entity.NewRoomEvent(entity.EventLeft, room.ID, player))
	}

	that.Broadcast(ctx, room, entity.Notice{Text: player.Name + " disconnected."})
}

func (that *GameManager) publish(ctx context.Context, event *entity.RoomEvent) {
	if err := that.events.Publish(ctx, event); err != nil {
		that.logger.Warn("failed to publish room event", "type", event.Type, "roomID", event.RoomID, "error", err)
	}
}
