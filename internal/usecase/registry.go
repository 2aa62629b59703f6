package usecase

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// Registry maps room ids to rooms. Rooms are created on first reference and kept for the process lifetime.
type Registry struct {
	logger    *slog.Logger
	boardSize int

	mu    sync.Mutex
	rooms map[string]*entity.Room
}

func NewRegistry(logger *slog.Logger, boardSize int) *Registry {
	return &Registry{
		logger:    logger.With("component", "registry"),
		boardSize: boardSize,
		rooms:     make(map[string]*entity.Room),
	}
}

// GetOrCreate returns the room for roomID, creating it if needed. The lookup and the insert happen under one lock.
func (that *Registry) GetOrCreate(roomID string) *entity.Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	if room, ok := that.rooms[roomID]; ok {
		return room
	}

	room := entity.NewRoom(roomID, that.boardSize)
	that.rooms[roomID] = room

	that.logger.Debug("room created", "roomID", roomID, "rooms", len(that.rooms))

	return room
}

func (that *Registry) Get(roomID string) (*entity.Room, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	return room, ok
}

func (that *Registry) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.rooms)
}
