package entity

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

const roomCapacity = 2

// MoveOutcome is what an accepted move produced, captured under the room lock.
type MoveOutcome struct {
	Result Result
	Winner string
	State  StateView
}

// Room owns one game and at most two players. All methods are safe for concurrent use.
type Room struct {
	ID string

	mu       sync.Mutex
	players  map[string]*Player
	game     *Game
	nextSeat uint64
}

func NewRoom(id string, boardSize int) *Room {
	return &Room{
		ID:      id,
		players: make(map[string]*Player, roomCapacity),
		game:    NewGame(boardSize),
	}
}

func (that *Room) IsFull() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.isFull()
}

func (that *Room) isFull() bool {
	return len(that.players) == roomCapacity
}

// Status derives the room state: waiting for players, ongoing or finished.
func (that *Room) Status() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch {
	case !that.isFull():
		return StatusWaiting
	case !that.game.Active:
		return StatusFinished
	default:
		return StatusOngoing
	}
}

// AssignParticipant seats a new player on the first free symbol.
func (that *Room) AssignParticipant(id, name string, handle Handle) (Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.players[id]; ok {
		return Player{}, fmt.Errorf("%w: %s", apperror.ErrParticipantExists, id)
	}

	symbol := that.freeSymbol()
	if symbol == "" {
		return Player{}, fmt.Errorf("%w: room %s", apperror.ErrSeatUnavailable, that.ID)
	}

	if name == "" {
		name = DefaultPlayerName
	}

	that.nextSeat++
	player := &Player{
		ID:     id,
		Name:   name,
		Symbol: symbol,
		Handle: handle,
		seat:   that.nextSeat,
	}
	that.players[id] = player

	return *player, nil
}

func (that *Room) freeSymbol() string {
	used := make(map[string]bool, len(that.players))
	for _, player := range that.players {
		used[player.Symbol] = true
	}

	for _, symbol := range Symbols {
		if !used[symbol] {
			return symbol
		}
	}

	return ""
}

func (that *Room) LookupBySymbol(symbol string) (Player, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player := that.bySymbol(symbol)
	if player == nil {
		return Player{}, false
	}

	return *player, true
}

func (that *Room) bySymbol(symbol string) *Player {
	for _, player := range that.players {
		if player.Symbol == symbol {
			return player
		}
	}
	return nil
}

// Move applies a move for the player with the given id. Moves are rejected until both seats are taken.
func (that *Room) Move(playerID string, row, col int) (MoveOutcome, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, ok := that.players[playerID]
	if !ok {
		return MoveOutcome{}, apperror.IllegalMove(apperror.ErrNotParticipant)
	}

	if !that.isFull() {
		return MoveOutcome{}, apperror.IllegalMove(apperror.ErrGameIsNotStarted)
	}

	result, err := that.game.ApplyMove(player.Symbol, player.Name, row, col)
	if err != nil {
		return MoveOutcome{}, err
	}

	if result == ResultWin {
		player.Score++
	}

	return MoveOutcome{
		Result: result,
		Winner: that.game.Winner,
		State:  that.serialize(),
	}, nil
}

// ResetGame starts a new game with the requester moving first. Scores are kept.
func (that *Room) ResetGame(playerID string) (StateView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, ok := that.players[playerID]
	if !ok {
		return StateView{}, fmt.Errorf("%w: %s", apperror.ErrNotParticipant, playerID)
	}

	that.game.Reset(player.Symbol)

	return that.serialize(), nil
}

func (that *Room) RemoveParticipant(id string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.players[id]; !ok {
		return false
	}

	delete(that.players, id)

	return true
}

// ReleaseSeat removes player only if the seat it holds is still the one it was given.
func (that *Room) ReleaseSeat(player Player) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	current, ok := that.players[player.ID]
	if !ok || current.seat != player.seat {
		return false
	}

	delete(that.players, player.ID)

	return true
}

// Participants returns copies of the current players ordered by symbol.
func (that *Room) Participants() []Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	players := make([]Player, 0, len(that.players))
	for _, player := range that.players {
		players = append(players, *player)
	}

	sort.Slice(players, func(i, j int) bool {
		return symbolRank(players[i].Symbol) < symbolRank(players[j].Symbol)
	})

	return players
}

func (that *Room) Serialize() StateView {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.serialize()
}

func (that *Room) serialize() StateView {
	view := that.game.Serialize()

	if mover := that.bySymbol(that.game.Turn); mover != nil {
		view.TurnName = mover.Name
	}

	for _, player := range that.players {
		view.NameScore[player.Name] = player.Score
	}

	return view
}

func symbolRank(symbol string) int {
	for i, s := range Symbols {
		if s == symbol {
			return i
		}
	}
	return len(Symbols)
}
