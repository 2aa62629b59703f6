package entity

// Inbound is a message received from a participant: Join, Reset or Move.
type Inbound interface {
	inbound()
}

type Join struct {
	Name string
}

type Reset struct{}

type Move struct {
	Row int
	Col int
}

func (Join) inbound()  {}
func (Reset) inbound() {}
func (Move) inbound()  {}

// Outbound is a message delivered to a participant.
type Outbound interface {
	outbound()
}

type ErrorMessage struct {
	Error string `json:"error"`
}

// Notice is a plain text announcement.
type Notice struct {
	Text string
}

type SymbolAssigned struct {
	Symbol string `json:"symbol"`
}

// StateView is the externally visible snapshot of a room's game.
type StateView struct {
	Board      [][]string     `json:"board"`
	Turn       string         `json:"turn"`
	TurnName   string         `json:"turn_name"`
	Winner     *string        `json:"winner"`
	GameActive bool           `json:"game_active"`
	NameScore  map[string]int `json:"name_score"`
}

const (
	OutcomeDraw = "draw"
	OutcomeWin  = "win"
	OutcomeLose = "lose"
)

type Outcome struct {
	MessageType string `json:"message_type"`
	Message     string `json:"message"`
}

func (ErrorMessage) outbound()   {}
func (Notice) outbound()         {}
func (SymbolAssigned) outbound() {}
func (StateView) outbound()      {}
func (Outcome) outbound()        {}

// OutcomeFor builds the personal end-of-game notice for a participant called name.
func OutcomeFor(winner, name string) Outcome {
	switch winner {
	case WinnerDraw:
		return Outcome{MessageType: OutcomeDraw, Message: "It's a draw!"}
	case name:
		return Outcome{MessageType: OutcomeWin, Message: "You won! 🎉"}
	default:
		return Outcome{MessageType: OutcomeLose, Message: "You lost 😞"}
	}
}
