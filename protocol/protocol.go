package protocol

// Cmd represents a command
type Cmd int

const (
	Null Cmd = iota
	NewJoiner
	Start
	HasStarted
	Error
	// turn decisions
	Buy
	MeldCmd
	Discard
	// everything a player is told about the game is an Event
	EventCmd
	GameOver
)

var CmdNames = map[Cmd]string{
	Null:       "Null",
	NewJoiner:  "NewJoiner",
	Start:      "Start",
	HasStarted: "HasStarted",
	Error:      "Error",
	Buy:        "Buy",
	MeldCmd:    "Meld",
	Discard:    "Discard",
	EventCmd:   "Event",
	GameOver:   "GameOver",
}

var NameToCmd = map[string]Cmd{
	"Null":       Null,
	"NewJoiner":  NewJoiner,
	"Start":      Start,
	"HasStarted": HasStarted,
	"Error":      Error,
	"Buy":        Buy,
	"Meld":       MeldCmd,
	"Discard":    Discard,
	"Event":      EventCmd,
	"GameOver":   GameOver,
}

func (c Cmd) String() string {
	return CmdNames[c]
}

// Status is the set of actions currently open in a game
type Status string

const (
	StatusFinished      Status = "finished"
	StatusBuy           Status = "buy"
	StatusMeld          Status = "meld"
	StatusDiscard       Status = "discard"
	StatusBuyOrDraw     Status = "buy-or-draw"
	StatusDraw          Status = "draw"
	StatusMeldOrDiscard Status = "meld-or-discard"
)

// StatusFor is the status shown while a player is being asked for cmd
func StatusFor(cmd Cmd) (Status, bool) {
	switch cmd {
	case Buy:
		return StatusBuy, true
	case MeldCmd:
		return StatusMeld, true
	case Discard:
		return StatusDiscard, true
	}
	return "", false
}
