package protocol

type Player struct {
	PlayerID string `json:"playerID"`
	Name     string `json:"name"`
}

// InboundMessage is a message from Player to GameEngine
type InboundMessage struct {
	PlayerID string `json:"playerID"`
	Command  Cmd    `json:"command"`
	Buy      bool   `json:"buy,omitempty"`
	Decision []int  `json:"decision"`
}

// OutboundMessage is a message from GameEngine to Player.
// Messages with ShouldRespond set are prompts for Command.
type OutboundMessage struct {
	PlayerID      string     `json:"playerID"`
	Command       Cmd        `json:"command"`
	Name          string     `json:"name"`
	Message       string     `json:"message"`
	Event         *Event     `json:"event,omitempty"`
	Hand          []Card     `json:"hand,omitempty"`
	Discard       *Card      `json:"discard,omitempty"`
	Melds         []Meld     `json:"melds,omitempty"`
	Opponents     []Opponent `json:"opponents,omitempty"`
	Status        Status     `json:"status,omitempty"`
	Required      string     `json:"required,omitempty"`
	ShouldRespond bool       `json:"shouldRespond"`
	Joiner        Player     `json:"joiner,omitempty"`
	Winners       []string   `json:"winners,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// Meld is a meld on the table
type Meld struct {
	Owner string `json:"owner"`
	Type  string `json:"type"`
	Cards []Card `json:"cards"`
}

// Opponent is what can be seen of another player
type Opponent struct {
	PlayerID string `json:"playerID"`
	Name     string `json:"name"`
	Cards    int    `json:"cards"`
	Score    int    `json:"score"`
}
