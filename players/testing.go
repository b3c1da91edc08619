package players

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/minaorangina/telefunken/game"
)

// APlayer is a robot that plays as quickly as it can
func APlayer(id, name string) *Robot {
	return NewRobot(id, name, RobotOpts{Level: Greedy, Seed: 1})
}

// SomePlayers is a full table of robots
func SomePlayers() []*Robot {
	robots := []*Robot{}
	for i, name := range []string{"Harry", "Sally", "Hermione", "Ron"}[:game.NumPlayers] {
		robots = append(robots, APlayer(fmt.Sprintf("player-%d", i+1), name))
	}
	return robots
}

type TestBuffer struct {
	buf bytes.Buffer
	m   sync.Mutex
}

func NewTestBuffer() *TestBuffer {
	return &TestBuffer{}
}

func (tb *TestBuffer) Read(p []byte) (int, error) {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.Read(p)
}

func (tb *TestBuffer) Write(p []byte) (int, error) {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.Write(p)
}

func (tb *TestBuffer) String() string {
	tb.m.Lock()
	defer tb.m.Unlock()
	return tb.buf.String()
}
