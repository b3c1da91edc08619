package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/minaorangina/telefunken/deck"
	"github.com/minaorangina/telefunken/game"
	"github.com/minaorangina/telefunken/players"
	"gopkg.in/yaml.v3"
)

var ErrInvalidMatch = errors.New("invalid match")

// Seat is one player in a match file
type Seat struct {
	Name  string `yaml:"name"`
	Robot bool   `yaml:"robot,omitempty"`
	Level string `yaml:"level,omitempty"`
}

// Match is a table set up for a terminal game
type Match struct {
	Seats []Seat `yaml:"seats"`
	// Seed makes the deals repeatable. 0 shuffles at random.
	Seed  int64         `yaml:"seed,omitempty"`
	Delay time.Duration `yaml:"delay,omitempty"`
}

// DefaultMatch seats one human against robots
func DefaultMatch(name string) Match {
	m := Match{Seats: []Seat{{Name: name}}}
	for i := 1; i < game.NumPlayers; i++ {
		m.Seats = append(m.Seats, Seat{Name: fmt.Sprintf("Robot %d", i), Robot: true, Level: players.Greedy.String()})
	}
	return m
}

func LoadMatch(path string) (Match, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Match{}, err
	}
	return ParseMatch(data)
}

func ParseMatch(data []byte) (Match, error) {
	var m Match
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Match{}, fmt.Errorf("%w: %v", ErrInvalidMatch, err)
	}
	if err := m.Validate(); err != nil {
		return Match{}, err
	}
	return m, nil
}

func (m Match) Validate() error {
	if len(m.Seats) != game.NumPlayers {
		return fmt.Errorf("%w: need %d seats, got %d", ErrInvalidMatch, game.NumPlayers, len(m.Seats))
	}
	seen := map[string]bool{}
	for _, s := range m.Seats {
		if s.Name == "" || seen[s.Name] {
			return fmt.Errorf("%w: seat names must be unique and not empty", ErrInvalidMatch)
		}
		seen[s.Name] = true
		if s.Level != "" {
			if _, err := players.ParseLevel(s.Level); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidMatch, err)
			}
		}
	}
	return nil
}

// Shuffle is the shuffle the match asks for, nil meaning random
func (m Match) Shuffle() func([]deck.Card) {
	if m.Seed == 0 {
		return nil
	}
	return deck.Seeded(m.Seed)
}

func (m Match) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}
