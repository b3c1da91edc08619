package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/minaorangina/telefunken/config"
	"github.com/minaorangina/telefunken/deck"
	"github.com/minaorangina/telefunken/engine"
	"github.com/minaorangina/telefunken/game"
	"github.com/minaorangina/telefunken/players"
	"github.com/minaorangina/telefunken/protocol"
	"go.uber.org/zap"
)

// logHeader is the first line of a game log. Every following line is an event.
type logHeader struct {
	Players     []string `json:"players"`
	Perspective string   `json:"perspective,omitempty"`
}

func main() {
	var (
		matchFile = flag.String("match", "", "YAML file describing the table")
		name      = flag.String("name", "You", "your name when no match file is given")
		logFile   = flag.String("log", "", "write the game log here")
		replay    = flag.String("replay", "", "replay a game log instead of playing")
		as        = flag.String("as", "", "whose view to replay; empty for a spectator")
		verbose   = flag.Bool("v", false, "log engine activity to stderr")
	)
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = config.NewLogger("debug", true); err != nil {
			fatal(err)
		}
	}
	defer logger.Sync()

	if *replay != "" {
		if err := replayLog(*replay, *as, os.Stdout); err != nil {
			fatal(err)
		}
		return
	}

	match := config.DefaultMatch(*name)
	if *matchFile != "" {
		var err error
		if match, err = config.LoadMatch(*matchFile); err != nil {
			fatal(err)
		}
	}

	ge, human, err := newGame(match, logger)
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, playErr := ge.Play(ctx)

	if *logFile != "" {
		if err := writeLog(*logFile, ge, human); err != nil {
			fatal(err)
		}
	}
	if playErr != nil {
		fatal(playErr)
	}

	fmt.Printf("\nFinal scores:\n")
	for _, n := range ge.Players().Names() {
		fmt.Printf("  %-12s %d\n", n, result.Scores[n])
	}
}

func newGame(m config.Match, logger *zap.Logger) (*engine.GameEngine, engine.Player, error) {
	var (
		ps    engine.Players
		human engine.Player
	)
	for i, seat := range m.Seats {
		id := fmt.Sprintf("seat-%d", i)
		if !seat.Robot {
			p := players.NewCLIPlayer(id, seat.Name, os.Stdin, os.Stdout)
			if human == nil {
				human = p
			}
			ps = engine.AddPlayer(ps, p)
			continue
		}

		level := players.Greedy
		if seat.Level != "" {
			var err error
			if level, err = players.ParseLevel(seat.Level); err != nil {
				return nil, nil, err
			}
		}
		robotSeed := m.Seed
		if robotSeed != 0 {
			robotSeed += int64(i)
		}
		ps = engine.AddPlayer(ps, players.NewRobot(id, seat.Name, players.RobotOpts{
			Level: level,
			Delay: m.Delay,
			Seed:  robotSeed,
		}))
	}

	ge, err := engine.NewGameEngine(engine.GameEngineOpts{
		GameID:  "cli",
		Players: ps,
		Shuffle: m.Shuffle(),
		Logger:  logger,
	})
	return ge, human, err
}

// writeLog saves what human saw, or what a spectator saw if nobody at the
// table is human
func writeLog(path string, ge *engine.GameEngine, human engine.Player) error {
	header := logHeader{Players: ge.Players().Names()}
	id := ""
	if human != nil {
		header.Perspective, id = human.Name(), human.ID()
	}
	events, err := ge.History(id)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(header); err != nil {
		return err
	}
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	return nil
}

func replayLog(path, perspective string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	var header logHeader
	if err := dec.Decode(&header); err != nil {
		return fmt.Errorf("reading log header: %w", err)
	}
	if perspective == "" {
		perspective = header.Perspective
	}

	r, err := game.NewReplayer(header.Players, perspective)
	if err != nil {
		return err
	}
	for {
		var ev protocol.Event
		if err := dec.Decode(&ev); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}
		if err := r.Apply(ev); err != nil {
			return err
		}
	}

	printGame(out, r.Game(), perspective)
	fmt.Fprintf(out, "\n%d events replayed\n", r.Applied())
	return nil
}

func printGame(out io.Writer, g *game.Game, perspective string) {
	if g.Finished() {
		fmt.Fprintf(out, "Game over. Winners: %s\n", strings.Join(g.Winners(), ", "))
	} else {
		fmt.Fprintf(out, "Round %d, %s to play (%s)\n", g.Round(), g.Player(g.Current()).Name, g.Status())
	}

	scores := g.Scores()
	for i, n := range g.Names() {
		fmt.Fprintf(out, "  %-12s %4d points, %2d cards\n", n, scores[i], len(g.Hand(i)))
	}

	if seat := g.PlayerIndex(perspective); seat >= 0 && !g.Finished() {
		fmt.Fprintf(out, "\n%s's hand: %s\n", perspective, cardNames(g.Hand(seat)))
	}
	if c, ok := g.TopDiscard(); ok && !g.Finished() {
		fmt.Fprintf(out, "Discard: %s\n", protocol.ToCard(c))
	}
	for _, m := range g.Melds() {
		fmt.Fprintf(out, "  %s (%s): %s\n", g.Player(m.Owner).Name, m.Type, cardNames(m.Cards))
	}
}

func cardNames(cards []deck.Card) string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		names = append(names, protocol.ToCard(c).String())
	}
	return strings.Join(names, ", ")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
