package players

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/minaorangina/telefunken/protocol"
)

var retries = 3

var ErrInputClosed = errors.New("input closed")

type conn struct {
	In  io.Reader
	Out io.Writer
}

// CLIPlayer plays at a terminal. Cards are chosen by letter.
type CLIPlayer struct {
	id   string
	name string
	Conn *conn

	once  sync.Once
	lines chan string
}

func NewCLIPlayer(id, name string, in io.Reader, out io.Writer) *CLIPlayer {
	return &CLIPlayer{
		id:    id,
		name:  name,
		Conn:  &conn{In: in, Out: out},
		lines: make(chan string),
	}
}

func (p *CLIPlayer) ID() string {
	return p.id
}

func (p *CLIPlayer) Name() string {
	return p.name
}

func (p *CLIPlayer) Send(msg protocol.OutboundMessage) error {
	switch msg.Command {
	case protocol.Error:
		SendText(p.Conn.Out, "\n%s\n", msg.Message)
	case protocol.EventCmd:
		if msg.Event != nil && msg.Event.Cards != nil {
			SendText(p.Conn.Out, "\n%s\n", msg.Message)
			SendText(p.Conn.Out, buildHandText(msg.Event.Cards))
			return nil
		}
		SendText(p.Conn.Out, "%s\n", msg.Message)
	default:
		SendText(p.Conn.Out, "\n%s\n", msg.Message)
	}
	return nil
}

func (p *CLIPlayer) Prompt(ctx context.Context, msg protocol.OutboundMessage) (protocol.InboundMessage, error) {
	p.once.Do(func() { go p.readLines() })

	reply := protocol.InboundMessage{PlayerID: p.id, Command: msg.Command}
	SendText(p.Conn.Out, buildTableText(msg))

	var err error
	switch msg.Command {
	case protocol.Buy:
		reply.Buy, err = p.offerBuy(ctx, msg)
	case protocol.MeldCmd:
		SendText(p.Conn.Out, "\n%s\n", msg.Message)
		reply.Decision, err = p.chooseCards(ctx, msg.Hand, meldPromptText, 0, len(msg.Hand)-1)
	case protocol.Discard:
		reply.Decision, err = p.chooseCards(ctx, msg.Hand, discardPromptText, 1, 1)
	}
	return reply, err
}

func (p *CLIPlayer) readLines() {
	reader := bufio.NewReader(p.Conn.In)
	defer close(p.lines)
	for {
		line, err := reader.ReadString('\n')
		if line != "" || err == nil {
			p.lines <- strings.TrimSpace(line)
		}
		if err != nil {
			return
		}
	}
}

func (p *CLIPlayer) readLine(ctx context.Context) (string, error) {
	select {
	case line, ok := <-p.lines:
		if !ok {
			return "", ErrInputClosed
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (p *CLIPlayer) offerBuy(ctx context.Context, msg protocol.OutboundMessage) (bool, error) {
	for retriesLeft := retries; retriesLeft > 0; retriesLeft-- {
		SendText(p.Conn.Out, buyInviteText, msg.Discard)

		answer, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			SendText(p.Conn.Out, retryYesNoText)
		}
	}

	SendText(p.Conn.Out, maxRetriesText)
	return false, nil
}

// chooseCards reads letters for between min and max cards of hand.
// An empty entry is only accepted when min is 0.
func (p *CLIPlayer) chooseCards(ctx context.Context, hand []protocol.Card, prompt string, min, max int) ([]int, error) {
	SendText(p.Conn.Out, buildHandText(hand))
	last := rune(upperCaseA + len(hand) - 1)

	for retriesLeft := retries; retriesLeft > 0; retriesLeft-- {
		SendText(p.Conn.Out, prompt)

		entry, err := p.readLine(ctx)
		if err != nil {
			return nil, err
		}
		entry = strings.ToUpper(strings.Replace(entry, " ", "", -1))

		switch {
		case entry == "" && min == 0:
			return []int{}, nil
		case len(entry) < min || (min == max && len(entry) != min):
			SendText(p.Conn.Out, retryOneCardText)
		case len(entry) > max:
			SendText(p.Conn.Out, retryTooManyText)
		case !charsUnique(entry):
			SendText(p.Conn.Out, retryUniqueCardsText)
		case !charsInRange(entry, upperCaseA, last):
			SendText(p.Conn.Out, retryRangeText, last)
		default:
			return charsToCardIndex(entry), nil
		}
	}

	SendText(p.Conn.Out, giveUpText)
	return []int{}, nil
}
