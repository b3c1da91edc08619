package engine

import (
	"fmt"
	"strings"

	"github.com/minaorangina/telefunken/game"
	"github.com/minaorangina/telefunken/protocol"
)

func buildStartMessage(recipient Player, ps Players) protocol.OutboundMessage {
	return protocol.OutboundMessage{
		PlayerID: recipient.ID(),
		Command:  protocol.HasStarted,
		Name:     recipient.Name(),
		Message:  fmt.Sprintf("The game has started! Playing: %s", strings.Join(ps.Names(), ", ")),
	}
}

func buildEventMessage(recipient Player, ev protocol.Event) protocol.OutboundMessage {
	return protocol.OutboundMessage{
		PlayerID: recipient.ID(),
		Command:  protocol.EventCmd,
		Name:     recipient.Name(),
		Message:  eventText(recipient.Name(), ev),
		Event:    &ev,
	}
}

func buildErrorMessage(recipient Player, cmd protocol.Cmd, err error) protocol.OutboundMessage {
	return protocol.OutboundMessage{
		PlayerID: recipient.ID(),
		Command:  protocol.Error,
		Name:     recipient.Name(),
		Message:  fmt.Sprintf("That %s was not allowed: %s", strings.ToLower(cmd.String()), err),
		Error:    err.Error(),
	}
}

func buildGameOverMessage(recipient Player, winners []string) protocol.OutboundMessage {
	return protocol.OutboundMessage{
		PlayerID: recipient.ID(),
		Command:  protocol.GameOver,
		Name:     recipient.Name(),
		Message:  fmt.Sprintf("Game over! Won by %s", strings.Join(winners, " and ")),
		Winners:  winners,
	}
}

// buildPrompt asks seat for cmd, showing them everything they can see
func buildPrompt(ps Players, g *game.Game, seat int, cmd protocol.Cmd) protocol.OutboundMessage {
	recipient := ps[seat]
	msg := protocol.OutboundMessage{
		PlayerID:      recipient.ID(),
		Command:       cmd,
		Name:          recipient.Name(),
		Hand:          protocol.ToCards(g.Hand(seat)),
		Melds:         buildMelds(g),
		Opponents:     buildOpponents(ps, g, seat),
		ShouldRespond: true,
	}
	if status, ok := protocol.StatusFor(cmd); ok {
		msg.Status = status
	}
	if top, ok := g.TopDiscard(); ok {
		wire := protocol.ToCard(top)
		msg.Discard = &wire
	}
	if g.Melded(seat) == 0 {
		msg.Required = string(game.FirstMeld(g.Round()))
	}

	switch cmd {
	case protocol.Buy:
		msg.Message = fmt.Sprintf("Would you like to buy the %s?", msg.Discard)
	case protocol.MeldCmd:
		if msg.Required != "" {
			msg.Message = fmt.Sprintf("Round %d. Choose cards to meld (your first meld must be a %s), or none to move on.", g.Round(), msg.Required)
		} else {
			msg.Message = "Choose cards to meld or lay off, or none to move on."
		}
	case protocol.Discard:
		msg.Message = "Choose a card to discard."
	}
	return msg
}

func buildMelds(g *game.Game) []protocol.Meld {
	names := g.Names()
	melds := []protocol.Meld{}
	for _, m := range g.Melds() {
		melds = append(melds, protocol.Meld{
			Owner: names[m.Owner],
			Type:  string(m.Type),
			Cards: protocol.ToCards(m.Cards),
		})
	}
	return melds
}

// buildOpponents lists the other seats in turn order after seat
func buildOpponents(ps Players, g *game.Game, seat int) []protocol.Opponent {
	opponents := []protocol.Opponent{}
	for _, i := range g.PlayersInPerspective(seat)[1:] {
		p := g.Player(i)
		opponents = append(opponents, protocol.Opponent{
			PlayerID: ps[i].ID(),
			Name:     p.Name,
			Cards:    len(p.Hand),
			Score:    p.Score,
		})
	}
	return opponents
}

func eventText(recipient string, ev protocol.Event) string {
	who := ev.Name
	if who == recipient {
		who = "You"
	}
	switch {
	case ev.StartDiscard != nil:
		return fmt.Sprintf("New round! The first discard is the %s", ev.StartDiscard)
	case ev.Cards != nil:
		return fmt.Sprintf("You were dealt %d cards", len(ev.Cards))
	case ev.Bought != nil:
		return fmt.Sprintf("%s bought the %s", who, ev.Bought)
	case ev.YouBought != nil:
		return fmt.Sprintf("You also got %s", joinCards(ev.YouBought))
	case ev.Drew:
		return fmt.Sprintf("%s drew a card", who)
	case ev.YouDrew != nil:
		return fmt.Sprintf("You drew the %s", ev.YouDrew)
	case ev.Melded != nil:
		return fmt.Sprintf("%s melded %s", who, joinCards(ev.Melded))
	case ev.Discard != nil:
		return fmt.Sprintf("%s discarded the %s", who, ev.Discard)
	case ev.Scores != nil:
		return fmt.Sprintf("%s now has %d points", who, *ev.Scores)
	}
	return ""
}

func joinCards(cards []protocol.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
