package players

import (
	"fmt"
	"io"
	"strings"

	"github.com/minaorangina/telefunken/protocol"
)

const upperCaseA = 'A'

var (
	buyInviteText        = "Would you like to buy the %s? [y/n] "
	retryYesNoText       = "Invalid choice. Please enter \"y\" for \"yes\" or \"n\" for \"no\"\n"
	maxRetriesText       = "\nMax retries exceeded: I'll take that as a no.\n"
	meldPromptText       = "\nEnter the letters of the cards to meld, or press enter to move on: "
	discardPromptText    = "\nEnter the letter of the card to discard: "
	retryUniqueCardsText = "Please select each card only once\n"
	retryOneCardText     = "You need to choose exactly 1 card\n"
	retryTooManyText     = "You can't meld every card in your hand\n"
	retryRangeText       = "Invalid entry. Please use the letter codes (A-%c) to select your cards\n"
	giveUpText           = "\nToo many attempts. Moving on.\n"
)

func SendText(w io.Writer, text string, a ...interface{}) {
	fmt.Fprintf(w, text, a...)
}

func buildHandText(hand []protocol.Card) string {
	text := "\nIn your hand, you have:\n"
	for i, card := range hand {
		text += fmt.Sprintf("%c - %s\n", rune(upperCaseA+i), card.String())
	}
	return text
}

func buildTableText(msg protocol.OutboundMessage) string {
	var b strings.Builder
	if msg.Discard != nil {
		fmt.Fprintf(&b, "\nThe discard pile shows the %s\n", msg.Discard)
	}
	if len(msg.Melds) > 0 {
		b.WriteString("\nOn the table:\n")
		for _, m := range msg.Melds {
			fmt.Fprintf(&b, "- %s's %s: %s\n", m.Owner, m.Type, cardList(m.Cards))
		}
	}
	for _, o := range msg.Opponents {
		fmt.Fprintf(&b, "%s has %d cards and %d points\n", o.Name, o.Cards, o.Score)
	}
	return b.String()
}

func cardList(cards []protocol.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
