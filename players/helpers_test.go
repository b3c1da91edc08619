package players

import (
	"testing"

	"github.com/minaorangina/telefunken/deck"
	"github.com/minaorangina/telefunken/protocol"
	"github.com/stretchr/testify/require"
)

func wire(t *testing.T, codes ...string) []protocol.Card {
	t.Helper()
	cards := []protocol.Card{}
	for _, code := range codes {
		f, err := deck.ParseFace(code)
		require.NoError(t, err)
		cards = append(cards, protocol.FromFace(f))
	}
	return cards
}

func wireCard(t *testing.T, code string) *protocol.Card {
	t.Helper()
	c := wire(t, code)[0]
	return &c
}
