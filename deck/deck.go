package deck

import (
	"math/rand"
	"sync"
	"time"
)

const (
	// NumPacks is how many standard 52-card packs make up the pool
	NumPacks = 2
	// NumJokers in the pool
	NumJokers = 4
	// Size of the full pool
	Size = NumPacks*52 + NumJokers
)

// Deck represents a pile of face-down cards. The last card is the top.
type Deck []Card

// New creates the full pool of cards, in a fixed order with IDs 0 to Size-1
func New() Deck {
	cards := make(Deck, 0, Size)
	id := 0
	for pack := 0; pack < NumPacks; pack++ {
		for _, suit := range suits {
			for _, rank := range ranks {
				cards = append(cards, NewCard(id, rank, suit))
				id++
			}
		}
	}
	for i := 0; i < NumJokers; i++ {
		cards = append(cards, NewCard(id, Joker, NullSuit))
		id++
	}
	return cards
}

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Shuffle randomises the order of cards in place. It is safe for concurrent use.
func Shuffle(cards []Card) {
	rngMu.Lock()
	defer rngMu.Unlock()
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Seeded returns a shuffle function with a reproducible order
func Seeded(seed int64) func([]Card) {
	r := rand.New(rand.NewSource(seed))
	return func(cards []Card) {
		r.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})
	}
}

// Shuffle shuffles the deck of cards
func (d *Deck) Shuffle() {
	Shuffle(*d)
}

// Deal deals n number of cards from the top of the deck, until it is empty
func (d *Deck) Deal(n int) []Card {
	numCardsInDeck := len(*d)
	if n < 0 {
		return []Card{}
	}
	if n > numCardsInDeck {
		n = numCardsInDeck
	}
	startingIndex := numCardsInDeck - n
	dealt := make([]Card, n)
	copy(dealt, (*d)[startingIndex:])
	*d = (*d)[:startingIndex]
	return dealt
}

// Draw takes the top card
func (d *Deck) Draw() (Card, bool) {
	if len(*d) == 0 {
		return Card{}, false
	}
	return d.Deal(1)[0], true
}

// Top returns the top card without removing it
func (d Deck) Top() (Card, bool) {
	if len(d) == 0 {
		return Card{}, false
	}
	return d[len(d)-1], true
}
