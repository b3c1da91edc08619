package game

import (
	"fmt"

	"github.com/minaorangina/telefunken/meld"
)

const (
	NumPlayers = 4
	NumRounds  = 7
	HandSize   = 11
	// BuyExtras is how many face-down cards come with a bought discard
	BuyExtras = 2
	minMeld   = 3
)

var firstMelds = [NumRounds + 1]meld.Type{
	1: meld.PureTrio,
	2: meld.DoubleTrioOnePure,
	3: meld.Set(4),
	4: meld.DoubleCuatro,
	5: meld.Sequence(5),
	6: meld.SequenceFourTrio,
	7: meld.Sequence(7),
}

var firstMeldErrors = [NumRounds + 1]RuleError{
	1: ErrFirstMeldRound1,
	2: ErrFirstMeldRound2,
	3: ErrFirstMeldRound3,
	4: ErrFirstMeldRound4,
	5: ErrFirstMeldRound5,
	6: ErrFirstMeldRound6,
	7: ErrFirstMeldRound7,
}

func validRound(round int) bool {
	return round >= 1 && round <= NumRounds
}

// FirstMeld is the type a player's first meld of the round must have
func FirstMeld(round int) meld.Type {
	if !validRound(round) {
		return meld.Invalid
	}
	return firstMelds[round]
}

// FirstMeldError is the rejection for a first meld of the wrong type
func FirstMeldError(round int) RuleError {
	if !validRound(round) {
		return RuleError(fmt.Sprintf("first-meld-round-%d", round))
	}
	return firstMeldErrors[round]
}

// BuyLimit is how many discards one player may buy in a round
func BuyLimit(round int) int {
	switch {
	case round <= 1:
		return 0
	case round <= 3:
		return 1
	default:
		return 2
	}
}
