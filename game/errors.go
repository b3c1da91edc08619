package game

import (
	"errors"
	"fmt"

	"github.com/minaorangina/telefunken/protocol"
)

// RuleError is an action the rules do not allow. The game is left unchanged
// and the same player can try again.
type RuleError string

func (e RuleError) Error() string {
	return string(e)
}

// Code is the stable identifier of the rule that was broken
func (e RuleError) Code() string {
	return string(e)
}

const (
	ErrAlreadyDrew RuleError = "already-drew"
	ErrHasNotDrawn RuleError = "has-not-drawn"
	ErrMustDraw    RuleError = "must-draw"
	ErrDeckEmpty   RuleError = "deck-empty"

	ErrNotYourCards RuleError = "not-your-cards"
	ErrNotYourCard  RuleError = "not-your-card"
	ErrNotYourTurn  RuleError = "not-your-turn"

	ErrCannotMeldAllCards RuleError = "cannot-meld-all-cards"
	ErrMinimumOne         RuleError = "minimum-1"
	ErrSingleOrThreePlus  RuleError = "must-be-single-or-3+"
	ErrExcessiveJokers    RuleError = "excessive-jokers"
	ErrUnknownType        RuleError = "unknown-type"

	ErrFirstMeldRound1 RuleError = "first-meld-round-1-pure-trio"
	ErrFirstMeldRound2 RuleError = "first-meld-round-2-double-trio-one-pure"
	ErrFirstMeldRound3 RuleError = "first-meld-round-3-set-4"
	ErrFirstMeldRound4 RuleError = "first-meld-round-4-double-cuatro"
	ErrFirstMeldRound5 RuleError = "first-meld-round-5-sequence-5"
	ErrFirstMeldRound6 RuleError = "first-meld-round-6-sequence-4-trio"
	ErrFirstMeldRound7 RuleError = "first-meld-round-7-sequence-7"

	ErrCannotBuy RuleError = "cannot-buy"

	ErrGameOver      RuleError = "game-over"
	ErrUnknownPlayer RuleError = "unknown-player"
)

// IsRuleError reports whether err is a recoverable rule violation
func IsRuleError(err error) bool {
	var re RuleError
	return errors.As(err, &re)
}

var (
	ErrWrongNumberOfPlayers = fmt.Errorf("telefunken is played by exactly %d players", NumPlayers)
	ErrDuplicatePlayer      = errors.New("player names must be unique")
	ErrInvalidState         = errors.New("invalid game state")

	ErrCardNotFound  = errors.New("card-not-found")
	ErrHandOverflow  = errors.New("hand-overflow")
	ErrNotTheDiscard = errors.New("not-the-discard")
	ErrInvalidDeal   = errors.New("invalid-deal")
	ErrNotObserver   = errors.New("private event for another player")
)

// ReplayError is a log that cannot have come from a real game.
// Replay stops at the first one.
type ReplayError struct {
	Index int
	Event protocol.Event
	Err   error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay event %d (%s): %v", e.Index, e.Event.Kind(), e.Err)
}

func (e *ReplayError) Unwrap() error {
	return e.Err
}
