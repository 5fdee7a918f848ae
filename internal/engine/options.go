package engine

import (
	"github.com/charmbracelet/log"

	"github.com/yeogirlyun/pokertrainer/poker"
)

// HandOption configures a Hand during creation.
type HandOption func(*handConfig)

type handConfig struct {
	chipCounts  []int
	startChips  int
	deck        *poker.Deck
	logger      *log.Logger
	subscribers []Subscriber
}

// WithUniformChips sets the same starting stack for every seat.
// Default is 1000.
func WithUniformChips(chips int) HandOption {
	return func(c *handConfig) {
		c.startChips = chips
		c.chipCounts = nil
	}
}

// WithChips sets individual starting stacks. The length must match the
// number of seats.
func WithChips(chipCounts []int) HandOption {
	return func(c *handConfig) {
		c.chipCounts = chipCounts
	}
}

// WithDeck sets a specific pre-ordered deck, overriding the RNG shuffle.
// Replay uses this with a stacked deck built from the recording.
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck
	}
}

// WithLogger attaches a structured logger for per-action debug output.
func WithLogger(logger *log.Logger) HandOption {
	return func(c *handConfig) {
		c.logger = logger
	}
}

// WithSubscriber registers event subscribers before setup runs, so blind
// posts and the initial deal are observed too.
func WithSubscriber(subs ...Subscriber) HandOption {
	return func(c *handConfig) {
		c.subscribers = append(c.subscribers, subs...)
	}
}
