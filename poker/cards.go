package poker

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"
)

// Rank constants, 0-12 for deuce through ace.
const (
	Two uint8 = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suit constants.
const (
	Clubs uint8 = iota
	Diamonds
	Hearts
	Spades
)

var rankChars = [13]byte{'2', '3', '4', '5', '6', '7', '8', '9', 'T', 'J', 'Q', 'K', 'A'}
var suitChars = [4]byte{'c', 'd', 'h', 's'}

// Card is a single card represented as one set bit in a 52-bit space.
// Bit index is suit*13 + rank, so cards OR directly into a Hand.
type Card uint64

// NewCard creates a card from a rank (0-12) and suit (0-3).
func NewCard(rank, suit uint8) Card {
	return Card(1) << (uint(suit)*13 + uint(rank))
}

func (c Card) index() int {
	return bits.TrailingZeros64(uint64(c))
}

// Rank returns the card's rank (0-12, deuce through ace).
func (c Card) Rank() uint8 {
	return uint8(c.index() % 13)
}

// Suit returns the card's suit (0-3).
func (c Card) Suit() uint8 {
	return uint8(c.index() / 13)
}

// IsRed returns true for hearts and diamonds.
func (c Card) IsRed() bool {
	s := c.Suit()
	return s == Hearts || s == Diamonds
}

// String returns the two-character notation, e.g. "As" or "2c".
func (c Card) String() string {
	if c == 0 || bits.OnesCount64(uint64(c)) != 1 || c.index() >= 52 {
		return "??"
	}
	return string([]byte{rankChars[c.Rank()], suitChars[c.Suit()]})
}

// ParseCard parses two-character notation like "As", "Td" or "9h".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q: must be 2 characters", s)
	}

	var rank uint8
	switch s[0] {
	case 'A', 'a':
		rank = Ace
	case 'K', 'k':
		rank = King
	case 'Q', 'q':
		rank = Queen
	case 'J', 'j':
		rank = Jack
	case 'T', 't':
		rank = Ten
	case '2', '3', '4', '5', '6', '7', '8', '9':
		rank = s[0] - '2'
	default:
		return 0, fmt.Errorf("invalid card %q: unknown rank %q", s, s[0])
	}

	var suit uint8
	switch s[1] {
	case 'c', 'C':
		suit = Clubs
	case 'd', 'D':
		suit = Diamonds
	case 'h', 'H':
		suit = Hearts
	case 's', 'S':
		suit = Spades
	default:
		return 0, fmt.Errorf("invalid card %q: unknown suit %q", s, s[1])
	}

	return NewCard(rank, suit), nil
}

// Hand is a set of cards as a 52-bit mask. Cards combine with bitwise OR.
type Hand uint64

// NewHand creates a hand from the given cards.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// ParseHand parses concatenated card notation, e.g. "AsKd" or "As Kd".
func ParseHand(s string) (Hand, error) {
	s = strings.ReplaceAll(s, " ", "")
	if len(s)%2 != 0 {
		return 0, fmt.Errorf("invalid hand %q: odd length", s)
	}
	var h Hand
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return 0, err
		}
		if h&Hand(c) != 0 {
			return 0, fmt.Errorf("invalid hand %q: duplicate card %s", s, c)
		}
		h |= Hand(c)
	}
	return h, nil
}

// CountCards returns the number of cards in the hand.
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// Contains reports whether the card is in the hand.
func (h Hand) Contains(c Card) bool {
	return h&Hand(c) != 0
}

// GetSuitMask returns the 13-bit rank mask for a single suit.
func (h Hand) GetSuitMask(suit uint8) uint16 {
	return uint16((h >> (uint(suit) * 13)) & 0x1FFF)
}

// Cards returns the individual cards in the hand, lowest bit first.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	for m := uint64(h); m != 0; m &= m - 1 {
		cards = append(cards, Card(m&-m))
	}
	return cards
}

// String returns space-separated card notation, e.g. "2c Td As".
func (h Hand) String() string {
	cards := h.Cards()
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// MarshalJSON encodes the card as its two-character notation.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes two-character notation.
func (c *Card) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCard(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalJSON encodes the hand as an array of card strings.
func (h Hand) MarshalJSON() ([]byte, error) {
	cards := h.Cards()
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return json.Marshal(parts)
}

// UnmarshalJSON decodes an array of card strings.
func (h *Hand) UnmarshalJSON(data []byte) error {
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	var out Hand
	for _, s := range parts {
		c, err := ParseCard(s)
		if err != nil {
			return err
		}
		out |= Hand(c)
	}
	*h = out
	return nil
}
