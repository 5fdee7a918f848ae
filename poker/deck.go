package poker

import (
	"fmt"
	"math/rand"
)

// Deck represents a standard 52-card deck.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a new shuffled deck with an explicit RNG.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.Shuffle()
	return d
}

// NewStackedDeck creates a deck whose first cards are dealt in the given
// order, with all remaining cards following in fixed suit/rank order.
// Used for replaying recorded hands where the dealt cards are known.
func NewStackedDeck(top ...Card) (*Deck, error) {
	if len(top) > 52 {
		return nil, fmt.Errorf("stacked deck: %d cards exceed a 52-card deck", len(top))
	}
	d := &Deck{}

	seen := Hand(0)
	i := 0
	for _, c := range top {
		if seen.Contains(c) {
			return nil, fmt.Errorf("stacked deck: duplicate card %s", c)
		}
		seen |= Hand(c)
		d.cards[i] = c
		i++
	}

	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			c := NewCard(rank, suit)
			if !seen.Contains(c) {
				d.cards[i] = c
				i++
			}
		}
	}

	return d, nil
}

// Shuffle reshuffles the deck using Fisher-Yates and resets the deal cursor.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.Intn(i + 1)
		} else {
			j = rand.Intn(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck, or nil if not enough remain.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards
}

// DealOne deals a single card from the deck.
func (d *Deck) DealOne() Card {
	if d.next >= len(d.cards) {
		return 0
	}
	card := d.cards[d.next]
	d.next++
	return card
}

// CardsRemaining returns the number of undealt cards.
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
