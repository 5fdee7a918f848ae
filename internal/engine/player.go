package engine

import (
	"github.com/yeogirlyun/pokertrainer/poker"
)

// Player represents a seat in a hand. Owned exclusively by the Hand;
// mutated only by ExecuteAction and blind posting.
type Player struct {
	Seat      int
	Name      string
	Chips     int
	HoleCards poker.Hand
	Folded    bool
	AllIn     bool
	Bet       int // chips committed this street
	TotalBet  int // chips committed this hand
}

// CanAct returns true if the player still owes decisions this hand.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// commit moves up to n chips from the stack into the street bet,
// returning the amount actually moved. Marks the player all-in when the
// stack empties.
func (p *Player) commit(n int) int {
	if n > p.Chips {
		n = p.Chips
	}
	p.Chips -= n
	p.Bet += n
	p.TotalBet += n
	if p.Chips == 0 {
		p.AllIn = true
	}
	return n
}
