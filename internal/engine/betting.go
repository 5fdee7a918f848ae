package engine

// BettingRound encapsulates the per-street betting state: the target
// contribution, the minimum raise increment, the last full-raise
// aggressor, and which seats have acted since the last full raise.
type BettingRound struct {
	CurrentBet    int
	MinRaise      int
	LastAggressor int
	BBActed       bool
	Acted         []bool
	bigBlind      int
}

// NewBettingRound creates betting state for a fresh hand.
func NewBettingRound(numPlayers, bigBlind int) *BettingRound {
	return &BettingRound{
		MinRaise:      bigBlind,
		LastAggressor: -1,
		Acted:         make([]bool, numPlayers),
		bigBlind:      bigBlind,
	}
}

// ResetForNewStreet clears the betting state when a street begins.
// BBActed persists; it only matters preflop.
func (br *BettingRound) ResetForNewStreet() {
	br.CurrentBet = 0
	br.MinRaise = br.bigBlind
	br.LastAggressor = -1
	for i := range br.Acted {
		br.Acted[i] = false
	}
}

// MarkActed records that a seat has acted since the last full raise.
func (br *BettingRound) MarkActed(seat int) {
	if seat >= 0 && seat < len(br.Acted) {
		br.Acted[seat] = true
	}
}

// Reopen resets acted flags after a full raise: everyone still able to
// act owes a fresh decision. A short all-in never calls this.
func (br *BettingRound) Reopen(aggressor int) {
	for i := range br.Acted {
		br.Acted[i] = false
	}
	br.Acted[aggressor] = true
	br.LastAggressor = aggressor
}

// NeedsAction reports whether the seat still owes a decision this street.
func (br *BettingRound) NeedsAction(p *Player) bool {
	if !p.CanAct() {
		return false
	}
	return p.Bet != br.CurrentBet || !br.Acted[p.Seat]
}

// Complete checks whether the betting round is finished: every seat that
// can still act has matched the current bet and acted since the last
// full raise, with the preflop big-blind option honored.
func (br *BettingRound) Complete(players []*Player, street Street, button int) bool {
	live := 0
	for _, p := range players {
		if p.CanAct() {
			live++
		}
	}
	if live == 0 {
		return true
	}

	for _, p := range players {
		if br.NeedsAction(p) {
			return false
		}
	}

	// Preflop the big blind retains the option to raise an unraised pot
	// even once every limp has matched.
	if street == Preflop && br.LastAggressor == -1 {
		bb := bigBlindSeat(len(players), button)
		p := players[bb]
		if p.CanAct() && !br.BBActed {
			return false
		}
	}

	return true
}

// smallBlindSeat returns the seat posting the small blind. Heads-up the
// button posts it.
func smallBlindSeat(numPlayers, button int) int {
	if numPlayers == 2 {
		return button
	}
	return (button + 1) % numPlayers
}

// bigBlindSeat returns the seat posting the big blind.
func bigBlindSeat(numPlayers, button int) int {
	if numPlayers == 2 {
		return (button + 1) % numPlayers
	}
	return (button + 2) % numPlayers
}

// firstToActPreflop returns the first seat owing action preflop: UTG, or
// the button in heads-up play.
func firstToActPreflop(numPlayers, button int) int {
	if numPlayers == 2 {
		return button
	}
	return (button + 3) % numPlayers
}
