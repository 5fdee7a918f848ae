package engine

import "sort"

// Pot represents a main or side pot.
type Pot struct {
	Amount       int
	Eligible     []int // seats eligible to win this pot
	MaxPerPlayer int   // contribution cap that created this pot (0 = uncapped)
}

// PotManager tracks committed chips from completed streets and splits
// them into side pots by all-in contribution level.
type PotManager struct {
	pots []Pot
}

// NewPotManager creates a pot manager for the given seats.
func NewPotManager(players []*Player) *PotManager {
	eligible := make([]int, 0, len(players))
	for _, p := range players {
		eligible = append(eligible, p.Seat)
	}
	return &PotManager{pots: []Pot{{Eligible: eligible}}}
}

// Total returns the committed chips across all pots.
func (pm *PotManager) Total() int {
	total := 0
	for _, pot := range pm.pots {
		total += pot.Amount
	}
	return total
}

// CollectBets sweeps each seat's street bet into the pot at street end.
func (pm *PotManager) CollectBets(players []*Player) {
	for _, p := range players {
		if p.Bet > 0 {
			pm.pots[0].Amount += p.Bet
			p.Bet = 0
		}
	}
	// Rebuild side pots from total contributions whenever all-ins exist.
	pm.calculateSidePots(players)
}

// calculateSidePots rebuilds the pot list from per-player TotalBet,
// creating one capped pot per distinct all-in contribution level.
func (pm *PotManager) calculateSidePots(players []*Player) {
	total := pm.Total()

	levels := map[int]bool{}
	for _, p := range players {
		if p.AllIn && p.TotalBet > 0 {
			levels[p.TotalBet] = true
		}
	}
	if len(levels) == 0 {
		// Single pot; keep eligibility current as players fold.
		eligible := make([]int, 0, len(players))
		for _, p := range players {
			if !p.Folded {
				eligible = append(eligible, p.Seat)
			}
		}
		pm.pots = []Pot{{Amount: total, Eligible: eligible}}
		return
	}

	caps := make([]int, 0, len(levels))
	for amount := range levels {
		caps = append(caps, amount)
	}
	sort.Ints(caps)

	pm.pots = pm.pots[:0]
	prev := 0
	for _, cap := range caps {
		pot := Pot{MaxPerPlayer: cap}
		for _, p := range players {
			if !p.Folded && p.TotalBet > prev {
				pot.Eligible = append(pot.Eligible, p.Seat)
			}
			contribution := p.TotalBet - prev
			if contribution > cap-prev {
				contribution = cap - prev
			}
			if contribution > 0 {
				pot.Amount += contribution
			}
		}
		if pot.Amount > 0 && len(pot.Eligible) > 0 {
			pm.pots = append(pm.pots, pot)
		}
		prev = cap
	}

	// Remainder above the highest all-in level.
	top := Pot{}
	for _, p := range players {
		if p.TotalBet > prev {
			if !p.Folded {
				top.Eligible = append(top.Eligible, p.Seat)
			}
			top.Amount += p.TotalBet - prev
		}
	}
	if top.Amount > 0 && len(top.Eligible) > 0 {
		pm.pots = append(pm.pots, top)
	}
}

// Pots returns the current pot list.
func (pm *PotManager) Pots() []Pot {
	return pm.pots
}

// PotsWithLive returns the pots with uncollected street bets added, for
// display and snapshots mid-street.
func (pm *PotManager) PotsWithLive(players []*Player) []Pot {
	live := 0
	for _, p := range players {
		live += p.Bet
	}
	if live == 0 {
		return pm.pots
	}
	result := make([]Pot, len(pm.pots))
	copy(result, pm.pots)
	result[len(result)-1].Amount += live
	return result
}

// splitPot divides a pot evenly among winners. Odd chips go to the
// winner closest clockwise from the button, the standard convention.
func splitPot(amount int, winners []int, numPlayers, button int) map[int]int {
	shares := make(map[int]int, len(winners))
	if len(winners) == 0 {
		return shares
	}
	each := amount / len(winners)
	odd := amount % len(winners)
	for _, seat := range winners {
		shares[seat] = each
	}
	for i := 1; odd > 0 && i <= numPlayers; i++ {
		seat := (button + i) % numPlayers
		if _, ok := shares[seat]; ok {
			shares[seat]++
			odd--
		}
	}
	return shares
}
