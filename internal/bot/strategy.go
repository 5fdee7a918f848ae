package bot

import (
	"fmt"

	"github.com/yeogirlyun/pokertrainer/poker"
)

// Strategy is an explicit, immutable strategy table passed to a bot at
// construction time. There is no process-wide strategy state.
type Strategy struct {
	Name string

	// Preflop: categories the bot open-raises or calls with. Anything
	// weaker is folded to a bet and checked otherwise.
	RaiseCategories map[poker.HoleCardCategory]bool
	CallCategories  map[poker.HoleCardCategory]bool

	// Postflop thresholds by made-hand type.
	BetHandType  poker.HandType // bet/raise with this hand type or better
	CallHandType poker.HandType // call with this hand type or better

	// Sizing in big blinds for opens and bets.
	OpenRaiseBB int
	BetPotRatio float64 // fraction of pot for postflop bets
}

// TightAggressive is the default practice opponent.
func TightAggressive() Strategy {
	return Strategy{
		Name: "tight-aggressive",
		RaiseCategories: map[poker.HoleCardCategory]bool{
			poker.CategoryPremium: true,
			poker.CategoryStrong:  true,
		},
		CallCategories: map[poker.HoleCardCategory]bool{
			poker.CategoryMedium: true,
			poker.CategoryWeak:   true,
		},
		BetHandType:  poker.Pair,
		CallHandType: poker.Pair,
		OpenRaiseBB:  3,
		BetPotRatio:  0.5,
	}
}

// CallingStation calls everything it can; useful for drilling value bets.
func CallingStation() Strategy {
	return Strategy{
		Name: "calling-station",
		CallCategories: map[poker.HoleCardCategory]bool{
			poker.CategoryPremium: true,
			poker.CategoryStrong:  true,
			poker.CategoryMedium:  true,
			poker.CategoryWeak:    true,
			poker.CategoryTrash:   true,
		},
		BetHandType:  poker.FourOfAKind, // effectively never bets
		CallHandType: poker.HighCard,
		OpenRaiseBB:  3,
		BetPotRatio:  0.5,
	}
}

// Validate checks sizing sanity before a session starts.
func (s Strategy) Validate() error {
	if s.OpenRaiseBB < 2 {
		return fmt.Errorf("strategy %s: open raise must be at least 2 big blinds", s.Name)
	}
	if s.BetPotRatio <= 0 || s.BetPotRatio > 2 {
		return fmt.Errorf("strategy %s: bet pot ratio %.2f out of range (0, 2]", s.Name, s.BetPotRatio)
	}
	return nil
}
