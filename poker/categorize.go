package poker

// HoleCardCategory buckets starting hands for strategy lookups.
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "premium"
	CategoryStrong  HoleCardCategory = "strong"
	CategoryMedium  HoleCardCategory = "medium"
	CategoryWeak    HoleCardCategory = "weak"
	CategoryTrash   HoleCardCategory = "trash"
	CategoryUnknown HoleCardCategory = "unknown"
)

// CategorizeHoleCards buckets a starting hand: Premium (JJ+, AK),
// Strong (TT, AQ/AJ), Medium (77-99, suited broadway), Weak (small
// pairs, suited connectors), Trash (everything else).
func CategorizeHoleCards(card1, card2 Card) HoleCardCategory {
	r1, r2 := card1.Rank(), card2.Rank()
	if r1 > Ace || r2 > Ace {
		return CategoryUnknown
	}
	suited := card1.Suit() == card2.Suit()

	small, big := r1, r2
	if small > big {
		small, big = big, small
	}
	isPair := small == big

	if isPair && small >= Jack {
		return CategoryPremium
	}
	if big == Ace && small == King {
		return CategoryPremium
	}

	if isPair && small == Ten {
		return CategoryStrong
	}
	if big == Ace && (small == Queen || small == Jack) {
		return CategoryStrong
	}

	if isPair && small >= Seven {
		return CategoryMedium
	}
	if suited && small >= Ten {
		return CategoryMedium
	}

	if isPair {
		return CategoryWeak
	}
	if suited && big-small <= 2 {
		return CategoryWeak
	}

	return CategoryTrash
}

// CategorizeHand buckets a two-card Hand. Returns Unknown for any other
// card count.
func CategorizeHand(h Hand) HoleCardCategory {
	cards := h.Cards()
	if len(cards) != 2 {
		return CategoryUnknown
	}
	return CategorizeHoleCards(cards[0], cards[1])
}
