package poker

import (
	"math/bits"
)

// HandType enumerates the categories of poker hands ordered from weakest
// to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable hand description.
func (ht HandType) String() string {
	switch ht {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandRank is the strength of a 5-card hand. Higher values are stronger.
// Layout: category in bits 20-23, then up to five 4-bit tiebreak ranks
// from most to least significant.
type HandRank uint32

// Type returns the category of the ranked hand.
func (hr HandRank) Type() HandType {
	return HandType(hr >> 20)
}

// String returns the hand category name.
func (hr HandRank) String() string {
	return hr.Type().String()
}

// CompareHands compares two hand ranks: 1 if a wins, -1 if b wins, 0 on tie.
func CompareHands(a, b HandRank) int {
	if a > b {
		return 1
	} else if a < b {
		return -1
	}
	return 0
}

func rank(ht HandType, tiebreaks ...uint8) HandRank {
	r := HandRank(ht) << 20
	shift := 16
	for _, t := range tiebreaks {
		r |= HandRank(t) << shift
		shift -= 4
	}
	return r
}

// Evaluate7Cards evaluates the best 5-card hand from exactly 7 cards.
// Returns 0 for malformed input.
func Evaluate7Cards(hand Hand) HandRank {
	if hand.CountCards() != 7 {
		return 0
	}
	return evaluate7CardsUnchecked(hand)
}

// Evaluate5Cards evaluates a 5 or 6 card hand; used for board-only and
// partial evaluations in analysis tooling.
func Evaluate5Cards(hand Hand) HandRank {
	n := hand.CountCards()
	if n < 5 || n > 7 {
		return 0
	}
	return evaluate7CardsUnchecked(hand)
}

func evaluate7CardsUnchecked(hand Hand) HandRank {
	var suitMasks [4]uint16
	var rankMask uint16
	for suit := uint8(0); suit < 4; suit++ {
		m := hand.GetSuitMask(suit)
		suitMasks[suit] = m
		rankMask |= m
	}

	// Straight flush / flush. At most one suit can hold five of seven cards.
	for _, sm := range suitMasks {
		if bits.OnesCount16(sm) >= 5 {
			if high := straightHigh(sm); high > 0 {
				return rank(StraightFlush, high)
			}
			t := topRanks(sm, 5)
			return rank(Flush, t[0], t[1], t[2], t[3], t[4])
		}
	}

	// Count ranks across suits.
	var counts [13]uint8
	for r := uint8(0); r < 13; r++ {
		bit := uint16(1) << r
		for _, sm := range suitMasks {
			if sm&bit != 0 {
				counts[r]++
			}
		}
	}

	var quad, trip, trip2, pairHi, pairLo int8 = -1, -1, -1, -1, -1
	for r := int8(12); r >= 0; r-- {
		switch counts[r] {
		case 4:
			quad = r
		case 3:
			if trip < 0 {
				trip = r
			} else if trip2 < 0 {
				trip2 = r
			}
		case 2:
			if pairHi < 0 {
				pairHi = r
			} else if pairLo < 0 {
				pairLo = r
			}
		}
	}

	if quad >= 0 {
		kicker := topRanksExcluding(rankMask, 1, uint8(quad))
		return rank(FourOfAKind, uint8(quad), kicker[0])
	}

	if trip >= 0 {
		// A second trip's top two cards make the stronger full house pair.
		fhPair := pairHi
		if trip2 > fhPair {
			fhPair = trip2
		}
		if fhPair >= 0 {
			return rank(FullHouse, uint8(trip), uint8(fhPair))
		}
	}

	if high := straightHigh(rankMask); high > 0 {
		return rank(Straight, high)
	}

	if trip >= 0 {
		k := topRanksExcluding(rankMask, 2, uint8(trip))
		return rank(ThreeOfAKind, uint8(trip), k[0], k[1])
	}

	if pairHi >= 0 && pairLo >= 0 {
		k := topRanksExcluding(rankMask, 1, uint8(pairHi), uint8(pairLo))
		return rank(TwoPair, uint8(pairHi), uint8(pairLo), k[0])
	}

	if pairHi >= 0 {
		k := topRanksExcluding(rankMask, 3, uint8(pairHi))
		return rank(Pair, uint8(pairHi), k[0], k[1], k[2])
	}

	t := topRanks(rankMask, 5)
	return rank(HighCard, t[0], t[1], t[2], t[3], t[4])
}

// straightHigh returns the high-card rank of the best straight in the
// 13-bit rank mask, or 0 if none. The wheel returns Five (rank 3).
func straightHigh(mask uint16) uint8 {
	const wheelMask = 0x100F // A-2-3-4-5
	mask &= 0x1FFF

	// Bitwise cascade finds runs of five consecutive ranks in one pass.
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		low := uint8(bits.Len16(seq) - 1)
		return low + 4
	}

	if mask&wheelMask == wheelMask {
		return Five
	}
	return 0
}

// topRanks returns the n highest set ranks in the mask, descending.
func topRanks(mask uint16, n int) []uint8 {
	out := make([]uint8, 0, n)
	for r := int8(12); r >= 0 && len(out) < n; r-- {
		if mask&(1<<uint8(r)) != 0 {
			out = append(out, uint8(r))
		}
	}
	for len(out) < n {
		out = append(out, 0)
	}
	return out
}

// topRanksExcluding returns the n highest set ranks not in the exclude
// list, descending.
func topRanksExcluding(mask uint16, n int, exclude ...uint8) []uint8 {
	for _, ex := range exclude {
		mask &^= 1 << ex
	}
	return topRanks(mask, n)
}
