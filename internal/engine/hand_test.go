package engine

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeogirlyun/pokertrainer/poker"
)

func cards(t *testing.T, notation string) []poker.Card {
	t.Helper()
	fields := strings.Fields(notation)
	out := make([]poker.Card, 0, len(fields))
	for _, f := range fields {
		c, err := poker.ParseCard(f)
		require.NoError(t, err, "card %q", f)
		out = append(out, c)
	}
	return out
}

// stacked builds a deck that deals the given hole cards to seats in
// order and then the board.
func stacked(t *testing.T, board string, holes ...string) *poker.Deck {
	t.Helper()
	var top []poker.Card
	for _, h := range holes {
		top = append(top, cards(t, h)...)
	}
	top = append(top, cards(t, board)...)
	deck, err := poker.NewStackedDeck(top...)
	require.NoError(t, err)
	return deck
}

func act(t *testing.T, h *Hand, seat int, action ActionType, amount int) {
	t.Helper()
	require.NoError(t, h.ExecuteAction(seat, action, amount))
}

// checkDown drives the hand to completion with passive actions only.
func checkDown(t *testing.T, h *Hand) {
	t.Helper()
	for i := 0; i < 50 && !h.IsComplete(); i++ {
		seat := h.ActionOn()
		require.GreaterOrEqual(t, seat, 0)
		view := h.View(seat)
		switch {
		case view.CanTake(Check):
			act(t, h, seat, Check, 0)
		case view.CanTake(Call):
			act(t, h, seat, Call, 0)
		default:
			act(t, h, seat, AllIn, 0)
		}
	}
	require.True(t, h.IsComplete(), "hand did not finish")
}

func totalChips(h *Hand) int {
	total := 0
	for _, s := range h.Players() {
		total += s.Chips + s.Bet
	}
	return total + h.pots.Total()
}

func TestNewHandPostsBlinds(t *testing.T) {
	t.Parallel()
	h, err := NewHand(rand.New(rand.NewSource(42)), []string{"Alice", "Bob", "Charlie"}, 0, 5, 10)
	require.NoError(t, err)

	seats := h.Players()
	assert.Equal(t, 995, seats[1].Chips, "small blind deducted")
	assert.Equal(t, 5, seats[1].Bet)
	assert.Equal(t, 990, seats[2].Chips, "big blind deducted")
	assert.Equal(t, 10, seats[2].Bet)
	assert.Equal(t, 15, h.Pot())

	// UTG acts first three-handed.
	assert.Equal(t, 0, h.ActionOn())
	assert.Equal(t, Preflop, h.Street())

	history := h.History()
	require.Len(t, history, 2)
	assert.Equal(t, PostBlind, history[0].Action)
	assert.Equal(t, 5, history[0].Amount)
	assert.Equal(t, PostBlind, history[1].Action)
	assert.Equal(t, 10, history[1].Amount)

	for seat := range seats {
		assert.Equal(t, 2, h.HoleCards(seat).CountCards(), "seat %d hole cards", seat)
	}
}

func TestHeadsUpOrdering(t *testing.T) {
	t.Parallel()
	h, err := NewHand(rand.New(rand.NewSource(1)), []string{"Alice", "Bob"}, 0, 5, 10)
	require.NoError(t, err)

	// Heads-up the button posts the small blind and acts first preflop.
	seats := h.Players()
	assert.Equal(t, 5, seats[0].Bet)
	assert.Equal(t, 10, seats[1].Bet)
	require.Equal(t, 0, h.ActionOn())

	act(t, h, 0, Call, 0)
	require.Equal(t, 1, h.ActionOn(), "big blind retains the option")
	act(t, h, 1, Check, 0)

	// Postflop the non-button seat acts first.
	assert.Equal(t, Flop, h.Street())
	assert.Equal(t, 1, h.ActionOn())
}

func TestBigBlindOption(t *testing.T) {
	t.Parallel()
	h, err := NewHand(rand.New(rand.NewSource(3)), []string{"Alice", "Bob", "Charlie"}, 0, 5, 10)
	require.NoError(t, err)

	act(t, h, 0, Call, 0)
	act(t, h, 1, Call, 0)

	// Every limp has matched, but the big blind still owes a decision.
	require.Equal(t, 2, h.ActionOn())
	require.Equal(t, Preflop, h.Street())
	view := h.View(2)
	assert.Zero(t, view.ToCall)
	assert.True(t, view.CanTake(Check))
	assert.True(t, view.CanTake(Raise), "big blind may raise an unraised pot")
	assert.False(t, view.CanTake(Bet))

	act(t, h, 2, Check, 0)
	assert.Equal(t, Flop, h.Street())
}

func TestFoldOutAwardsPotUncontested(t *testing.T) {
	t.Parallel()
	h, err := NewHand(rand.New(rand.NewSource(9)), []string{"Alice", "Bob", "Charlie"}, 0, 1, 2,
		WithUniformChips(100))
	require.NoError(t, err)

	act(t, h, 0, Fold, 0)
	act(t, h, 1, Fold, 0)

	require.True(t, h.IsComplete())
	result := h.Result()
	require.NotNil(t, result)
	assert.False(t, result.Showdown)
	require.Len(t, result.Winners, 1)
	assert.Equal(t, 2, result.Winners[0].Seat)
	assert.Equal(t, 3, result.Winners[0].Amount)
	assert.Zero(t, result.Winners[0].HandRank, "no hand shown for an uncontested pot")

	seats := h.Players()
	assert.Equal(t, 100, seats[0].Chips)
	assert.Equal(t, 99, seats[1].Chips)
	assert.Equal(t, 101, seats[2].Chips)
}

func TestMinRaiseEnforced(t *testing.T) {
	t.Parallel()
	h, err := NewHand(rand.New(rand.NewSource(7)), []string{"Alice", "Bob", "Charlie"}, 0, 5, 10)
	require.NoError(t, err)

	require.Equal(t, 20, h.View(0).MinRaiseTo)

	err = h.ExecuteAction(0, Raise, 15)
	var invalid *InvalidActionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 0, invalid.Seat)

	// Rejection mutates nothing; the same seat is re-prompted.
	assert.Equal(t, 0, h.ActionOn())
	assert.Equal(t, 1000, h.Players()[0].Chips)
	assert.Equal(t, 15, h.Pot())

	act(t, h, 0, Raise, 20)
	assert.Equal(t, 980, h.Players()[0].Chips)

	// A re-raise must add at least the previous raise increment.
	assert.Equal(t, 30, h.View(1).MinRaiseTo)
}

func TestShortAllInDoesNotReopenAction(t *testing.T) {
	t.Parallel()
	deck := stacked(t, "Qh Jh 3c 8d 2s", "As Ad", "7c 2d", "Ks Kd")
	h, err := NewHand(nil, []string{"Alice", "Bob", "Charlie"}, 0, 5, 10,
		WithChips([]int{1000, 1000, 40}), WithDeck(deck))
	require.NoError(t, err)

	act(t, h, 0, Raise, 30)
	act(t, h, 1, Fold, 0)

	// The big blind's shove to 40 is short of the 50 minimum raise.
	view := h.View(2)
	assert.False(t, view.CanTake(Raise))
	assert.True(t, view.CanTake(AllIn))
	act(t, h, 2, AllIn, 0)

	// No full raise happened, so the raise increment is unchanged.
	require.Equal(t, 0, h.ActionOn())
	assert.Equal(t, 10, h.View(0).ToCall)
	assert.Equal(t, 60, h.View(0).MinRaiseTo)

	// Calling closes the round; Alice is not prompted again.
	act(t, h, 0, Call, 0)
	require.Equal(t, Flop, h.Street())

	checkDown(t, h)
	result := h.Result()
	require.NotNil(t, result)
	assert.True(t, result.Showdown)
	assert.Equal(t, 85, result.PotShares[0])
	assert.Equal(t, 1045, h.Players()[0].Chips)
	assert.Equal(t, 995, h.Players()[1].Chips)
	assert.Equal(t, 0, h.Players()[2].Chips)
}

func TestSidePotsThreeWayAllIn(t *testing.T) {
	t.Parallel()
	deck := stacked(t, "2c 7h Th 3d 8s", "Ks Kd", "As Ad", "Qs Qd")
	h, err := NewHand(nil, []string{"Alice", "Bob", "Charlie"}, 0, 5, 10,
		WithChips([]int{100, 50, 200}), WithDeck(deck))
	require.NoError(t, err)

	act(t, h, 0, AllIn, 0)
	act(t, h, 1, AllIn, 0)
	act(t, h, 2, AllIn, 0)

	// Everyone is all-in; the board runs out to showdown immediately.
	require.True(t, h.IsComplete())
	require.Len(t, h.Board(), 5)

	result := h.Result()
	require.NotNil(t, result)
	assert.True(t, result.Showdown)

	// Bob's aces win only the main pot he covered; Alice's kings take
	// the middle pot and Charlie's surplus returns to him.
	assert.Equal(t, 150, result.PotShares[1])
	assert.Equal(t, 100, result.PotShares[0])
	assert.Equal(t, 100, result.PotShares[2])

	assert.Equal(t, 100, h.Players()[0].Chips)
	assert.Equal(t, 150, h.Players()[1].Chips)
	assert.Equal(t, 100, h.Players()[2].Chips)
}

func TestFoldedChipsStayInPot(t *testing.T) {
	t.Parallel()
	deck := stacked(t, "Qh Jh 3c 8d 2s", "As Ad", "Ks Kd", "7c 2d")
	h, err := NewHand(nil, []string{"Alice", "Bob", "Charlie"}, 0, 5, 10,
		WithChips([]int{40, 1000, 1000}), WithDeck(deck))
	require.NoError(t, err)

	act(t, h, 0, AllIn, 0)
	act(t, h, 1, Call, 0)
	act(t, h, 2, Fold, 0)

	// The folded big blind stays in the pot but the folder has no claim.
	pots := h.Pots()
	require.Len(t, pots, 1)
	assert.Equal(t, 90, pots[0].Amount)
	assert.NotContains(t, pots[0].Eligible, 2)

	checkDown(t, h)
	assert.Equal(t, 90, h.Players()[0].Chips)
	assert.Equal(t, 960, h.Players()[1].Chips)
	assert.Equal(t, 990, h.Players()[2].Chips)
}

func TestSplitPotOddChipGoesClockwiseFromButton(t *testing.T) {
	t.Parallel()
	// Both live hands play the board; the 5-chip pot splits 2/3 with the
	// odd chip to the winner closest past the button.
	deck := stacked(t, "As Kd Qh Jc Ts", "2c 3c", "2d 3d", "2h 3h")
	h, err := NewHand(nil, []string{"Alice", "Bob", "Charlie"}, 0, 1, 2,
		WithUniformChips(100), WithDeck(deck))
	require.NoError(t, err)

	act(t, h, 0, Call, 0)
	act(t, h, 1, Fold, 0)
	act(t, h, 2, Check, 0)
	checkDown(t, h)

	result := h.Result()
	require.NotNil(t, result)
	require.Len(t, result.Winners, 2)
	assert.Equal(t, result.Winners[0].HandRank, result.Winners[1].HandRank)
	assert.Equal(t, 2, result.PotShares[0])
	assert.Equal(t, 3, result.PotShares[2])

	assert.Equal(t, 100, h.Players()[0].Chips)
	assert.Equal(t, 99, h.Players()[1].Chips)
	assert.Equal(t, 101, h.Players()[2].Chips)
}

func TestAllInBlindsRunOutBoard(t *testing.T) {
	t.Parallel()
	deck := stacked(t, "Kh Qh 3c 8d 2s", "7c 2d", "As Ad")
	h, err := NewHand(nil, []string{"Alice", "Bob"}, 0, 5, 10,
		WithChips([]int{5, 10}), WithDeck(deck))
	require.NoError(t, err)

	// Posting the blinds left nobody able to act.
	require.True(t, h.IsComplete())
	require.Len(t, h.Board(), 5)

	result := h.Result()
	require.NotNil(t, result)
	assert.True(t, result.Showdown)
	assert.Equal(t, 15, h.Players()[1].Chips, "main pot plus the uncalled surplus")
	assert.Equal(t, 0, h.Players()[0].Chips)
}

func TestChipsConservedUnderRandomPlay(t *testing.T) {
	t.Parallel()
	names := []string{"Alice", "Bob", "Charlie", "Dave"}
	for seed := int64(1); seed <= 25; seed++ {
		h, err := NewHand(rand.New(rand.NewSource(seed)), names, int(seed)%4, 5, 10)
		require.NoError(t, err)

		policy := rand.New(rand.NewSource(seed * 31))
		for i := 0; i < 500 && !h.IsComplete(); i++ {
			seat := h.ActionOn()
			require.GreaterOrEqual(t, seat, 0, "seed %d", seed)
			view := h.View(seat)
			applied := false
			if policy.Intn(4) == 0 {
				for _, va := range view.ValidActions {
					if va.Action == Bet || va.Action == Raise {
						act(t, h, seat, va.Action, va.MinAmount)
						applied = true
						break
					}
				}
			}
			if !applied {
				switch {
				case view.CanTake(Check):
					act(t, h, seat, Check, 0)
				case view.CanTake(Call):
					act(t, h, seat, Call, 0)
				default:
					act(t, h, seat, AllIn, 0)
				}
			}
			if !h.IsComplete() {
				assert.Equal(t, 4000, totalChips(h), "seed %d mid-hand", seed)
			}
		}

		require.True(t, h.IsComplete(), "seed %d", seed)
		total := 0
		for _, s := range h.Players() {
			total += s.Chips
		}
		assert.Equal(t, 4000, total, "seed %d", seed)
	}
}

func TestInvalidActionsLeaveStateUnchanged(t *testing.T) {
	t.Parallel()
	h, err := NewHand(rand.New(rand.NewSource(5)), []string{"Alice", "Bob", "Charlie"}, 0, 5, 10)
	require.NoError(t, err)

	var invalid *InvalidActionError

	require.ErrorAs(t, h.ExecuteAction(1, Fold, 0), &invalid)
	assert.Contains(t, invalid.Reason, "turn")

	require.ErrorAs(t, h.ExecuteAction(0, Check, 0), &invalid, "cannot check facing the blind")
	require.ErrorAs(t, h.ExecuteAction(0, Raise, 5000), &invalid, "cannot raise beyond the stack")
	require.ErrorAs(t, h.ExecuteAction(0, Bet, 30), &invalid, "cannot bet over an existing bet")

	assert.Equal(t, 0, h.ActionOn())
	assert.Equal(t, 1000, h.Players()[0].Chips)
	assert.Equal(t, 15, h.Pot())

	act(t, h, 0, Fold, 0)
	act(t, h, 1, Fold, 0)
	require.True(t, h.IsComplete())
	require.ErrorAs(t, h.ExecuteAction(2, Check, 0), &invalid)
	assert.Contains(t, invalid.Reason, "complete")
}

func TestSetupValidation(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))
	names := []string{"Alice", "Bob", "Charlie"}

	cases := []struct {
		name string
		run  func() (*Hand, error)
	}{
		{"one player", func() (*Hand, error) {
			return NewHand(rng, []string{"Alice"}, 0, 5, 10)
		}},
		{"button out of range", func() (*Hand, error) {
			return NewHand(rng, names, 3, 5, 10)
		}},
		{"zero small blind", func() (*Hand, error) {
			return NewHand(rng, names, 0, 0, 10)
		}},
		{"big blind below small", func() (*Hand, error) {
			return NewHand(rng, names, 0, 10, 5)
		}},
		{"chip counts mismatch", func() (*Hand, error) {
			return NewHand(rng, names, 0, 5, 10, WithChips([]int{100, 100}))
		}},
		{"fewer than two funded", func() (*Hand, error) {
			return NewHand(rng, names, 0, 5, 10, WithChips([]int{0, 0, 1000}))
		}},
		{"nil rng without deck", func() (*Hand, error) {
			return NewHand(nil, names, 0, 5, 10)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := tc.run()
			var setup *SetupError
			require.ErrorAs(t, err, &setup)
			assert.Nil(t, h)
		})
	}
}

func TestEventsSequenceAndBoardProgression(t *testing.T) {
	t.Parallel()
	var events []Event
	collect := SubscriberFunc(func(e Event) { events = append(events, e) })

	h, err := NewHand(rand.New(rand.NewSource(11)), []string{"Alice", "Bob"}, 0, 5, 10,
		WithSubscriber(collect))
	require.NoError(t, err)

	act(t, h, 0, Call, 0)
	act(t, h, 1, Check, 0)
	checkDown(t, h)

	// Blind posts are observable events like any other action.
	posted := 0
	for _, e := range events {
		if ae, ok := e.(ActionExecutedEvent); ok && ae.Action == PostBlind {
			posted++
		}
	}
	assert.Equal(t, 2, posted)

	var streets []StreetAdvancedEvent
	for _, e := range events {
		if se, ok := e.(StreetAdvancedEvent); ok {
			streets = append(streets, se)
		}
	}
	require.Len(t, streets, 3)
	assert.Len(t, streets[0].NewCards, 3)
	assert.Len(t, streets[1].NewCards, 1)
	assert.Len(t, streets[2].NewCards, 1)

	// Earlier cards never change as the board grows.
	assert.Equal(t, streets[0].Board, streets[1].Board[:3])
	assert.Equal(t, streets[1].Board, streets[2].Board[:4])
	assert.Equal(t, streets[2].Board, h.Board())

	last := events[len(events)-1]
	complete, ok := last.(HandCompleteEvent)
	require.True(t, ok, "hand_complete is the final event")
	assert.True(t, complete.Showdown)
	assert.Equal(t, 20, complete.State.Pot)
}

func TestViewFacingBet(t *testing.T) {
	t.Parallel()
	h, err := NewHand(rand.New(rand.NewSource(13)), []string{"Alice", "Bob", "Charlie"}, 0, 5, 10)
	require.NoError(t, err)

	act(t, h, 0, Raise, 30)

	view := h.View(1)
	assert.Equal(t, 1, view.Seat)
	assert.Equal(t, 25, view.ToCall)
	assert.Equal(t, 50, view.MinRaiseTo)
	assert.Equal(t, 2, view.HoleCards.CountCards())
	assert.True(t, view.CanTake(Fold))
	assert.True(t, view.CanTake(Call))
	assert.True(t, view.CanTake(Raise))
	assert.True(t, view.CanTake(AllIn))
	assert.False(t, view.CanTake(Check))
	assert.False(t, view.CanTake(Bet))

	for _, va := range view.ValidActions {
		if va.Action == Raise {
			assert.Equal(t, 50, va.MinAmount)
			assert.Equal(t, 1000, va.MaxAmount)
		}
	}
}

func TestEachActionMutatesOnlyTheActor(t *testing.T) {
	t.Parallel()
	names := []string{"Alice", "Bob", "Charlie", "Dave"}
	for seed := int64(1); seed <= 10; seed++ {
		var prev *Snapshot
		watch := SubscriberFunc(func(e Event) {
			ae, ok := e.(ActionExecutedEvent)
			if !ok {
				return
			}
			if prev != nil {
				for _, s := range ae.State.Seats {
					if s.Seat == ae.Seat {
						continue
					}
					before := prev.Seats[s.Seat]
					assert.Equal(t, before.Chips, s.Chips,
						"seed %d: seat %d stack moved on seat %d's action", seed, s.Seat, ae.Seat)
					assert.Equal(t, before.Folded, s.Folded,
						"seed %d: seat %d fold flag moved on seat %d's action", seed, s.Seat, ae.Seat)
					assert.Equal(t, before.AllIn, s.AllIn,
						"seed %d: seat %d all-in flag moved on seat %d's action", seed, s.Seat, ae.Seat)
					// A street advance sweeps every bet into the pot;
					// apart from that, only the actor's bet moves.
					if s.Bet != 0 {
						assert.Equal(t, before.Bet, s.Bet,
							"seed %d: seat %d bet moved on seat %d's action", seed, s.Seat, ae.Seat)
					}
				}
			}
			snap := ae.State
			prev = &snap
		})

		h, err := NewHand(rand.New(rand.NewSource(seed)), names, int(seed)%4, 5, 10,
			WithSubscriber(watch))
		require.NoError(t, err)

		policy := rand.New(rand.NewSource(seed * 17))
		for i := 0; i < 500 && !h.IsComplete(); i++ {
			seat := h.ActionOn()
			require.GreaterOrEqual(t, seat, 0, "seed %d", seed)
			view := h.View(seat)
			applied := false
			switch {
			case policy.Intn(6) == 0 && view.CanTake(Fold):
				act(t, h, seat, Fold, 0)
				applied = true
			case policy.Intn(4) == 0:
				for _, va := range view.ValidActions {
					if va.Action == Bet || va.Action == Raise {
						act(t, h, seat, va.Action, va.MinAmount)
						applied = true
						break
					}
				}
			}
			if !applied {
				switch {
				case view.CanTake(Check):
					act(t, h, seat, Check, 0)
				case view.CanTake(Call):
					act(t, h, seat, Call, 0)
				default:
					act(t, h, seat, AllIn, 0)
				}
			}
		}
		require.True(t, h.IsComplete(), "seed %d", seed)
	}
}
