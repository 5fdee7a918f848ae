package replay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
)

// Run replays a recorded hand to completion and returns the finished
// hand. Engine options (loggers, subscribers) pass through to the hand;
// adapter options configure amount and skip handling.
func Run(record *HandRecord, adapterOpts []AdapterOption, handOpts ...engine.HandOption) (*engine.Hand, error) {
	deck, err := record.BuildDeck()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(record.Seats))
	chips := make([]int, len(record.Seats))
	for i, s := range record.Seats {
		names[i] = s.Name
		chips[i] = s.Stack
	}

	opts := append([]engine.HandOption{
		engine.WithChips(chips),
		engine.WithDeck(deck),
	}, handOpts...)

	hand, err := engine.NewHand(nil, names, record.Button, record.SmallBlind, record.BigBlind, opts...)
	if err != nil {
		return nil, err
	}

	adapter := NewAdapter(record, adapterOpts...)
	for !hand.IsComplete() {
		seat := hand.ActionOn()
		if seat == -1 {
			break
		}
		decision, err := adapter.Decide(hand.View(seat))
		if err != nil {
			return hand, err
		}
		if err := hand.ExecuteAction(seat, decision.Action, decision.Amount); err != nil {
			// A rejected action means the record does not reconcile
			// with the reconstructed state; report it as record data,
			// not an engine fault. Invariant failures pass through.
			var invalid *engine.InvalidActionError
			if errors.As(err, &invalid) {
				return hand, &DataError{
					Field: "actions." + strings.ToLower(hand.Street().String()),
					Reason: fmt.Sprintf("recorded action does not reconcile: %v\n%s",
						err, hand.StateDump()),
				}
			}
			return hand, err
		}
	}
	return hand, nil
}
