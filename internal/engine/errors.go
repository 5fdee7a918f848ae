package engine

import (
	"fmt"
	"strings"
)

// SetupError indicates a hand could not be started. No partial hand
// state exists when it is returned.
type SetupError struct {
	Reason string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("hand setup: %s", e.Reason)
}

// InvalidActionError rejects an action without mutating any state. The
// same seat may be re-prompted with a corrected action.
type InvalidActionError struct {
	Seat   int
	Action ActionType
	Amount int
	Reason string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action: seat %d %s %d: %s", e.Seat, e.Action, e.Amount, e.Reason)
}

// InvariantError indicates internal state corruption (chip conservation
// broken, board size wrong for street). It is a bug in the engine, not a
// user error: the hand must be abandoned and the dump attached to the
// report. The pot is never silently corrected.
type InvariantError struct {
	Reason string
	Dump   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("state invariant violated: %s\n%s", e.Reason, e.Dump)
}

// StateDump renders the full hand state for diagnostics. Every fatal
// error carries one so discrepancies can be triaged from logs alone.
func (h *Hand) StateDump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "street=%s pot=%d current_bet=%d min_raise=%d button=%d action_on=%d\n",
		h.street, h.pots.Total(), h.betting.CurrentBet, h.betting.MinRaise, h.button, h.actionOn)
	fmt.Fprintf(&b, "board=[%s]\n", cardsString(h.board))
	for _, p := range h.players {
		status := "active"
		if p.Folded {
			status = "folded"
		} else if p.AllIn {
			status = "all-in"
		}
		fmt.Fprintf(&b, "seat %d (%s): stack=%d bet=%d total_bet=%d %s acted=%v\n",
			p.Seat, p.Name, p.Chips, p.Bet, p.TotalBet, status, h.betting.Acted[p.Seat])
	}
	n := len(h.history)
	start := 0
	if n > 12 {
		start = n - 12
	}
	for _, a := range h.history[start:] {
		fmt.Fprintf(&b, "  %s: seat %d %s %d\n", a.Street, a.Seat, a.Action, a.Amount)
	}
	return b.String()
}
