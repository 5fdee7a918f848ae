package engine

import (
	"strings"

	"github.com/yeogirlyun/pokertrainer/poker"
)

// SeatState is a read-only view of one seat for snapshots and decisions.
type SeatState struct {
	Seat     int
	Name     string
	Chips    int
	Bet      int
	TotalBet int
	Folded   bool
	AllIn    bool
}

// Snapshot is an immutable copy of the hand state at a point in time.
// Safe to hand across goroutine boundaries; the live Hand never is.
type Snapshot struct {
	Street     Street
	Board      []poker.Card
	Pot        int // includes uncollected street bets
	CurrentBet int
	Button     int
	ActionOn   int // -1 when no seat owes action
	Seats      []SeatState
}

// TableView is the per-seat decision context passed to a DecisionEngine.
// HoleCards are populated only for the acting seat.
type TableView struct {
	Snapshot
	Seat         int
	HoleCards    poker.Hand
	ToCall       int
	MinRaiseTo   int // minimum legal total contribution for a Bet/Raise
	SmallBlind   int
	BigBlind     int
	ValidActions []ValidAction
}

// CanTake reports whether the action type is in the valid set.
func (v TableView) CanTake(a ActionType) bool {
	for _, va := range v.ValidActions {
		if va.Action == a {
			return true
		}
	}
	return false
}

// DecisionEngine decides the next action for the acting seat. The hand
// state machine is the only caller and guarantees the seat can act.
// Implementations: strategy bots, human input proxies, and the
// hand-history replay adapter.
type DecisionEngine interface {
	Decide(view TableView) (Decision, error)
}

func cardsString(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
