package replay

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
)

// SkipPolicy controls the implicit action injected when a seat owes a
// decision the record never answers (the source skipped its turn).
type SkipPolicy int

const (
	// SkipFold folds any seat facing a bet with no recorded answer.
	// Conservative: never invents chips the source did not show.
	SkipFold SkipPolicy = iota
	// SkipInfer calls for a seat that acts again later in the record,
	// since it must still have been live; folds otherwise.
	SkipInfer
)

const (
	// DefaultStreetLimit bounds decisions on a single street.
	DefaultStreetLimit = 200
	// DefaultHandLimit bounds decisions across the whole hand.
	DefaultHandLimit = 800
)

// Adapter replays a recorded hand by answering decision prompts from
// the cursor position in the record. One Adapter serves every seat of
// the hand; Decide dispatches on the acting seat in the view.
type Adapter struct {
	record *HandRecord
	mode   AmountMode
	policy SkipPolicy
	logger *log.Logger

	streetLimit int
	handLimit   int

	cursor        map[engine.Street]int
	streetCount   map[engine.Street]int
	decisionCount int
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithSkipPolicy overrides the conservative fold policy.
func WithSkipPolicy(policy SkipPolicy) AdapterOption {
	return func(a *Adapter) { a.policy = policy }
}

// WithAmountMode overrides the record's declared amount convention.
func WithAmountMode(mode AmountMode) AdapterOption {
	return func(a *Adapter) { a.mode = mode }
}

// WithLimits overrides the loop guards.
func WithLimits(perStreet, perHand int) AdapterOption {
	return func(a *Adapter) {
		a.streetLimit = perStreet
		a.handLimit = perHand
	}
}

// WithLogger attaches a logger for per-decision tracing.
func WithLogger(logger *log.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = logger.WithPrefix("replay") }
}

// NewAdapter creates a replay adapter positioned at the start of the
// record.
func NewAdapter(record *HandRecord, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		record:      record,
		mode:        record.Mode,
		policy:      SkipFold,
		logger:      log.New(io.Discard),
		streetLimit: DefaultStreetLimit,
		handLimit:   DefaultHandLimit,
		cursor:      make(map[engine.Street]int),
		streetCount: make(map[engine.Street]int),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Decide implements engine.DecisionEngine. When the record's next
// action on this street belongs to the acting seat it is consumed and
// translated; otherwise an implicit action is injected and the cursor
// stays put.
func (a *Adapter) Decide(view engine.TableView) (engine.Decision, error) {
	a.decisionCount++
	a.streetCount[view.Street]++
	if a.streetCount[view.Street] > a.streetLimit {
		return engine.Decision{}, &StalledError{
			Street:    view.Street.String(),
			Decisions: a.streetCount[view.Street],
			Limit:     a.streetLimit,
			Dump:      dumpView(view),
		}
	}
	if a.decisionCount > a.handLimit {
		return engine.Decision{}, &StalledError{
			Street:    view.Street.String(),
			Decisions: a.decisionCount,
			Limit:     a.handLimit,
			Dump:      dumpView(view),
		}
	}

	actions := a.record.Actions[view.Street]
	i := a.cursor[view.Street]

	if i < len(actions) && actions[i].Seat == view.Seat {
		a.cursor[view.Street] = i + 1
		return a.translate(actions[i], view)
	}
	return a.implicit(view), nil
}

// translate maps one recorded action onto the engine's action space.
func (a *Adapter) translate(rec RecordedAction, view engine.TableView) (engine.Decision, error) {
	switch rec.Verb {
	case engine.Fold:
		return engine.Decision{Action: engine.Fold, Reasoning: "recorded fold"}, nil

	case engine.Check:
		return engine.Decision{Action: engine.Check, Reasoning: "recorded check"}, nil

	case engine.Call:
		// Calling for the whole stack is expressed as all-in; the
		// record may still say "call".
		if !view.CanTake(engine.Call) && view.CanTake(engine.AllIn) {
			return engine.Decision{Action: engine.AllIn, Reasoning: "recorded call for stack"}, nil
		}
		return engine.Decision{Action: engine.Call, Reasoning: "recorded call"}, nil

	case engine.AllIn:
		return engine.Decision{Action: engine.AllIn, Reasoning: "recorded all-in"}, nil

	case engine.Bet, engine.Raise:
		total := a.totalAmount(rec, view)
		seat := view.Seats[view.Seat]
		if total >= seat.Bet+seat.Chips {
			return engine.Decision{Action: engine.AllIn, Reasoning: "recorded raise for stack"}, nil
		}
		// Records do not always distinguish an opening bet from a
		// raise; follow whichever the state allows.
		action := engine.Bet
		if !view.CanTake(engine.Bet) {
			action = engine.Raise
		}
		return engine.Decision{
			Action:    action,
			Amount:    total,
			Reasoning: fmt.Sprintf("recorded %s to %d", rec.Verb, total),
		}, nil
	}
	return engine.Decision{}, &DataError{
		Field:  "actions",
		Reason: fmt.Sprintf("verb %s cannot be replayed", rec.Verb),
	}
}

// totalAmount resolves a recorded aggressive amount to a total street
// contribution under the configured convention.
func (a *Adapter) totalAmount(rec RecordedAction, view engine.TableView) int {
	seatBet := view.Seats[view.Seat].Bet
	switch a.mode {
	case AmountTotal:
		return rec.Amount
	case AmountDelta:
		return seatBet + rec.Amount
	default:
		// Auto: an amount that already reaches the legal raise-to
		// minimum reads as a total; anything smaller as chips added.
		if rec.Amount >= view.MinRaiseTo {
			return rec.Amount
		}
		return seatBet + rec.Amount
	}
}

// implicit injects an action for a seat the record skips: a free check
// when nothing is owed, otherwise whatever the skip policy dictates.
func (a *Adapter) implicit(view engine.TableView) engine.Decision {
	if view.ToCall <= 0 && view.CanTake(engine.Check) {
		a.logger.Debug("injecting check", "seat", view.Seat, "street", view.Street.String())
		return engine.Decision{Action: engine.Check, Reasoning: "no recorded action, nothing owed"}
	}

	if a.policy == SkipInfer && a.actsLater(view.Seat, view.Street) {
		a.logger.Debug("injecting call", "seat", view.Seat, "street", view.Street.String())
		if !view.CanTake(engine.Call) && view.CanTake(engine.AllIn) {
			return engine.Decision{Action: engine.AllIn, Reasoning: "seat acts later in record"}
		}
		return engine.Decision{Action: engine.Call, Reasoning: "seat acts later in record"}
	}

	a.logger.Debug("injecting fold", "seat", view.Seat, "street", view.Street.String())
	return engine.Decision{Action: engine.Fold, Reasoning: "no recorded action while facing a bet"}
}

// actsLater reports whether the seat has an unconsumed recorded action
// on this street or any later one.
func (a *Adapter) actsLater(seat int, street engine.Street) bool {
	for s := street; s <= engine.River; s++ {
		actions := a.record.Actions[s]
		start := 0
		if s == street {
			start = a.cursor[s]
		}
		for _, rec := range actions[start:] {
			if rec.Seat == seat {
				return true
			}
		}
	}
	return false
}

func dumpView(view engine.TableView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "street=%s pot=%d current_bet=%d action_on=%d\n",
		view.Street, view.Pot, view.CurrentBet, view.ActionOn)
	for _, s := range view.Seats {
		status := "live"
		if s.Folded {
			status = "folded"
		} else if s.AllIn {
			status = "all-in"
		}
		fmt.Fprintf(&b, "  seat %d %-12s chips=%d bet=%d total=%d %s\n",
			s.Seat, s.Name, s.Chips, s.Bet, s.TotalBet, status)
	}
	return b.String()
}
