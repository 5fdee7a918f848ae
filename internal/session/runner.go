package session

import (
	"errors"
	"fmt"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
)

// PlayOption configures a hand run.
type PlayOption func(*playConfig)

type playConfig struct {
	observer func(seat int, d engine.Decision)
}

// WithDecisionObserver calls fn with each decision before it executes.
func WithDecisionObserver(fn func(seat int, d engine.Decision)) PlayOption {
	return func(pc *playConfig) { pc.observer = fn }
}

// PlayHand drives a hand to completion, prompting the decision engine
// for whichever seat owes action. An engine returning an illegal
// decision is downgraded to check or fold rather than killing the
// session; engine errors and state-machine invariant failures abort.
func PlayHand(hand *engine.Hand, engines []engine.DecisionEngine, opts ...PlayOption) error {
	var pc playConfig
	for _, opt := range opts {
		opt(&pc)
	}

	for !hand.IsComplete() {
		seat := hand.ActionOn()
		if seat == -1 {
			return fmt.Errorf("hand incomplete with no seat owing action")
		}
		if seat >= len(engines) || engines[seat] == nil {
			return fmt.Errorf("no decision engine for seat %d", seat)
		}

		view := hand.View(seat)
		decision, err := engines[seat].Decide(view)
		if err != nil {
			return fmt.Errorf("seat %d decision: %w", seat, err)
		}
		if pc.observer != nil {
			pc.observer(seat, decision)
		}

		err = hand.ExecuteAction(seat, decision.Action, decision.Amount)
		if err == nil {
			continue
		}

		var invalid *engine.InvalidActionError
		if !errors.As(err, &invalid) {
			return err
		}

		// The state is unchanged after a rejected action; force the
		// safe play so one misbehaving engine cannot wedge the table.
		fallback := engine.Fold
		if view.CanTake(engine.Check) {
			fallback = engine.Check
		}
		if err := hand.ExecuteAction(seat, fallback, 0); err != nil {
			return err
		}
	}
	return nil
}
