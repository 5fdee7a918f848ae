package bot

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
	"github.com/yeogirlyun/pokertrainer/poker"
)

// Bot is a deterministic strategy-table decision engine for practice
// opponents. Given the same strategy, view and RNG state it always
// produces the same decision.
type Bot struct {
	strategy Strategy
	rng      *rand.Rand
	logger   *log.Logger
}

// New creates a bot playing the given strategy.
func New(strategy Strategy, rng *rand.Rand, logger *log.Logger) *Bot {
	return &Bot{
		strategy: strategy,
		rng:      rng,
		logger:   logger.WithPrefix("bot").With("strategy", strategy.Name),
	}
}

// Decide implements engine.DecisionEngine.
func (b *Bot) Decide(view engine.TableView) (engine.Decision, error) {
	var d engine.Decision
	if view.Street == engine.Preflop {
		d = b.decidePreflop(view)
	} else {
		d = b.decidePostflop(view)
	}

	b.logger.Debug("decision",
		"seat", view.Seat,
		"street", view.Street.String(),
		"action", d.Action.String(),
		"amount", d.Amount,
		"reasoning", d.Reasoning)
	return d, nil
}

func (b *Bot) decidePreflop(view engine.TableView) engine.Decision {
	category := poker.CategorizeHand(view.HoleCards)

	if b.strategy.RaiseCategories[category] {
		target := b.strategy.OpenRaiseBB * view.BigBlind
		if view.CurrentBet > view.BigBlind {
			// Facing a raise: 3x the current bet.
			target = view.CurrentBet * 3
		}
		if d, ok := b.raiseTo(view, target, "strong category "+string(category)); ok {
			return d
		}
	}

	if b.strategy.RaiseCategories[category] || b.strategy.CallCategories[category] {
		if d, ok := b.passive(view, "playable category "+string(category)); ok {
			return d
		}
	}

	return b.checkOrFold(view, "weak category "+string(category))
}

func (b *Bot) decidePostflop(view engine.TableView) engine.Decision {
	made := b.madeHandType(view)

	if made >= b.strategy.BetHandType {
		target := view.CurrentBet + int(float64(view.Pot)*b.strategy.BetPotRatio)
		if d, ok := b.raiseTo(view, target, "made "+made.String()); ok {
			return d
		}
	}
	if made >= b.strategy.CallHandType {
		if d, ok := b.passive(view, "made "+made.String()); ok {
			return d
		}
	}
	return b.checkOrFold(view, "made only "+made.String())
}

// madeHandType evaluates the current made hand against the visible board.
func (b *Bot) madeHandType(view engine.TableView) poker.HandType {
	combined := view.HoleCards | poker.NewHand(view.Board...)
	return poker.Evaluate5Cards(combined).Type()
}

// raiseTo attempts an aggressive action at the target total, clamped to
// the legal window; falls back to all-in when short.
func (b *Bot) raiseTo(view engine.TableView, target int, reasoning string) (engine.Decision, bool) {
	for _, va := range view.ValidActions {
		if va.Action == engine.Bet || va.Action == engine.Raise {
			amount := target
			if amount < va.MinAmount {
				amount = va.MinAmount
			}
			if amount > va.MaxAmount {
				amount = va.MaxAmount
			}
			return engine.Decision{Action: va.Action, Amount: amount, Reasoning: reasoning}, true
		}
	}
	// Short stack: aggression means shoving.
	if view.CanTake(engine.AllIn) {
		return engine.Decision{Action: engine.AllIn, Reasoning: reasoning + " (all-in)"}, true
	}
	return engine.Decision{}, false
}

// passive checks or calls when legal.
func (b *Bot) passive(view engine.TableView, reasoning string) (engine.Decision, bool) {
	if view.CanTake(engine.Check) {
		return engine.Decision{Action: engine.Check, Reasoning: reasoning}, true
	}
	if view.CanTake(engine.Call) {
		return engine.Decision{Action: engine.Call, Reasoning: reasoning}, true
	}
	// Calling for the rest of the stack is an all-in.
	if view.CanTake(engine.AllIn) && view.ToCall > 0 {
		return engine.Decision{Action: engine.AllIn, Reasoning: reasoning + " (call all-in)"}, true
	}
	return engine.Decision{}, false
}

func (b *Bot) checkOrFold(view engine.TableView, reasoning string) engine.Decision {
	if view.CanTake(engine.Check) {
		return engine.Decision{Action: engine.Check, Reasoning: reasoning}
	}
	return engine.Decision{Action: engine.Fold, Reasoning: reasoning}
}
