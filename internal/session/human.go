package session

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
)

// HumanProxy implements engine.DecisionEngine for the human seat. The
// UI reads prompts from Prompts and answers with Submit; a decision not
// submitted within the timeout checks when free and folds otherwise.
// Timing out is a session policy, never an engine concern.
type HumanProxy struct {
	logger    *log.Logger
	clock     quartz.Clock
	timeout   time.Duration
	prompts   chan engine.TableView
	decisions chan engine.Decision
}

// NewHumanProxy creates a proxy with the given decision timeout.
func NewHumanProxy(clock quartz.Clock, timeout time.Duration, logger *log.Logger) *HumanProxy {
	return &HumanProxy{
		logger:    logger.WithPrefix("human"),
		clock:     clock,
		timeout:   timeout,
		prompts:   make(chan engine.TableView, 1),
		decisions: make(chan engine.Decision, 1),
	}
}

// Prompts delivers the view for each decision the human owes.
func (h *HumanProxy) Prompts() <-chan engine.TableView {
	return h.prompts
}

// Submit answers the pending prompt. Submitting with no prompt pending
// is harmless; the stale decision is dropped at the next prompt.
func (h *HumanProxy) Submit(d engine.Decision) {
	select {
	case h.decisions <- d:
	default:
	}
}

// Decide implements engine.DecisionEngine.
func (h *HumanProxy) Decide(view engine.TableView) (engine.Decision, error) {
	// Drop any decision left over from a previous prompt.
	select {
	case <-h.decisions:
	default:
	}

	// Replace an unread previous prompt with the current one.
	select {
	case h.prompts <- view:
	default:
		select {
		case <-h.prompts:
		default:
		}
		h.prompts <- view
	}

	timedOut := make(chan struct{})
	timer := h.clock.AfterFunc(h.timeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	select {
	case d := <-h.decisions:
		return d, nil

	case <-timedOut:
		h.logger.Warn("decision timeout", "seat", view.Seat, "timeout", h.timeout)
		if view.CanTake(engine.Check) {
			return engine.Decision{Action: engine.Check, Reasoning: "timed out"}, nil
		}
		return engine.Decision{Action: engine.Fold, Reasoning: "timed out"}, nil
	}
}
