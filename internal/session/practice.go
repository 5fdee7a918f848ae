package session

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/yeogirlyun/pokertrainer/internal/bot"
	"github.com/yeogirlyun/pokertrainer/internal/engine"
	"github.com/yeogirlyun/pokertrainer/internal/handlog"
	"github.com/yeogirlyun/pokertrainer/internal/randutil"
	"github.com/yeogirlyun/pokertrainer/internal/sessionid"
)

// Practice runs a live training table: bots from the config plus an
// optional human seat. Stacks carry over between hands and the button
// moves clockwise.
type Practice struct {
	cfg    *Config
	id     string
	logger *log.Logger
	rng    *rand.Rand

	names   []string
	chips   []int
	engines []engine.DecisionEngine
	human   *HumanProxy

	button  int
	handSeq int
	writer  handlog.Writer

	extraSubs []engine.Subscriber
}

// NewPractice builds a practice session from a validated config. The
// human, when configured, takes seat 0.
func NewPractice(cfg *Config, clock quartz.Clock, logger *log.Logger) (*Practice, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Session.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := randutil.New(seed)
	id := sessionid.Generate()
	logger.Info("practice session", "session", id, "seed", seed,
		"bots", len(cfg.Bots), "human", cfg.Session.HumanName != "")

	p := &Practice{
		cfg:    cfg,
		id:     id,
		logger: logger.WithPrefix("session").With("session", id),
		rng:    rng,
		writer: handlog.DiscardWriter{},
	}
	if cfg.Session.HandLogDir != "" {
		p.writer = handlog.NewFileWriter(cfg.Session.HandLogDir)
	}

	if cfg.Session.HumanName != "" {
		timeout, err := cfg.DecisionTimeout()
		if err != nil {
			return nil, err
		}
		p.human = NewHumanProxy(clock, timeout, logger)
		p.names = append(p.names, cfg.Session.HumanName)
		p.engines = append(p.engines, p.human)
		p.chips = append(p.chips, cfg.Session.StartingStack)
	}

	for _, bc := range cfg.Bots {
		strategy, err := cfg.ResolveStrategy(bc.Strategy)
		if err != nil {
			return nil, err
		}
		p.names = append(p.names, bc.Name)
		p.engines = append(p.engines, bot.New(strategy, rng, logger))
		p.chips = append(p.chips, cfg.Session.StartingStack)
	}

	return p, nil
}

// ID returns the session's unique identifier.
func (p *Practice) ID() string { return p.id }

// Human returns the human proxy, or nil for a bot-only session.
func (p *Practice) Human() *HumanProxy { return p.human }

// Stacks returns the current chip counts by seat.
func (p *Practice) Stacks() []int {
	out := make([]int, len(p.chips))
	copy(out, p.chips)
	return out
}

// Subscribe attaches a subscriber to every subsequent hand's events.
func (p *Practice) Subscribe(s engine.Subscriber) {
	p.extraSubs = append(p.extraSubs, s)
}

// FundedSeats counts seats that can still post a chip.
func (p *Practice) FundedSeats() int {
	funded := 0
	for _, c := range p.chips {
		if c > 0 {
			funded++
		}
	}
	return funded
}

// PlayHand runs one hand and carries the resulting stacks forward.
func (p *Practice) PlayHand() (*engine.Hand, error) {
	p.handSeq++
	id := fmt.Sprintf("%06d", p.handSeq)

	recorder := handlog.NewRecorder(id, p.cfg.Session.SmallBlind, p.cfg.Session.BigBlind)
	subs := append([]engine.Subscriber{recorder}, p.extraSubs...)

	opts := []engine.HandOption{
		engine.WithChips(p.chips),
		engine.WithLogger(p.logger),
	}
	for _, s := range subs {
		opts = append(opts, engine.WithSubscriber(s))
	}

	hand, err := engine.NewHand(p.rng, p.names, p.button,
		p.cfg.Session.SmallBlind, p.cfg.Session.BigBlind, opts...)
	if err != nil {
		return nil, err
	}

	err = PlayHand(hand, p.engines, WithDecisionObserver(func(seat int, d engine.Decision) {
		recorder.NoteThinking(seat, d.Reasoning)
	}))
	if err != nil {
		return hand, err
	}

	for _, seat := range hand.Players() {
		p.chips[seat.Seat] = seat.Chips
	}
	if result := hand.Result(); result != nil && result.Showdown {
		for _, seat := range hand.Players() {
			if !seat.Folded {
				recorder.RevealHoleCards(seat.Seat, hand.HoleCards(seat.Seat))
			}
		}
	}
	if err := recorder.Save(p.writer); err != nil {
		p.logger.Error("failed to save hand log", "hand", id, "error", err)
	}

	p.button = (p.button + 1) % len(p.names)
	return hand, nil
}

// Run plays the configured number of hands, stopping early when the
// table cannot field two funded seats or the context is cancelled.
func (p *Practice) Run(ctx context.Context) error {
	for i := 0; i < p.cfg.Session.Hands; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if p.FundedSeats() < 2 {
			p.logger.Info("table is done", "hands_played", i)
			return nil
		}
		if _, err := p.PlayHand(); err != nil {
			return fmt.Errorf("hand %d: %w", p.handSeq, err)
		}
	}
	return nil
}
