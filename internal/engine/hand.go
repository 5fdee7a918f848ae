package engine

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/yeogirlyun/pokertrainer/poker"
)

// Hand is the state machine for a single Texas Hold'em hand. It is the
// single authority over game state: decisions come in through
// ExecuteAction, observations go out through events and snapshots.
// Strictly single-threaded; ExecuteAction runs to completion including
// street-advance side effects before returning.
type Hand struct {
	players  []*Player
	button   int
	street   Street
	board    []poker.Card
	deck     *poker.Deck
	pots     *PotManager
	betting  *BettingRound
	actionOn int

	smallBlind int
	bigBlind   int
	chipTotal  int

	bus     *EventBus
	logger  *log.Logger
	history []ExecutedAction

	complete bool
	aborted  bool
	result   *HandCompleteEvent
}

// NewHand starts a hand: validates funding, posts blinds as explicit
// actions, deals hole cards and sets the first seat to act. Returns a
// *SetupError without creating any state when fewer than two seats have
// chips.
func NewHand(rng *rand.Rand, names []string, button, smallBlind, bigBlind int, opts ...HandOption) (*Hand, error) {
	if len(names) < 2 {
		return nil, &SetupError{Reason: "at least 2 players required"}
	}
	if button < 0 || button >= len(names) {
		return nil, &SetupError{Reason: fmt.Sprintf("button seat %d out of range", button)}
	}
	if smallBlind <= 0 || bigBlind < smallBlind {
		return nil, &SetupError{Reason: fmt.Sprintf("invalid blinds %d/%d", smallBlind, bigBlind)}
	}

	cfg := &handConfig{startChips: 1000}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.chipCounts != nil && len(cfg.chipCounts) != len(names) {
		return nil, &SetupError{Reason: "chip counts must match number of players"}
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}

	players := make([]*Player, len(names))
	funded := 0
	for i, name := range names {
		chips := cfg.startChips
		if cfg.chipCounts != nil {
			chips = cfg.chipCounts[i]
		}
		if chips > 0 {
			funded++
		}
		players[i] = &Player{Seat: i, Name: name, Chips: chips}
	}
	if funded < 2 {
		return nil, &SetupError{Reason: "fewer than 2 players have chips"}
	}

	deck := cfg.deck
	if deck == nil {
		if rng == nil {
			return nil, &SetupError{Reason: "rng is required unless a deck is provided"}
		}
		deck = poker.NewDeck(rng)
	}

	h := &Hand{
		players:    players,
		button:     button,
		street:     Preflop,
		deck:       deck,
		pots:       NewPotManager(players),
		betting:    NewBettingRound(len(players), bigBlind),
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
		bus:        NewEventBus(),
		logger:     cfg.logger.WithPrefix("hand"),
	}
	for _, p := range players {
		h.chipTotal += p.Chips
	}
	for _, s := range cfg.subscribers {
		h.bus.Subscribe(s)
	}

	h.postBlinds()
	h.dealHoleCards()

	h.actionOn = h.nextNeedingAction(firstToActPreflop(len(players), button))
	if h.actionOn == -1 {
		// Blinds put everyone all-in; run the board out immediately.
		if err := h.advanceStreet(); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// postBlinds commits the blinds as explicit PostBlind actions rather
// than implicit stack debits, so they appear in history and events.
func (h *Hand) postBlinds() {
	sb := smallBlindSeat(len(h.players), h.button)
	bb := bigBlindSeat(len(h.players), h.button)

	h.applyBlind(sb, h.smallBlind)
	h.applyBlind(bb, h.bigBlind)
	h.betting.CurrentBet = h.bigBlind
}

func (h *Hand) applyBlind(seat, amount int) {
	p := h.players[seat]
	moved := p.commit(amount)
	h.history = append(h.history, ExecutedAction{Seat: seat, Action: PostBlind, Amount: moved, Street: Preflop})
	h.logger.Debug("blind posted", "seat", seat, "amount", moved)
	h.bus.Publish(ActionExecutedEvent{Seat: seat, Action: PostBlind, Amount: moved, State: h.Snapshot()})
}

func (h *Hand) dealHoleCards() {
	for _, p := range h.players {
		p.HoleCards = poker.NewHand(h.deck.Deal(2)...)
	}
}

// Street returns the current street.
func (h *Hand) Street() Street { return h.street }

// Board returns a copy of the community cards.
func (h *Hand) Board() []poker.Card {
	board := make([]poker.Card, len(h.board))
	copy(board, h.board)
	return board
}

// Button returns the dealer seat.
func (h *Hand) Button() int { return h.button }

// ActionOn returns the seat currently owed an action, or -1.
func (h *Hand) ActionOn() int {
	if h.complete {
		return -1
	}
	return h.actionOn
}

// IsComplete reports whether the hand has finished (or aborted).
func (h *Hand) IsComplete() bool { return h.complete }

// Result returns the final winners and pot shares, or nil while the
// hand is still running.
func (h *Hand) Result() *HandCompleteEvent { return h.result }

// Events returns the hand's event bus for subscribing.
func (h *Hand) Events() *EventBus { return h.bus }

// History returns the append-only action record.
func (h *Hand) History() []ExecutedAction {
	out := make([]ExecutedAction, len(h.history))
	copy(out, h.history)
	return out
}

// Players returns read-only seat states.
func (h *Hand) Players() []SeatState {
	seats := make([]SeatState, len(h.players))
	for i, p := range h.players {
		seats[i] = SeatState{
			Seat: p.Seat, Name: p.Name, Chips: p.Chips,
			Bet: p.Bet, TotalBet: p.TotalBet,
			Folded: p.Folded, AllIn: p.AllIn,
		}
	}
	return seats
}

// HoleCards returns the hole cards for a seat. Session controllers are
// responsible for only revealing these at showdown or in review mode.
func (h *Hand) HoleCards(seat int) poker.Hand {
	if seat < 0 || seat >= len(h.players) {
		return 0
	}
	return h.players[seat].HoleCards
}

// Pot returns the total pot including uncollected street bets.
func (h *Hand) Pot() int {
	total := h.pots.Total()
	for _, p := range h.players {
		total += p.Bet
	}
	return total
}

// Pots returns the current pots including uncollected bets.
func (h *Hand) Pots() []Pot {
	return h.pots.PotsWithLive(h.players)
}

// Snapshot builds an immutable copy of the current state.
func (h *Hand) Snapshot() Snapshot {
	return Snapshot{
		Street:     h.street,
		Board:      h.Board(),
		Pot:        h.Pot(),
		CurrentBet: h.betting.CurrentBet,
		Button:     h.button,
		ActionOn:   h.ActionOn(),
		Seats:      h.Players(),
	}
}

// View builds the decision context for a seat, with that seat's hole
// cards and the legal action set.
func (h *Hand) View(seat int) TableView {
	p := h.players[seat]
	toCall := h.betting.CurrentBet - p.Bet
	if toCall < 0 {
		toCall = 0
	}
	return TableView{
		Snapshot:     h.Snapshot(),
		Seat:         seat,
		HoleCards:    p.HoleCards,
		ToCall:       toCall,
		MinRaiseTo:   h.minRaiseTo(),
		SmallBlind:   h.smallBlind,
		BigBlind:     h.bigBlind,
		ValidActions: h.ValidActions(seat),
	}
}

func (h *Hand) minRaiseTo() int {
	if h.betting.CurrentBet == 0 {
		return h.bigBlind
	}
	return h.betting.CurrentBet + h.betting.MinRaise
}

// ValidActions returns the legal action set for a seat: Check/Bet only
// when there is no bet to match, Fold/Call/Raise when facing one, with
// Bet/Raise replaced by AllIn when the stack cannot cover the minimum.
func (h *Hand) ValidActions(seat int) []ValidAction {
	if h.complete || seat < 0 || seat >= len(h.players) {
		return nil
	}
	p := h.players[seat]
	if !p.CanAct() {
		return nil
	}

	var actions []ValidAction
	toCall := h.betting.CurrentBet - p.Bet
	maxTo := p.Bet + p.Chips

	if toCall <= 0 {
		actions = append(actions, ValidAction{Action: Check})
		if h.betting.CurrentBet == 0 && p.Chips > 0 {
			if maxTo >= h.bigBlind {
				actions = append(actions, ValidAction{Action: Bet, MinAmount: h.bigBlind, MaxAmount: maxTo})
			}
		}
		// Big-blind option: facing own matched bet, may still raise.
		if h.betting.CurrentBet > 0 && maxTo >= h.minRaiseTo() {
			actions = append(actions, ValidAction{Action: Raise, MinAmount: h.minRaiseTo(), MaxAmount: maxTo})
		}
	} else {
		actions = append(actions, ValidAction{Action: Fold})
		if toCall < p.Chips {
			actions = append(actions, ValidAction{Action: Call})
			if maxTo >= h.minRaiseTo() {
				actions = append(actions, ValidAction{Action: Raise, MinAmount: h.minRaiseTo(), MaxAmount: maxTo})
			}
		}
	}
	if p.Chips > 0 {
		actions = append(actions, ValidAction{Action: AllIn, MinAmount: maxTo, MaxAmount: maxTo})
	}
	return actions
}

func (h *Hand) validFor(seat int, action ActionType) bool {
	for _, va := range h.ValidActions(seat) {
		if va.Action == action {
			return true
		}
	}
	return false
}

// ExecuteAction validates and applies one action for the seat currently
// owed a decision. Validation is complete before any mutation: on error
// the state is unchanged and the same seat may be re-prompted. Bet and
// Raise amounts are total street contributions, never deltas; Call
// amounts are computed by the engine.
func (h *Hand) ExecuteAction(seat int, action ActionType, amount int) error {
	if h.complete {
		return &InvalidActionError{Seat: seat, Action: action, Amount: amount, Reason: "hand is complete"}
	}
	if seat < 0 || seat >= len(h.players) {
		return &InvalidActionError{Seat: seat, Action: action, Amount: amount, Reason: "no such seat"}
	}
	if seat != h.actionOn {
		return &InvalidActionError{Seat: seat, Action: action, Amount: amount,
			Reason: fmt.Sprintf("not this seat's turn (action on seat %d)", h.actionOn)}
	}
	if !h.validFor(seat, action) {
		return &InvalidActionError{Seat: seat, Action: action, Amount: amount,
			Reason: fmt.Sprintf("action not legal here (current bet %d)", h.betting.CurrentBet)}
	}

	p := h.players[seat]
	prevBet := h.betting.CurrentBet
	minRaiseTo := h.minRaiseTo()
	maxTo := p.Bet + p.Chips

	// All validation happens before any mutation below.
	if action == Bet || action == Raise {
		if amount <= prevBet {
			return &InvalidActionError{Seat: seat, Action: action, Amount: amount,
				Reason: fmt.Sprintf("amount must exceed current bet %d", prevBet)}
		}
		if amount > maxTo {
			return &InvalidActionError{Seat: seat, Action: action, Amount: amount,
				Reason: fmt.Sprintf("insufficient chips (max %d)", maxTo)}
		}
		if amount < minRaiseTo && amount != maxTo {
			return &InvalidActionError{Seat: seat, Action: action, Amount: amount,
				Reason: fmt.Sprintf("raise below minimum %d", minRaiseTo)}
		}
	}

	var moved int
	switch action {
	case Fold:
		p.Folded = true

	case Check:
		// No chips move.

	case Call:
		moved = p.commit(h.betting.CurrentBet - p.Bet)

	case Bet, Raise:
		moved = p.commit(amount - p.Bet)
		h.applyRaiseTo(seat, p.Bet, prevBet, minRaiseTo)

	case AllIn:
		moved = p.commit(p.Chips)
		if p.Bet > prevBet {
			h.applyRaiseTo(seat, p.Bet, prevBet, minRaiseTo)
		}

	default:
		return &InvalidActionError{Seat: seat, Action: action, Amount: amount, Reason: "unknown action type"}
	}

	h.betting.MarkActed(seat)
	if h.street == Preflop && seat == bigBlindSeat(len(h.players), h.button) {
		h.betting.BBActed = true
	}

	h.history = append(h.history, ExecutedAction{Seat: seat, Action: action, Amount: moved, Street: h.street})
	h.logger.Debug("action executed", "seat", seat, "action", action.String(), "moved", moved, "street", h.street.String())

	if err := h.checkConservation(); err != nil {
		h.aborted = true
		h.complete = true
		return err
	}

	h.bus.Publish(ActionExecutedEvent{Seat: seat, Action: action, Amount: moved, State: h.Snapshot()})

	return h.progress(seat)
}

// applyRaiseTo updates betting state for a raise to newBet. A full raise
// reopens action for everyone; an all-in short of a full raise does not
// reopen action for players who already acted against the previous bet.
func (h *Hand) applyRaiseTo(seat, newBet, prevBet, minRaiseTo int) {
	h.betting.CurrentBet = newBet
	if newBet >= minRaiseTo {
		h.betting.MinRaise = newBet - prevBet
		h.betting.Reopen(seat)
	}
}

// progress moves the turn forward after an executed action: to the next
// seat owing action, the next street, or hand completion.
func (h *Hand) progress(lastSeat int) error {
	remaining := 0
	var lastLive *Player
	for _, p := range h.players {
		if !p.Folded {
			remaining++
			lastLive = p
		}
	}
	if remaining == 1 {
		return h.finishFoldOut(lastLive)
	}

	if h.betting.Complete(h.players, h.street, h.button) {
		h.bus.Publish(RoundCompleteEvent{Street: h.street})
		return h.advanceStreet()
	}

	h.actionOn = h.nextNeedingAction(lastSeat + 1)
	if h.actionOn == -1 {
		// Betting not complete but nobody can act is a contradiction.
		return h.invariantViolation("no seat owes action but betting round is open")
	}
	return nil
}

func (h *Hand) nextNeedingAction(from int) int {
	n := len(h.players)
	for i := 0; i < n; i++ {
		seat := ((from + i) % n + n) % n
		if h.betting.NeedsAction(h.players[seat]) {
			return seat
		}
	}
	return -1
}

// advanceStreet collects bets into the pots, deals the next board cards
// and recomputes first-to-act. When no seat can act (everyone all-in) it
// keeps advancing until showdown.
func (h *Hand) advanceStreet() error {
	h.pots.CollectBets(h.players)
	h.betting.ResetForNewStreet()

	switch h.street {
	case Preflop:
		h.street = Flop
		h.board = append(h.board, h.deck.Deal(3)...)
	case Flop:
		h.street = Turn
		h.board = append(h.board, h.deck.DealOne())
	case Turn:
		h.street = River
		h.board = append(h.board, h.deck.DealOne())
	case River:
		h.street = Showdown
		return h.finishShowdown()
	case Showdown:
		return nil
	}

	if len(h.board) != h.street.boardSize() {
		return h.invariantViolation(fmt.Sprintf("board has %d cards at %s", len(h.board), h.street))
	}

	newCount := h.street.boardSize()
	prevCount := 0
	if h.street == Flop {
		prevCount = 0
	} else {
		prevCount = newCount - 1
	}
	h.bus.Publish(StreetAdvancedEvent{
		Street:   h.street,
		NewCards: h.Board()[prevCount:],
		Board:    h.Board(),
	})

	h.actionOn = h.nextNeedingAction((h.button + 1) % len(h.players))
	if h.actionOn == -1 {
		h.bus.Publish(RoundCompleteEvent{Street: h.street})
		return h.advanceStreet()
	}
	return nil
}

// finishFoldOut ends the hand when a single player remains: the pot is
// awarded uncontested without a showdown or card reveal.
func (h *Hand) finishFoldOut(winner *Player) error {
	h.pots.CollectBets(h.players)

	shares := map[int]int{winner.Seat: h.pots.Total()}
	winner.Chips += h.pots.Total()

	result := &HandCompleteEvent{
		Winners:   []Winner{{Seat: winner.Seat, Name: winner.Name, Amount: shares[winner.Seat]}},
		PotShares: shares,
		Showdown:  false,
	}
	return h.finish(result)
}

// finishShowdown evaluates every remaining seat's best five-card hand
// and distributes each pot to its best-ranked eligible seats, splitting
// ties with the odd chip going to the seat closest past the button.
func (h *Hand) finishShowdown() error {
	if len(h.board) != 5 {
		return h.invariantViolation(fmt.Sprintf("showdown with %d board cards", len(h.board)))
	}

	board := poker.NewHand(h.board...)
	ranks := make(map[int]poker.HandRank)
	for _, p := range h.players {
		if !p.Folded {
			ranks[p.Seat] = poker.Evaluate7Cards(p.HoleCards | board)
		}
	}

	shares := make(map[int]int)
	var winners []Winner
	seen := make(map[int]bool)

	for _, pot := range h.pots.Pots() {
		best := poker.HandRank(0)
		var bestSeats []int
		for _, seat := range pot.Eligible {
			rank, ok := ranks[seat]
			if !ok {
				continue
			}
			switch poker.CompareHands(rank, best) {
			case 1:
				best = rank
				bestSeats = []int{seat}
			case 0:
				bestSeats = append(bestSeats, seat)
			}
		}
		for seat, amount := range splitPot(pot.Amount, bestSeats, len(h.players), h.button) {
			shares[seat] += amount
		}
		for _, seat := range bestSeats {
			if !seen[seat] {
				seen[seat] = true
				winners = append(winners, Winner{
					Seat: seat, Name: h.players[seat].Name, HandRank: ranks[seat],
				})
			}
		}
	}

	for i := range winners {
		winners[i].Amount = shares[winners[i].Seat]
	}
	for seat, amount := range shares {
		h.players[seat].Chips += amount
	}

	return h.finish(&HandCompleteEvent{Winners: winners, PotShares: shares, Showdown: true})
}

func (h *Hand) finish(result *HandCompleteEvent) error {
	h.street = Showdown
	h.actionOn = -1
	h.complete = true

	// Post-distribution conservation: the pot is empty, stacks hold it all.
	total := 0
	for _, p := range h.players {
		total += p.Chips
	}
	if total != h.chipTotal {
		h.aborted = true
		return &InvariantError{
			Reason: fmt.Sprintf("distribution broke chip conservation: have %d, want %d", total, h.chipTotal),
			Dump:   h.StateDump(),
		}
	}

	result.State = h.Snapshot()
	h.result = result
	h.logger.Debug("hand complete", "winners", len(result.Winners), "showdown", result.Showdown)
	h.bus.Publish(*result)
	return nil
}

// checkConservation verifies pot + live bets + stacks equals the total
// chips the hand started with. A mismatch is engine corruption and
// aborts the hand with a full dump; the pot is never patched to fit.
func (h *Hand) checkConservation() error {
	total := h.pots.Total()
	for _, p := range h.players {
		total += p.Bet + p.Chips
	}
	if total != h.chipTotal {
		return &InvariantError{
			Reason: fmt.Sprintf("chip conservation broken: have %d, want %d", total, h.chipTotal),
			Dump:   h.StateDump(),
		}
	}
	return nil
}

func (h *Hand) invariantViolation(reason string) error {
	h.aborted = true
	h.complete = true
	return &InvariantError{Reason: reason, Dump: h.StateDump()}
}
