package handlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
	"github.com/yeogirlyun/pokertrainer/poker"
)

// loggedAction is one recorded action with the pot after it resolved.
type loggedAction struct {
	Name     string
	Seat     int
	Action   engine.ActionType
	Amount   int
	PotAfter int
	Street   engine.Street
	Thinking string
}

// seatStart captures a seat's stack before blinds.
type seatStart struct {
	Name  string
	Chips int
}

// Recorder subscribes to hand events and renders a text hand log. It
// reads only the immutable snapshots carried on events.
type Recorder struct {
	id        string
	startTime time.Time

	smallBlind int
	bigBlind   int
	button     int

	starts    []seatStart
	holeCards map[int]poker.Hand
	boards    map[engine.Street][]poker.Card
	actions   []loggedAction
	pending   map[int]string
	result    *engine.HandCompleteEvent
	finalSnap engine.Snapshot
}

// NewRecorder creates a recorder for one hand. Starting stacks and the
// button position come from the first observed event.
func NewRecorder(id string, smallBlind, bigBlind int) *Recorder {
	return &Recorder{
		id:         id,
		startTime:  time.Now(),
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
		holeCards:  make(map[int]poker.Hand),
		boards:     make(map[engine.Street][]poker.Card),
		pending:    make(map[int]string),
	}
}

// RevealHoleCards records a seat's cards for the log. Replay and review
// reveal every known seat; practice reveals only showdown hands.
func (r *Recorder) RevealHoleCards(seat int, cards poker.Hand) {
	if cards != 0 {
		r.holeCards[seat] = cards
	}
}

// NoteThinking attaches decision reasoning to the seat's next action.
func (r *Recorder) NoteThinking(seat int, text string) {
	if text != "" {
		r.pending[seat] = text
	}
}

// OnEvent implements engine.Subscriber.
func (r *Recorder) OnEvent(event engine.Event) {
	switch e := event.(type) {
	case engine.ActionExecutedEvent:
		r.captureStarts(e.State)
		name := ""
		if e.Seat < len(e.State.Seats) {
			name = e.State.Seats[e.Seat].Name
		}
		r.actions = append(r.actions, loggedAction{
			Name:     name,
			Seat:     e.Seat,
			Action:   e.Action,
			Amount:   e.Amount,
			PotAfter: e.State.Pot,
			Street:   e.State.Street,
			Thinking: r.pending[e.Seat],
		})
		delete(r.pending, e.Seat)

	case engine.StreetAdvancedEvent:
		board := make([]poker.Card, len(e.Board))
		copy(board, e.Board)
		r.boards[e.Street] = board

	case engine.HandCompleteEvent:
		result := e
		r.result = &result
		r.finalSnap = e.State
	}
}

// captureStarts reconstructs pre-blind stacks from the first snapshot.
func (r *Recorder) captureStarts(snap engine.Snapshot) {
	if r.starts != nil {
		return
	}
	r.button = snap.Button
	for _, s := range snap.Seats {
		r.starts = append(r.starts, seatStart{Name: s.Name, Chips: s.Chips + s.TotalBet})
	}
}

// Render produces the full text hand log.
func (r *Recorder) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== HAND %s ===\n", r.id)
	fmt.Fprintf(&b, "Date: %s\n", r.startTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Blinds: %d/%d\n", r.smallBlind, r.bigBlind)
	fmt.Fprintf(&b, "Players: %d\n", len(r.starts))
	fmt.Fprintf(&b, "Button: seat %d\n\n", r.button)

	b.WriteString("STARTING POSITIONS:\n")
	for i, s := range r.starts {
		marker := ""
		if i == r.button {
			marker = " (button)"
		}
		fmt.Fprintf(&b, "Seat %d: %s (%d chips)%s\n", i, s.Name, s.Chips, marker)
	}
	b.WriteString("\n")

	if len(r.holeCards) > 0 {
		b.WriteString("HOLE CARDS:\n")
		for i, s := range r.starts {
			if cards, ok := r.holeCards[i]; ok {
				fmt.Fprintf(&b, "%s: %s\n", s.Name, cards)
			}
		}
		b.WriteString("\n")
	}

	r.renderActions(&b)
	r.renderSummary(&b)
	return b.String()
}

var streetHeaders = map[engine.Street]string{
	engine.Preflop: "*** PRE-FLOP ***",
	engine.Flop:    "*** FLOP ***",
	engine.Turn:    "*** TURN ***",
	engine.River:   "*** RIVER ***",
}

func (r *Recorder) renderActions(b *strings.Builder) {
	if len(r.actions) == 0 {
		return
	}
	b.WriteString("HAND ACTION:\n")

	shown := make(map[engine.Street]bool)
	for _, a := range r.actions {
		if !shown[a.Street] {
			shown[a.Street] = true
			if a.Street != engine.Preflop {
				b.WriteString("\n")
			}
			b.WriteString(streetHeaders[a.Street] + "\n")
			if board, ok := r.boards[a.Street]; ok {
				fmt.Fprintf(b, "Board: [%s]\n", cardList(board))
			}
		}

		if a.Thinking != "" {
			fmt.Fprintf(b, "%s: thinks \"%s\"\n", a.Name, a.Thinking)
		}
		b.WriteString(r.actionLine(a) + "\n")
	}
	b.WriteString("\n")
}

func (r *Recorder) actionLine(a loggedAction) string {
	switch a.Action {
	case engine.PostBlind:
		kind := "small blind"
		if a.Amount == r.bigBlind {
			kind = "big blind"
		}
		return fmt.Sprintf("%s: posts %s %d", a.Name, kind, a.Amount)
	case engine.Fold:
		return fmt.Sprintf("%s: folds", a.Name)
	case engine.Check:
		return fmt.Sprintf("%s: checks", a.Name)
	case engine.Call:
		return fmt.Sprintf("%s: calls %d (pot %d)", a.Name, a.Amount, a.PotAfter)
	case engine.Bet:
		return fmt.Sprintf("%s: bets %d (pot %d)", a.Name, a.Amount, a.PotAfter)
	case engine.Raise:
		return fmt.Sprintf("%s: raises %d (pot %d)", a.Name, a.Amount, a.PotAfter)
	case engine.AllIn:
		return fmt.Sprintf("%s: goes all-in for %d (pot %d)", a.Name, a.Amount, a.PotAfter)
	}
	return fmt.Sprintf("%s: %s %d", a.Name, a.Action, a.Amount)
}

func (r *Recorder) renderSummary(b *strings.Builder) {
	if r.result == nil {
		return
	}
	b.WriteString("SUMMARY:\n")
	if board, ok := r.boards[r.finalSnap.Street]; ok && len(board) > 0 {
		fmt.Fprintf(b, "Final board: [%s]\n", cardList(board))
	} else if len(r.finalSnap.Board) > 0 {
		fmt.Fprintf(b, "Final board: [%s]\n", cardList(r.finalSnap.Board))
	}
	for _, w := range r.result.Winners {
		how := "uncontested"
		if r.result.Showdown {
			how = "with " + w.HandRank.String()
		}
		fmt.Fprintf(b, "%s wins %d %s\n", w.Name, w.Amount, how)
	}
	for _, s := range r.finalSnap.Seats {
		fmt.Fprintf(b, "Seat %d: %s (%d chips)\n", s.Seat, s.Name, s.Chips)
	}
}

// Save renders and persists the log.
func (r *Recorder) Save(w Writer) error {
	return w.WriteHandLog(r.id, r.Render())
}

func cardList(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
