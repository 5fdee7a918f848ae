package replay

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
	"github.com/yeogirlyun/pokertrainer/poker"
)

// AmountMode declares how recorded Bet/Raise amounts are interpreted.
type AmountMode int

const (
	// AmountAuto detects the convention per action: an amount reaching
	// the legal raise-to minimum is a total, anything smaller a delta.
	AmountAuto AmountMode = iota
	// AmountDelta treats amounts as chips added by this action.
	AmountDelta
	// AmountTotal treats amounts as the seat's total street contribution.
	AmountTotal
)

func (m AmountMode) String() string {
	switch m {
	case AmountDelta:
		return "delta"
	case AmountTotal:
		return "total"
	default:
		return "auto"
	}
}

// SeatRecord is one entry in the recorded seating chart. HoleCards is
// empty when the source did not show the seat's cards.
type SeatRecord struct {
	Name      string
	Stack     int
	HoleCards []poker.Card
}

// RecordedAction is one voluntary action from the source history. Blind
// posts are not recorded; the engine posts them from the blind sizes.
type RecordedAction struct {
	Seat      int
	Verb      engine.ActionType
	Amount    int
	HasAmount bool
}

// HandRecord is a parsed recorded hand ready for replay.
type HandRecord struct {
	ID         string
	SmallBlind int
	BigBlind   int
	Button     int
	Mode       AmountMode
	Seats      []SeatRecord
	Board      []poker.Card
	Actions    map[engine.Street][]RecordedAction
}

type rawRecord struct {
	Hand    rawMeta                `toml:"hand"`
	Board   string                 `toml:"board"`
	Seats   []rawSeat              `toml:"seats"`
	Actions map[string][]rawAction `toml:"actions"`
}

type rawMeta struct {
	ID         string  `toml:"id"`
	SmallBlind float64 `toml:"small_blind"`
	BigBlind   float64 `toml:"big_blind"`
	Button     int     `toml:"button"`
	AmountMode string  `toml:"amount_mode"`
}

type rawSeat struct {
	Name      string  `toml:"name"`
	Stack     float64 `toml:"stack"`
	HoleCards string  `toml:"hole_cards"`
}

type rawAction struct {
	Seat   int      `toml:"seat"`
	Verb   string   `toml:"verb"`
	Amount *float64 `toml:"amount"`
}

var streetKeys = map[string]engine.Street{
	"preflop": engine.Preflop,
	"flop":    engine.Flop,
	"turn":    engine.Turn,
	"river":   engine.River,
}

// Load reads and parses a TOML hand record from disk.
func Load(path string) (*HandRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load hand record: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes a TOML hand record.
func Parse(data string) (*HandRecord, error) {
	var raw rawRecord
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, &DataError{Field: "toml", Reason: err.Error()}
	}
	return buildRecord(&raw)
}

func buildRecord(raw *rawRecord) (*HandRecord, error) {
	rec := &HandRecord{
		ID:      raw.Hand.ID,
		Actions: make(map[engine.Street][]RecordedAction),
	}

	var err error
	if rec.SmallBlind, err = chipAmount("hand.small_blind", raw.Hand.SmallBlind); err != nil {
		return nil, err
	}
	if rec.BigBlind, err = chipAmount("hand.big_blind", raw.Hand.BigBlind); err != nil {
		return nil, err
	}
	rec.Button = raw.Hand.Button

	switch strings.ToLower(raw.Hand.AmountMode) {
	case "", "auto":
		rec.Mode = AmountAuto
	case "delta":
		rec.Mode = AmountDelta
	case "total":
		rec.Mode = AmountTotal
	default:
		return nil, &DataError{Field: "hand.amount_mode",
			Reason: fmt.Sprintf("unknown mode %q (want delta, total or auto)", raw.Hand.AmountMode)}
	}

	for i, rs := range raw.Seats {
		field := fmt.Sprintf("seats[%d]", i)
		stack, err := chipAmount(field+".stack", rs.Stack)
		if err != nil {
			return nil, err
		}
		seat := SeatRecord{Name: rs.Name, Stack: stack}
		if rs.HoleCards != "" {
			cards, err := parseCards(rs.HoleCards)
			if err != nil {
				return nil, &DataError{Field: field + ".hole_cards", Reason: err.Error()}
			}
			if len(cards) != 2 {
				return nil, &DataError{Field: field + ".hole_cards",
					Reason: fmt.Sprintf("want 2 cards, got %d", len(cards))}
			}
			seat.HoleCards = cards
		}
		rec.Seats = append(rec.Seats, seat)
	}

	if raw.Board != "" {
		cards, err := parseCards(raw.Board)
		if err != nil {
			return nil, &DataError{Field: "board", Reason: err.Error()}
		}
		if len(cards) > 5 {
			return nil, &DataError{Field: "board",
				Reason: fmt.Sprintf("want at most 5 cards, got %d", len(cards))}
		}
		rec.Board = cards
	}

	for key, actions := range raw.Actions {
		street, ok := streetKeys[strings.ToLower(key)]
		if !ok {
			return nil, &DataError{Field: "actions." + key, Reason: "unknown street"}
		}
		for i, ra := range actions {
			field := fmt.Sprintf("actions.%s[%d]", key, i)
			verb, err := parseVerb(ra.Verb)
			if err != nil {
				return nil, &DataError{Field: field + ".verb", Reason: err.Error()}
			}
			if verb == engine.PostBlind {
				// Blind posts in the source are redundant with the
				// declared blind sizes; skip them.
				continue
			}
			action := RecordedAction{Seat: ra.Seat, Verb: verb}
			if ra.Amount != nil {
				action.Amount, err = chipAmount(field+".amount", *ra.Amount)
				if err != nil {
					return nil, err
				}
				action.HasAmount = true
			}
			rec.Actions[street] = append(rec.Actions[street], action)
		}
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// maxSeats caps a record at a full ring. Anything larger is a corrupt
// record, and past 23 seats the hole cards alone would outrun the deck.
const maxSeats = 10

// Validate checks structural consistency before a replay starts.
func (r *HandRecord) Validate() error {
	if len(r.Seats) < 2 {
		return &DataError{Field: "seats", Reason: fmt.Sprintf("want at least 2 seats, got %d", len(r.Seats))}
	}
	if len(r.Seats) > maxSeats {
		return &DataError{Field: "seats", Reason: fmt.Sprintf("want at most %d seats, got %d", maxSeats, len(r.Seats))}
	}
	if r.Button < 0 || r.Button >= len(r.Seats) {
		return &DataError{Field: "hand.button", Reason: fmt.Sprintf("seat %d out of range", r.Button)}
	}
	if r.SmallBlind <= 0 || r.BigBlind < r.SmallBlind {
		return &DataError{Field: "hand", Reason: fmt.Sprintf("bad blinds %d/%d", r.SmallBlind, r.BigBlind)}
	}
	switch len(r.Board) {
	case 0, 3, 4, 5:
	default:
		return &DataError{Field: "board", Reason: fmt.Sprintf("%d cards is not a valid board size", len(r.Board))}
	}
	for street, actions := range r.Actions {
		for i, a := range actions {
			field := fmt.Sprintf("actions.%s[%d]", strings.ToLower(street.String()), i)
			if a.Seat < 0 || a.Seat >= len(r.Seats) {
				return &DataError{Field: field + ".seat", Reason: fmt.Sprintf("seat %d out of range", a.Seat)}
			}
			if (a.Verb == engine.Bet || a.Verb == engine.Raise) && !a.HasAmount {
				return &DataError{Field: field, Reason: a.Verb.String() + " requires an amount"}
			}
		}
	}
	return nil
}

// BuildDeck stacks a deck so the engine deals exactly the recorded
// cards: two hole cards per seat in seat order, then the board. Unknown
// cards fill deterministically from the unused remainder.
func (r *HandRecord) BuildDeck() (*poker.Deck, error) {
	known := poker.Hand(0)
	for i, s := range r.Seats {
		for _, c := range s.HoleCards {
			if known.Contains(c) {
				return nil, &DataError{Field: fmt.Sprintf("seats[%d].hole_cards", i),
					Reason: fmt.Sprintf("card %s appears twice in record", c)}
			}
			known |= poker.Hand(c)
		}
	}
	for _, c := range r.Board {
		if known.Contains(c) {
			return nil, &DataError{Field: "board",
				Reason: fmt.Sprintf("card %s appears twice in record", c)}
		}
		known |= poker.Hand(c)
	}

	filler := fillerCards(known)
	top := make([]poker.Card, 0, 2*len(r.Seats)+5)
	for _, s := range r.Seats {
		cards := s.HoleCards
		for len(cards) < 2 {
			cards = append(cards, filler())
		}
		top = append(top, cards...)
	}
	board := r.Board
	for len(board) < 5 {
		board = append(board, filler())
	}
	top = append(top, board...)

	return poker.NewStackedDeck(top...)
}

// fillerCards returns a generator over the cards not in used, in fixed
// suit/rank order so replays of partial records stay deterministic.
func fillerCards(used poker.Hand) func() poker.Card {
	var pool []poker.Card
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			c := poker.NewCard(rank, suit)
			if !used.Contains(c) {
				pool = append(pool, c)
			}
		}
	}
	next := 0
	return func() poker.Card {
		if next >= len(pool) {
			return 0
		}
		c := pool[next]
		next++
		return c
	}
}

// chipAmount converts a recorded float amount to integer chips. Sources
// store currency floats; anything further than 0.01 from an integer is
// corrupt data rather than a rounding artifact.
func chipAmount(field string, v float64) (int, error) {
	rounded := math.Round(v)
	if math.Abs(v-rounded) > 0.01 {
		return 0, &DataError{Field: field, Reason: fmt.Sprintf("amount %v is not a whole chip count", v)}
	}
	if rounded < 0 {
		return 0, &DataError{Field: field, Reason: fmt.Sprintf("amount %v is negative", v)}
	}
	return int(rounded), nil
}

// parseCards parses an ordered card list like "Ah 7d 2c" or "Ah7d2c".
func parseCards(s string) ([]poker.Card, error) {
	compact := strings.NewReplacer(" ", "", "\t", "").Replace(s)
	if len(compact)%2 != 0 {
		return nil, fmt.Errorf("malformed card list %q", s)
	}
	var cards []poker.Card
	for i := 0; i < len(compact); i += 2 {
		c, err := poker.ParseCard(compact[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

func parseVerb(s string) (engine.ActionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold", "f":
		return engine.Fold, nil
	case "check", "x":
		return engine.Check, nil
	case "call", "c":
		return engine.Call, nil
	case "bet", "b":
		return engine.Bet, nil
	case "raise", "r":
		return engine.Raise, nil
	case "allin", "all-in", "all_in", "push":
		return engine.AllIn, nil
	case "post", "sb", "bb", "blind":
		return engine.PostBlind, nil
	}
	return 0, fmt.Errorf("unknown verb %q", s)
}
