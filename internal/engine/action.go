package engine

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// boardSize returns the number of community cards dealt by the start of
// the street.
func (s Street) boardSize() int {
	switch s {
	case Preflop:
		return 0
	case Flop:
		return 3
	case Turn:
		return 4
	default:
		return 5
	}
}

// ActionType represents a player action
type ActionType int

const (
	PostBlind ActionType = iota
	Fold
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a ActionType) String() string {
	return [...]string{"post_blind", "fold", "check", "call", "bet", "raise", "allin"}[a]
}

// ValidAction describes an action the acting seat may legally take,
// with total-contribution bounds for Bet/Raise.
type ValidAction struct {
	Action    ActionType
	MinAmount int // for Bet/Raise: minimum total street contribution
	MaxAmount int // for Bet/Raise: maximum total street contribution (all-in)
}

// Decision is what a DecisionEngine returns for the acting seat.
// Amount is the total street contribution for Bet/Raise and is ignored
// for Fold, Check, Call and AllIn; the engine computes call amounts
// itself so stale recorded amounts can never fail validation.
type Decision struct {
	Action    ActionType
	Amount    int
	Reasoning string
}

// ExecutedAction is an immutable record of an action applied to the hand.
type ExecutedAction struct {
	Seat   int
	Action ActionType
	Amount int // chips moved by this action (delta, for the record)
	Street Street
}
