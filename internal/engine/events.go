package engine

import (
	"github.com/yeogirlyun/pokertrainer/poker"
)

// EventType identifies a game event.
type EventType string

const (
	EventTypeActionExecuted EventType = "action_executed"
	EventTypeRoundComplete  EventType = "round_complete"
	EventTypeStreetAdvanced EventType = "street_advanced"
	EventTypeHandComplete   EventType = "hand_complete"
)

// Event is any observable state change emitted by the hand. Events carry
// immutable snapshots; they are the only state downstream renderers and
// loggers are permitted to read. Nothing downstream writes back.
type Event interface {
	EventType() EventType
}

// ActionExecutedEvent fires after every successfully applied action,
// including posted blinds.
type ActionExecutedEvent struct {
	Seat   int
	Action ActionType
	Amount int // chips moved by the action
	State  Snapshot
}

func (e ActionExecutedEvent) EventType() EventType { return EventTypeActionExecuted }

// RoundCompleteEvent fires when a betting round closes, before the next
// street is dealt.
type RoundCompleteEvent struct {
	Street Street
}

func (e RoundCompleteEvent) EventType() EventType { return EventTypeRoundComplete }

// StreetAdvancedEvent fires when community cards are dealt for a new street.
type StreetAdvancedEvent struct {
	Street   Street
	NewCards []poker.Card
	Board    []poker.Card
}

func (e StreetAdvancedEvent) EventType() EventType { return EventTypeStreetAdvanced }

// Winner describes one seat's share of the pot at hand end.
type Winner struct {
	Seat     int
	Name     string
	Amount   int
	HandRank poker.HandRank // zero when the pot was won uncontested
}

// HandCompleteEvent fires once per hand after pot distribution.
type HandCompleteEvent struct {
	Winners   []Winner
	PotShares map[int]int // seat -> total chips awarded
	Showdown  bool        // false when everyone else folded
	State     Snapshot
}

func (e HandCompleteEvent) EventType() EventType { return EventTypeHandComplete }

// Subscriber receives game events.
type Subscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(event Event)

func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus delivers events synchronously to subscribers in order.
type EventBus struct {
	subscribers []Subscriber
}

// NewEventBus creates an empty event bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe adds a subscriber.
func (bus *EventBus) Subscribe(s Subscriber) {
	bus.subscribers = append(bus.subscribers, s)
}

// Publish delivers an event to all subscribers.
func (bus *EventBus) Publish(event Event) {
	for _, s := range bus.subscribers {
		s.OnEvent(event)
	}
}
