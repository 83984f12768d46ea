// Package event provides the ordered observer queue that simulation
// components use to notify each other and external collaborators.
//
// Publish never re-enters a handler: events raised while another event is
// being dispatched are queued and delivered afterwards, in publish order.
package event

import "sync"

// Kind identifies an event type.
type Kind uint16

const (
	UnitMoved Kind = iota + 1
	UnitRemoved
	TurnBegan
	TurnEnded
	ModeChanged
	SelectionReset
	AbilitySelected
	AbilityUsed
	ActionRejected
	SkillcheckRequested
	SkillcheckResolved
	CharacterDowned
	CharacterDied
	ObjectSpawned
	CombatStarted
	CombatEnded
	LogMessage
)

var kindNames = map[Kind]string{
	UnitMoved:           "unit_moved",
	UnitRemoved:         "unit_removed",
	TurnBegan:           "turn_began",
	TurnEnded:           "turn_ended",
	ModeChanged:         "mode_changed",
	SelectionReset:      "selection_reset",
	AbilitySelected:     "ability_selected",
	AbilityUsed:         "ability_used",
	ActionRejected:      "action_rejected",
	SkillcheckRequested: "skillcheck_requested",
	SkillcheckResolved:  "skillcheck_resolved",
	CharacterDowned:     "character_downed",
	CharacterDied:       "character_died",
	ObjectSpawned:       "object_spawned",
	CombatStarted:       "combat_started",
	CombatEnded:         "combat_ended",
	LogMessage:          "log_message",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Event is one notification. Seq is assigned by the Bus and is strictly
// increasing in publish order.
type Event struct {
	Kind    Kind
	Seq     uint64
	Payload any
}

// Handler receives dispatched events.
type Handler func(Event)

// Subscription identifies a registered handler for Unsubscribe.
type Subscription uint64

type listener struct {
	id      Subscription
	kind    Kind // 0 = every kind
	handler Handler
}

// Bus is a synchronous FIFO observer queue.
//
// Invariant: handlers observe events in exactly the order they were published.
type Bus struct {
	mu          sync.Mutex
	listeners   []listener
	queue       []Event
	dispatching bool
	nextSeq     uint64
	nextID      Subscription
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for events of kind k.
//
// Postcondition: h receives every k event published after this call until
// Unsubscribe is called with the returned Subscription.
func (b *Bus) Subscribe(k Kind, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.listeners = append(b.listeners, listener{id: b.nextID, kind: k, handler: h})
	return b.nextID
}

// SubscribeAll registers h for every event kind.
func (b *Bus) SubscribeAll(h Handler) Subscription {
	return b.Subscribe(0, h)
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(s Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.listeners {
		if l.id == s {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Publish queues an event and, unless a dispatch is already in progress,
// drains the queue before returning.
//
// A nil Bus accepts and drops every event.
func (b *Bus) Publish(k Kind, payload any) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.nextSeq++
	b.queue = append(b.queue, Event{Kind: k, Seq: b.nextSeq, Payload: payload})
	if b.dispatching {
		b.mu.Unlock()
		return
	}
	b.dispatching = true
	b.mu.Unlock()

	b.drain()
}

func (b *Bus) drain() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.dispatching = false
			b.mu.Unlock()
			return
		}
		e := b.queue[0]
		b.queue = b.queue[1:]
		targets := make([]Handler, 0, len(b.listeners))
		for _, l := range b.listeners {
			if l.kind == 0 || l.kind == e.Kind {
				targets = append(targets, l.handler)
			}
		}
		b.mu.Unlock()

		for _, h := range targets {
			h(e)
		}
	}
}
