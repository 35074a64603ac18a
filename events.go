package impulse

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/broadphase"
	"github.com/google/uuid"
)

type EventType uint8

const (
	EventTriggerEnter EventType = iota
	EventCollisionEnter
	EventTriggerStay
	EventCollisionStay
	EventTriggerExit
	EventCollisionExit
	EventSleep
	EventWake
)

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Trigger events
type TriggerEnterEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e TriggerEnterEvent) Type() EventType { return EventTriggerEnter }

type TriggerStayEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e TriggerStayEvent) Type() EventType { return EventTriggerStay }

type TriggerExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e TriggerExitEvent) Type() EventType { return EventTriggerExit }

// Collision events
type CollisionEnterEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionEnterEvent) Type() EventType { return EventCollisionEnter }

type CollisionStayEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionStayEvent) Type() EventType { return EventCollisionStay }

type CollisionExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e CollisionExitEvent) Type() EventType { return EventCollisionExit }

// Sleep/Wake events
type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return EventSleep }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return EventWake }

type EventListener func(event Event)

type activePair struct {
	bodyA, bodyB *actor.RigidBody
}

func (p activePair) isTrigger() bool {
	return p.bodyA.IsTrigger || p.bodyB.IsTrigger
}

// pairSet keeps the touching pairs of one step in the order they were found,
// so events are delivered in a reproducible order.
type pairSet struct {
	order []broadphase.PairKey
	pairs map[broadphase.PairKey]activePair
}

func newPairSet() pairSet {
	return pairSet{pairs: make(map[broadphase.PairKey]activePair)}
}

func (s *pairSet) add(a, b *actor.RigidBody) {
	key := broadphase.NewPairKey(a, b)
	if _, ok := s.pairs[key]; ok {
		return
	}
	s.order = append(s.order, key)
	s.pairs[key] = activePair{bodyA: a, bodyB: b}
}

func (s *pairSet) has(key broadphase.PairKey) bool {
	_, ok := s.pairs[key]
	return ok
}

func (s *pairSet) reset() {
	s.order = s.order[:0]
	clear(s.pairs)
}

// Events buffers what happened during a step and delivers it to the
// subscribers once the step is over.
type Events struct {
	listeners map[EventType][]EventListener

	buffer []Event

	previous pairSet
	current  pairSet

	sleepStates map[uuid.UUID]bool
}

func NewEvents() Events {
	return Events{
		listeners:   make(map[EventType][]EventListener),
		buffer:      make([]Event, 0, 256),
		previous:    newPairSet(),
		current:     newPairSet(),
		sleepStates: make(map[uuid.UUID]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordContact marks a touching pair for this step.
func (e *Events) recordContact(a, b *actor.RigidBody) {
	e.current.add(a, b)
}

// forget drops every record of body, without emitting exit events.
func (e *Events) forget(body *actor.RigidBody) {
	delete(e.sleepStates, body.ID)
	for _, set := range []*pairSet{&e.previous, &e.current} {
		n := 0
		for _, key := range set.order {
			if key.Low == body.ID || key.High == body.ID {
				delete(set.pairs, key)
				continue
			}
			set.order[n] = key
			n++
		}
		set.order = set.order[:n]
	}
}

// processCollisionEvents compares this step's pairs with the previous step's
// to emit Enter, Stay and Exit.
func (e *Events) processCollisionEvents() {
	for _, key := range e.current.order {
		pair := e.current.pairs[key]
		stay := e.previous.has(key)

		switch {
		case pair.isTrigger() && stay:
			e.buffer = append(e.buffer, TriggerStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		case pair.isTrigger():
			e.buffer = append(e.buffer, TriggerEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		case stay:
			e.buffer = append(e.buffer, CollisionStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		default:
			e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	for _, key := range e.previous.order {
		if e.current.has(key) {
			continue
		}
		// Pairs resting asleep are skipped by the broadphase but still touch.
		pair := e.previous.pairs[key]
		if !pair.bodyA.IsActive() && !pair.bodyB.IsActive() {
			e.current.add(pair.bodyA, pair.bodyB)
			continue
		}
		if pair.isTrigger() {
			e.buffer = append(e.buffer, TriggerExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		} else {
			e.buffer = append(e.buffer, CollisionExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	e.previous, e.current = e.current, e.previous
	e.current.reset()
}

func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	for _, body := range bodies {
		if body.IsStatic() {
			continue
		}
		trackedState, exists := e.sleepStates[body.ID]
		if !exists {
			e.sleepStates[body.ID] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body.ID] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body.ID] = false
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
