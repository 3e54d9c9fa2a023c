package physics

import (
	"github.com/ByteArena/box2d"
	"github.com/plus3/stage/ecs"
)

// ContactEvent is one begin or end notification between two tagged bodies.
// Trigger is set when either fixture is a sensor.
type ContactEvent struct {
	A       ecs.EntityId
	B       ecs.EntityId
	Begin   bool
	Trigger bool
}

// ContactListener receives box2d contact callbacks during a world step and
// queues them as ContactEvents. The callbacks run while the solver is
// iterating, so they never touch entities or scripts.
type ContactListener struct {
	queue []ContactEvent
	spare []ContactEvent
}

// NewContactListener creates an empty listener.
func NewContactListener() *ContactListener {
	return &ContactListener{}
}

func (l *ContactListener) BeginContact(contact box2d.B2ContactInterface) {
	l.record(contact, true)
}

func (l *ContactListener) EndContact(contact box2d.B2ContactInterface) {
	l.record(contact, false)
}

func (l *ContactListener) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {}

func (l *ContactListener) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {}

func (l *ContactListener) record(contact box2d.B2ContactInterface, begin bool) {
	fixtureA := contact.GetFixtureA()
	fixtureB := contact.GetFixtureB()
	if fixtureA == nil || fixtureB == nil {
		return
	}

	a, okA := entityOf(fixtureA)
	b, okB := entityOf(fixtureB)
	if !okA || !okB {
		return
	}

	l.Push(ContactEvent{
		A:       a,
		B:       b,
		Begin:   begin,
		Trigger: fixtureA.IsSensor() || fixtureB.IsSensor(),
	})
}

func entityOf(fixture *box2d.B2Fixture) (ecs.EntityId, bool) {
	body := fixture.GetBody()
	if body == nil {
		return 0, false
	}
	id, ok := body.GetUserData().(ecs.EntityId)
	return id, ok && id.Valid()
}

// Push enqueues an event. Events whose participants are not valid entities
// are dropped.
func (l *ContactListener) Push(event ContactEvent) {
	if !event.A.Valid() || !event.B.Valid() {
		return
	}
	l.queue = append(l.queue, event)
}

// Len returns the number of queued events.
func (l *ContactListener) Len() int {
	return len(l.queue)
}

// Drain hands every queued event to fn in arrival order and empties the
// queue. Events pushed while draining are kept for the next Drain.
func (l *ContactListener) Drain(fn func(ContactEvent)) int {
	events := l.queue
	l.queue = l.spare[:0]

	for _, event := range events {
		fn(event)
	}

	clear(events)
	l.spare = events[:0]
	return len(events)
}

// Reset drops every queued event.
func (l *ContactListener) Reset() {
	clear(l.queue)
	l.queue = l.queue[:0]
}
