package ecs

// ComponentAddedFunc is invoked after a component is attached to an observed
// entity. component is a pointer to the stored value.
type ComponentAddedFunc func(id EntityId, component any)

// ComponentRemovedFunc is invoked while a component is still attached but
// about to leave the entity: before RemoveComponent detaches it and before
// AddComponent overwrites it with a value of the same type. Deleting the
// entity does not notify.
type ComponentRemovedFunc func(id EntityId, component any)

// Subscription is the handle returned by Observe. Subscriptions are compared
// by identity, so one entity may carry several observers.
type Subscription struct {
	storage *Storage
	entity  EntityId
	fn      ComponentAddedFunc
	removed ComponentRemovedFunc
}

// Observe registers fn to be called whenever a component is added to the
// entity. Observers are dropped when the entity is deleted.
func (s *Storage) Observe(id EntityId, fn ComponentAddedFunc) *Subscription {
	sub := &Subscription{storage: s, entity: id, fn: fn}
	if !s.Exists(id) {
		sub.storage = nil
		return sub
	}
	s.observers[id] = append(s.observers[id], sub)
	return sub
}

// OnRemove sets the function notified before components leave the entity
// and returns sub.
func (sub *Subscription) OnRemove(fn ComponentRemovedFunc) *Subscription {
	sub.removed = fn
	return sub
}

// Active reports whether the subscription still receives notifications.
func (sub *Subscription) Active() bool {
	return sub != nil && sub.storage != nil
}

// Unsubscribe stops notifications. It is safe to call more than once.
func (sub *Subscription) Unsubscribe() {
	if !sub.Active() {
		return
	}

	subs := sub.storage.observers[sub.entity]
	for i, other := range subs {
		if other == sub {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(sub.storage.observers, sub.entity)
	} else {
		sub.storage.observers[sub.entity] = subs
	}
	sub.storage = nil
}

func (s *Storage) publish(id EntityId, component any) {
	subs := s.observers[id]
	if len(subs) == 0 {
		return
	}
	// Observers may unsubscribe while being notified.
	for _, sub := range append([]*Subscription(nil), subs...) {
		if sub.Active() && sub.fn != nil {
			sub.fn(id, component)
		}
	}
}

func (s *Storage) publishRemoved(id EntityId, component any) {
	subs := s.observers[id]
	if len(subs) == 0 {
		return
	}
	for _, sub := range append([]*Subscription(nil), subs...) {
		if sub.Active() && sub.removed != nil {
			sub.removed(id, component)
		}
	}
}
