package resource

import (
	"sync"
)

// Table wraps a LocalBackend with observers and Dropper handling.
type Table struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
}

func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
	}
}

// Insert stores value under a fresh handle.
func (t *Table) Insert(kind Kind, value any) (Handle, error) {
	handle, err := t.backend.Create(kind, value)
	if err != nil {
		return 0, err
	}
	t.notify(Event{Type: EventCreated, Handle: handle, Kind: kind, Value: value})
	return handle, nil
}

func (t *Table) Get(handle Handle, kind Kind) (any, bool) {
	return t.backend.Get(handle, kind)
}

// Acquire returns the value and holds it so Remove fails until Release.
func (t *Table) Acquire(handle Handle, kind Kind) (any, bool) {
	value, ok := t.backend.Acquire(handle, kind)
	if ok {
		t.notify(Event{Type: EventAcquired, Handle: handle, Kind: kind, Value: value})
	}
	return value, ok
}

func (t *Table) Release(handle Handle) bool {
	if !t.backend.Release(handle) {
		return false
	}
	kind, _ := t.backend.KindOf(handle)
	t.notify(Event{Type: EventReleased, Handle: handle, Kind: kind})
	return true
}

// Remove drops the handle, runs the value's Drop if it has one and
// returns the value.
func (t *Table) Remove(handle Handle, kind Kind) (any, error) {
	actual, _ := t.backend.KindOf(handle)
	value, err := t.backend.Drop(handle, kind)
	if err != nil {
		return nil, err
	}
	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	t.notify(Event{Type: EventDropped, Handle: handle, Kind: actual, Value: value})
	return value, nil
}

func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

func (t *Table) Len(kind Kind) int {
	return t.backend.Len(kind)
}

func (t *Table) Each(kind Kind, fn func(Handle, any) bool) {
	t.backend.Each(kind, fn)
}

// Clear removes every handle of the given kind that is not held.
func (t *Table) Clear(kind Kind) {
	var handles []Handle
	t.backend.Each(kind, func(h Handle, _ any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		_, _ = t.Remove(h, kind)
	}
}

// Close drops everything and stops accepting inserts.
func (t *Table) Close() error {
	return t.backend.Close()
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}

// Typed is a view of a Table restricted to one kind of value.
type Typed[T any] struct {
	table *Table
	kind  Kind
}

func NewTyped[T any](table *Table, kind Kind) *Typed[T] {
	return &Typed[T]{table: table, kind: kind}
}

func (t *Typed[T]) Insert(value T) (Handle, error) {
	return t.table.Insert(t.kind, value)
}

func (t *Typed[T]) Get(handle Handle) (T, bool) {
	v, ok := t.table.Get(handle, t.kind)
	return cast[T](v, ok)
}

func (t *Typed[T]) Acquire(handle Handle) (T, bool) {
	v, ok := t.table.Acquire(handle, t.kind)
	return cast[T](v, ok)
}

func (t *Typed[T]) Release(handle Handle) bool {
	return t.table.Release(handle)
}

func (t *Typed[T]) Remove(handle Handle) (T, error) {
	v, err := t.table.Remove(handle, t.kind)
	if err != nil {
		var zero T
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}

func (t *Typed[T]) Len() int {
	return t.table.Len(t.kind)
}

func (t *Typed[T]) Each(fn func(Handle, T) bool) {
	t.table.Each(t.kind, func(h Handle, v any) bool {
		typed, _ := v.(T)
		return fn(h, typed)
	})
}

func cast[T any](v any, ok bool) (T, bool) {
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}
