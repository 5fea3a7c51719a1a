package resource

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"sync"
)

var (
	ErrClosed    = errors.New("resource table closed")
	ErrNotFound  = errors.New("resource not found")
	ErrInUse     = errors.New("resource is in use")
	ErrExhausted = errors.New("resource handles exhausted")
)

// LocalBackend is an in-memory backend. Handles are issued from a counter
// and never reused, so a stale handle can not alias a newer value.
type LocalBackend struct {
	entries map[Handle]*entry
	next    Handle
	mu      sync.RWMutex
	closed  bool
}

type entry struct {
	value any
	holds uint32
	kind  Kind
}

func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries: make(map[Handle]*entry, 16),
	}
}

func (b *LocalBackend) Create(kind Kind, value any) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}
	if b.next == math.MaxUint32 {
		return 0, ErrExhausted
	}

	b.next++
	b.entries[b.next] = &entry{kind: kind, value: value}
	return b.next, nil
}

func (b *LocalBackend) lookup(handle Handle, kind Kind) (*entry, bool) {
	e, ok := b.entries[handle]
	if !ok || (kind != KindAny && e.kind != kind) {
		return nil, false
	}
	return e, true
}

func (b *LocalBackend) Get(handle Handle, kind Kind) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.lookup(handle, kind)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// KindOf reports the kind of a live handle.
func (b *LocalBackend) KindOf(handle Handle) (Kind, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[handle]
	if !ok {
		return 0, false
	}
	return e.kind, true
}

func (b *LocalBackend) Acquire(handle Handle, kind Kind) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.lookup(handle, kind)
	if !ok {
		return nil, false
	}
	e.holds++
	return e.value, true
}

func (b *LocalBackend) Release(handle Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[handle]
	if !ok || e.holds == 0 {
		return false
	}
	e.holds--
	return true
}

func (b *LocalBackend) Drop(handle Handle, kind Kind) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.lookup(handle, kind)
	if !ok {
		return nil, ErrNotFound
	}
	if e.holds > 0 {
		return nil, ErrInUse
	}
	delete(b.entries, handle)
	return e.value, nil
}

// Close runs Drop on every remaining Dropper value. Holds are ignored.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	entries := b.entries
	b.entries = make(map[Handle]*entry)
	b.mu.Unlock()

	for _, e := range entries {
		if d, ok := e.value.(Dropper); ok {
			d.Drop()
		}
	}
	return nil
}

// Len counts live handles of the given kind.
func (b *LocalBackend) Len(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if kind == KindAny {
		return len(b.entries)
	}
	count := 0
	for _, e := range b.entries {
		if e.kind == kind {
			count++
		}
	}
	return count
}

// Each visits live handles of the given kind in ascending order until fn
// returns false. fn runs without the backend lock held.
func (b *LocalBackend) Each(kind Kind, fn func(Handle, any) bool) {
	type item struct {
		value  any
		handle Handle
	}

	b.mu.RLock()
	items := make([]item, 0, len(b.entries))
	for h, e := range b.entries {
		if kind == KindAny || e.kind == kind {
			items = append(items, item{handle: h, value: e.value})
		}
	}
	b.mu.RUnlock()

	slices.SortFunc(items, func(x, y item) int { return cmp.Compare(x.handle, y.handle) })
	for _, it := range items {
		if !fn(it.handle, it.value) {
			return
		}
	}
}
