// Package resource maps integer handles to host-side values.
//
// The engine keeps two kinds of values behind handles: open documents and
// outstanding result envelopes. Both share one handle space so a document
// handle can never be mistaken for a release token of the same number.
//
//	table := resource.NewTable()
//	docs := resource.NewTyped[*document](table, resource.KindDocument)
//
//	h, err := docs.Insert(doc)
//	d, ok := docs.Acquire(h) // hold while an operation runs
//	defer docs.Release(h)
//
// # Lifecycle
//
// Handles start at 1 and are never reused. Remove fails with ErrInUse while
// any Acquire hold is outstanding and with ErrNotFound for a handle that is
// unknown, already removed or of another kind. Values implementing Dropper
// have Drop called exactly once, either by Remove or by Close.
//
// # Observers
//
// Observers are notified after each transition, outside the backend lock:
//
//	table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//		if e.Type == resource.EventDropped {
//			log.Printf("%s %d dropped", e.Kind, e.Handle)
//		}
//	}))
package resource
