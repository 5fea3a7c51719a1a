package resource

// Handle is an opaque reference to a value in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Kind tags what a handle refers to. KindAny matches every kind in lookups.
type Kind uint8

const (
	KindAny Kind = iota
	KindDocument
	KindEnvelope
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindDocument:
		return "document"
	case KindEnvelope:
		return "envelope"
	default:
		return "unknown"
	}
}

// EventType is a handle lifecycle transition.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventAcquired
	EventReleased
)

// Event is delivered to observers after a transition has been applied.
type Event struct {
	Value  any
	Handle Handle
	Kind   Kind
	Type   EventType
}

// Observer receives handle lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Backend stores values behind handles.
type Backend interface {
	// Create stores a value and returns a fresh handle.
	Create(kind Kind, value any) (Handle, error)

	// Get retrieves a value if the handle is live and of the given kind.
	Get(handle Handle, kind Kind) (any, bool)

	// Acquire is Get plus a hold that makes Drop fail with ErrInUse
	// until Release is called.
	Acquire(handle Handle, kind Kind) (any, bool)

	// Release gives back one hold taken by Acquire.
	Release(handle Handle) bool

	// Drop removes the value and returns it.
	Drop(handle Handle, kind Kind) (any, error)

	// Close drops every value and refuses further Create calls.
	Close() error
}

// Dropper is implemented by values that need cleanup when their handle is
// removed or the table is closed.
type Dropper interface {
	Drop()
}
