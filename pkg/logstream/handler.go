package logstream

import "context"

// Handler receives the four lifecycle hooks of a stream. Hooks are called
// from the stream's read goroutine, one at a time, in order.
type Handler interface {
	OnOpen()
	OnMessage(line string)
	OnError(err error)
	OnClose()
}

// EventKind identifies which hook produced an Event
type EventKind int

const (
	EventOpen EventKind = iota
	EventMessage
	EventError
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventMessage:
		return "message"
	case EventError:
		return "error"
	case EventClose:
		return "close"
	default:
		return "unknown"
	}
}

// Event is a hook call turned into a value
type Event struct {
	Kind EventKind
	Line string
	Err  error
}

// ChanHandler forwards hook calls as Events on a channel. Sends block until
// the event is received or ctx is done, so no message is dropped while the
// consumer is alive.
type ChanHandler struct {
	ctx    context.Context
	events chan Event
}

// NewChanHandler creates a handler whose events stop being delivered once ctx is done
func NewChanHandler(ctx context.Context, size int) *ChanHandler {
	return &ChanHandler{
		ctx:    ctx,
		events: make(chan Event, size),
	}
}

// Events returns the receive side of the event channel
func (h *ChanHandler) Events() <-chan Event {
	return h.events
}

func (h *ChanHandler) send(ev Event) {
	select {
	case h.events <- ev:
	case <-h.ctx.Done():
	}
}

func (h *ChanHandler) OnOpen()               { h.send(Event{Kind: EventOpen}) }
func (h *ChanHandler) OnMessage(line string) { h.send(Event{Kind: EventMessage, Line: line}) }
func (h *ChanHandler) OnError(err error)     { h.send(Event{Kind: EventError, Err: err}) }
func (h *ChanHandler) OnClose()              { h.send(Event{Kind: EventClose}) }

// HandlerFuncs adapts plain functions to Handler; nil funcs are no-ops
type HandlerFuncs struct {
	Open    func()
	Message func(line string)
	Error   func(err error)
	Close   func()
}

func (f HandlerFuncs) OnOpen() {
	if f.Open != nil {
		f.Open()
	}
}

func (f HandlerFuncs) OnMessage(line string) {
	if f.Message != nil {
		f.Message(line)
	}
}

func (f HandlerFuncs) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

func (f HandlerFuncs) OnClose() {
	if f.Close != nil {
		f.Close()
	}
}
