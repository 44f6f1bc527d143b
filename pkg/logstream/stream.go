package logstream

import (
	"context"
	"sync"
	"time"
)

// closeGrace bounds how long Close waits for the peer to answer the close
// handshake before the connection is dropped.
var closeGrace = 250 * time.Millisecond

// Stream is one streaming connection owned by a single viewer. It moves
// disconnected → connecting → connected → closed|errored and never
// reconnects; a fresh Stream is needed to connect again.
type Stream struct {
	url     string
	dialer  Dialer
	handler Handler

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State
	conn    Conn
	started bool
	closing bool

	closeOnce sync.Once
	done      chan struct{}
}

// New creates a stream in the disconnected state. Nothing is dialed until Start.
func New(url string, dialer Dialer, handler Handler) *Stream {
	if dialer == nil {
		dialer = WebsocketDialer{}
	}
	if handler == nil {
		handler = HandlerFuncs{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Stream{
		url:     url,
		dialer:  dialer,
		handler: handler,
		ctx:     ctx,
		cancel:  cancel,
		state:   StateDisconnected,
		done:    make(chan struct{}),
	}
}

// URL returns the endpoint this stream connects to
func (s *Stream) URL() string {
	return s.url
}

// State returns the current lifecycle state
func (s *Stream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed when the read loop has exited
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Start dials in the background. Calling it again, or after Close, is a no-op.
func (s *Stream) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	if s.closing {
		s.state = StateClosed
		s.mu.Unlock()
		close(s.done)
		return
	}
	s.state = StateConnecting
	s.mu.Unlock()

	go s.run()
}

// Close releases the connection. It is safe to call in any state and from
// any goroutine; only the first call has an effect. It returns within
// closeGrace even when the peer never answers the close handshake.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closing = true
		conn := s.conn
		started := s.started
		if !started {
			s.state = StateClosed
		}
		s.mu.Unlock()

		if conn != nil {
			closed := make(chan struct{})
			go func() {
				defer close(closed)
				_ = conn.Close()
			}()
			select {
			case <-closed:
			case <-time.After(closeGrace):
			}
		}
		// Unblocks the reader, which also lets a stalled handshake finish
		s.cancel()
	})
}

func (s *Stream) run() {
	defer close(s.done)

	conn, err := s.dialer.Dial(s.ctx, s.url)
	if err != nil {
		s.finish(err)
		return
	}

	s.mu.Lock()
	if s.closing {
		// Torn down while dialing: the late connection is ours to release.
		s.state = StateClosed
		s.mu.Unlock()
		_ = conn.Close()
		s.handler.OnClose()
		return
	}
	s.conn = conn
	s.state = StateConnected
	s.mu.Unlock()

	s.handler.OnOpen()

	for {
		line, err := conn.Read(s.ctx)
		if err != nil {
			s.finish(err)
			return
		}
		s.handler.OnMessage(line)
	}
}

// finish moves to a terminal state and fires the matching hooks
func (s *Stream) finish(err error) {
	s.mu.Lock()
	clientClosed := s.closing
	if clientClosed || IsNormalClosure(err) {
		s.state = StateClosed
	} else {
		s.state = StateErrored
	}
	errored := s.state == StateErrored
	s.mu.Unlock()

	if errored {
		s.handler.OnError(err)
	}
	s.handler.OnClose()
}
