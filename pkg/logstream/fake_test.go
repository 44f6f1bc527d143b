package logstream

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// fakeConn feeds frames from a channel and counts Close calls
type fakeConn struct {
	frames     chan string
	readErr    chan error
	closed     chan struct{}
	closeOnce  sync.Once
	closeCalls atomic.Int32
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		frames:  make(chan string, 64),
		readErr: make(chan error, 1),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) Read(ctx context.Context) (string, error) {
	// Queued frames win over a queued error so tests see them in order
	select {
	case line := <-c.frames:
		return line, nil
	default:
	}

	select {
	case line := <-c.frames:
		return line, nil
	case err := <-c.readErr:
		return "", err
	case <-c.closed:
		return "", io.EOF
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *fakeConn) Close() error {
	c.closeCalls.Add(1)
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// fakeDialer hands out conn, optionally waiting on release before returning
type fakeDialer struct {
	conn      *fakeConn
	err       error
	release   chan struct{}
	dialed    chan struct{}
	ignoreCtx bool
}

func (d *fakeDialer) Dial(ctx context.Context, _ string) (Conn, error) {
	if d.dialed != nil {
		close(d.dialed)
	}
	if d.release != nil {
		if d.ignoreCtx {
			<-d.release
		} else {
			select {
			case <-d.release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}

// recorder is a Handler that records hook calls in order
type recorder struct {
	mu     sync.Mutex
	calls  []string
	lines  []string
	errs   []error
	closed chan struct{}
}

func newRecorder() *recorder {
	return &recorder{closed: make(chan struct{}, 1)}
}

func (r *recorder) OnOpen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "open")
}

func (r *recorder) OnMessage(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "message")
	r.lines = append(r.lines, line)
}

func (r *recorder) OnError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "error")
	r.errs = append(r.errs, err)
}

func (r *recorder) OnClose() {
	r.mu.Lock()
	r.calls = append(r.calls, "close")
	r.mu.Unlock()
	r.closed <- struct{}{}
}

func (r *recorder) snapshot() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...), append([]string(nil), r.lines...)
}

var errReset = errors.New("connection reset by peer")
