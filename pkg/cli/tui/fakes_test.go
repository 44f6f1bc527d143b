package tui

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"scrape-dash-go/pkg/logstream"
	"scrape-dash-go/pkg/scraper"
)

type fakeTrigger struct {
	mu    sync.Mutex
	resp  *scraper.StartResponse
	err   error
	calls int
}

func (f *fakeTrigger) StartScrape(context.Context) (*scraper.StartResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.resp, f.err
}

// scriptConn replays frames then ends with endErr (or blocks until closed when nil)
type scriptConn struct {
	frames     []string
	endErr     error
	pos        int
	closed     chan struct{}
	closeOnce  sync.Once
	closeCalls atomic.Int32
}

func newScriptConn(endErr error, frames ...string) *scriptConn {
	return &scriptConn{frames: frames, endErr: endErr, closed: make(chan struct{})}
}

func (c *scriptConn) Read(ctx context.Context) (string, error) {
	if c.pos < len(c.frames) {
		line := c.frames[c.pos]
		c.pos++
		return line, nil
	}
	if c.endErr != nil {
		return "", c.endErr
	}
	select {
	case <-c.closed:
		return "", io.EOF
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *scriptConn) Close() error {
	c.closeCalls.Add(1)
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// scriptDialer hands out a new conn per dial from conns, in order
type scriptDialer struct {
	mu    sync.Mutex
	conns []*scriptConn
	dials int
}

func (d *scriptDialer) Dial(context.Context, string) (logstream.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	conn := d.conns[d.dials]
	d.dials++
	return conn, nil
}
