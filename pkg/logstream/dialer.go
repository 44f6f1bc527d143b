package logstream

import (
	"context"
	"errors"

	"github.com/coder/websocket"
)

// Conn is one established streaming connection
type Conn interface {
	// Read blocks for the next frame and returns its payload as text
	Read(ctx context.Context) (string, error)
	Close() error
}

// Dialer establishes streaming connections
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials websocket connections
type WebsocketDialer struct {
	Options *websocket.DialOptions
}

// Dial opens a websocket connection to url
func (d WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	c, _, err := websocket.Dial(ctx, url, d.Options)
	if err != nil {
		return nil, err
	}
	// Log lines can be long stack traces
	c.SetReadLimit(-1)
	return &wsConn{c: c}, nil
}

type wsConn struct {
	c *websocket.Conn
}

func (w *wsConn) Read(ctx context.Context) (string, error) {
	_, data, err := w.c.Read(ctx)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (w *wsConn) Close() error {
	return w.c.Close(websocket.StatusNormalClosure, "viewer closed")
}

// IsNormalClosure reports whether err ends a stream without a transport failure:
// a close frame from the peer, whatever its status code, or the local side closing.
func IsNormalClosure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	var ce websocket.CloseError
	return errors.As(err, &ce)
}
