// Package testutil provides a fake scraping service for tests: the
// scrape-start endpoint and the websocket log endpoint, served by gin.
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
)

const (
	TriggerPath = "/api/v1/scrap-ingredients"
	LogsPath    = "/ws/logs"
)

// Backend is a fake scraping service
type Backend struct {
	Server *httptest.Server

	mu             sync.Mutex
	triggerStatus  int
	triggerBody    string
	triggerDelay   time.Duration
	triggerCalls   int
	triggerBodies  []string
	logLines       []string
	closeAfterLogs bool
	closeStatus    websocket.StatusCode
	stalled        bool
	connections    int
	disconnected   chan struct{}
	stop           chan struct{}
}

// Option configures a Backend
type Option func(*Backend)

// WithTriggerResponse sets the status and raw body returned by the trigger endpoint
func WithTriggerResponse(status int, body string) Option {
	return func(b *Backend) {
		b.triggerStatus = status
		b.triggerBody = body
	}
}

// WithTriggerDelay delays the trigger response
func WithTriggerDelay(d time.Duration) Option {
	return func(b *Backend) { b.triggerDelay = d }
}

// WithLogLines sets the frames written to each log connection
func WithLogLines(lines ...string) Option {
	return func(b *Backend) { b.logLines = lines }
}

// WithCloseAfterLogs makes the server close the log connection normally
// after writing its lines instead of holding it open
func WithCloseAfterLogs() Option {
	return func(b *Backend) { b.closeAfterLogs = true }
}

// WithCloseStatus makes the server close the log connection with code
// after writing its lines
func WithCloseStatus(code websocket.StatusCode) Option {
	return func(b *Backend) {
		b.closeAfterLogs = true
		b.closeStatus = code
	}
}

// WithStalledLogs makes the log endpoint stop reading after its lines, so a
// client close handshake is never answered
func WithStalledLogs() Option {
	return func(b *Backend) { b.stalled = true }
}

// NewBackend starts a fake backend that is shut down when the test ends
func NewBackend(t testing.TB, opts ...Option) *Backend {
	t.Helper()

	b := &Backend{
		triggerStatus: http.StatusOK,
		triggerBody:   `{"message":"Scraping started"}`,
		closeStatus:   websocket.StatusNormalClosure,
		disconnected:  make(chan struct{}, 16),
		stop:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST(TriggerPath, b.handleTrigger)
	router.GET(LogsPath, b.handleLogs)

	b.Server = httptest.NewServer(router)
	t.Cleanup(b.Server.Close)
	// Runs before Server.Close so stalled handlers can return
	t.Cleanup(func() { close(b.stop) })
	return b
}

// URL returns the backend's base URL
func (b *Backend) URL() string {
	return b.Server.URL
}

// TriggerCalls returns how many scrape-start requests were received
func (b *Backend) TriggerCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.triggerCalls
}

// TriggerBodies returns the raw request bodies received by the trigger endpoint
func (b *Backend) TriggerBodies() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.triggerBodies...)
}

// Connections returns how many log connections were accepted
func (b *Backend) Connections() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connections
}

// Disconnected receives once per log connection the client closed
func (b *Backend) Disconnected() <-chan struct{} {
	return b.disconnected
}

func (b *Backend) handleTrigger(c *gin.Context) {
	body, _ := c.GetRawData()

	b.mu.Lock()
	b.triggerCalls++
	b.triggerBodies = append(b.triggerBodies, string(body))
	status, respBody, delay := b.triggerStatus, b.triggerBody, b.triggerDelay
	b.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return
		}
	}

	c.Data(status, "application/json", []byte(respBody))
}

func (b *Backend) handleLogs(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.CloseNow()

	b.mu.Lock()
	b.connections++
	lines, closeAfter, status, stalled := b.logLines, b.closeAfterLogs, b.closeStatus, b.stalled
	b.mu.Unlock()

	ctx := c.Request.Context()
	for _, line := range lines {
		if err := conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
			return
		}
	}

	if stalled {
		<-b.stop
		return
	}

	if closeAfter {
		conn.Close(status, "done")
		return
	}

	readCtx := conn.CloseRead(context.Background())
	<-readCtx.Done()
	b.disconnected <- struct{}{}
}
