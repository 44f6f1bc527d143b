package tui

import (
	"github.com/google/uuid"

	"scrape-dash-go/pkg/logstream"
	"scrape-dash-go/pkg/scraper"
)

// scrapeDoneMsg is emitted when a trigger request completes. It is addressed
// to the widget instance that issued it.
type scrapeDoneMsg struct {
	widget uuid.UUID
	resp   *scraper.StartResponse
	err    error
}

// logEventMsg carries one stream hook call to the log widget instance that owns the stream
type logEventMsg struct {
	widget uuid.UUID
	event  logstream.Event
}
