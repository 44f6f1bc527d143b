package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"scrape-dash-go/pkg/cli/logger"
	"scrape-dash-go/pkg/logstream"
)

// HandleLogsCommand prints log lines, one per frame, until the stream ends
// or ctx is cancelled. A transport error is returned; a normal close is not.
func (a *App) HandleLogsCommand(ctx context.Context, w io.Writer) error {
	url, err := a.logsURL()
	if err != nil {
		return err
	}

	var streamErr error
	stream := logstream.New(url, a.dialer, logstream.HandlerFuncs{
		Open: func() {
			logger.Log("log stream connected: %s", url)
		},
		Message: func(line string) {
			fmt.Fprintln(w, line)
		},
		Error: func(err error) {
			logger.LogError(err, "log stream error")
			streamErr = err
		},
		Close: func() {
			logger.Log("log stream closed: %s", url)
		},
	})
	defer stream.Close()

	stream.Start()

	select {
	case <-stream.Done():
	case <-ctx.Done():
		stream.Close()
		<-stream.Done()
	}

	// Done happens after the last hook, so streamErr is safe to read
	if streamErr != nil {
		return errors.Wrapf(streamErr, "log stream %s failed", url)
	}
	return nil
}
