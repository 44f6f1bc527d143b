package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"scrape-dash-go/pkg/cli/logger"
	"scrape-dash-go/pkg/scraper"
)

// HandleRunCommand triggers one scraping job and prints the server's message
func (a *App) HandleRunCommand(ctx context.Context, w io.Writer) error {
	trigger, err := a.getTrigger()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "⏳ Starting scraping via %s...\n", trigger.Endpoint())

	resp, err := trigger.StartScrape(ctx)
	if err != nil {
		logger.WithFields(scraper.ErrorFields(err)).
			WithField("endpoint", trigger.Endpoint()).
			Error("scrape trigger failed")
		return err
	}

	logger.WithFields(logrus.Fields{"endpoint": trigger.Endpoint()}).Info("scrape trigger succeeded")
	fmt.Fprintf(w, "✓ %s\n", resp.Message)
	return nil
}
