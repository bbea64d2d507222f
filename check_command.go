package main

import (
	"fmt"
	"time"

	"github.com/borgmon/agenda/pkg/calendar"
	"github.com/borgmon/agenda/pkg/models"
	"github.com/urfave/cli/v2"
)

// checkCommand fetches a feed the way a subscription sync would and prints
// what would be shown
func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Fetch an iCal URL and list the events a subscription to it would show.",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Value: 7, Usage: "How many days ahead to expand."},
		},
		Action: func(c *cli.Context) error {
			url := c.Args().First()
			if url == "" {
				return fmt.Errorf("an iCal URL is required")
			}

			config := &models.Config{SubscriptionDays: c.Int("days")}
			from, to := config.SubscriptionWindow(time.Now())
			source := models.ICalSource{ID: "check", Name: url, URL: url}

			events, err := calendar.NewFetcher().FetchEvents(c.Context, source, from, to)
			if err != nil {
				return fmt.Errorf("failed to fetch %s: %w", url, err)
			}

			for _, event := range events {
				fmt.Printf("%s - %s  %s\n",
					event.Start.Format("Mon 2 Jan 15:04"),
					event.End.Format("15:04"),
					event.Title)
			}
			fmt.Printf("%d events between %s and %s\n", len(events), from.Format("2 Jan"), to.Format("2 Jan"))
			return nil
		},
	}
}
