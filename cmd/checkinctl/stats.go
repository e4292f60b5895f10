package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/foylaou/ExpoPass-sub000/internal/app"
)

func newStatsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print analytics reports as JSON",
	}

	var limit int
	event := &cobra.Command{
		Use:   "event <event-id>",
		Short: "Event overview with coverage and rankings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.analytics(cmd, app.WithRankingLimit(limit))
			if err != nil {
				return err
			}
			defer closeFn()

			stats, err := svc.GetEventStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, stats)
		},
	}
	event.Flags().IntVar(&limit, "limit", 10, "entries per ranking")

	booth := &cobra.Command{
		Use:   "booth <booth-id>",
		Short: "Visitor counts and daily histogram for a booth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.analytics(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			stats, err := svc.GetBoothStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			daily, err := svc.GetDailyHistogram(cmd.Context(), args[0], app.DateRange{})
			if err != nil {
				return err
			}
			return printJSON(cmd, struct {
				Stats any `json:"stats"`
				Daily any `json:"daily"`
			}{stats, daily})
		},
	}

	cmd.AddCommand(event, booth)
	return cmd
}

func (c *cli) analytics(cmd *cobra.Command, opts ...app.AnalyticsServiceOption) (*app.AnalyticsService, func(), error) {
	b, cfg, err := c.open(cmd.Context(), false)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]app.AnalyticsServiceOption{app.WithLocation(cfg.ReportLocation)}, opts...)
	return app.NewAnalyticsService(b.Analytics, b.Lookup, opts...), b.Close, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
