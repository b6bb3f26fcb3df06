package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/capitolstream/hearings-cli/internal/ingest"
	"github.com/capitolstream/hearings-cli/internal/resilience"
	"github.com/capitolstream/hearings-cli/pkg/congress"
	"github.com/capitolstream/hearings-cli/pkg/youtube"
)

var (
	fetchCongresses []int
	fetchCommittees []string
	fetchSource     string
	fetchReset      bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch source data into the local store",
}

var fetchEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Fetch Congress.gov committee meetings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Congress.Key == "" {
			return eris.New("fetch: congress.key not configured (set HEARINGS_CONGRESS_KEY)")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if fetchReset {
			if err := st.ClearCheckpoints(ctx); err != nil {
				return err
			}
			zap.L().Info("fetch: checkpoints cleared")
		}

		codes := fetchCommittees
		if len(codes) == 0 {
			roster, err := loadRoster()
			if err != nil {
				return err
			}
			codes = roster.CommitteeCodes()
		}

		client := congress.NewClient(cfg.Congress.Key,
			congress.WithBaseURL(cfg.Congress.BaseURL),
			congress.WithRateLimit(cfg.Congress.RateLimit),
			congress.WithPageSize(cfg.Congress.PageSize),
		)

		fetcher := ingest.NewEventFetcher(client, st, resilience.DefaultRetryConfig())
		stats, err := fetcher.Fetch(ctx, codes, fetchCongresses)
		if err != nil {
			return err
		}

		fmt.Printf("Fetched %d meetings across %d committee/congress units (%d skipped, %d errors)\n",
			stats.Fetched, stats.Units, stats.Skipped, stats.Errors)
		return nil
	},
}

var fetchVideosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Fetch committee channel videos",
	Long:  "Collects videos from every roster channel through one source: data_api (requires a YouTube Data API key), rss (keyless, latest 15 per channel) or scrape (keyless, approximate dates).",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if fetchReset {
			if err := st.ClearCheckpoints(ctx); err != nil {
				return err
			}
			zap.L().Info("fetch: checkpoints cleared")
		}

		roster, err := loadRoster()
		if err != nil {
			return err
		}

		var api ingest.LivestreamLister
		if fetchSource == "data_api" {
			if cfg.YouTube.Key == "" {
				return eris.New("fetch: youtube.key not configured (set HEARINGS_YOUTUBE_KEY or use --source rss)")
			}
			client, err := youtube.NewDataAPIClient(ctx, cfg.YouTube.Key,
				youtube.WithDataAPIRateLimit(cfg.YouTube.RateLimit),
			)
			if err != nil {
				return err
			}
			api = client
		}

		fetcher := ingest.NewVideoFetcher(
			api,
			youtube.NewFeedClient(),
			youtube.NewScraper(),
			st, roster,
			resilience.DefaultRetryConfig(),
			cfg.YouTube.MaxPerChan,
		)

		stats, err := fetcher.Fetch(ctx, fetchSource)
		if err != nil {
			return err
		}

		fmt.Printf("Fetched %d videos from %d channels via %s (%d skipped, %d errors, %d stored)\n",
			stats.Fetched, stats.Channels, fetchSource, stats.Skipped, stats.Errors, stats.Stored)
		return nil
	},
}

func init() {
	fetchCmd.PersistentFlags().BoolVar(&fetchReset, "reset", false, "clear fetch checkpoints before fetching")

	fetchEventsCmd.Flags().IntSliceVar(&fetchCongresses, "congress", []int{118, 119}, "congress numbers to fetch")
	fetchEventsCmd.Flags().StringSliceVar(&fetchCommittees, "committee", nil, "committee system codes (default: all roster committees)")

	fetchVideosCmd.Flags().StringVar(&fetchSource, "source", "data_api", "video source: data_api, rss or scrape")

	fetchCmd.AddCommand(fetchEventsCmd)
	fetchCmd.AddCommand(fetchVideosCmd)
	rootCmd.AddCommand(fetchCmd)
}
