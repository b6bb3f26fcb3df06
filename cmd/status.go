package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/capitolstream/hearings-cli/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store contents and the latest matching run",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.ListEvents(ctx)
		if err != nil {
			return err
		}
		videos, err := st.ListVideos(ctx)
		if err != nil {
			return err
		}
		run, err := st.LatestRun(ctx)
		if err != nil {
			return err
		}

		dated, exact := 0, 0
		for i := range videos {
			if videos[i].HasDate() {
				dated++
			}
			if videos[i].DateSource == model.DateSourceExact {
				exact++
			}
		}

		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendRows([]table.Row{
			{"Congress meetings", len(events)},
			{"Videos", len(videos)},
			{"Videos with dates", dated},
			{"Videos with exact dates", exact},
		})
		fmt.Println(tw.Render())

		if run == nil {
			fmt.Println("No matching runs yet.")
			return nil
		}

		fmt.Printf("Latest run %s: %s (started %s)\n",
			run.ID, run.Status, run.StartedAt.Format("2006-01-02 15:04:05"))
		if run.Status == model.RunStatusFailed && run.Error != "" {
			fmt.Printf("  error: %s\n", run.Error)
		}
		if run.Report != nil {
			fmt.Printf("  matched %d of %d videos (%s)\n",
				run.Report.Metadata.Matched,
				run.Report.Metadata.TotalVideos,
				run.Report.Metadata.MatchRate,
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
