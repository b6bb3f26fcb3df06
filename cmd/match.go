package main

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/capitolstream/hearings-cli/internal/adjudicator"
	"github.com/capitolstream/hearings-cli/internal/matcher"
	"github.com/capitolstream/hearings-cli/internal/report"
	anthropicpkg "github.com/capitolstream/hearings-cli/pkg/anthropic"
)

var matchNoLLM bool

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match stored videos against stored Congress.gov meetings",
	Long:  "Scores every stored video against the candidate meetings around its date. Confident matches are accepted directly; the ambiguous band is referred to the LLM adjudicator unless --no-llm is set or no API key is configured.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		videos, err := st.ListVideos(ctx)
		if err != nil {
			return err
		}
		events, err := st.ListEvents(ctx)
		if err != nil {
			return err
		}
		if len(videos) == 0 {
			return eris.New("match: no videos in store (run 'hearings fetch videos' first)")
		}
		if len(events) == 0 {
			return eris.New("match: no meetings in store (run 'hearings fetch events' first)")
		}

		var adj matcher.Adjudicator
		if !matchNoLLM && cfg.Anthropic.Key != "" {
			adj = adjudicator.New(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
		} else {
			zap.L().Info("match: adjudication disabled",
				zap.Bool("no_llm", matchNoLLM),
				zap.Bool("key_configured", cfg.Anthropic.Key != ""),
			)
		}

		run, err := st.CreateRun(ctx)
		if err != nil {
			return err
		}

		result := matcher.New(cfg.Matcher, adj).Run(ctx, videos, events)

		outPath := filepath.Join(cfg.Report.Dir, report.DefaultFilename)
		if err := report.WriteJSON(result, outPath); err != nil {
			if ferr := st.FailRun(ctx, run.ID, err); ferr != nil {
				zap.L().Error("match: record run failure", zap.Error(ferr))
			}
			return err
		}
		if err := st.CompleteRun(ctx, run.ID, result); err != nil {
			return err
		}

		fmt.Println(report.SummaryTable(result))
		fmt.Printf("Report written to %s\n", outPath)
		return nil
	},
}

func init() {
	matchCmd.Flags().BoolVar(&matchNoLLM, "no-llm", false, "disable LLM adjudication of ambiguous matches")
	rootCmd.AddCommand(matchCmd)
}
