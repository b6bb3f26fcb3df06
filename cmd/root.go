package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/capitolstream/hearings-cli/internal/config"
	"github.com/capitolstream/hearings-cli/internal/registry"
	"github.com/capitolstream/hearings-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "hearings",
	Short: "Match committee hearing videos to Congress.gov records",
	Long:  "Collects committee channel videos (Data API, RSS, page scrape) and Congress.gov committee meetings, matches them by date and title, and renders the results as CSV, XLSX or a browsable HTML viewer.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// initStore opens the SQLite store and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// loadRoster loads the channel roster, from file when configured.
func loadRoster() (*registry.Roster, error) {
	return registry.Load(cfg.YouTube.ChannelsFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
