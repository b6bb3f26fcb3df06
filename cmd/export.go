package main

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/capitolstream/hearings-cli/internal/report"
)

var (
	exportFormat string
	exportInput  string
	exportOutput string
	exportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the match report as CSV, XLSX or HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		input := exportInput
		if input == "" {
			input = filepath.Join(cfg.Report.Dir, report.DefaultFilename)
		}
		r, err := report.LoadJSON(input)
		if err != nil {
			return err
		}

		outDir := exportOutput
		if outDir == "" {
			outDir = cfg.Report.Dir
		}

		write := func(format string) error {
			path := filepath.Join(outDir, "matches."+format)
			var err error
			switch format {
			case "csv":
				err = report.ExportCSV(r, path)
			case "xlsx":
				err = report.ExportXLSX(r, path)
			case "html":
				err = report.ExportHTML(r, path)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		}

		switch exportFormat {
		case "csv", "xlsx", "html":
			return write(exportFormat)
		case "table":
			fmt.Println(report.SummaryTable(r))
			fmt.Println(report.MatchesTable(r, exportLimit))
			return nil
		case "all":
			for _, format := range []string{"csv", "xlsx", "html"} {
				if err := write(format); err != nil {
					return err
				}
			}
			return nil
		default:
			return eris.Errorf("export: unknown format %q (want csv, xlsx, html, table or all)", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv, xlsx, html, table or all")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 25, "row cap for table output (0 for all)")
	exportCmd.Flags().StringVar(&exportInput, "input", "", "report JSON path (default: report dir)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output directory (default: report dir)")
	rootCmd.AddCommand(exportCmd)
}
