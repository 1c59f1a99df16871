// ABOUTME: CLI commands for exporting and importing workout data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/workouts/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	exportOutput string
	exportSince  string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export workout data",
	Long: `Export workout data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable, also importable)
  markdown   Logged sessions as Markdown tables

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include sessions started since this date (markdown only)

EXAMPLES:

  workouts export json                        # Export all data as JSON
  workouts export json -o backup.json         # Save to file
  workouts export yaml                        # Export as YAML
  workouts export markdown --since 2025-01-01 # Training log for 2025`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		ctx := cmd.Context()

		var data []byte
		switch format {
		case "json", "yaml":
			all, err := repo.GetAllData(ctx)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			if format == "json" {
				data, err = json.MarshalIndent(all, "", "  ")
			} else {
				data, err = yaml.Marshal(all)
			}
			if err != nil {
				return fmt.Errorf("encode %s: %w", format, err)
			}
		case "markdown":
			var since *time.Time
			if exportSince != "" {
				t, err := time.ParseInLocation("2006-01-02", exportSince, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			md, err := exportMarkdown(cmd, since)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			printSuccess(out, "Exported to %s", exportOutput)
			return nil
		}
		fmt.Fprintln(out, strings.TrimRight(string(data), "\n"))
		return nil
	},
}

// exportMarkdown renders via the SQL store; other Repository
// implementations have no Markdown renderer.
func exportMarkdown(cmd *cobra.Command, since *time.Time) (string, error) {
	db, ok := repo.(*storage.DB)
	if !ok {
		return "", fmt.Errorf("markdown export is not supported by this backend")
	}
	return db.ExportMarkdown(cmd.Context(), since)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import workout data from JSON or YAML",
	Long: `Import workout data from a JSON or YAML export.

Row IDs are kept, so the database must not already hold rows with the
same IDs. The import runs in one transaction: on any error nothing is
written.

EXAMPLES:

  workouts import backup.json
  workouts import backup.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		format := importFormat
		if format == "" {
			switch strings.ToLower(filepath.Ext(filename)) {
			case ".json":
				format = "json"
			case ".yaml", ".yml":
				format = "yaml"
			}
		}

		data, err := storage.DecodeExport(raw, format)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if err := repo.ImportData(cmd.Context(), data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		counts := data.Counts()
		out := cmd.OutOrStdout()
		printSuccess(out, "Imported from %s", filename)
		fmt.Fprintf(out, "  %d workouts, %d exercises, %d sets, %d set logs\n",
			counts["workout"], counts["exercise"], counts["workout_exercise_set"], counts["workout_exercise_set_log"])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include sessions since date (YYYY-MM-DD)")

	importCmd.Flags().StringVar(&importFormat, "format", "", "json or yaml (default: from extension)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
