package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/varlens/varlens-cli/internal/detect"
	"github.com/varlens/varlens-cli/internal/ingest"
	"github.com/varlens/varlens-cli/internal/registry"
	"github.com/varlens/varlens-cli/internal/report"
	"github.com/varlens/varlens-cli/internal/summary"
)

var (
	scanThreshold  float64
	scanRegistry   string
	scanSheetName  string
	scanSheetIndex int
	scanDelimiter  string
	scanOutput     string
	scanJSON       bool
	scanQuiet      bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Scan a dataset's columns for critical clinical variables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}

		threshold := c.Threshold
		if cmd.Flags().Changed("threshold") {
			threshold = scanThreshold
		}

		// Same resolution as the vars commands, so overrides saved through
		// 'vars add' apply to every scan.
		regFile := scanRegistry
		if regFile == "" {
			regFile, err = c.RegistryPath()
			if err != nil {
				return err
			}
		}
		reg, err := registry.Load(regFile)
		if err != nil {
			return err
		}

		opts := ingest.Options{SheetName: scanSheetName, SheetIndex: scanSheetIndex}
		if scanDelimiter != "" {
			switch scanDelimiter {
			case ",":
				opts.Delimiter = ','
			case "\t", "tab":
				opts.Delimiter = '\t'
			case ";":
				opts.Delimiter = ';'
			default:
				return fmt.Errorf("unsupported --delimiter: %s", scanDelimiter)
			}
		}
		ds, err := ingest.ReadDataset(args[0], opts)
		if err != nil {
			return err
		}

		results, err := detect.Detect(ds.Columns, reg, detect.Options{Threshold: threshold})
		if err != nil {
			return err
		}
		sum := summary.Summarize(results, c.Cutoffs())
		rep := report.New(ds, results, sum, threshold)

		// Route output: --output path, then stdout as JSON or markdown.
		if scanOutput != "" {
			if strings.EqualFold(filepath.Ext(scanOutput), ".json") {
				if err := rep.SaveJSON(scanOutput); err != nil {
					return err
				}
			} else {
				if err := os.WriteFile(scanOutput, []byte(rep.Markdown()), 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}
			if !scanQuiet {
				fmt.Printf("✓ Wrote report to %s\n", scanOutput)
			}
			return nil
		}
		if scanJSON {
			data, err := rep.JSON()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		if scanQuiet {
			fmt.Printf("%s: %d/%d variables detected (%s)\n",
				ds.Name, sum.Detected, sum.Total, sum.Quality)
			return nil
		}
		fmt.Print(rep.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Float64VarP(&scanThreshold, "threshold", "t", 0, "detection threshold in (0.0, 1.0] (default from config)")
	scanCmd.Flags().StringVarP(&scanRegistry, "registry", "r", "", "registry overrides file (default from config)")
	scanCmd.Flags().StringVar(&scanSheetName, "sheet-name", "", "XLSX sheet name (default first sheet)")
	scanCmd.Flags().IntVar(&scanSheetIndex, "sheet-index", 0, "XLSX sheet index, 1-based")
	scanCmd.Flags().StringVar(&scanDelimiter, "delimiter", "", "CSV delimiter: ','|';'|'tab' (default by extension)")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "write report to file (.json for JSON, otherwise markdown)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print the report as JSON")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "print a one-line summary only")
}
