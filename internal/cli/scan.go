package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Andrei-Barwood/pwaudit/internal/format"
	"github.com/Andrei-Barwood/pwaudit/internal/model"
	"github.com/Andrei-Barwood/pwaudit/internal/report"
	"github.com/Andrei-Barwood/pwaudit/internal/scanner"
	"github.com/Andrei-Barwood/pwaudit/internal/strength"
)

func (a *App) scanCommand() *cobra.Command {
	var (
		outPath      string
		noExport     bool
		stdoutFormat string
	)

	cmd := &cobra.Command{
		Use:   "scan FILE",
		Short: "Scan a delimited file of passwords and export a report",
		Long: "Scan a delimited file of passwords. Each row's first field is a password unless --column " +
			"names a header column. The report is exported next to the input as <name>_report.csv.",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			switch stdoutFormat = strings.ToLower(strings.TrimSpace(stdoutFormat)); stdoutFormat {
			case "table", "summary", "json", "markdown", "md", "csv":
			default:
				return usageError{fmt.Errorf("invalid format: %s", stdoutFormat)}
			}

			exportPath := ""
			if !noExport {
				exportPath = outPath
				if exportPath == "" {
					exportPath = report.DefaultPath(input)
				}
				if filepath.Clean(exportPath) == filepath.Clean(input) {
					return fmt.Errorf("refusing to overwrite input file %s with the report", input)
				}
			}

			s := scanner.New(scanner.Options{
				Path:      input,
				Column:    a.cfg.Column,
				Encoding:  a.cfg.Encoding,
				Delimiter: a.cfg.Delimiter,
				Workers:   a.cfg.Workers,
				Evaluator: a.cfg.Evaluator(),
			})

			started := time.Now()
			result, err := s.Scan(cmd.Context())
			if err != nil {
				return fmt.Errorf("scan %s: %w", input, err)
			}
			a.logger.Printf("scanned %s: %d passwords in %s (run %s)", input, len(result.Results), time.Since(started).Round(time.Millisecond), result.ID)

			if len(result.Results) == 0 {
				_, err := fmt.Fprintln(a.Out, "No passwords found in the file.")
				return err
			}

			if exportPath != "" {
				data, err := format.CSV(result.Results, a.cfg.Layout)
				if err != nil {
					return err
				}
				if err := report.Save(exportPath, data); err != nil {
					return err
				}
				fmt.Fprintf(a.Err, "Exported password report to %s\n", exportPath)
			}

			return a.renderBatch(a.Out, result, stdoutFormat, exportPath)
		},
	}

	f := cmd.Flags()
	f.StringVar(&outPath, "out", "", "Report path (default <input>_report.csv)")
	f.BoolVar(&noExport, "no-export", false, "Do not write a report file")
	f.StringVar(&stdoutFormat, "format", "table", "Output format: table|summary|json|markdown|csv")
	f.String("column", "", "Read passwords from the named header column instead of the first field")
	f.String("encoding", "", "Input encoding, e.g. utf-16, gbk, windows-1252 (default: UTF-8, UTF-16 by BOM)")
	f.String("delimiter", ",", "Field delimiter: a single character, or comma|semicolon|tab")
	f.Int("workers", 0, "Parallel evaluations (default: number of CPUs)")
	f.String("layout", string(format.LayoutReport), "Exported file layout: report|results")
	f.Int("length", strength.DefaultTargetLength, "Length of suggested replacement passwords")
	f.Bool("ensure-coverage", false, "Make suggestions contain every character class")
	return cmd
}

func (a *App) renderBatch(w io.Writer, result model.BatchResult, outputFormat, exportPath string) error {
	switch outputFormat {
	case "table":
		if err := format.Table(w, result.Results); err != nil {
			return err
		}
		printNotes(w, result.Notes)
		return nil
	case "summary":
		printSummary(w, result, report.Summarize(result.Results), exportPath)
		return nil
	case "json":
		b, err := format.JSON(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case "markdown", "md":
		b, err := format.Markdown(result)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case "csv":
		b, err := format.CSV(result.Results, a.cfg.Layout)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return usageError{fmt.Errorf("invalid format: %s", outputFormat)}
	}
}

func printSummary(w io.Writer, result model.BatchResult, s report.Summary, exportPath string) {
	fmt.Fprintln(w, "pwaudit scan summary")
	if result.Source != "" {
		fmt.Fprintf(w, "- source: %s\n", result.Source)
	}
	if result.Policy != "" {
		fmt.Fprintf(w, "- policy: %s\n", result.Policy)
	}
	fmt.Fprintf(w, "- passwords: %d\n", s.Total)
	fmt.Fprintf(w, "- weak: %d\n", s.Weak)
	fmt.Fprintf(w, "- moderate: %d\n", s.Moderate)
	fmt.Fprintf(w, "- strong: %d\n", s.Strong)
	if s.Total > 0 {
		fmt.Fprintf(w, "- entropy: min %s, mean %s, max %s\n",
			format.Entropy(s.MinEntropy), format.Entropy(s.MeanEntropy), format.Entropy(s.MaxEntropy))
	}
	if exportPath != "" {
		fmt.Fprintf(w, "- saved: %s\n", exportPath)
	}
	printNotes(w, result.Notes)
}

func printNotes(w io.Writer, notes []string) {
	if len(notes) == 0 {
		return
	}
	fmt.Fprintln(w, "- notes:")
	for _, note := range notes {
		fmt.Fprintf(w, "  - %s\n", note)
	}
}
