package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Andrei-Barwood/pwaudit/internal/model"
	"github.com/Andrei-Barwood/pwaudit/internal/report"
)

func (a *App) reportCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Render a saved report as table, summary, json or markdown",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat = strings.ToLower(strings.TrimSpace(outputFormat))
			switch outputFormat {
			case "table", "summary", "json", "markdown", "md":
			default:
				return usageError{fmt.Errorf("invalid format: %s", outputFormat)}
			}

			results, err := report.Load(args[0])
			if err != nil {
				return err
			}
			a.logger.Printf("loaded %d rows from %s", len(results), args[0])

			batch := model.BatchResult{Source: args[0], Results: results}
			return a.renderBatch(a.Out, batch, outputFormat, "")
		},
	}

	cmd.Flags().StringVar(&outputFormat, "format", "table", "Output format: table|summary|json|markdown")
	return cmd
}

func (a *App) recommendCommand() *cobra.Command {
	var (
		out          string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "recommend FILE",
		Short: "Turn a saved report into prioritized actions",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := report.Load(args[0])
			if err != nil {
				return err
			}

			recs := report.BuildRecommendations(results)
			var payload []byte
			switch strings.ToLower(strings.TrimSpace(outputFormat)) {
			case "table":
				payload = []byte(renderRecommendationsTable(recs))
			case "json":
				payload, err = json.MarshalIndent(recs, "", "  ")
				if err != nil {
					return err
				}
				payload = append(payload, '\n')
			default:
				return usageError{fmt.Errorf("invalid format: %s", outputFormat)}
			}

			if out != "" {
				if err := report.Save(out, payload); err != nil {
					return err
				}
			}

			_, err = a.Out.Write(payload)
			return err
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Optional output path")
	cmd.Flags().StringVar(&outputFormat, "format", "table", "Output format: table|json")
	return cmd
}

func renderRecommendationsTable(recs []report.Recommendation) string {
	if len(recs) == 0 {
		return "No recommendations.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-8s  %-40s  %-8s  %s\n", "PRIORITY", "ISSUE", "COUNT", "ACTION")
	fmt.Fprintf(&b, "%-8s  %-40s  %-8s  %s\n", "--------", strings.Repeat("-", 40), "-----", "------")
	for _, r := range recs {
		fmt.Fprintf(
			&b,
			"%-8s  %-40s  %-8d  %s\n",
			r.Priority,
			truncate(r.Title, 40),
			r.Count,
			r.Action,
		)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n < 4 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
