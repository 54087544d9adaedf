package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Andrei-Barwood/pwaudit/internal/format"
	"github.com/Andrei-Barwood/pwaudit/internal/model"
	"github.com/Andrei-Barwood/pwaudit/internal/strength"
)

type analysis struct {
	Strength    string   `json:"strength"`
	Entropy     float64  `json:"entropy"`
	Missing     []string `json:"missing"`
	Suggestions []string `json:"suggestions"`
	Strong      string   `json:"strong_password,omitempty"`
}

func (a *App) analyzeCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "analyze [password]",
		Short: "Analyze a single password",
		Long: "Analyze a single password. Without an argument the password is read from a hidden " +
			"terminal prompt, or from the first line of stdin when input is piped.",
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			render := renderAnalysis
			switch strings.ToLower(strings.TrimSpace(outputFormat)) {
			case "text":
			case "json":
				render = renderAnalysisJSON
			default:
				return usageError{fmt.Errorf("invalid format: %s", outputFormat)}
			}

			pw, err := a.readPassword(args)
			if err != nil {
				return err
			}

			ev, err := a.cfg.Evaluator().Evaluate(pw)
			if err != nil {
				return err
			}
			a.logger.Printf("analyzed one password under %s policy", a.cfg.Policy)
			return render(a.Out, ev)
		},
	}

	cmd.Flags().StringVar(&outputFormat, "format", "text", "Output format: text|json")
	cmd.Flags().Int("length", strength.DefaultTargetLength, "Length of the suggested replacement password")
	cmd.Flags().Bool("ensure-coverage", false, "Make suggestions contain every character class")
	return cmd
}

func renderAnalysis(w io.Writer, ev strength.Evaluation) error {
	status := format.Colorize(model.Status(ev.Verdict.String()), ev.Verdict.Title())
	missing := strength.JoinMissing(ev.Missing)

	fmt.Fprintf(w, "%s password (Entropy: %s)\n", status, format.Entropy(ev.Entropy))
	if ev.Verdict == strength.Strong {
		fmt.Fprintf(w, "Missing (optional improvements): %s\n", missing)
	} else {
		fmt.Fprintf(w, "Missing: %s\n", missing)
	}
	if ev.Generated != "" {
		fmt.Fprintf(w, "Suggested strong password: %s\n", ev.Generated)
	}

	if len(ev.Suggestions) == 0 {
		_, err := fmt.Fprintln(w, "Great! Your password looks strong.")
		return err
	}
	fmt.Fprintln(w, "Suggestions:")
	for _, s := range ev.Suggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	return nil
}

func renderAnalysisJSON(w io.Writer, ev strength.Evaluation) error {
	out := analysis{
		Strength:    ev.Verdict.String(),
		Entropy:     ev.Entropy,
		Missing:     strength.Labels(ev.Missing),
		Suggestions: ev.Suggestions,
		Strong:      ev.Generated,
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
