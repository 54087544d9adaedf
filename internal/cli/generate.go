package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Andrei-Barwood/pwaudit/internal/strength"
)

func (a *App) generateCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random strong passwords",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return usageError{fmt.Errorf("count must be > 0, got %d", count)}
			}
			eval := a.cfg.Evaluator()
			for i := 0; i < count; i++ {
				pw, err := eval.Suggest()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.Out, pw)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of passwords to generate")
	cmd.Flags().Int("length", strength.DefaultTargetLength, "Password length")
	cmd.Flags().Bool("ensure-coverage", false, "Redraw until every character class is present")
	return cmd
}
