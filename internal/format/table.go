package format

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/Andrei-Barwood/pwaudit/internal/model"
)

var statusColors = map[model.Status]*color.Color{
	model.StatusWeak:     color.New(color.FgRed, color.Bold),
	model.StatusModerate: color.New(color.FgYellow, color.Bold),
	model.StatusStrong:   color.New(color.FgGreen, color.Bold),
}

// Status colours a verdict label. Colour follows color.NoColor.
func Status(s model.Status) string {
	return Colorize(s, string(s))
}

// Colorize prints text in the colour of status s.
func Colorize(s model.Status, text string) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(text)
	}
	return text
}

// Table writes the batch report as aligned columns.
func Table(w io.Writer, results []model.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No passwords found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PASSWORD\tENTROPY\tSTATUS\tMISSING ELEMENTS\tSTRONG PASSWORD SUGGESTION")
	fmt.Fprintln(tw, "--------\t-------\t------\t----------------\t--------------------------")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Password,
			Entropy(r.Entropy),
			Status(r.Status),
			r.MissingText(),
			r.Strong,
		)
	}
	return tw.Flush()
}
