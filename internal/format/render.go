package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Andrei-Barwood/pwaudit/internal/model"
)

func JSON(result model.BatchResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

func Markdown(result model.BatchResult) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# pwaudit report\n\n")
	if result.ID != "" {
		fmt.Fprintf(&b, "- Run: `%s`\n", result.ID)
	}
	if !result.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- Generated: `%s`\n", result.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	}
	if result.Source != "" {
		fmt.Fprintf(&b, "- Source: `%s`\n", result.Source)
	}
	if result.Policy != "" {
		fmt.Fprintf(&b, "- Policy: `%s`\n", result.Policy)
	}
	fmt.Fprintf(&b, "- Passwords: `%d`\n\n", len(result.Results))

	if len(result.Results) == 0 {
		b.WriteString("No passwords found.\n")
	} else {
		b.WriteString("| Password | Entropy | Status | Missing elements | Strong password |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, r := range result.Results {
			fmt.Fprintf(&b, "| %s | %.2f | %s | %s | %s |\n",
				mdCell(r.Password),
				r.Entropy,
				r.Status,
				r.MissingText(),
				mdCell(r.Strong),
			)
		}
		b.WriteString("\n")
	}

	if len(result.Notes) > 0 {
		b.WriteString("## Notes\n\n")
		for _, note := range result.Notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// mdCell keeps table cells intact; passwords may contain pipes and backticks.
func mdCell(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	fence := strings.Repeat("`", longestRun(s, '`')+1)
	return fence + " " + s + " " + fence
}

func longestRun(s string, c rune) int {
	longest, n := 0, 0
	for _, r := range s {
		if r != c {
			n = 0
			continue
		}
		n++
		longest = max(longest, n)
	}
	return longest
}
