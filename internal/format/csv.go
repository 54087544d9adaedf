package format

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/Andrei-Barwood/pwaudit/internal/model"
)

// Layout selects the columns of an exported results file.
type Layout string

const (
	// LayoutReport is the batch report: one row per password with its weaknesses.
	LayoutReport Layout = "report"
	// LayoutResults is the compact download table: password, strength, entropy.
	LayoutResults Layout = "results"
)

var (
	ReportHeader  = []string{"password", "entropy", "status", "missing elements", "strong password"}
	ResultsHeader = []string{"Password", "Strength", "Entropy"}
)

func CSV(results []model.Result, layout Layout) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := ReportHeader
	if layout == LayoutResults {
		header = ResultsHeader
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range results {
		var row []string
		switch layout {
		case LayoutResults:
			row = []string{r.Password, titleStatus(r.Status), Entropy(r.Entropy)}
		default:
			strong := r.Strong
			if r.Status != model.StatusWeak {
				strong = ""
			}
			row = []string{r.Password, Entropy(r.Entropy), string(r.Status), r.MissingText(), strong}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Entropy formats bits to two decimal places.
func Entropy(bits float64) string {
	return strconv.FormatFloat(bits, 'f', 2, 64)
}

func titleStatus(s model.Status) string {
	if s == "" {
		return ""
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
