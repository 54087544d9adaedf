package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Andrei-Barwood/pwaudit/internal/format"
	"github.com/Andrei-Barwood/pwaudit/internal/model"
	"github.com/Andrei-Barwood/pwaudit/internal/strength"
)

var ErrBadReport = errors.New("not a pwaudit report")

func Save(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("output path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// DefaultPath derives the export path for an input file: "in.csv" -> "in_report.csv".
func DefaultPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_report.csv"
}

// Load reads a report written with format.LayoutReport.
func Load(path string) ([]model.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func Read(r io.Reader) ([]model.Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(format.ReportHeader)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty", ErrBadReport)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadReport, err)
	}
	for i, h := range format.ReportHeader {
		if strings.TrimSpace(header[i]) != h {
			return nil, fmt.Errorf("%w: unexpected column %q at position %d", ErrBadReport, header[i], i+1)
		}
	}

	var out []model.Result
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadReport, err)
		}

		entropy, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid entropy %q", ErrBadReport, line, rec[1])
		}
		verdict, err := strength.ParseVerdict(rec[2])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadReport, line, err)
		}

		out = append(out, model.Result{
			Password: rec[0],
			Entropy:  entropy,
			Status:   model.Status(verdict.String()),
			Missing:  splitMissing(rec[3]),
			Strong:   rec[4],
		})
	}
}

func splitMissing(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == strength.NoneMissing {
		return nil
	}
	parts := strings.Split(s, ", ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
