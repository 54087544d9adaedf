package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Andrei-Barwood/pwaudit/internal/model"
	"github.com/Andrei-Barwood/pwaudit/internal/strength"
)

// HeaderToken is the column name the form shell expects, and the token that
// marks a header row in first-field mode.
const HeaderToken = "password"

var (
	ErrMissingColumn = errors.New("missing password column")
	ErrEncoding      = errors.New("unreadable encoding")
	ErrNotText       = errors.New("not a delimited text file")
	ErrMalformed     = errors.New("malformed delimited file")
	ErrTooLarge      = errors.New("input file too large")
)

type Options struct {
	Path string
	// Column selects a named column; the first record is then the header.
	// Empty means first-field mode.
	Column    string
	Encoding  string
	Delimiter rune
	Workers   int
	Evaluator *strength.Evaluator
}

type Scanner struct {
	opts Options
	eval *strength.Evaluator
}

func New(opts Options) *Scanner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Evaluator == nil {
		opts.Evaluator = strength.New(strength.Options{})
	}
	return &Scanner{opts: opts, eval: opts.Evaluator}
}

// Scan reads Options.Path. Any read, decode or parse failure aborts the whole file.
func (s *Scanner) Scan(ctx context.Context) (model.BatchResult, error) {
	if s.opts.Path == "" {
		return model.BatchResult{}, fmt.Errorf("input path is empty")
	}
	f, err := os.Open(s.opts.Path)
	if err != nil {
		return model.BatchResult{}, err
	}
	defer f.Close()

	return s.ScanReader(ctx, f, s.opts.Path)
}

func (s *Scanner) ScanReader(ctx context.Context, r io.Reader, source string) (model.BatchResult, error) {
	result := model.BatchResult{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Policy:      s.eval.Policy().Name(),
	}

	text, err := readText(r, s.opts.Encoding)
	if err != nil {
		return model.BatchResult{}, err
	}

	rows, err := s.extract(text)
	if err != nil {
		return model.BatchResult{}, err
	}
	result.Notes = rows.notes()

	results, err := s.evaluateAll(ctx, rows.passwords)
	if err != nil {
		return model.BatchResult{}, err
	}
	result.Results = results
	return result, nil
}

func (s *Scanner) evaluateAll(ctx context.Context, passwords []string) ([]model.Result, error) {
	results := make([]model.Result, len(passwords))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, pw := range passwords {
		i, pw := i, pw
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ev, err := s.eval.Evaluate(pw)
			if err != nil {
				return fmt.Errorf("evaluate entry %d: %w", i+1, err)
			}
			results[i] = model.FromEvaluation(pw, ev)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
