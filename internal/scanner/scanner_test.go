package scanner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Andrei-Barwood/pwaudit/internal/model"
	"github.com/Andrei-Barwood/pwaudit/internal/strength"
)

func scanString(t *testing.T, opts Options, input string) (model.BatchResult, error) {
	t.Helper()
	return New(opts).ScanReader(context.Background(), strings.NewReader(input), "test.csv")
}

func passwordsOf(results []model.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Password)
	}
	return out
}

func TestScanSkipsBlankLines(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "passwords.csv")
	if err := os.WriteFile(file, []byte("abc123\n\nTr0ub4dor&3!\n"), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	result, err := New(Options{Path: file}).Scan(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(result.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(result.Results))
	}
	if result.ID == "" || result.Source != file {
		t.Fatalf("expected run id and source to be set, got %q %q", result.ID, result.Source)
	}
	if result.Policy != strength.PolicyEntropy {
		t.Fatalf("expected entropy policy by default, got %s", result.Policy)
	}
}

func TestScanFirstFieldMode(t *testing.T) {
	input := "  abc123  ,extra\n,ignored\n   \nTr0ub4dor&3!\n"
	result, err := scanString(t, Options{}, input)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	got := passwordsOf(result.Results)
	if strings.Join(got, "|") != "abc123|Tr0ub4dor&3!" {
		t.Fatalf("unexpected passwords: %v", got)
	}
	if result.Results[0].Status != model.StatusWeak || result.Results[0].Strong == "" {
		t.Fatalf("expected weak row with suggestion, got %+v", result.Results[0])
	}
	if result.Results[1].Status != model.StatusStrong || result.Results[1].Strong != "" {
		t.Fatalf("expected strong row without suggestion, got %+v", result.Results[1])
	}
}

func TestScanHeaderTokenOnlySkippedOnFirstRow(t *testing.T) {
	result, err := scanString(t, Options{}, "Password\nabc123\npassword\n")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	got := passwordsOf(result.Results)
	if strings.Join(got, "|") != "abc123|password" {
		t.Fatalf("expected header skipped and later token kept, got %v", got)
	}
	found := false
	for _, n := range result.Notes {
		if n == "skipped header row" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected header note, got %v", result.Notes)
	}
}

func TestScanKeepsPasswordsWithQuotes(t *testing.T) {
	result, err := scanString(t, Options{}, "ab\"cd1\n")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(result.Results) != 1 || result.Results[0].Password != "ab\"cd1" {
		t.Fatalf("unexpected results: %v", passwordsOf(result.Results))
	}
}

func TestScanColumnMode(t *testing.T) {
	input := "user,password\nalice,abc123\nbob,\ncarol\ndave,Passw0rd\n"
	result, err := scanString(t, Options{Column: "password"}, input)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	got := passwordsOf(result.Results)
	if strings.Join(got, "|") != "abc123|Passw0rd" {
		t.Fatalf("unexpected passwords: %v", got)
	}
}

func TestScanColumnModeMissingColumn(t *testing.T) {
	_, err := scanString(t, Options{Column: "password"}, "user,secret\nalice,abc\n")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}

	_, err = scanString(t, Options{Column: "password"}, "")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn for empty file, got %v", err)
	}
}

func TestScanDelimiter(t *testing.T) {
	result, err := scanString(t, Options{Delimiter: ';'}, "abc,123;x\n")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(result.Results) != 1 || result.Results[0].Password != "abc,123" {
		t.Fatalf("unexpected results: %v", passwordsOf(result.Results))
	}
}

func TestScanInvalidDelimiterIsMalformed(t *testing.T) {
	_, err := scanString(t, Options{Delimiter: '\n'}, "abc\n")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestScanRejectsInvalidUTF8(t *testing.T) {
	_, err := scanString(t, Options{}, "caf\xe9\n")
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}

	result, err := scanString(t, Options{Encoding: "windows-1252"}, "caf\xe9\n")
	if err != nil {
		t.Fatalf("scan with explicit encoding failed: %v", err)
	}
	if result.Results[0].Password != "café" {
		t.Fatalf("expected decoded password, got %q", result.Results[0].Password)
	}

	if _, err := scanString(t, Options{Encoding: "klingon"}, "abc\n"); !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected ErrEncoding for unknown encoding, got %v", err)
	}
}

func TestScanDecodesUTF16WithBOM(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	encoded, _, err := transform.Bytes(enc, []byte("abc123\nTr0ub4dor&3!\n"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	result, err := New(Options{}).ScanReader(context.Background(), bytes.NewReader(encoded), "utf16.csv")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	got := passwordsOf(result.Results)
	if strings.Join(got, "|") != "abc123|Tr0ub4dor&3!" {
		t.Fatalf("unexpected passwords: %v", got)
	}
}

func TestScanStripsUTF8BOM(t *testing.T) {
	result, err := scanString(t, Options{Column: "password"}, "\xef\xbb\xbfpassword\nabc123\n")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(result.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(result.Results))
	}
}

func TestScanRejectsBinaryInput(t *testing.T) {
	png := "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"
	_, err := scanString(t, Options{}, png)
	if !errors.Is(err, ErrNotText) {
		t.Fatalf("expected ErrNotText, got %v", err)
	}
}

func TestScanAcceptsPasswordsThatLookLikeMagicNumbers(t *testing.T) {
	inputs := []string{
		"BMW2020!\nabc123\n",
		"MZx9!pass\n",
		"ID3secret\n",
		"OggS1234\n",
		"{\\rtf1pw\n",
		"%PDF-pass\n",
	}
	for _, input := range inputs {
		result, err := scanString(t, Options{}, input)
		if err != nil {
			t.Fatalf("scan %q failed: %v", input, err)
		}
		want := strings.SplitN(input, "\n", 2)[0]
		if len(result.Results) == 0 || result.Results[0].Password != want {
			t.Fatalf("scan %q: expected first password %q, got %v", input, want, passwordsOf(result.Results))
		}
	}
}

func TestScanRejectsNULBytes(t *testing.T) {
	for _, enc := range []string{"", "windows-1252"} {
		_, err := scanString(t, Options{Encoding: enc}, "abc\x00def\n")
		if !errors.Is(err, ErrNotText) {
			t.Fatalf("encoding %q: expected ErrNotText, got %v", enc, err)
		}
	}
}

func TestScanRejectsOversizedInput(t *testing.T) {
	big := strings.Repeat("a", maxReadBytes+1)
	_, err := scanString(t, Options{}, big)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestScanPreservesOrderAcrossWorkers(t *testing.T) {
	var b strings.Builder
	want := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		pw := "pw" + strings.Repeat("x", i%17) + string(rune('a'+i%26))
		want = append(want, pw)
		b.WriteString(pw + "\n")
	}

	result, err := scanString(t, Options{Workers: 8}, b.String())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if strings.Join(passwordsOf(result.Results), "|") != strings.Join(want, "|") {
		t.Fatalf("results out of input order")
	}
}

func TestScanHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{}).ScanReader(ctx, strings.NewReader("abc\ndef\n"), "x")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestScanUsesLengthPolicy(t *testing.T) {
	ev := strength.New(strength.Options{Policy: strength.LengthPolicy{}})
	result, err := scanString(t, Options{Evaluator: ev}, "Passw0rd\n")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if result.Policy != strength.PolicyLength {
		t.Fatalf("expected length policy, got %s", result.Policy)
	}
	if result.Results[0].Status != model.StatusModerate {
		t.Fatalf("expected moderate, got %s", result.Results[0].Status)
	}
}
