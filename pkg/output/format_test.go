package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/donation-impact/internal/calculator"
	"github.com/iwvelando/donation-impact/pkg/currency"
)

func computeResults(t *testing.T, states ...calculator.State) []calculator.Result {
	t.Helper()

	calc := calculator.Default()
	results := make([]calculator.Result, 0, len(states))
	for _, state := range states {
		result, err := calc.Compute(state)
		if err != nil {
			t.Fatalf("Compute(%+v) unexpected error = %v", state, err)
		}
		results = append(results, result)
	}
	return results
}

func TestPrettyFormat(t *testing.T) {
	results := computeResults(t,
		calculator.State{Raw: "100", Currency: currency.USD},
		calculator.State{Raw: "10000", Currency: currency.EUR},
	)

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, results); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "--- For a single donation of $100.00 ---") {
		t.Errorf("PrettyFormat missing USD header, got:\n%s", output)
	}
	if !strings.Contains(output, "50 insecticide treated bed nets") {
		t.Errorf("PrettyFormat missing nets sentence")
	}
	if !strings.Contains(output, "(11,800.00 USD") {
		t.Errorf("PrettyFormat missing grouped reference amount, got:\n%s", output)
	}

	blocks := strings.Split(output, "\n\n")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	// The probability leads for small donations, lives for large ones.
	first := strings.Split(blocks[0], "\n")
	if !strings.HasPrefix(first[2], "there'd be a 2.4% chance") {
		t.Errorf("expected probability headline for $100, got %q", first[2])
	}
	second := strings.Split(blocks[1], "\n")
	if !strings.HasPrefix(second[2], "you would save (on average) 2.9 people's lives") {
		t.Errorf("expected lives headline for 10000 EUR, got %q", second[2])
	}
}

func TestCsvFormat(t *testing.T) {
	results := computeResults(t,
		calculator.State{Raw: "", Currency: currency.GBP},
		calculator.State{Raw: "10000", Currency: currency.EUR},
	)

	output := CsvString(results)
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), output)
	}
	if !strings.HasPrefix(lines[0], "amount,currency,reference amount") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "100,GBP,137.00,69,123,0.03,3.3,probability" {
		t.Errorf("unexpected GBP row %q", lines[1])
	}
	if lines[2] != "10000,EUR,11800.00,5900,10620,2.9,94,lives" {
		t.Errorf("unexpected EUR row %q", lines[2])
	}
}

func TestJSONFormat(t *testing.T) {
	results := computeResults(t, calculator.State{Raw: "100", Currency: currency.USD})

	var buf bytes.Buffer
	if err := JSONFormat(&buf, results); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON output: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 result, got %d", len(decoded))
	}
	if decoded[0]["nets"] != "50" {
		t.Errorf("expected nets 50, got %v", decoded[0]["nets"])
	}

	buf.Reset()
	if err := JSONFormat(&buf, nil); err != nil {
		t.Fatalf("JSONFormat(nil) error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestCsvFormatVeryLargeAmount(t *testing.T) {
	results := computeResults(t, calculator.State{Raw: "99999999999999999999", Currency: currency.GBP})

	lines := strings.Split(strings.TrimRight(CsvString(results), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	fields := strings.Split(lines[1], ",")
	if fields[4] != "123300000000000000000" {
		t.Errorf("people protected column = %q, expected 123300000000000000000", fields[4])
	}
}
