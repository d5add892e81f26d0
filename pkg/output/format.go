// Package output provides utilities for formatting and displaying estimates.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/donation-impact/internal/calculator"
	"github.com/iwvelando/donation-impact/pkg/constants"
	"github.com/iwvelando/donation-impact/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var csvHeader = []string{
	"amount", "currency", "reference amount", "nets", "people protected",
	"expected lives saved", "probability at least one (%)", "headline",
}

// Write renders results in the named format.
func Write(w io.Writer, outputFormat string, results []calculator.Result) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

// PrettyFormat outputs a human-readable summary of each estimate, headline first.
func PrettyFormat(w io.Writer, results []calculator.Result) error {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		if _, err := fmt.Fprintf(w, "--- For a single donation of %s ---\n", result.FormattedAmount); err != nil {
			return err
		}
		lines := []string{result.NetsSentence}
		if result.Headline == calculator.HeadlineLives {
			lines = append(lines, result.LivesSentence, "  "+result.ProbabilitySentence)
		} else {
			lines = append(lines, result.ProbabilitySentence, "  "+result.LivesSentence)
		}
		lines = append(lines, p.Sprintf("(%.2f %s, donate at %s)", result.ReferenceAmount, constants.ReferenceCurrency, result.DonationURL))
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if len(results) > 1 && i < len(results)-1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// CsvFormat outputs in comma-separated value format, one row per estimate.
func CsvFormat(w io.Writer, results []calculator.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, result := range results {
		record := []string{
			result.Amount,
			result.Currency.String(),
			fmt.Sprintf("%.2f", result.ReferenceAmount),
			result.Nets,
			format.Magnitude(result.Estimate.PeopleProtected),
			result.Lives,
			result.Probability,
			string(result.Headline),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvString returns the CSV rendering of results.
func CsvString(results []calculator.Result) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return ""
	}
	return buf.String()
}

// JSONFormat outputs the results as an indented JSON array.
func JSONFormat(w io.Writer, results []calculator.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if results == nil {
		results = []calculator.Result{}
	}
	return enc.Encode(results)
}
