// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/iwvelando/inflation-calculator/internal/calculator"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable table per calculation.
func PrettyFormat(w io.Writer, results []calculator.Result) {
	p := message.NewPrinter(language.LatinAmericanSpanish)
	for i, result := range results {
		_, _ = p.Fprintf(w, "--- Results for %s (%s) ---\n", result.Name, result.Type)
		width := labelWidth(result.Rows)
		for _, row := range result.Rows {
			_, _ = p.Fprintf(w, "%s | %s\n", pad(row.Label, width), row.Display)
		}
		for _, note := range result.Notes {
			_, _ = p.Fprintf(w, "note: %s\n", note)
		}
		if i < len(results)-1 {
			_, _ = fmt.Fprintln(w)
		}
	}
}

// CsvFormat writes one "calculation","label","value" record per row.
func CsvFormat(w io.Writer, results []calculator.Result) {
	_, _ = fmt.Fprintln(w, `"calculation","label","value"`)
	for _, result := range results {
		for _, row := range result.Rows {
			_, _ = fmt.Fprintf(w, "%s,%s,%s\n", quote(result.Name), quote(row.Label), quote(row.Value))
		}
	}
}

func labelWidth(rows []calculator.Row) int {
	width := 0
	for _, row := range rows {
		if n := utf8.RuneCountInString(row.Label); n > width {
			width = n
		}
	}
	return width
}

// pad counts runes so labels such as "m²" line up.
func pad(s string, width int) string {
	return s + strings.Repeat(" ", width-utf8.RuneCountInString(s))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
