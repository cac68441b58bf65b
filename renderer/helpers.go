// Package renderer formats patrimony reports as markdown.
package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/patrimony"
)

// printer accumulates markdown.
type printer struct {
	strings.Builder
}

// Printf formats according to a format specifier and writes to the buffer.
func (p *printer) Printf(format string, args ...any) {
	fmt.Fprintf(p, format, args...)
}

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

var flagNotes = []struct {
	flag patrimony.Flags
	note string
}{
	{patrimony.FlagNonPositivePrice, "a transaction has a non positive unit price, 1 was used instead"},
	{patrimony.FlagMissingCurrency, "a transaction has no currency, amounts were taken in base currency"},
	{patrimony.FlagOversell, "more shares were sold than held, the excess has no cost basis"},
	{patrimony.FlagFXEstimated, "an exchange rate was missing, 1 was used instead"},
	{patrimony.FlagNoQuote, "a position has no quote, it is excluded from market value"},
}

// renderFlags writes a warning list for every flag raised, or nothing.
func renderFlags(w io.Writer, flags patrimony.Flags) {
	ConditionalBlock(w, func(w io.Writer) bool {
		fmt.Fprintf(w, "**Warnings**\n\n")
		for _, n := range flagNotes {
			if flags.Has(n.flag) {
				fmt.Fprintf(w, "- `%s`: %s.\n", n.flag, n.note)
			}
		}
		fmt.Fprintf(w, "\n")
		return flags != 0
	})
}

// flagCell returns the table cell of row flags.
func flagCell(f patrimony.Flags) string {
	if f == 0 {
		return ""
	}
	return "`" + f.String() + "`"
}

// cell escapes free text for a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
