package lookup

import (
	"fmt"
	"io"
	"strings"

	"github.com/n1jfu/qrz"
)

// valueWidth is the width of the value column; longer values wrap onto continuation rows.
const valueWidth = 54

// printTable writes the record's non-empty fields as a bordered two-column table.
func printTable(w io.Writer, record *qrz.Callsign) {
	var rows []qrz.Field
	labelWidth := 0
	for _, f := range record.Fields() {
		if f.Value == "" {
			continue
		}

		rows = append(rows, f)
		labelWidth = max(labelWidth, len(f.Label))
	}

	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "No data returned.")
		return
	}

	div := fmt.Sprintf("+%s+%s+", strings.Repeat("-", labelWidth+2), strings.Repeat("-", valueWidth+2))

	_, _ = fmt.Fprintln(w, div)
	_, _ = fmt.Fprintf(w, "| %-*s | %-*s |\n", labelWidth, "Field", valueWidth, "Value")
	_, _ = fmt.Fprintln(w, div)

	for _, f := range rows {
		label, value := f.Label, f.Value
		for first := true; first || value != ""; first = false {
			chunk := value
			if len(chunk) > valueWidth {
				chunk, value = chunk[:valueWidth], chunk[valueWidth:]
			} else {
				value = ""
			}

			if !first {
				label = ""
			}
			_, _ = fmt.Fprintf(w, "| %-*s | %-*s |\n", labelWidth, label, valueWidth, chunk)
		}
	}

	_, _ = fmt.Fprintln(w, div)
}
