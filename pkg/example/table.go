package example

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"go4example/internal/errs"
)

const minColumnWidth = 3

// Table appends a markdown table. Every row must have as many cells as there
// are headers; otherwise nothing is written.
func (d *Doc) Table(headers []string, rows [][]string) error {
	for i, row := range rows {
		if len(row) != len(headers) {
			return d.fail(errs.Validation("table row %d has %d columns, expected %d", i+1, len(row), len(headers)).
				With("row", strings.Join(row, " | ")))
		}
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(minColumnWidth, runewidth.StringWidth(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i, cell := range cells {
			b.WriteString(" ")
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	writeRow(rule)
	for _, row := range rows {
		writeRow(row)
	}
	b.WriteString("\n")
	d.buf.WriteString(b.String())
	return nil
}
