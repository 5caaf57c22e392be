package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ansiPattern matches SGR escape sequences, which take no screen width.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Align is the horizontal alignment of a table column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table formats rows into aligned columns. Cells may contain ANSI colour
// sequences; widths are measured on the visible text only.
type Table struct {
	headers []string
	align   []Align
	rows    [][]string
	padding int
}

// NewTable creates a table with the given headers, all left aligned.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		align:   make([]Align, len(headers)),
		padding: 2,
	}
}

// SetAlign sets the alignment of column col.
func (t *Table) SetAlign(col int, a Align) {
	if col >= 0 && col < len(t.align) {
		t.align[col] = a
	}
}

// AddRow appends a row, padding or truncating it to the header count.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Render returns the formatted table.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleLen(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], visibleLen(cell))
		}
	}

	var b strings.Builder
	t.writeRow(&b, t.headers, widths)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	t.writeRow(&b, sep, widths)
	for _, row := range t.rows {
		t.writeRow(&b, row, widths)
	}
	return b.String()
}

// WriteTo writes the rendered table to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.Render())
	return int64(n), err
}

func (t *Table) writeRow(b *strings.Builder, cells []string, widths []int) {
	gap := strings.Repeat(" ", t.padding)
	parts := make([]string, len(cells))
	for i, cell := range cells {
		fill := strings.Repeat(" ", widths[i]-visibleLen(cell))
		if t.align[i] == AlignRight {
			parts[i] = fill + cell
		} else {
			parts[i] = cell + fill
		}
	}
	fmt.Fprintln(b, strings.TrimRight(strings.Join(parts, gap), " "))
}

func visibleLen(s string) int {
	return len(ansiPattern.ReplaceAllString(s, ""))
}
