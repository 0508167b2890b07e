package markdown

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/actiondocs/internal/content"
)

// Table is a GitHub-flavored Markdown pipe table under construction.
// Every row must have the same number of cells as the header; Render
// reports a violation as an error since it indicates a generator defect.
type Table struct {
	Headers []content.Content
	Rows    [][]content.Content
}

// Render lays the table out as a pipe table. Cells are decomposed into
// atomic display lines first: fenced code blocks collapse to a single
// HTMLFallback line, remaining line breaks split the cell into extra
// physical sub-rows, and unprotected pipes are escaped. Column width is
// the maximum display width of any atomic line in the column.
func (t Table) Render() (content.Content, error) {
	if len(t.Headers) == 0 && len(t.Rows) == 0 {
		return content.Empty, nil
	}
	cols := len(t.Headers)
	for i, row := range t.Rows {
		if len(row) != cols {
			return content.Empty, fmt.Errorf("table row %d has %d cells, header has %d", i, len(row), cols)
		}
	}

	headerLines := decomposeRow(t.Headers)
	bodyLines := make([][][]content.Content, len(t.Rows))
	for i, row := range t.Rows {
		bodyLines[i] = decomposeRow(row)
	}

	widths := make([]int, cols)
	measure := func(cells [][]content.Content) {
		for col, lines := range cells {
			for _, line := range lines {
				if w := line.Width(); w > widths[col] {
					widths[col] = w
				}
			}
		}
	}
	measure(headerLines)
	for _, row := range bodyLines {
		measure(row)
	}

	out := content.Empty
	out = appendPhysicalRows(out, headerLines, widths)
	out = out.Append(separatorRow(widths))
	for _, row := range bodyLines {
		out = appendPhysicalRows(out, row, widths)
	}
	return out, nil
}

// decomposeRow turns each cell of a logical row into its atomic display
// lines. An empty cell still contributes one empty line so the row keeps
// its arity when expanded.
func decomposeRow(cells []content.Content) [][]content.Content {
	out := make([][]content.Content, len(cells))
	for i, cell := range cells {
		lines := AtomicLines(cell)
		if len(lines) == 0 {
			lines = []content.Content{content.Empty}
		}
		out[i] = lines
	}
	return out
}

// AtomicLines decomposes cell content into atomic display lines. Fenced
// code blocks become exactly one line each (via HTMLFallback) no matter
// how many line breaks they contain; inline code spans are kept intact;
// line breaks outside protected spans split lines; pipes outside
// protected spans are escaped.
func AtomicLines(cell content.Content) []content.Content {
	b := cell.Bytes()
	blocks := FindCodeBlocks(cell)
	blockSpans := make([]Span, len(blocks))
	for i, blk := range blocks {
		blockSpans[i] = blk.Span
	}
	inline := FindInlineCode(cell, blockSpans)

	var lines []content.Content
	line := content.Empty
	flush := func() {
		lines = append(lines, line)
		line = content.Empty
	}

	i := 0
	for i < len(b) {
		if blk, ok := blockAt(blocks, i); ok {
			if !line.IsEmpty() {
				flush()
			}
			inner := cell.Slice(blk.Inner.Start, blk.Inner.End)
			lines = append(lines, HTMLFallback(inner, blk.Language))
			i = blk.End
			if i < len(b) && b[i] == '\n' {
				i++
			}
			continue
		}
		if sp, ok := inlineAt(inline, i); ok {
			line = line.Append(cell.Slice(sp.Start, sp.End))
			i = sp.End
			continue
		}
		switch b[i] {
		case '\n':
			flush()
		case '|':
			line = line.AppendString(`\|`)
		case '\r':
			// dropped; the following \n terminates the line
		default:
			line = line.Append(cell.Slice(i, i+1))
		}
		i++
	}
	if !line.IsEmpty() {
		flush()
	}
	return lines
}

// appendPhysicalRows expands one logical row to its physical height (the
// tallest cell) and appends the padded pipe rows to out.
func appendPhysicalRows(out content.Content, cells [][]content.Content, widths []int) content.Content {
	height := 1
	for _, lines := range cells {
		if len(lines) > height {
			height = len(lines)
		}
	}
	for sub := 0; sub < height; sub++ {
		out = out.AppendString("|")
		for col, lines := range cells {
			cellLine := content.Empty
			if sub < len(lines) {
				cellLine = lines[sub]
			}
			out = out.AppendString(" ").
				Append(cellLine.PadEnd(widths[col])).
				AppendString(" |")
		}
		out = out.AppendString("\n")
	}
	return out
}

func separatorRow(widths []int) content.Content {
	var sb strings.Builder
	sb.WriteString("|")
	for _, w := range widths {
		if w < 1 {
			w = 1
		}
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", w))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
	return content.FromString(sb.String())
}

func blockAt(blocks []CodeBlockSpan, i int) (CodeBlockSpan, bool) {
	for _, blk := range blocks {
		if blk.Start == i {
			return blk, true
		}
	}
	return CodeBlockSpan{}, false
}

func inlineAt(spans []InlineCodeSpan, i int) (InlineCodeSpan, bool) {
	for _, sp := range spans {
		if sp.Start == i {
			return sp, true
		}
	}
	return InlineCodeSpan{}, false
}
