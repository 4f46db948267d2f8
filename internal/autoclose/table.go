package autoclose

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// CloseTable repairs the last table in text: the final contiguous block of
// lines whose trimmed content starts with '|'. Earlier tables are untouched.
func CloseTable(text string) string {
	lines := strings.Split(text, "\n")

	start, end := -1, -1
	for i := len(lines) - 1; i >= 0; i-- {
		if isTableLine(lines[i]) {
			if end < 0 {
				end = i
			}
			start = i
		} else if end >= 0 {
			break
		}
	}
	if end < 0 {
		return text
	}

	block := CloseTableBlock(lines[start : end+1])

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:start]...)
	out = append(out, block...)
	out = append(out, lines[end+1:]...)
	return strings.Join(out, "\n")
}

// CloseTableBlock completes a block of table rows whose first line is the
// header:
//   - the header gets a trailing pipe
//   - a separator row being typed as the last line is completed
//   - an incomplete last data row is padded to the header's columns, using the
//     cell widths of a complete earlier row so the columns line up
//   - a missing separator row is generated after the header
func CloseTableBlock(rows []string) []string {
	if len(rows) == 0 {
		return rows
	}
	lines := append([]string(nil), rows...)

	header := strings.TrimSpace(lines[0])
	if !strings.HasSuffix(header, "|") {
		lines[0] += " |"
		header += " |"
	}

	columns := len(splitCells(header))
	if columns == 0 {
		return rows
	}

	hasSeparator := len(lines) > 1 && isSeparatorRow(strings.TrimSpace(lines[1]))

	last := len(lines) - 1
	lastLine := strings.TrimSpace(lines[last])
	switch {
	case last > 0 && isSeparatorRow(lastLine):
		lines[last] = completeSeparator(lastLine, columns)

	case last > 0 && !strings.HasSuffix(lastLine, "|"):
		lines[last] = completeRow(lastLine, referenceWidths(lines, hasSeparator), columns)
	}

	if !hasSeparator {
		sep := "| " + strings.Join(repeatCell("---", columns), " | ") + " |"
		lines = append(lines[:1], append([]string{sep}, lines[1:]...)...)
	}
	return lines
}

// completeSeparator fills in dashes for each alignment cell and adds default
// cells for missing columns.
func completeSeparator(row string, columns int) string {
	cells := trimCells(splitCells(row))
	for i, cell := range cells {
		left := strings.HasPrefix(cell, ":")
		right := len(cell) > 1 && strings.HasSuffix(cell, ":")

		dashes := strings.TrimPrefix(cell, ":")
		if right {
			dashes = strings.TrimSuffix(dashes, ":")
		}
		switch {
		case left || right:
			if dashes == "" {
				dashes = "-"
			}
		default:
			for len(dashes) < 3 {
				dashes += "-"
			}
		}

		if left {
			dashes = ":" + dashes
		}
		if right {
			dashes += ":"
		}
		cells[i] = dashes
	}
	for len(cells) < columns {
		cells = append(cells, "---")
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

// completeRow closes an incomplete data row. Each cell is padded so its field
// (text plus the two border spaces) matches the reference width for its
// column, or its own width plus two when there is no reference.
func completeRow(row string, ref []int, columns int) string {
	cells := trimCells(splitCells(row))
	for len(cells) < columns {
		cells = append(cells, "")
	}
	for i, cell := range cells {
		w := runewidth.StringWidth(cell)
		target := w + 2
		if i < len(ref) && ref[i] > 0 {
			target = ref[i]
		}
		if pad := target - w - 2; pad > 0 {
			cells[i] = cell + strings.Repeat(" ", pad)
		}
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

// referenceWidths returns the raw cell widths of the first complete interior
// row without dashes, or of the header when there is none.
func referenceWidths(lines []string, hasSeparator bool) []int {
	ref := strings.TrimSpace(lines[0])
	from := 1
	if hasSeparator {
		from = 2
	}
	for i := from; i < len(lines)-1; i++ {
		row := strings.TrimSpace(lines[i])
		if strings.HasPrefix(row, "|") && strings.HasSuffix(row, "|") && !strings.Contains(row, "-") {
			ref = row
			break
		}
	}

	cells := splitCells(ref)
	widths := make([]int, len(cells))
	for i, c := range cells {
		widths[i] = runewidth.StringWidth(c)
	}
	return widths
}

// splitCells returns the raw content between unescaped pipes. Text before the
// first pipe is ignored; text after the last pipe is a cell only if it is not
// blank.
func splitCells(row string) []string {
	var cells []string
	var cell strings.Builder
	inCell := false
	for i := 0; i < len(row); i++ {
		ch := row[i]
		if ch == '|' && (i == 0 || row[i-1] != '\\') {
			if inCell {
				cells = append(cells, cell.String())
				cell.Reset()
			}
			inCell = true
			continue
		}
		if inCell {
			cell.WriteByte(ch)
		}
	}
	if inCell && strings.TrimSpace(cell.String()) != "" {
		cells = append(cells, cell.String())
	}
	return cells
}

func trimCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isTableLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

// isSeparatorRow reports whether a trimmed row looks like a delimiter row, or
// the beginning of one: pipes, dashes, colons and spaces, with at least one
// dash or colon. Any other character rules the row out, so a data row such as
// `| a-b |` is never taken for a separator.
func isSeparatorRow(row string) bool {
	if !strings.HasPrefix(row, "|") || !strings.ContainsAny(row, "-:") {
		return false
	}
	for i := 0; i < len(row); i++ {
		switch row[i] {
		case '|', '-', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

func repeatCell(cell string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = cell
	}
	return out
}
