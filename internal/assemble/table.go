package assemble

import (
	"strings"

	"github.com/metrosafety/proofd/internal/docmodel"
	"github.com/metrosafety/proofd/internal/ocr"
)

// SelectedMarker is appended to a cell's text for every selected
// selection mark the cell contains.
const SelectedMarker = "[X]"

// ReconstructTable converts one detected TABLE fragment into an ordered 2-D
// grid of cell text. The grid width equals the maximum column index seen
// anywhere in the table; a (row, column) combination with no matching cell
// renders as the empty string. A table with zero cells yields an empty grid,
// which callers must treat as "table present but unreadable" rather than
// absent.
func ReconstructTable(idx *Index, table *ocr.Block) *docmodel.Table {
	out := &docmodel.Table{
		ID:   table.ID,
		Page: table.PageNumber(),
		Rows: [][]string{},
	}

	type cellRef struct {
		row, col int
		text     string
	}
	var cells []cellRef
	minRow, maxRow, maxCol := 0, 0, 0

	for _, id := range table.ChildIDs() {
		cell := idx.Block(id)
		if cell == nil || cell.BlockType != ocr.KindCell {
			continue
		}
		if cell.RowIndex < 1 || cell.ColumnIndex < 1 {
			continue
		}
		cells = append(cells, cellRef{
			row:  cell.RowIndex,
			col:  cell.ColumnIndex,
			text: cellText(idx, cell),
		})
		if minRow == 0 || cell.RowIndex < minRow {
			minRow = cell.RowIndex
		}
		if cell.RowIndex > maxRow {
			maxRow = cell.RowIndex
		}
		if cell.ColumnIndex > maxCol {
			maxCol = cell.ColumnIndex
		}
	}

	if len(cells) == 0 {
		return out
	}

	rows := make([][]string, maxRow-minRow+1)
	for i := range rows {
		rows[i] = make([]string, maxCol)
	}
	for _, c := range cells {
		rows[c.row-minRow][c.col-1] = c.text
	}
	out.Rows = rows
	out.Header = firstNonEmpty(rows[0])
	return out
}

// cellText joins the text of the cell's child WORD fragments with spaces and
// appends the selected marker for every selected SELECTION_MARK child.
func cellText(idx *Index, cell *ocr.Block) string {
	var parts []string
	for _, id := range cell.ChildIDs() {
		child := idx.Block(id)
		if child == nil {
			continue
		}
		switch child.BlockType {
		case ocr.KindWord:
			if child.Text != "" {
				parts = append(parts, child.Text)
			}
		case ocr.KindSelectionMark:
			if child.SelectionStatus == ocr.SelectionSelected {
				parts = append(parts, SelectedMarker)
			}
		}
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(row []string) string {
	for _, cell := range row {
		if t := strings.TrimSpace(cell); t != "" {
			return t
		}
	}
	return ""
}
