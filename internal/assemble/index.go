// Package assemble reconstructs a hierarchical document model from the flat
// fragment list produced by the OCR engine: tables become 2-D grids of cell
// text, and page-ordered lines are grouped into named sections.
package assemble

import (
	"sort"

	"github.com/metrosafety/proofd/internal/ocr"
)

// Index holds the raw fragments of one document, keyed by identifier and
// grouped by page in vertical reading order.
type Index struct {
	byID     map[string]*ocr.Block
	parentOf map[string]string

	pages        []int
	linesByPage  map[int][]*ocr.Block
	tablesByPage map[int][]*ocr.Block
}

// NewIndex builds an index over the fragments of one analysis result.
// Lines and tables on each page are sorted by top coordinate with a stable
// sort: fragments with identical tops keep their original traversal order.
func NewIndex(res *ocr.AnalysisResult) *Index {
	idx := &Index{
		byID:         make(map[string]*ocr.Block),
		parentOf:     make(map[string]string),
		linesByPage:  make(map[int][]*ocr.Block),
		tablesByPage: make(map[int][]*ocr.Block),
	}
	if res == nil {
		return idx
	}

	for i := range res.Blocks {
		b := &res.Blocks[i]
		if b.ID != "" {
			idx.byID[b.ID] = b
		}
	}
	for i := range res.Blocks {
		b := &res.Blocks[i]
		for _, childID := range b.ChildIDs() {
			idx.parentOf[childID] = b.ID
		}

		page := b.PageNumber()
		switch b.BlockType {
		case ocr.KindLine:
			idx.linesByPage[page] = append(idx.linesByPage[page], b)
		case ocr.KindTable:
			idx.tablesByPage[page] = append(idx.tablesByPage[page], b)
		}
	}

	seen := make(map[int]bool)
	for page := range idx.linesByPage {
		seen[page] = true
	}
	for page := range idx.tablesByPage {
		seen[page] = true
	}
	for page := range seen {
		idx.pages = append(idx.pages, page)
	}
	sort.Ints(idx.pages)

	for _, page := range idx.pages {
		sortByTop(idx.linesByPage[page])
		sortByTop(idx.tablesByPage[page])
	}
	return idx
}

func sortByTop(blocks []*ocr.Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Geometry.BoundingBox.Top < blocks[j].Geometry.BoundingBox.Top
	})
}

// Block returns the fragment with the given identifier, or nil.
func (idx *Index) Block(id string) *ocr.Block {
	return idx.byID[id]
}

// Parent returns the identifier of the fragment that declared id as a child,
// or "" when the fragment has no owner.
func (idx *Index) Parent(id string) string {
	return idx.parentOf[id]
}

// Pages returns the page numbers present in the document, ascending.
func (idx *Index) Pages() []int {
	return idx.pages
}

// Lines returns the LINE fragments of a page in vertical order.
func (idx *Index) Lines(page int) []*ocr.Block {
	return idx.linesByPage[page]
}

// Tables returns the TABLE fragments of a page in vertical order.
func (idx *Index) Tables(page int) []*ocr.Block {
	return idx.tablesByPage[page]
}
