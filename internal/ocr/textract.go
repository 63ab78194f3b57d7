// Package ocr decodes the document-analysis output of the OCR engine into
// typed fragments. The wire shape is external and must be parsed defensively:
// absent keys, empty lists and unknown block types are all tolerated.
package ocr

import (
	"encoding/json"
	"fmt"
	"io"
)

// BlockKind identifies the kind of an OCR-detected fragment.
type BlockKind string

const (
	KindPage          BlockKind = "PAGE"
	KindLine          BlockKind = "LINE"
	KindWord          BlockKind = "WORD"
	KindTable         BlockKind = "TABLE"
	KindCell          BlockKind = "CELL"
	KindSelectionMark BlockKind = "SELECTION_MARK"
)

// SelectionSelected is the engine's state for a ticked selection mark.
const SelectionSelected = "SELECTED"

// BoundingBox is a normalised box; all coordinates are in [0,1] relative
// to the page.
type BoundingBox struct {
	Width  float64 `json:"Width"`
	Height float64 `json:"Height"`
	Left   float64 `json:"Left"`
	Top    float64 `json:"Top"`
}

// Geometry wraps the positional data attached to a block.
type Geometry struct {
	BoundingBox BoundingBox `json:"BoundingBox"`
}

// Relationship links a block to its children (a TABLE owns CELLs, a CELL
// owns WORDs and SELECTION_MARKs).
type Relationship struct {
	Type string   `json:"Type"`
	IDs  []string `json:"Ids"`
}

// Block is a single OCR-detected primitive. Immutable once produced by the
// engine; the rest of the system only reads it.
type Block struct {
	ID              string         `json:"Id"`
	BlockType       BlockKind      `json:"BlockType"`
	Page            int            `json:"Page"`
	Text            string         `json:"Text"`
	Geometry        Geometry       `json:"Geometry"`
	SelectionStatus string         `json:"SelectionStatus"`
	RowIndex        int            `json:"RowIndex"`
	ColumnIndex     int            `json:"ColumnIndex"`
	Relationships   []Relationship `json:"Relationships"`
}

// ChildIDs returns the identifiers of this block's CHILD relationships,
// in declaration order.
func (b *Block) ChildIDs() []string {
	var ids []string
	for _, rel := range b.Relationships {
		if rel.Type == "CHILD" {
			ids = append(ids, rel.IDs...)
		}
	}
	return ids
}

// PageNumber returns the block's page, defaulting to 1 when the engine
// omitted it (single-page documents).
func (b *Block) PageNumber() int {
	if b.Page <= 0 {
		return 1
	}
	return b.Page
}

// AnalysisResult is the root of the engine's document-analysis response.
type AnalysisResult struct {
	Blocks []Block `json:"Blocks"`
}

// Decode reads an analysis result from r. An empty or key-less document
// decodes to a result with no blocks rather than an error.
func Decode(r io.Reader) (*AnalysisResult, error) {
	var res AnalysisResult
	dec := json.NewDecoder(r)
	if err := dec.Decode(&res); err != nil {
		if err == io.EOF {
			return &AnalysisResult{}, nil
		}
		return nil, fmt.Errorf("decode analysis result: %w", err)
	}
	return &res, nil
}
