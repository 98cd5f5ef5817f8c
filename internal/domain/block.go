package domain

import (
	"encoding/json"

	"github.com/johnwards/aethertool/internal/id"
)

// BlockType tags the shape of a block payload.
type BlockType string

const (
	BlockAxiom      BlockType = "axiom"
	BlockDefinition BlockType = "definition"
	BlockTheorem    BlockType = "theorem"
	BlockProof      BlockType = "proof"
	BlockParagraph  BlockType = "paragraph"
	BlockHeading    BlockType = "heading"
	BlockMath       BlockType = "math"
	BlockCode       BlockType = "code"
)

// Block is an ordered, typed unit of content in a document. Ordinals are
// zero-based and contiguous within a document; reading order is ordinal
// order.
type Block struct {
	ID         id.ID           `json:"id"`
	DocumentID id.ID           `json:"documentId"`
	Type       BlockType       `json:"type"`
	Ordinal    int             `json:"ordinal"`
	Revision   int             `json:"revision"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  string          `json:"createdAt"`
	UpdatedAt  string          `json:"updatedAt"`
}
