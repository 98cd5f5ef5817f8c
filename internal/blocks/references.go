package blocks

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/johnwards/aethertool/internal/domain"
	"github.com/johnwards/aethertool/internal/id"
)

// referenceFields maps block types to the payload fields that hold the
// string ID of another block.
var referenceFields = map[domain.BlockType][]string{
	domain.BlockTheorem: {"proof_id"},
	domain.BlockProof:   {"theorem_id"},
}

// References returns the block IDs a payload points at. Values that are not
// canonical ID strings are ignored, matching how the backend resolves links.
func References(t domain.BlockType, payload []byte) []id.ID {
	var refs []id.ID
	for _, field := range referenceFields[t] {
		v := gjson.GetBytes(payload, field)
		if v.Type != gjson.String {
			continue
		}
		ref, err := id.Parse(v.String())
		if err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}

// TextMirror builds the plain text the backend indexes for search.
func TextMirror(t domain.BlockType, payload []byte) string {
	get := func(field string) string {
		return gjson.GetBytes(payload, field).String()
	}
	join := func(a, b string) string {
		return strings.TrimSpace(a + " " + b)
	}

	switch t {
	case domain.BlockParagraph:
		return get("markdown")
	case domain.BlockHeading:
		return get("text")
	case domain.BlockMath:
		return get("latex")
	case domain.BlockCode:
		return get("code")
	case domain.BlockAxiom, domain.BlockTheorem:
		return join(get("label"), get("content"))
	case domain.BlockDefinition:
		return join(get("term"), get("content"))
	case domain.BlockProof:
		return get("steps")
	}

	if v := gjson.GetBytes(payload, "text"); v.Exists() {
		return v.String()
	}
	return get("content")
}
