package blocks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/aethertool/internal/blocks"
	"github.com/johnwards/aethertool/internal/domain"
	"github.com/johnwards/aethertool/internal/id"
)

func TestEncodeProofCarriesStringID(t *testing.T) {
	thm := id.New()

	data, err := blocks.Encode(domain.BlockProof, blocks.Proof{
		TheoremID: thm.String(),
		Steps:     "1. trivial",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"theorem_id":"`+thm.String()+`","steps":"1. trivial"}`, string(data))
}

func TestEncodeValidates(t *testing.T) {
	tests := []struct {
		name    string
		typ     domain.BlockType
		payload any
	}{
		{"axiom without content", domain.BlockAxiom, blocks.Axiom{Label: "A"}},
		{"definition without term", domain.BlockDefinition, blocks.Definition{Content: "x"}},
		{"theorem without content", domain.BlockTheorem, blocks.Theorem{Label: "T"}},
		{"proof without steps", domain.BlockProof, blocks.Proof{}},
		{"mismatched type", domain.BlockTheorem, blocks.Proof{Steps: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := blocks.Encode(tt.typ, tt.payload)
			assert.Error(t, err)
		})
	}
}

func TestReferences(t *testing.T) {
	thm := id.New()
	proof := id.New()

	got := blocks.References(domain.BlockProof, []byte(`{"theorem_id":"`+thm.String()+`","steps":"s"}`))
	require.Len(t, got, 1)
	assert.Equal(t, thm, got[0])

	got = blocks.References(domain.BlockTheorem, []byte(`{"content":"c","proof_id":"`+proof.String()+`"}`))
	require.Len(t, got, 1)
	assert.Equal(t, proof, got[0])
}

func TestReferencesIgnoresNonCanonical(t *testing.T) {
	assert.Empty(t, blocks.References(domain.BlockProof, []byte(`{"theorem_id":"nope"}`)))
	assert.Empty(t, blocks.References(domain.BlockProof, []byte(`{"theorem_id":42}`)))
	assert.Empty(t, blocks.References(domain.BlockAxiom, []byte(`{"theorem_id":"`+id.New().String()+`"}`)))
}

func TestTextMirror(t *testing.T) {
	tests := []struct {
		typ     domain.BlockType
		payload string
		want    string
	}{
		{domain.BlockAxiom, `{"label":"ZFC-1","content":"Extensionality"}`, "ZFC-1 Extensionality"},
		{domain.BlockDefinition, `{"term":"Subset","content":"A ⊆ B"}`, "Subset A ⊆ B"},
		{domain.BlockTheorem, `{"content":"Every set is a subset of itself."}`, "Every set is a subset of itself."},
		{domain.BlockProof, `{"steps":"1. done"}`, "1. done"},
		{domain.BlockParagraph, `{"markdown":"hello"}`, "hello"},
		{domain.BlockHeading, `{"text":"Intro"}`, "Intro"},
		{domain.BlockMath, `{"latex":"x^2"}`, "x^2"},
		{domain.BlockCode, `{"code":"fmt.Println()"}`, "fmt.Println()"},
		{"callout", `{"text":"note"}`, "note"},
		{"callout", `{"content":"fallback"}`, "fallback"},
		{"callout", `{}`, ""},
	}

	for _, tt := range tests {
		got := blocks.TextMirror(tt.typ, []byte(tt.payload))
		assert.Equal(t, tt.want, got, "type %s", tt.typ)
	}
}
