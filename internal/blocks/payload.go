// Package blocks holds the payload shapes of typed content blocks and the
// helpers the backend applies to them: reference extraction and the
// searchable text mirror.
package blocks

import (
	"encoding/json"
	"fmt"

	"github.com/johnwards/aethertool/internal/domain"
)

// Axiom is the payload of an axiom block.
type Axiom struct {
	Label   string `json:"label,omitempty"`
	Content string `json:"content"`
}

// Definition is the payload of a definition block.
type Definition struct {
	Term    string `json:"term"`
	Content string `json:"content"`
}

// Theorem is the payload of a theorem block. ProofID, when set, is the
// canonical string form of the proof block's ID.
type Theorem struct {
	Label   string `json:"label,omitempty"`
	Content string `json:"content"`
	ProofID string `json:"proof_id,omitempty"`
}

// Proof is the payload of a proof block. TheoremID is the canonical string
// form of the theorem block's ID, never its binary form.
type Proof struct {
	TheoremID string `json:"theorem_id,omitempty"`
	Steps     string `json:"steps"`
	QEDSymbol string `json:"qcd_symbol,omitempty"`
}

// Encode marshals a payload after checking it carries the fields its block
// type requires.
func Encode(t domain.BlockType, payload any) (json.RawMessage, error) {
	if err := validate(t, payload); err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return data, nil
}

func validate(t domain.BlockType, payload any) error {
	switch p := payload.(type) {
	case Axiom:
		if t != domain.BlockAxiom {
			return fmt.Errorf("axiom payload used for %s block", t)
		}
		if p.Content == "" {
			return fmt.Errorf("axiom: content is required")
		}
	case Definition:
		if t != domain.BlockDefinition {
			return fmt.Errorf("definition payload used for %s block", t)
		}
		if p.Term == "" || p.Content == "" {
			return fmt.Errorf("definition: term and content are required")
		}
	case Theorem:
		if t != domain.BlockTheorem {
			return fmt.Errorf("theorem payload used for %s block", t)
		}
		if p.Content == "" {
			return fmt.Errorf("theorem: content is required")
		}
	case Proof:
		if t != domain.BlockProof {
			return fmt.Errorf("proof payload used for %s block", t)
		}
		if p.Steps == "" {
			return fmt.Errorf("proof: steps are required")
		}
	}
	return nil
}
