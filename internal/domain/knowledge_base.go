package domain

import (
	"fmt"

	"github.com/johnwards/aethertool/internal/id"
)

// Visibility controls who can read a knowledge base.
type Visibility string

const (
	VisibilityPublic  Visibility = "Public"
	VisibilityPrivate Visibility = "Private"
)

// ParseVisibility accepts the two canonical values, case-sensitively.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityPrivate:
		return Visibility(s), nil
	}
	return "", fmt.Errorf("invalid visibility %q", s)
}

// KnowledgeBase is a titled, owned collection of documents.
type KnowledgeBase struct {
	ID           id.ID      `json:"id"`
	AuthorID     id.ID      `json:"authorId"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Tags         []string   `json:"tags"`
	CoverOffsetY int        `json:"coverOffsetY"`
	RendererID   string     `json:"rendererId,omitempty"`
	Visibility   Visibility `json:"visibility"`
	CreatedAt    string     `json:"createdAt"`
	UpdatedAt    string     `json:"updatedAt"`
}
