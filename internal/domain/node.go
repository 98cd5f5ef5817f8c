package domain

import "github.com/johnwards/aethertool/internal/id"

// Node types written by the tooling.
const (
	NodeTypeArticle = "article"
	NodeTypeFolder  = "folder"
)

// Node is a document inside a knowledge base.
type Node struct {
	ID              id.ID  `json:"id"`
	ParentID        *id.ID `json:"parentId,omitempty"`
	AuthorID        id.ID  `json:"authorId"`
	KnowledgeBaseID id.ID  `json:"knowledgeBaseId"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	PermissionMode  string `json:"permissionMode"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}
