package domain

import "github.com/johnwards/aethertool/internal/id"

// LayoutTemplate is reference data keyed by RendererID.
type LayoutTemplate struct {
	ID          id.ID    `json:"id"`
	RendererID  string   `json:"renderer_id" yaml:"renderer_id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Thumbnail   string   `json:"thumbnail,omitempty" yaml:"thumbnail"`
	Tags        []string `json:"tags" yaml:"tags"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}
