package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/johnwards/aethertool/internal/domain"
	"github.com/johnwards/aethertool/internal/store"
)

//go:embed templates.yaml
var templatesYAML []byte

// DefaultTemplates returns the compiled-in layout templates.
func DefaultTemplates() ([]domain.LayoutTemplate, error) {
	var out []domain.LayoutTemplate
	if err := yaml.Unmarshal(templatesYAML, &out); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	for i, t := range out {
		if t.RendererID == "" {
			return nil, fmt.Errorf("template %d: renderer_id is required", i)
		}
	}
	return out, nil
}

// TemplateOutcome records what happened to one template.
type TemplateOutcome struct {
	RendererID string
	Title      string
	Inserted   bool
}

// TemplateReport summarises a Templates run.
type TemplateReport struct {
	Items    []TemplateOutcome
	Inserted int
	Skipped  int
	// Installed lists every template in the store after the run, including
	// ones not in the seeded set, ordered by renderer ID.
	Installed []string
}

// Templates inserts each template whose renderer ID is not present yet and
// leaves existing rows exactly as they are. One line per template is
// written to out. Running it any number of times converges to one row per
// renderer ID.
func Templates(ctx context.Context, ts store.TemplateStore, templates []domain.LayoutTemplate, out io.Writer) (*TemplateReport, error) {
	if out == nil {
		out = io.Discard
	}
	report := &TemplateReport{}

	for _, t := range templates {
		outcome := TemplateOutcome{RendererID: t.RendererID, Title: t.Title}

		_, err := ts.GetByRendererID(ctx, t.RendererID)
		switch {
		case err == nil:
			// Exists: leave it alone.
		case errors.Is(err, store.ErrNotFound):
			row := t
			if err := ts.Create(ctx, &row); err != nil {
				if !errors.Is(err, store.ErrConflict) {
					return report, fmt.Errorf("insert template %q: %w", t.RendererID, err)
				}
			} else {
				outcome.Inserted = true
			}
		default:
			return report, fmt.Errorf("look up template %q: %w", t.RendererID, err)
		}

		if outcome.Inserted {
			report.Inserted++
			fmt.Fprintf(out, "  Inserting %s (%s)\n", t.Title, t.RendererID)
		} else {
			report.Skipped++
			fmt.Fprintf(out, "  Skipping %s (%s): exists\n", t.Title, t.RendererID)
		}
		report.Items = append(report.Items, outcome)
	}

	all, err := ts.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list templates: %w", err)
	}
	for _, t := range all {
		report.Installed = append(report.Installed, t.RendererID)
	}
	fmt.Fprintf(out, "  %d templates installed\n", len(report.Installed))

	return report, nil
}
