package seed_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/aethertool/internal/domain"
	"github.com/johnwards/aethertool/internal/seed"
	"github.com/johnwards/aethertool/internal/store"
	"github.com/johnwards/aethertool/internal/testhelpers"
)

func TestDefaultTemplates(t *testing.T) {
	templates, err := seed.DefaultTemplates()
	require.NoError(t, err)

	ids := make(map[string]bool, len(templates))
	for _, tpl := range templates {
		assert.False(t, ids[tpl.RendererID], "duplicate renderer_id %s", tpl.RendererID)
		ids[tpl.RendererID] = true
		assert.NotEmpty(t, tpl.Title, "title of %s", tpl.RendererID)
	}
	for _, want := range []string{"default", "math_v3", "vrkb", "english", "prkb", "memo", "admin_system"} {
		assert.True(t, ids[want], "missing %s", want)
	}
}

func TestTemplatesIsIdempotent(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)
	ts := store.New(db).Templates
	ctx := context.Background()

	templates, err := seed.DefaultTemplates()
	require.NoError(t, err)

	var out bytes.Buffer
	first, err := seed.Templates(ctx, ts, templates, &out)
	require.NoError(t, err)
	assert.Equal(t, len(templates), first.Inserted)
	assert.Zero(t, first.Skipped)
	assert.Contains(t, out.String(), "Inserting Math Manuscript V3 (math_v3)")
	assert.Len(t, first.Installed, len(templates))

	for range 3 {
		out.Reset()
		rep, err := seed.Templates(ctx, ts, templates, &out)
		require.NoError(t, err)
		assert.Zero(t, rep.Inserted)
		assert.Equal(t, len(templates), rep.Skipped)
		assert.Contains(t, out.String(), "Skipping Math Manuscript V3 (math_v3): exists")
	}

	for _, tpl := range templates {
		n := testhelpers.CountRows(t, db, `SELECT COUNT(*) FROM layout_templates WHERE renderer_id = ?`, tpl.RendererID)
		assert.Equal(t, 1, n, "rows for %s", tpl.RendererID)
	}
}

func TestTemplatesLeavesExistingRowsAlone(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)
	ts := store.New(db).Templates
	ctx := context.Background()

	custom := &domain.LayoutTemplate{RendererID: "default", Title: "My Blog"}
	require.NoError(t, ts.Create(ctx, custom))

	require.NoError(t, ts.Create(ctx, &domain.LayoutTemplate{RendererID: "custom", Title: "Custom"}))

	var out bytes.Buffer
	rep, err := seed.Templates(ctx, ts, []domain.LayoutTemplate{
		{RendererID: "default", Title: "Blog Standard"},
		{RendererID: "memo", Title: "Memo Board"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Inserted)
	assert.Equal(t, 1, rep.Skipped)
	assert.Equal(t, []string{"custom", "default", "memo"}, rep.Installed)
	assert.Contains(t, out.String(), "3 templates installed")

	got, err := ts.GetByRendererID(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "My Blog", got.Title)
	assert.Equal(t, custom.CreatedAt, got.CreatedAt)
}
