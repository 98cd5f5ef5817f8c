package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/johnwards/aethertool/internal/domain"
	"github.com/johnwards/aethertool/internal/id"
	"github.com/johnwards/aethertool/internal/store"
	"github.com/johnwards/aethertool/internal/testhelpers"
)

var (
	_ store.NodeStore  = (*store.SQLiteNodeStore)(nil)
	_ store.BlockStore = (*store.SQLiteBlockStore)(nil)
)

func createDocument(t *testing.T, s *store.Store) *domain.Node {
	t.Helper()
	ctx := context.Background()
	owner := createUser(t, s, "writer")

	kb := &domain.KnowledgeBase{AuthorID: owner.ID, Title: "KB", Visibility: domain.VisibilityPublic}
	if err := s.KnowledgeBases.Create(ctx, kb); err != nil {
		t.Fatalf("create kb: %v", err)
	}
	n := &domain.Node{
		AuthorID:        owner.ID,
		KnowledgeBaseID: kb.ID,
		Type:            domain.NodeTypeArticle,
		Title:           "Doc",
		PermissionMode:  "Public",
	}
	if err := s.Nodes.Create(ctx, n); err != nil {
		t.Fatalf("create node: %v", err)
	}
	return n
}

func TestNodeCreateGetList(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	doc := createDocument(t, s)

	got, err := s.Nodes.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Doc" || got.KnowledgeBaseID != doc.KnowledgeBaseID || got.ParentID != nil {
		t.Errorf("got %+v", got)
	}

	parent := doc.ID
	child := &domain.Node{
		ParentID:        &parent,
		AuthorID:        doc.AuthorID,
		KnowledgeBaseID: doc.KnowledgeBaseID,
		Type:            domain.NodeTypeArticle,
		Title:           "Child",
		PermissionMode:  "Private",
	}
	if err := s.Nodes.Create(ctx, child); err != nil {
		t.Fatalf("create child: %v", err)
	}

	list, err := s.Nodes.ListByKnowledgeBase(ctx, doc.KnowledgeBaseID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[1].ParentID == nil || *list[1].ParentID != doc.ID {
		t.Errorf("child ParentID = %v, want %s", list[1].ParentID, doc.ID)
	}
}

func TestBlocksListInOrdinalOrder(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	doc := createDocument(t, s)

	// Insert out of order; reads come back by ordinal.
	for _, ord := range []int{2, 0, 1} {
		b := &domain.Block{
			DocumentID: doc.ID,
			Type:       domain.BlockParagraph,
			Ordinal:    ord,
			Payload:    []byte(`{"markdown":"p"}`),
		}
		if err := s.Blocks.Create(ctx, b); err != nil {
			t.Fatalf("create block %d: %v", ord, err)
		}
		if b.Revision != 1 {
			t.Errorf("Revision = %d, want 1", b.Revision)
		}
	}

	list, err := s.Blocks.ListByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var ords []int
	for _, b := range list {
		ords = append(ords, b.Ordinal)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, ords); diff != "" {
		t.Errorf("ordinals mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockOrdinalConflict(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	doc := createDocument(t, s)

	first := &domain.Block{DocumentID: doc.ID, Type: domain.BlockHeading, Ordinal: 0}
	if err := s.Blocks.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := s.Blocks.Create(ctx, &domain.Block{DocumentID: doc.ID, Type: domain.BlockHeading, Ordinal: 0})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestBlockKeepsCallerID(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	doc := createDocument(t, s)

	want := id.New()
	b := &domain.Block{ID: want, DocumentID: doc.ID, Type: domain.BlockTheorem, Payload: []byte(`{"content":"c"}`)}
	if err := s.Blocks.Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Blocks.Get(ctx, want)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != want || got.Type != domain.BlockTheorem || string(got.Payload) != `{"content":"c"}` {
		t.Errorf("got %+v", got)
	}
}

func TestDeleteNodeCascadesBlocks(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)
	s := store.New(db)
	ctx := context.Background()
	doc := createDocument(t, s)

	for ord := range 3 {
		if err := s.Blocks.Create(ctx, &domain.Block{DocumentID: doc.ID, Type: domain.BlockParagraph, Ordinal: ord}); err != nil {
			t.Fatalf("create block: %v", err)
		}
	}

	removed, err := s.Nodes.Delete(ctx, doc.ID)
	if err != nil {
		t.Fatalf("delete node: %v", err)
	}
	if !removed {
		t.Fatal("expected node to be removed")
	}
	if n := testhelpers.CountRows(t, db, `SELECT COUNT(*) FROM blocks`); n != 0 {
		t.Errorf("blocks left = %d, want 0", n)
	}
}

func TestDeleteByDocument(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	doc := createDocument(t, s)

	for ord := range 4 {
		if err := s.Blocks.Create(ctx, &domain.Block{DocumentID: doc.ID, Type: domain.BlockParagraph, Ordinal: ord}); err != nil {
			t.Fatalf("create block: %v", err)
		}
	}

	n, err := s.Blocks.DeleteByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 4 {
		t.Errorf("deleted = %d, want 4", n)
	}
}
