package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/johnwards/aethertool/internal/auth"
	"github.com/johnwards/aethertool/internal/blocks"
	"github.com/johnwards/aethertool/internal/domain"
	"github.com/johnwards/aethertool/internal/id"
	"github.com/johnwards/aethertool/internal/store"
)

const (
	DemoKnowledgeBaseTitle = "Math Demo KB"
	DemoDocumentTitle      = "Set Theory Basics"
	DefaultDemoUsername    = "math_user"
	defaultDemoPassword    = "password123"
)

// Demo rows live at fixed, namespaced IDs. Cleanup deletes by these IDs so
// rows that merely share a title are never touched.
var (
	DemoKnowledgeBaseID = id.Demo("knowledge_base/math-demo")
	DemoDocumentID      = id.Demo("node/set-theory-basics")
)

// ErrOwnerNotFound is returned when an explicit owner ID does not exist.
var ErrOwnerNotFound = errors.New("owner not found")

// DemoOptions selects the owner of the demo data. OwnerID wins when set and
// must exist. Otherwise the user named OwnerUsername (default "math_user")
// is used, and created when missing.
type DemoOptions struct {
	OwnerID       id.ID
	OwnerUsername string
	OwnerPassword string
}

// DemoResult lists what a Demo run wrote.
type DemoResult struct {
	OwnerID         id.ID
	CreatedOwner    bool
	RemovedPrevious bool
	RemovedBlocks   int64
	KnowledgeBaseID id.ID
	DocumentID      id.ID
	TheoremID       id.ID
	ProofID         id.ID
	Blocks          []*domain.Block
}

// Demo replaces the math demonstration knowledge base: it removes the rows
// a previous run left at the demo IDs and inserts a fresh knowledge base,
// one document and four blocks (axiom, definition, theorem, proof at
// ordinals 0-3). Everything happens in one transaction.
//
// The theorem's ID is generated once. Its binary form is the row key and
// its string form is what the proof payload carries in theorem_id.
func Demo(ctx context.Context, db *sql.DB, opts DemoOptions, out io.Writer) (*DemoResult, error) {
	if out == nil {
		out = io.Discard
	}

	var res *DemoResult
	err := store.WithTx(ctx, db, func(s *store.Store) error {
		var err error
		res, err = seedDemo(ctx, s, opts, out)
		return err
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "Seed complete.")
	fmt.Fprintf(out, "KB ID for Curl (String): %s\n", res.KnowledgeBaseID)
	return res, nil
}

func seedDemo(ctx context.Context, s *store.Store, opts DemoOptions, out io.Writer) (*DemoResult, error) {
	owner, created, err := resolveOwner(ctx, s.Users, opts, out)
	if err != nil {
		return nil, err
	}
	res := &DemoResult{OwnerID: owner.ID, CreatedOwner: created}

	fmt.Fprintln(out, "Cleaning up previous seed data...")
	res.RemovedPrevious, res.RemovedBlocks, err = removeDemo(ctx, s)
	if err != nil {
		return nil, err
	}

	kb := &domain.KnowledgeBase{
		ID:          DemoKnowledgeBaseID,
		AuthorID:    owner.ID,
		Title:       DemoKnowledgeBaseTitle,
		Description: "V2 Architecture Demo",
		Tags:        []string{},
		Visibility:  domain.VisibilityPublic,
	}
	fmt.Fprintf(out, "Creating KB: %s\n", kb.ID)
	if err := s.KnowledgeBases.Create(ctx, kb); err != nil {
		return nil, fmt.Errorf("create demo knowledge base: %w", err)
	}
	res.KnowledgeBaseID = kb.ID

	doc := &domain.Node{
		ID:              DemoDocumentID,
		AuthorID:        owner.ID,
		KnowledgeBaseID: kb.ID,
		Type:            domain.NodeTypeArticle,
		Title:           DemoDocumentTitle,
		PermissionMode:  string(domain.VisibilityPublic),
	}
	fmt.Fprintf(out, "Creating Document: %s\n", doc.ID)
	if err := s.Nodes.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create demo document: %w", err)
	}
	res.DocumentID = doc.ID

	res.TheoremID = id.New()
	res.ProofID = id.New()
	seq, err := demoBlocks(doc.ID, res.TheoremID, res.ProofID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "Inserting Blocks...")
	for _, b := range seq {
		if err := s.Blocks.Create(ctx, b); err != nil {
			return nil, fmt.Errorf("create %s block: %w", b.Type, err)
		}
		fmt.Fprintf(out, "  %d %s: %s\n", b.Ordinal, b.Type, blocks.TextMirror(b.Type, b.Payload))
	}
	res.Blocks = seq
	return res, nil
}

func resolveOwner(ctx context.Context, users store.UserStore, opts DemoOptions, out io.Writer) (*domain.User, bool, error) {
	if !opts.OwnerID.IsNil() {
		u, err := users.Get(ctx, opts.OwnerID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: %s", ErrOwnerNotFound, opts.OwnerID)
		}
		if err != nil {
			return nil, false, fmt.Errorf("get owner: %w", err)
		}
		return u, false, nil
	}

	username := opts.OwnerUsername
	if username == "" {
		username = DefaultDemoUsername
	}
	u, err := users.GetByUsername(ctx, username)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("get owner %q: %w", username, err)
	}

	password := opts.OwnerPassword
	if password == "" {
		password = defaultDemoPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	email := username + "@example.com"
	if username == DefaultDemoUsername {
		email = "math@example.com"
	}
	fmt.Fprintf(out, "Creating User %s...\n", username)
	u, err = users.Create(ctx, username, email, hash)
	if err != nil {
		return nil, false, fmt.Errorf("create owner: %w", err)
	}
	return u, true, nil
}

// removeDemo deletes what a previous run left behind: the blocks and nodes
// of the demo knowledge base (and the demo document wherever it is), then
// the knowledge base itself. It reports whether a previous knowledge base
// was found and how many blocks went with it.
func removeDemo(ctx context.Context, s *store.Store) (bool, int64, error) {
	nodes, err := s.Nodes.ListByKnowledgeBase(ctx, DemoKnowledgeBaseID)
	if err != nil {
		return false, 0, fmt.Errorf("list demo documents: %w", err)
	}
	docIDs := []id.ID{DemoDocumentID}
	for _, n := range nodes {
		if n.ID != DemoDocumentID {
			docIDs = append(docIDs, n.ID)
		}
	}

	var removedBlocks int64
	for _, docID := range docIDs {
		n, err := s.Blocks.DeleteByDocument(ctx, docID)
		if err != nil {
			return false, 0, fmt.Errorf("remove blocks of %s: %w", docID, err)
		}
		removedBlocks += n
		if _, err := s.Nodes.Delete(ctx, docID); err != nil {
			return false, 0, fmt.Errorf("remove document %s: %w", docID, err)
		}
	}

	removed, err := s.KnowledgeBases.Delete(ctx, DemoKnowledgeBaseID)
	if err != nil {
		return false, 0, fmt.Errorf("remove demo knowledge base: %w", err)
	}
	return removed, removedBlocks, nil
}

func demoBlocks(docID, theoremID, proofID id.ID) ([]*domain.Block, error) {
	specs := []struct {
		id      id.ID
		typ     domain.BlockType
		payload any
	}{
		{id.New(), domain.BlockAxiom, blocks.Axiom{
			Label:   "ZFC-1",
			Content: `Extensionality: $\forall x \forall y (\forall z (z \in x \iff z \in y) \implies x = y)$`,
		}},
		{id.New(), domain.BlockDefinition, blocks.Definition{
			Term:    "Subset",
			Content: `A set $A$ is a subset of $B$ ($A \subseteq B$) if every element of $A$ is in $B$.`,
		}},
		{theoremID, domain.BlockTheorem, blocks.Theorem{
			Label:   "Theorem 1.1",
			Content: "Every set is a subset of itself.",
			ProofID: proofID.String(),
		}},
		{proofID, domain.BlockProof, blocks.Proof{
			TheoremID: theoremID.String(),
			Steps:     "1. Let $x$ be an arbitrary element of $A$. \n2. Then trivially $x \\in A$. \n3. Therefore, $A \\subseteq A$.",
			QEDSymbol: "Q.E.D.",
		}},
	}

	out := make([]*domain.Block, 0, len(specs))
	for ordinal, sp := range specs {
		payload, err := blocks.Encode(sp.typ, sp.payload)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.Block{
			ID:         sp.id,
			DocumentID: docID,
			Type:       sp.typ,
			Ordinal:    ordinal,
			Revision:   1,
			Payload:    payload,
		})
	}
	return out, nil
}
