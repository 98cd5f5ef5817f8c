package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/johnwards/aethertool/internal/auth"
	"github.com/johnwards/aethertool/internal/domain"
	"github.com/johnwards/aethertool/internal/store"
)

const (
	AdminUsername = "admin"
	adminEmail    = "admin@aether.io"

	SystemRendererID = "admin_system"
)

// AdminOptions configures the administrator account. Password defaults to
// "admin" and is only used when the account is created.
type AdminOptions struct {
	Password string
}

// AdminUser makes sure the administrator account exists. An existing account
// is returned unchanged.
func AdminUser(ctx context.Context, users store.UserStore, opts AdminOptions, out io.Writer) (*domain.User, bool, error) {
	if out == nil {
		out = io.Discard
	}

	u, err := users.GetByUsername(ctx, AdminUsername)
	if err == nil {
		fmt.Fprintf(out, "  Skipping user %s: exists\n", AdminUsername)
		return u, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("look up admin user: %w", err)
	}

	password := opts.Password
	if password == "" {
		password = "admin"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	u, err = users.Create(ctx, AdminUsername, adminEmail, hash)
	if err != nil {
		return nil, false, fmt.Errorf("create admin user: %w", err)
	}
	fmt.Fprintf(out, "  Inserting user %s\n", AdminUsername)
	return u, true, nil
}

// SystemKnowledgeBase makes sure a private knowledge base bound to the
// admin_system renderer exists, owned by owner.
func SystemKnowledgeBase(ctx context.Context, kbs store.KnowledgeBaseStore, owner *domain.User, out io.Writer) (*domain.KnowledgeBase, bool, error) {
	if out == nil {
		out = io.Discard
	}

	kb, err := kbs.GetByRendererID(ctx, SystemRendererID)
	if err == nil {
		fmt.Fprintf(out, "  Skipping knowledge base %s: exists\n", kb.Title)
		return kb, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("look up system knowledge base: %w", err)
	}

	kb = &domain.KnowledgeBase{
		AuthorID:    owner.ID,
		Title:       "Admin System",
		Description: "System Administration Workspace",
		Tags:        []string{"System", "Admin"},
		RendererID:  SystemRendererID,
		Visibility:  domain.VisibilityPrivate,
	}
	if err := kbs.Create(ctx, kb); err != nil {
		return nil, false, fmt.Errorf("create system knowledge base: %w", err)
	}
	fmt.Fprintf(out, "  Inserting knowledge base %s\n", kb.Title)
	return kb, true, nil
}
