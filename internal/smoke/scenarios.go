package smoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"sort"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

const (
	smokePassword         = "password123"
	publicTitle           = "Welcome to Aether (Public)"
	englishCategory       = "English Analysis"
	announcementsCategory = "Announcements"
)

// RequiredTemplates must be served by the backend for the templates scenario
// to pass. ExpectedTemplates are reported when absent but do not fail it.
var (
	RequiredTemplates = []string{"default", "math_v3"}
	ExpectedTemplates = []string{"default", "math_v3", "vrkb", "memo", "admin_system"}
)

// ErrMissingTemplates is returned when a required template is not served.
var ErrMissingTemplates = errors.New("critical templates missing")

// Env is what a scenario runs against.
type Env struct {
	Client *Client
	Out    io.Writer
	// Now and Rand make generated usernames predictable in tests.
	Now  func() time.Time
	Rand *rand.Rand
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) printf(format string, args ...any) {
	if e.Out != nil {
		fmt.Fprintf(e.Out, format, args...)
	}
}

// Scenario is one smoke sequence.
type Scenario func(ctx context.Context, env Env) error

// Scenarios lists every scenario by name.
var Scenarios = map[string]Scenario{
	"public":    Public,
	"english":   English,
	"feed":      Feed,
	"templates": Templates,
}

// Names returns the scenario names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Scenarios))
	for n := range Scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Public registers a fresh guest user (logging in if registration yields no
// token), publishes a public article and checks the guest feed for it.
func Public(ctx context.Context, env Env) error {
	ts := env.now().Unix()
	creds := Credentials{
		Username: fmt.Sprintf("guest_hero_%d", ts),
		Password: smokePassword,
	}
	creds.Email = creds.Username + "@example.com"

	env.printf("Creating user %s...\n", creds.Username)
	token, err := env.Client.Register(ctx, creds)
	if err != nil {
		env.printf("Register failed: %v\n", err)
	}
	if token == "" {
		env.printf("Login...\n")
		token, err = env.Client.Login(ctx, creds)
		if err != nil {
			env.printf("Failed to authenticate: %v\n", err)
			return ErrNoToken
		}
	}
	env.printf("Authenticated.\n")

	env.printf("Creating public article...\n")
	article, err := env.Client.CreateContent(ctx, token, ContentRequest{
		Title:      publicTitle,
		Slug:       fmt.Sprintf("welcome-public-%d", ts),
		Status:     "Published",
		Visibility: "Public",
		Category:   announcementsCategory,
		Body:       "This is a public article visible to guests.",
		Tags:       []string{"welcome", "public"},
		Reason:     "Initial seed",
	})
	if err != nil {
		env.printf("Failed to create article: %v\n", err)
	} else {
		env.printf("Article created: %s\n", article.ID)
	}

	env.printf("Checking guest feed...\n")
	feed, err := env.Client.ListContent(ctx, "", "")
	if err != nil {
		env.printf("Feed failed: %v\n", err)
		return nil
	}
	found := slices.ContainsFunc(feed, func(a Article) bool { return a.Title == publicTitle })
	env.printf("Feed count: %d\n", len(feed))
	env.printf("Found our article: %t\n", found)
	return nil
}

// English registers and logs in a random user, creates a private English
// Analysis draft and lists that category with the user's token.
func English(ctx context.Context, env Env) error {
	creds := Credentials{
		Username: "test_user_" + randomLetters(env.Rand, 6),
		Password: smokePassword,
	}
	creds.Email = creds.Username + "@example.com"

	env.printf("Registering %s...\n", creds.Username)
	if _, err := env.Client.Register(ctx, creds); err != nil {
		env.printf("Register failed: %v\n", err)
	} else {
		env.printf("Register success\n")
	}

	env.printf("Logging in %s...\n", creds.Username)
	token, err := env.Client.Login(ctx, creds)
	if err != nil {
		env.printf("Login failed: %v\n", err)
		return ErrNoToken
	}
	env.printf("Login success, token acquired.\n")

	title, err := json.Marshal(map[string]string{"complex": "title"})
	if err != nil {
		return fmt.Errorf("marshal article title: %w", err)
	}
	body, err := json.Marshal(map[string]string{
		"text":       "This is a test sentence. This is another one.",
		"background": "http://example.com/bg.png",
	})
	if err != nil {
		return fmt.Errorf("marshal article body: %w", err)
	}

	env.printf("Creating English Analysis article...\n")
	if _, err := env.Client.CreateContent(ctx, token, ContentRequest{
		Title:      "Test English Article " + string(title),
		Body:       string(body),
		Category:   englishCategory,
		Tags:       []string{"test", "english"},
		Status:     "Draft",
		Visibility: "Private",
	}); err != nil {
		env.printf("Create failed: %v\n", err)
	} else {
		env.printf("Create success.\n")
	}

	env.printf("Listing articles...\n")
	items, err := env.Client.ListContent(ctx, token, englishCategory)
	if err != nil {
		env.printf("List failed: %v\n", err)
		return nil
	}
	env.printf("List success.\n")
	env.printf("Found %d articles.\n", len(items))
	return nil
}

// Feed fetches the guest content feed and prints it.
func Feed(ctx context.Context, env Env) error {
	status, body, err := env.Client.Get(ctx, "/api/content")
	if err != nil {
		return err
	}
	env.printf("Status: %d\n", status)
	printBody(env, body)
	return nil
}

// Templates checks that the backend serves the standard layout templates.
func Templates(ctx context.Context, env Env) error {
	env.printf("Testing GET /api/templates...\n")
	templates, err := env.Client.ListTemplates(ctx)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return errors.New("template list is empty")
	}

	found := make(map[string]bool, len(templates))
	for _, t := range templates {
		env.printf("  %s: %s\n", t.RendererID, t.Title)
		found[t.RendererID] = true
	}

	var missing []string
	for _, want := range ExpectedTemplates {
		if !found[want] {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		env.printf("Missing standard templates: %v\n", missing)
		for _, req := range RequiredTemplates {
			if slices.Contains(missing, req) {
				return fmt.Errorf("%w: %v", ErrMissingTemplates, missing)
			}
		}
	}

	env.printf("Templates verification passed.\n")
	return nil
}

func printBody(env Env, body []byte) {
	if gjson.ValidBytes(body) {
		env.printf("Data: %s", pretty.Pretty(body))
		return
	}
	env.printf("Raw Body: %s\n", body)
}

const letters = "abcdefghijklmnopqrstuvwxyz"

func randomLetters(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		if r != nil {
			b[i] = letters[r.IntN(len(letters))]
		} else {
			b[i] = letters[rand.IntN(len(letters))]
		}
	}
	return string(b)
}
