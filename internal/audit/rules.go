// Package audit checks a project tree against structural and source
// constraints: directories that must exist and source patterns that must
// not appear.
package audit

import (
	"fmt"
	"os"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Pattern forbids Regex in files whose slash-separated path relative to the
// audit root matches Glob.
type Pattern struct {
	Glob    string `yaml:"glob"`
	Regex   string `yaml:"regex"`
	Message string `yaml:"message"`

	re *regexp.Regexp
}

// Rules is the full policy for one audit.
type Rules struct {
	RequiredDirs []string  `yaml:"required_dirs"`
	Patterns     []Pattern `yaml:"patterns"`
	// SkipDirs are directory names never descended into.
	SkipDirs []string `yaml:"skip_dirs"`
}

// DefaultRules returns the built-in project policy.
func DefaultRules() Rules {
	return Rules{
		RequiredDirs: []string{
			"AI/const",
			"AI/skills",
			"AI/context/specs",
			"AI/memory",
			"doc/architecture",
			"scripts/audit",
			"scripts/scaffold",
			".agent/workflows",
		},
		Patterns: []Pattern{
			{
				Glob:    "**/*.vue",
				Regex:   `import.*from ['"]axios['"]`,
				Message: "CRITICAL: Direct axios import in Vue component. Use Composables (useContent, useAuth).",
			},
			{
				Glob:    "**/*.rs",
				Regex:   `\bpanic!\(`,
				Message: "CRITICAL: Explicit panic! found in Rust code. Use Result<T, AppError>.",
			},
		},
		SkipDirs: []string{"node_modules", "target", ".git"},
	}
}

// LoadRules reads rules from a YAML file. Sections left out of the file
// keep their defaults.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules: %w", err)
	}

	var file Rules
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rules{}, fmt.Errorf("decode rules %s: %w", path, err)
	}

	rules := DefaultRules()
	if file.RequiredDirs != nil {
		rules.RequiredDirs = file.RequiredDirs
	}
	if file.Patterns != nil {
		rules.Patterns = file.Patterns
	}
	if file.SkipDirs != nil {
		rules.SkipDirs = file.SkipDirs
	}
	return rules, nil
}

// compile validates every pattern and caches its regular expression.
func (r *Rules) compile() error {
	for i := range r.Patterns {
		p := &r.Patterns[i]
		if !doublestar.ValidatePattern(p.Glob) {
			return fmt.Errorf("pattern %d: invalid glob %q", i, p.Glob)
		}
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return fmt.Errorf("pattern %d: %w", i, err)
		}
		p.re = re
	}
	return nil
}
