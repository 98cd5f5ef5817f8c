package audit

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Violation is one forbidden pattern found in one file.
type Violation struct {
	Path    string
	Message string
}

// Report is the outcome of an audit.
type Report struct {
	MissingDirs []string
	Violations  []Violation
}

// Passed reports whether the tree is compliant.
func (r *Report) Passed() bool {
	return len(r.MissingDirs) == 0 && len(r.Violations) == 0
}

// ExitCode maps the report to the process exit status: 0 compliant, 1 not.
func (r *Report) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}

// Run audits the tree at root and writes human-readable diagnostics to out.
// An error is returned only when the rules are invalid or root cannot be
// walked; policy failures are reported through the Report.
func Run(root string, rules Rules, out io.Writer) (*Report, error) {
	if out == nil {
		out = io.Discard
	}
	if err := rules.compile(); err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("audit root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("audit root %s is not a directory", root)
	}

	report := &Report{}

	fmt.Fprintln(out, "Aether Project Auditor")
	fmt.Fprintln(out, "----------------------")

	fmt.Fprintln(out, "Auditing directory structure...")
	report.MissingDirs = missingDirs(root, rules.RequiredDirs)
	if len(report.MissingDirs) == 0 {
		fmt.Fprintln(out, "  Directory structure OK")
	}
	for _, d := range report.MissingDirs {
		fmt.Fprintf(out, "  FAIL missing directory: %s\n", d)
	}

	fmt.Fprintln(out, "Scanning code constraints...")
	report.Violations, err = scan(root, rules)
	if err != nil {
		return nil, err
	}
	if len(report.Violations) == 0 {
		fmt.Fprintln(out, "  Constraints OK")
	}
	for _, v := range report.Violations {
		fmt.Fprintf(out, "  FAIL violation in %s: %s\n", v.Path, v.Message)
	}

	if report.Passed() {
		fmt.Fprintln(out, "\nAUDIT PASSED. System is compliant.")
	} else {
		fmt.Fprintln(out, "\nAUDIT FAILED. Please fix violations.")
	}
	return report, nil
}

func missingDirs(root string, required []string) []string {
	var missing []string
	for _, d := range required {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(d)))
		if err != nil || !info.IsDir() {
			missing = append(missing, d)
		}
	}
	return missing
}

func scan(root string, rules Rules) ([]Violation, error) {
	var violations []Violation

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if path != root && slices.Contains(rules.SkipDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		var content []byte
		for _, p := range rules.Patterns {
			if ok, _ := doublestar.Match(p.Glob, rel); !ok {
				continue
			}
			if content == nil {
				content, err = os.ReadFile(path)
				if err != nil {
					// Unreadable files are skipped.
					return nil
				}
			}
			if p.re.Match(content) {
				violations = append(violations, Violation{Path: rel, Message: p.Message})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return violations, nil
}
