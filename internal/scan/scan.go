// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan resolves an extraction mapping against a project tree and
// produces the file plan the extraction stage runs on.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/pdiddy/localize-engine/pkg/types"
)

// Compile builds a matcher for a mapping glob pattern. Patterns use "/" as
// the separator on every platform; "*" stays within a path segment and
// "**" crosses segments. A pattern segment of the form "**.ext" is
// shorthand accepted by the mapping dialect for "any .ext file at any
// depth", which a literal compile already satisfies because "**" matches
// the empty string.
func Compile(pattern string) (glob.Glob, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	return g, nil
}

// PlanRule is one scan rule with the files it matched.
type PlanRule struct {
	Rule  types.ScanRule `json:"rule" yaml:"rule"`
	Files []string       `json:"files" yaml:"files"`
}

// Plan is the result of resolving a mapping against a project root.
type Plan struct {
	// Root is the project root the plan was built from.
	Root string `json:"root" yaml:"root"`

	// Rules lists each scan rule with its matched files, in mapping
	// order. A file belongs to the first rule that matches it.
	Rules []PlanRule `json:"rules" yaml:"rules"`

	// Unmatched lists regular files no rule matched, in walk order.
	Unmatched []string `json:"unmatched,omitempty" yaml:"unmatched,omitempty"`
}

// Matched returns the total number of files assigned to rules.
func (p *Plan) Matched() int {
	n := 0
	for _, r := range p.Rules {
		n += len(r.Files)
	}
	return n
}

// BuildPlan walks root once and assigns every regular file to the first
// rule whose pattern matches its slash-separated path relative to root.
// Hidden directories and localeDir are pruned; localeDir may be empty.
func BuildPlan(root string, rules []types.ScanRule, localeDir string) (*Plan, error) {
	matchers := make([]glob.Glob, len(rules))
	for i, r := range rules {
		g, err := Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule [%s: %s]: %w", r.Kind, r.Pattern, err)
		}
		matchers[i] = g
	}

	skipDir := ""
	if localeDir != "" {
		if rel, err := filepath.Rel(root, localeDir); err == nil && !strings.HasPrefix(rel, "..") {
			skipDir = filepath.ToSlash(rel)
		}
	}

	plan := &Plan{Root: root, Rules: make([]PlanRule, len(rules))}
	for i, r := range rules {
		plan.Rules[i] = PlanRule{Rule: r}
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || rel == skipDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		for i, g := range matchers {
			if g.Match(rel) {
				plan.Rules[i].Files = append(plan.Rules[i].Files, rel)
				return nil
			}
		}
		plan.Unmatched = append(plan.Unmatched, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return plan, nil
}
