// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapping

import (
	"fmt"

	"github.com/pdiddy/localize-engine/internal/scan"
)

// Severity classifies a validation problem.
type Severity string

const (
	// SeverityError marks problems the toolchain cannot work around.
	SeverityError Severity = "error"
	// SeverityWarning marks problems the external scanner owns the final
	// word on, such as extension identifiers we do not recognize.
	SeverityWarning Severity = "warning"
)

// Problem is one validation finding, tied to a line of the mapping file.
type Problem struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Line     int      `json:"line" yaml:"line"`
	Message  string   `json:"message" yaml:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: line %d: %s", p.Severity, p.Line, p.Message)
}

// HasErrors reports whether any problem is error-severity.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate runs the structural checks on the mapping: every pattern must
// compile as a glob, repeated kinds get distinct patterns (parsing already
// rejects exact duplicates), and extension identifiers should be known to
// reg. Parsing guarantees kinds and patterns are non-empty.
func (m *Mapping) Validate(reg *Registry) []Problem {
	var problems []Problem

	for _, rule := range m.Rules {
		if _, err := scan.Compile(rule.Pattern); err != nil {
			problems = append(problems, Problem{
				Severity: SeverityError,
				Line:     rule.Line,
				Message:  err.Error(),
			})
		}

		for _, o := range rule.Options {
			if o.Key == "" {
				problems = append(problems, Problem{
					Severity: SeverityError,
					Line:     rule.Line,
					Message:  fmt.Sprintf("section [%s: %s] has an option with an empty key", rule.Kind, rule.Pattern),
				})
			}
		}

		if raw, ok := rule.Option("extensions"); ok {
			exts := rule.Extensions()
			if len(exts) == 0 {
				problems = append(problems, Problem{
					Severity: SeverityWarning,
					Line:     rule.Line,
					Message:  fmt.Sprintf("section [%s: %s] declares an empty extensions list %q", rule.Kind, rule.Pattern, raw),
				})
			}
			for _, ext := range exts {
				if !reg.Known(ext) {
					problems = append(problems, Problem{
						Severity: SeverityWarning,
						Line:     rule.Line,
						Message:  fmt.Sprintf("unknown extension identifier %q", ext),
					})
				}
			}
		}
	}

	return problems
}
