// Package output formats a model.ValidationResult for a consumer: a
// terminal table, JSON for tooling, JUnit XML for CI test reporters,
// or SARIF for security/code-scanning dashboards.
package output

import (
	"fmt"
	"io"

	"github.com/validify-dev/validify/internal/model"
)

// Formatter writes a ValidationResult to the writer it was constructed
// with.
type Formatter interface {
	Format(result *model.ValidationResult) error
}

// NewFormatter returns the Formatter for the given format name: one of
// "table", "json", "junit", "sarif".
func NewFormatter(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "junit":
		return NewJUnitFormatter(w), nil
	case "sarif":
		return NewSARIFFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (supported: table, json, junit, sarif)", format)
	}
}
