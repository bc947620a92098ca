package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/validify-dev/validify/internal/model"
)

// TableFormatter renders a ValidationResult as a plain-text summary
// table, one line per rule that produced at least one failure, followed
// by one line per recorded failed assertion with its message.
type TableFormatter struct {
	w io.Writer
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{w: w}
}

func (f *TableFormatter) Format(result *model.ValidationResult) error {
	fmt.Fprintf(f.w, "profile: %s\n", result.ProfileName)
	fmt.Fprintf(f.w, "compliant: %v\n", result.Compliant())
	fmt.Fprintf(f.w, "end status: %s\n", result.EndStatus)
	fmt.Fprintf(f.w, "total checks: %d, failed: %d\n\n", result.TotalChecks, result.TotalFailedChecks)

	if len(result.FailedChecksByRule) == 0 {
		fmt.Fprintln(f.w, "no failed rules")
		return nil
	}

	ruleIDs := make([]string, 0, len(result.FailedChecksByRule))
	for id := range result.FailedChecksByRule {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)

	fmt.Fprintf(f.w, "%-30s %10s\n", "RULE", "FAILURES")
	for _, id := range ruleIDs {
		fmt.Fprintf(f.w, "%-30s %10d\n", id, result.FailedChecksByRule[id])
	}

	fmt.Fprintln(f.w)
	for _, a := range result.Assertions {
		if a.Passed {
			continue
		}
		fmt.Fprintf(f.w, "  [%s] %s: %s\n", a.RuleID, a.Location.Context, a.Message)
	}
	return nil
}
