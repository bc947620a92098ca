package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/validify-dev/validify/internal/model"
)

// SARIFFormatter renders a ValidationResult as SARIF 2.1.0 JSON, one
// reportingDescriptor per rule with at least one recorded assertion
// and one result per
// recorded assertion, for consumption by security/code-scanning
// dashboards.
type SARIFFormatter struct {
	w io.Writer
}

func NewSARIFFormatter(w io.Writer) *SARIFFormatter {
	return &SARIFFormatter{w: w}
}

func (f *SARIFFormatter) Format(result *model.ValidationResult) error {
	report := sarif.NewReport()
	run := sarif.NewRunWithInformationURI(result.Details.Name, "https://github.com/validify-dev/validify")

	seenRules := make(map[string]bool)
	for _, a := range result.Assertions {
		if seenRules[a.RuleID] {
			continue
		}
		seenRules[a.RuleID] = true
		run.Tool.Driver.AddRule(sarif.NewReportingDescriptor().WithID(a.RuleID))
	}

	for _, a := range result.Assertions {
		sarifResult := sarif.NewRuleResult(a.RuleID)
		sarifResult.Kind = resultKind(a.Passed)
		sarifResult.Level = resultLevel(a.Passed)
		message := a.Message
		if message == "" {
			message = fmt.Sprintf("rule %s against %s", a.RuleID, a.Location.Context)
		}
		sarifResult.Message = sarif.NewTextMessage(message)
		run.AddResult(sarifResult)
	}

	props := sarif.NewPropertyBag()
	props.Add("runId", result.RunID)
	props.Add("profileName", result.ProfileName)
	props.Add("totalChecks", result.TotalChecks)
	props.Add("totalFailedChecks", result.TotalFailedChecks)
	run.WithProperties(props)

	report.AddRun(run)
	return report.Write(f.w)
}

func resultKind(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}

func resultLevel(passed bool) string {
	if passed {
		return "none"
	}
	return "warning"
}
