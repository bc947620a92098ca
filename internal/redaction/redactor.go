// Package redaction scrubs secrets that leak into a ValidationResult's
// rendered text: a rule's %arg% substitution can surface attacker- or
// customer-controlled attribute values straight into a report.
package redaction

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/validify-dev/validify/internal/model"
)

// Redactor scrubs secret-shaped substrings out of the free-text fields
// of a ValidationResult. All fields are read-only after construction,
// making it safe for concurrent use across several runs.
type Redactor struct {
	patterns []*regexp.Regexp
	detector *detect.Detector
}

// Config configures a Redactor.
type Config struct {
	// Patterns are additional regexes to redact, beyond gitleaks'
	// built-in rule set.
	Patterns []string
	// DisableGitleaks skips loading the ~200-pattern gitleaks default
	// config and redacts using only Patterns.
	DisableGitleaks bool
}

// New builds a Redactor from cfg.
func New(cfg Config) (*Redactor, error) {
	r := &Redactor{patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns))}

	if !cfg.DisableGitleaks {
		detector, err := newGitleaksDetector()
		if err != nil {
			return nil, fmt.Errorf("loading gitleaks detector: %w", err)
		}
		r.detector = detector
	}

	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	return r, nil
}

func newGitleaksDetector() (*detect.Detector, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(config.DefaultConfig)); err != nil {
		return nil, fmt.Errorf("reading gitleaks default config: %w", err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, fmt.Errorf("unmarshalling gitleaks config: %w", err)
	}

	translated, err := vc.Translate()
	if err != nil {
		return nil, fmt.Errorf("translating gitleaks config: %w", err)
	}

	return detect.NewDetector(translated), nil
}

// ScrubString replaces every secret-shaped substring of input with
// "[REDACTED]", trying gitleaks' pattern set first and then any custom
// patterns.
func (r *Redactor) ScrubString(input string) string {
	if input == "" {
		return ""
	}

	result := input
	if r.detector != nil {
		for _, finding := range r.detector.Detect(detect.Fragment{Raw: result}) {
			result = strings.ReplaceAll(result, finding.Secret, "[REDACTED]")
		}
	}
	for _, re := range r.patterns {
		result = re.ReplaceAllString(result, "[REDACTED]")
	}
	return result
}

// Redact returns a copy of result with every assertion's Message,
// Location.Context, and ObjectContext scrubbed. The rule ID, profile
// name, and counters are left untouched: they are never
// attacker-controlled.
func (r *Redactor) Redact(result *model.ValidationResult) *model.ValidationResult {
	scrubbed := *result
	scrubbed.Assertions = make([]model.TestAssertion, len(result.Assertions))
	for i, a := range result.Assertions {
		a.Message = r.ScrubString(a.Message)
		a.Location.Context = r.ScrubString(a.Location.Context)
		a.ObjectContext = r.ScrubString(a.ObjectContext)
		scrubbed.Assertions[i] = a
	}
	return &scrubbed
}
