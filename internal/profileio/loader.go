// Package profileio loads a validation profile from YAML, validates its
// static structure, and assembles the rule and variable indices the
// engine needs into a model.ValidatedProfile.
package profileio

import (
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/validify-dev/validify/internal/model"
	"github.com/validify-dev/validify/internal/ruleindex"
	"github.com/validify-dev/validify/internal/variables"
)

// Loader reads profile files from disk.
type Loader struct {
	// EngineVersion is compared against a profile's engine_constraint
	// (see validation.go). Left at "" to skip the check entirely.
	EngineVersion string
}

// NewLoader returns a Loader that gates profiles against engineVersion.
func NewLoader(engineVersion string) *Loader {
	return &Loader{EngineVersion: engineVersion}
}

// Load reads, parses, and validates the profile at path, returning a
// ValidatedProfile ready to hand to an engine.Engine. path traversal
// outside its containing directory is rejected via os.OpenRoot, the
// same guard the teacher's config loader uses.
func (l *Loader) Load(path string) (*model.ValidatedProfile, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, model.NewProfileError("opening profile directory", err)
	}
	defer root.Close()

	file, err := root.Open(base)
	if err != nil {
		return nil, model.NewProfileError("opening profile file", err)
	}
	defer file.Close()

	return l.LoadFromReader(file)
}

// LoadFromReader parses and validates a profile from an arbitrary
// reader, useful for embedded profiles and tests.
func (l *Loader) LoadFromReader(r io.Reader) (*model.ValidatedProfile, error) {
	var profile model.Profile
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&profile); err != nil {
		return nil, model.NewProfileError("decoding YAML", err)
	}

	if err := Validate(&profile, l.EngineVersion); err != nil {
		return nil, err
	}

	return &model.ValidatedProfile{
		Profile: &profile,
		Rules:   ruleindex.Build(profile.Rules),
		Vars:    variables.Build(profile.Variables),
	}, nil
}
