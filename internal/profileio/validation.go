package profileio

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/validify-dev/validify/internal/model"
)

// Validate rejects a profile before any traversal begins: duplicate
// rule IDs, a rule or variable with no target object type, and (when
// both engineVersion and the profile's engine_constraint are set) an
// engine_constraint the running engine does not satisfy.
func Validate(profile *model.Profile, engineVersion string) error {
	seen := make(map[string]bool, len(profile.Rules))
	for _, r := range profile.Rules {
		if r.ID == "" {
			return model.NewProfileError("rule has no id", nil)
		}
		if seen[r.ID] {
			return model.NewProfileError(fmt.Sprintf("duplicate rule id %q", r.ID), nil)
		}
		seen[r.ID] = true
		if r.ObjectType == "" {
			return model.NewProfileError(fmt.Sprintf("rule %q has no object_type", r.ID), nil)
		}
		if r.Predicate == "" {
			return model.NewProfileError(fmt.Sprintf("rule %q has no predicate", r.ID), nil)
		}
	}

	for _, v := range profile.Variables {
		if v.Name == "" {
			return model.NewProfileError("variable has no name", nil)
		}
		if v.ObjectType == "" {
			return model.NewProfileError(fmt.Sprintf("variable %q has no object_type", v.Name), nil)
		}
	}

	if err := checkEngineConstraint(profile.Metadata.EngineConstraint, engineVersion); err != nil {
		return err
	}

	return nil
}

func checkEngineConstraint(constraint, engineVersion string) error {
	if constraint == "" || engineVersion == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return model.NewProfileError(fmt.Sprintf("invalid engine_constraint %q", constraint), err)
	}

	v, err := semver.NewVersion(engineVersion)
	if err != nil {
		return model.NewProfileError(fmt.Sprintf("invalid engine version %q", engineVersion), err)
	}

	if !c.Check(v) {
		return model.NewProfileError(fmt.Sprintf("profile requires engine %s, running engine is %s", constraint, engineVersion), nil)
	}
	return nil
}
