package upstream

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ErrIncompatibleVersion is returned when the API reports a version outside
// the configured constraint.
var ErrIncompatibleVersion = errors.New("incompatible upstream version")

// CheckVersion verifies that version satisfies constraint, e.g. ">= 1.4.0".
// An empty constraint accepts anything. An API that reports no version
// fails a non-empty constraint.
func CheckVersion(version, constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parsing version constraint %q: %w", constraint, err)
	}
	if version == "" {
		return fmt.Errorf("%w: API did not report a version (need %s)", ErrIncompatibleVersion, constraint)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: cannot parse reported version %q: %w", ErrIncompatibleVersion, version, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleVersion, v, constraint)
	}
	return nil
}
