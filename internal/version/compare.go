package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckStateCompatibility checks whether a persisted runtime state snapshot was
// written by an engine version this build can safely resume from.
// Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - Minor and patch versions can differ; the snapshot layout only changes on
//     major releases
func CheckStateCompatibility(engineVersion, snapshotVersion string) error {
	// Strip 'v' prefix if present for consistency
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	snapshotVersion = strings.TrimPrefix(snapshotVersion, "v")

	// Skip version check for "main" (development builds)
	if engineVersion == "main" || snapshotVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version '%s': %w", engineVersion, err)
	}

	snapshotSemver, err := semver.NewVersion(snapshotVersion)
	if err != nil {
		return fmt.Errorf("invalid snapshot version '%s': %w", snapshotVersion, err)
	}

	if engineSemver.Major() != snapshotSemver.Major() {
		return fmt.Errorf("major version mismatch: engine is %d.x.x but snapshot was written by %d.x.x",
			engineSemver.Major(), snapshotSemver.Major())
	}

	return nil
}
