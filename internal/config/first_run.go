package config

import (
	"os"

	"github.com/kurtosis-tech/stacktrace"
)

// IsFirstRun returns true if the skillkit directory does not yet exist.
func IsFirstRun(skillkitDirpath string) (bool, error) {
	_, err := os.Stat(skillkitDirpath)
	if err == nil {
		return false, nil
	}
	if os.IsNotExist(err) {
		return true, nil
	}
	return false, stacktrace.Propagate(err, "failed to stat skillkit directory '%s'", skillkitDirpath)
}
