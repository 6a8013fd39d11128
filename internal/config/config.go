package config

import (
	"os"
	"path/filepath"

	"github.com/kurtosis-tech/stacktrace"
)

const (
	skillkitDirpathEnvVar  = "SKILLKIT_DIRPATH"
	defaultSkillkitDirname = ".skillkit"

	ConfigDirname  = "config"
	RunsDirname    = "runs"
	ReportsDirname = "reports"
	CacheDirname   = "cache"

	ConfigFilename = "config.yml"
	EnvFilename    = ".env"

	// ThemesDirname is the subdirectory of a templates directory that holds
	// CSS theme files (e.g. themes/dark.css).
	ThemesDirname = "themes"
)

// GetSkillkitDirpath returns the skillkit data directory path, reading from
// the SKILLKIT_DIRPATH environment variable or defaulting to ~/.skillkit.
func GetSkillkitDirpath() (string, error) {
	if envVal := os.Getenv(skillkitDirpathEnvVar); envVal != "" {
		return envVal, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", stacktrace.Propagate(err, "failed to determine home directory")
	}
	return filepath.Join(homeDir, defaultSkillkitDirname), nil
}

// EnsureDirStructure creates the required skillkit directory structure if it
// doesn't already exist.
func EnsureDirStructure(skillkitDirpath string) error {
	dirs := []string{
		filepath.Join(skillkitDirpath, RunsDirname),
		filepath.Join(skillkitDirpath, ReportsDirname),
		filepath.Join(skillkitDirpath, ConfigDirname),
		filepath.Join(skillkitDirpath, CacheDirname),
	}
	for _, dirpath := range dirs {
		if err := os.MkdirAll(dirpath, 0755); err != nil {
			return stacktrace.Propagate(err, "failed to create directory '%s'", dirpath)
		}
	}

	if err := EnsureConfigFile(skillkitDirpath); err != nil {
		return stacktrace.Propagate(err, "failed to seed config file")
	}

	return nil
}

// GetRunsDirpath returns the path to the runs directory.
func GetRunsDirpath(skillkitDirpath string) string {
	return filepath.Join(skillkitDirpath, RunsDirname)
}

// GetRunDirpath returns the path to a single run's artifact directory.
func GetRunDirpath(skillkitDirpath string, runID string) string {
	return filepath.Join(skillkitDirpath, RunsDirname, runID)
}

// GetReportsDirpath returns the path to the reports directory.
func GetReportsDirpath(skillkitDirpath string) string {
	return filepath.Join(skillkitDirpath, ReportsDirname)
}

// GetReportDirpath returns the path to the staged CSV directory for a single
// dashboard.
func GetReportDirpath(skillkitDirpath string, dashboard string) string {
	return filepath.Join(skillkitDirpath, ReportsDirname, dashboard)
}

// GetCacheDirpath returns the path to the cache directory.
func GetCacheDirpath(skillkitDirpath string) string {
	return filepath.Join(skillkitDirpath, CacheDirname)
}

// GetDatabaseFilepath returns the path to the SQLite database file.
func GetDatabaseFilepath(skillkitDirpath string) string {
	return filepath.Join(skillkitDirpath, "database.sqlite")
}
