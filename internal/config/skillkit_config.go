package config

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/adhocore/gronx"
	"github.com/goccy/go-yaml"
	"github.com/kurtosis-tech/stacktrace"
)

// ScheduleConfig represents a single report sync schedule in config.yml.
type ScheduleConfig struct {
	Schedule    string `yaml:"schedule"`              // Cron expression (5 or 6 fields)
	Source      string `yaml:"source"`                // Data source: klaviyo, shopify, or ga4
	Dashboard   string `yaml:"dashboard"`             // Dashboard template the sync feeds
	Description string `yaml:"description,omitempty"` // Human-readable description
	Enabled     *bool  `yaml:"enabled,omitempty"`     // Defaults to true if omitted
}

// IsEnabled returns whether the schedule is enabled. Defaults to true if not explicitly set.
func (s *ScheduleConfig) IsEnabled() bool {
	if s.Enabled == nil {
		return true
	}
	return *s.Enabled
}

// SkillkitConfig represents the contents of config.yml.
type SkillkitConfig struct {
	// DefaultTheme names a CSS file under the templates directory's themes/
	// subdirectory (e.g. "dark" resolves to themes/dark.css).
	DefaultTheme string `yaml:"defaultTheme,omitempty"`

	// TemplatesDirpath is the visualization templates directory used when
	// --templates is not passed.
	TemplatesDirpath string `yaml:"templatesDir,omitempty"`

	// ExportsDirpath is the LinkedIn export directory used when a command is
	// not given one explicitly.
	ExportsDirpath string `yaml:"exportsDir,omitempty"`

	// Schedules maps schedule names to the report syncs run by
	// 'skillkit report schedule'.
	Schedules map[string]ScheduleConfig `yaml:"schedules,omitempty"`
}

// GetThemeCSSFilepath resolves the configured default theme against a
// templates directory. Returns "" when no theme is configured.
func (c *SkillkitConfig) GetThemeCSSFilepath(templatesDirpath string) string {
	if c.DefaultTheme == "" || templatesDirpath == "" {
		return ""
	}
	return filepath.Join(templatesDirpath, ThemesDirname, c.DefaultTheme+".css")
}

// GetConfigFilepath returns the path to config.yml inside the config directory.
func GetConfigFilepath(skillkitDirpath string) string {
	return filepath.Join(skillkitDirpath, ConfigDirname, ConfigFilename)
}

// ReadSkillkitConfig reads and parses config.yml. Returns an empty config if
// the file does not exist. Returns an error if any schedule entry is invalid.
// The returned yaml.CommentMap captures any YAML comments for round-trip
// preservation; callers that only read config may discard it with _.
func ReadSkillkitConfig(skillkitDirpath string) (*SkillkitConfig, yaml.CommentMap, error) {
	configFilepath := GetConfigFilepath(skillkitDirpath)

	data, err := os.ReadFile(configFilepath)
	if err != nil {
		if os.IsNotExist(err) {
			return &SkillkitConfig{}, nil, nil
		}
		return nil, nil, stacktrace.Propagate(err, "failed to read config file '%s'", configFilepath)
	}

	var cfg SkillkitConfig
	cm := yaml.CommentMap{}
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.CommentToMap(cm)); err != nil {
		return nil, nil, stacktrace.Propagate(err, "failed to parse config file '%s'", configFilepath)
	}

	if cfg.Schedules == nil {
		cfg.Schedules = make(map[string]ScheduleConfig)
	}
	for name, schedCfg := range cfg.Schedules {
		if err := ValidateScheduleName(name); err != nil {
			return nil, nil, stacktrace.Propagate(err, "invalid schedule name in %s", configFilepath)
		}
		if err := ValidateCronSchedule(schedCfg.Schedule); err != nil {
			return nil, nil, stacktrace.Propagate(err, "invalid cron expression for schedule '%s' in %s", name, configFilepath)
		}
		if schedCfg.Source == "" {
			return nil, nil, stacktrace.NewError("schedule '%s' in %s must have a source", name, configFilepath)
		}
		if schedCfg.Dashboard == "" {
			return nil, nil, stacktrace.NewError("schedule '%s' in %s must have a dashboard", name, configFilepath)
		}
	}

	return &cfg, cm, nil
}

// WriteSkillkitConfig marshals and writes config.yml. Pass the yaml.CommentMap
// returned by ReadSkillkitConfig to preserve YAML comments through round-trips;
// pass nil if no comments need preserving.
func WriteSkillkitConfig(skillkitDirpath string, cfg *SkillkitConfig, cm yaml.CommentMap) error {
	configFilepath := GetConfigFilepath(skillkitDirpath)

	var (
		data []byte
		err  error
	)
	if cm != nil {
		data, err = yaml.MarshalWithOptions(cfg, yaml.WithComment(cm))
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return stacktrace.Propagate(err, "failed to marshal config")
	}

	if err := os.WriteFile(configFilepath, data, 0644); err != nil {
		return stacktrace.Propagate(err, "failed to write config file '%s'", configFilepath)
	}

	return nil
}

// EnsureConfigFile creates config.yml with a minimal empty configuration if it
// does not already exist.
func EnsureConfigFile(skillkitDirpath string) error {
	configFilepath := GetConfigFilepath(skillkitDirpath)

	if _, err := os.Stat(configFilepath); err == nil {
		return nil
	}

	if err := os.WriteFile(configFilepath, []byte("{}\n"), 0644); err != nil {
		return stacktrace.Propagate(err, "failed to create config file '%s'", configFilepath)
	}

	return nil
}

// scheduleNameRegex matches valid schedule names: alphanumeric, hyphens, underscores.
var scheduleNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateScheduleName checks whether a schedule name is valid.
// Schedule names must start with a letter and contain only letters, numbers,
// hyphens, and underscores.
func ValidateScheduleName(name string) error {
	if name == "" {
		return stacktrace.NewError("schedule name cannot be empty")
	}
	if len(name) > 64 {
		return stacktrace.NewError("schedule name too long (max 64 characters)")
	}
	if !scheduleNameRegex.MatchString(name) {
		return stacktrace.NewError("schedule name '%s' is invalid; must start with a letter and contain only letters, numbers, hyphens, and underscores", name)
	}
	return nil
}

// ValidateCronSchedule checks whether a cron schedule expression is valid.
// Supports standard 5-field cron expressions and 6-field expressions with seconds.
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return stacktrace.NewError("cron schedule cannot be empty")
	}
	gron := gronx.New()
	if !gron.IsValid(schedule) {
		return stacktrace.NewError("invalid cron schedule '%s'; use standard cron syntax (e.g., '0 9 * * *' for 9am daily)", schedule)
	}
	return nil
}

// GetNextCronRun returns the next scheduled run time for a cron expression.
func GetNextCronRun(schedule string) (time.Time, error) {
	return gronx.NextTick(schedule, false)
}

// IsCronDue checks if a cron schedule is due at the given time.
func IsCronDue(schedule string, t time.Time) bool {
	gron := gronx.New()
	due, err := gron.IsDue(schedule, t)
	if err != nil {
		return false
	}
	return due
}
