// Package skills discovers and validates the SKILL.md manifests that define
// this repo's skills and skill packs.
package skills

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kurtosis-tech/stacktrace"
)

const (
	// ManifestFilename is the standard filename for skill manifests.
	ManifestFilename = "SKILL.md"

	// SkillsDirname is the repo tree holding standalone skills.
	SkillsDirname = "skills"

	// SkillPacksDirname is the repo tree holding skill packs, each pack a
	// directory of related skills.
	SkillPacksDirname = "skill-packs"

	frontmatterDelimiter = "---"

	maxNameLen        = 64
	maxDescriptionLen = 1024
)

// skillNameRegex matches valid skill names: lowercase letters, digits, hyphens.
var skillNameRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

// Skill is one SKILL.md manifest: the frontmatter metadata plus the Markdown
// instructions that follow it. Name and Description are what an agent reads
// to decide when to invoke the skill.
type Skill struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Instructions string `json:"-"`
	Filepath     string `json:"filepath"`
}

// frontmatter is the YAML block between the manifest's --- delimiters.
type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Parse reads a single SKILL.md manifest. It fails on structural problems
// (unreadable file, malformed delimiters, invalid YAML); metadata rules are
// checked separately by ValidateAll.
func Parse(manifestFilepath string) (*Skill, error) {
	data, err := os.ReadFile(manifestFilepath)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to read skill manifest '%s'", manifestFilepath)
	}
	meta, body, problem := splitFrontmatter(string(data))
	if problem != "" {
		return nil, stacktrace.NewError("invalid skill manifest '%s': %s", manifestFilepath, problem)
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
		return nil, stacktrace.Propagate(err, "failed to parse frontmatter in '%s'", manifestFilepath)
	}
	return &Skill{
		Name:         fm.Name,
		Description:  fm.Description,
		Instructions: strings.TrimSpace(body),
		Filepath:     manifestFilepath,
	}, nil
}

// Discover walks the given trees and parses every SKILL.md found. Roots that
// do not exist are skipped, so callers can pass both repo trees without
// checking which exist. Results sort by name, then path.
func Discover(rootDirpaths ...string) ([]Skill, error) {
	manifests, err := discoverManifests(rootDirpaths)
	if err != nil {
		return nil, err
	}

	found := make([]Skill, 0, len(manifests))
	for _, manifestFilepath := range manifests {
		skill, err := Parse(manifestFilepath)
		if err != nil {
			return nil, err
		}
		found = append(found, *skill)
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Name != found[j].Name {
			return found[i].Name < found[j].Name
		}
		return found[i].Filepath < found[j].Filepath
	})
	return found, nil
}

// Issue is one rule violation in a discovered manifest.
type Issue struct {
	Filepath string `json:"filepath"`
	Problem  string `json:"problem"`
}

// ValidateAll discovers every manifest under the given roots and checks it
// against the naming and metadata rules. Structural problems surface as
// issues rather than errors, so one broken manifest does not hide the rest.
func ValidateAll(rootDirpaths ...string) ([]Issue, error) {
	manifests, err := discoverManifests(rootDirpaths)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, manifestFilepath := range manifests {
		data, err := os.ReadFile(manifestFilepath)
		if err != nil {
			issues = append(issues, Issue{Filepath: manifestFilepath, Problem: fmt.Sprintf("unreadable: %v", err)})
			continue
		}

		meta, _, problem := splitFrontmatter(string(data))
		if problem != "" {
			issues = append(issues, Issue{Filepath: manifestFilepath, Problem: problem})
			continue
		}
		var fm frontmatter
		if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
			issues = append(issues, Issue{Filepath: manifestFilepath, Problem: fmt.Sprintf("frontmatter is not valid YAML: %v", err)})
			continue
		}

		for _, problem := range checkRules(fm, manifestFilepath) {
			issues = append(issues, Issue{Filepath: manifestFilepath, Problem: problem})
		}
	}
	return issues, nil
}

// checkRules validates the frontmatter metadata against the skill naming
// rules: a lowercase hyphenated name capped at 64 chars that matches the
// manifest's directory, and a description capped at 1024 chars.
func checkRules(fm frontmatter, manifestFilepath string) []string {
	var problems []string

	if fm.Name == "" {
		problems = append(problems, "missing name in frontmatter")
	} else {
		if len(fm.Name) > maxNameLen {
			problems = append(problems, fmt.Sprintf("name is %d chars, max %d", len(fm.Name), maxNameLen))
		}
		if !skillNameRegex.MatchString(fm.Name) {
			problems = append(problems, fmt.Sprintf("name '%s' may only contain lowercase letters, digits, and hyphens", fm.Name))
		}
		if dirName := filepath.Base(filepath.Dir(manifestFilepath)); fm.Name != dirName {
			problems = append(problems, fmt.Sprintf("name '%s' does not match its directory '%s'", fm.Name, dirName))
		}
	}

	if fm.Description == "" {
		problems = append(problems, "missing description in frontmatter")
	} else if len(fm.Description) > maxDescriptionLen {
		problems = append(problems, fmt.Sprintf("description is %d chars, max %d", len(fm.Description), maxDescriptionLen))
	}

	return problems
}

// discoverManifests walks the roots collecting SKILL.md paths in sorted
// order. Dot directories are skipped so a .git tree never gets scanned.
func discoverManifests(rootDirpaths []string) ([]string, error) {
	var manifests []string
	for _, root := range rootDirpaths {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				if path != root && strings.HasPrefix(entry.Name(), ".") {
					return fs.SkipDir
				}
				return nil
			}
			if entry.Name() == ManifestFilename {
				manifests = append(manifests, path)
			}
			return nil
		})
		if err != nil {
			return nil, stacktrace.Propagate(err, "failed to scan '%s' for skill manifests", root)
		}
	}
	sort.Strings(manifests)
	return manifests, nil
}

// splitFrontmatter separates the YAML frontmatter block from the Markdown
// body. The manifest must open with a '---' line and close the block with
// another; the returned problem is empty when the structure is well-formed.
// Windows line endings are normalized first.
func splitFrontmatter(content string) (meta string, body string, problem string) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	if lines[0] != frontmatterDelimiter {
		return "", "", "missing opening '---' frontmatter delimiter"
	}
	for i := 1; i < len(lines); i++ {
		if lines[i] == frontmatterDelimiter {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), ""
		}
	}
	return "", "", "missing closing '---' frontmatter delimiter"
}
