// Package config holds the typed, read-only process configuration.
// It is loaded once at startup and passed into the components that
// need it; nothing here is re-parsed per event.
package config

import (
	"fmt"
	"strings"
)

// Config is the full configuration file content.
type Config struct {
	Server Server `mapstructure:"server"`

	// Logins treated as robot accounts. Comments from these accounts
	// never trigger transitions.
	Bots []string `mapstructure:"bots"`

	// DefaultReviewers maps "org/repo" or "org/" keys to the reviewers
	// used when a pull request text names none.
	DefaultReviewers DefaultReviewers `mapstructure:"default-reviewers"`

	// Skip is the raw comma-separated exclusion list. Parsed once into
	// SkipList by Finish.
	Skip string `mapstructure:"skip"`

	Scoreboard Scoreboard `mapstructure:"scoreboard"`

	skipList SkipList
	bots     map[string]bool
}

type Server struct {
	Port       string `mapstructure:"port"`
	LogLevel   string `mapstructure:"log_level"`
	HookSecret string `mapstructure:"hook_secret"`
}

type Scoreboard struct {
	// Path to the tracker SQLite database. Empty disables the
	// scoreboard endpoint.
	TracDB string `mapstructure:"trac_db"`

	// Path to the author alias file, one "canonical, alias" per line.
	Aliases string `mapstructure:"aliases"`
}

// DefaultReviewers is keyed by lower-case "org/repo" or "org/".
// Repository entries strictly win over organization entries.
type DefaultReviewers map[string][]string

// Repo returns the repository-specific default reviewers, or nil.
func (d DefaultReviewers) Repo(fullName string) []string {
	return d[strings.ToLower(fullName)]
}

// Org returns the organization-wide default reviewers for the
// repository's owner, or nil.
func (d DefaultReviewers) Org(fullName string) []string {
	org := fullName
	if i := strings.Index(fullName, "/"); i >= 0 {
		org = fullName[:i]
	}
	return d[strings.ToLower(org)+"/"]
}

// SkipList is the set of excluded pull requests, as lower-case
// "org/repo" and "org/repo#number" entries.
type SkipList map[string]bool

// ParseSkipList splits the comma-separated skip configuration.
func ParseSkipList(raw string) SkipList {
	list := make(SkipList)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			list[entry] = true
		}
	}
	return list
}

// Match reports whether the pull request is excluded, either by its
// repository or by its exact number.
func (s SkipList) Match(fullName string, number int) bool {
	repo := strings.ToLower(fullName)
	return s[repo] || s[fmt.Sprintf("%s#%d", repo, number)]
}

// Finish derives the parsed lookup structures from the raw fields.
// Called once by the loader.
func (c *Config) Finish() {
	c.skipList = ParseSkipList(c.Skip)
	c.bots = make(map[string]bool, len(c.Bots))
	for _, b := range c.Bots {
		c.bots[strings.ToLower(b)] = true
	}
}

// SkipList returns the parsed exclusion set.
func (c *Config) SkipList() SkipList {
	return c.skipList
}

// IsBot reports whether login is a configured robot account or carries
// the platform's "[bot]" suffix.
func (c *Config) IsBot(login string) bool {
	return c.bots[strings.ToLower(login)] || strings.HasSuffix(login, "[bot]")
}
