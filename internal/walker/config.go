package walker

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/pflag"
)

// Config holds the file selection and persistence settings for a run.
// Patterns are globs over root-relative paths with "/" separators; "*"
// stays within one path segment and "**" crosses segments.
type Config struct {
	// Root is the project directory that patterns are relative to.
	Root string

	// Include selects candidate files. A file must match at least one.
	Include []string

	// Exclude drops candidates silently.
	Exclude []string

	// Skip drops candidates but reports them, for files such as the palette
	// definition that must never be rewritten.
	Skip []string

	// Jobs is the number of files rewritten concurrently.
	Jobs int

	// DryRun rewrites in memory only.
	DryRun bool

	// Backup, if set, is the tar.xz path the original contents of every
	// changed file are saved to before anything is written.
	Backup string
}

// DefaultConfig returns the layout of the game sources: Lua files under the
// core, sys, draw and gen directories plus main.lua, never touching the
// palette definition in core/palette.lua.
func DefaultConfig() Config {
	return Config{
		Root:    ".",
		Include: []string{"{core,sys,draw,gen}/**.lua", "main.lua"},
		Skip:    []string{"core/palette.lua"},
		Jobs:    runtime.NumCPU(),
	}
}

// ApplyEnv overrides the pattern lists from REPALETTE_INCLUDE,
// REPALETTE_EXCLUDE and REPALETTE_SKIP (comma separated).
func (c *Config) ApplyEnv() {
	if v := os.Getenv("REPALETTE_INCLUDE"); v != "" {
		c.Include = parseList(v)
	}
	if v := os.Getenv("REPALETTE_EXCLUDE"); v != "" {
		c.Exclude = parseList(v)
	}
	if v := os.Getenv("REPALETTE_SKIP"); v != "" {
		c.Skip = parseList(v)
	}
}

// RegisterFlags binds the config fields to flags on fs, using the current
// values as defaults.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&c.Include, "include", c.Include, "glob of files to rewrite (repeatable)")
	fs.StringSliceVar(&c.Exclude, "exclude", c.Exclude, "glob of files to ignore (repeatable)")
	fs.StringSliceVar(&c.Skip, "skip", c.Skip, "glob of files never rewritten, e.g. the palette definition (repeatable)")
	fs.IntVarP(&c.Jobs, "jobs", "j", c.Jobs, "number of files rewritten concurrently")
	fs.BoolVarP(&c.DryRun, "dry-run", "n", c.DryRun, "report changes without writing files")
	fs.StringVar(&c.Backup, "backup", c.Backup, "write original contents of changed files to this tar.xz archive first")
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root directory cannot be empty")
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("invalid root directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root is not a directory: %s", c.Root)
	}
	if len(c.Include) == 0 {
		return fmt.Errorf("at least one include pattern is required")
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	for _, patterns := range [][]string{c.Include, c.Exclude, c.Skip} {
		if _, err := compileAll(patterns); err != nil {
			return err
		}
	}
	return nil
}

func compileAll(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// parseList parses a comma-separated list, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
