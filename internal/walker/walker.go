// Package walker finds the game source files to recolour, runs each through
// the rewriter and persists the results.
//
// A run is all or nothing: every selected file is rewritten in memory first,
// and files are only written once all of them succeeded.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/repalette/internal/compression"
	"github.com/jmylchreest/repalette/internal/remap"
	"github.com/jmylchreest/repalette/internal/security"
)

// FileError reports a file that could not be rewritten.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// FileResult is the outcome of rewriting one file.
type FileResult struct {
	Path    string
	Changed bool
	Stats   []remap.RuleStats

	mode      os.FileMode
	modTime   time.Time
	original  []byte
	rewritten []byte
}

// Summary describes a completed run.
type Summary struct {
	Results []FileResult
	Skipped []string
	Rules   []remap.RuleStats
	DryRun  bool
	Backup  string
}

// Changed returns the paths of files whose content changed.
func (s *Summary) Changed() []string {
	var out []string
	for _, r := range s.Results {
		if r.Changed {
			out = append(out, r.Path)
		}
	}
	return out
}

// Walker selects files under a root and rewrites them.
type Walker struct {
	cfg      Config
	rewriter *remap.Rewriter
	logger   hclog.Logger

	include []glob.Glob
	exclude []glob.Glob
	skip    []glob.Glob
}

// New validates cfg and returns a Walker that rewrites with rewriter.
func New(cfg Config, rewriter *remap.Rewriter, logger hclog.Logger) (*Walker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	w := &Walker{cfg: cfg, rewriter: rewriter, logger: logger}
	var err error
	if w.include, err = compileAll(cfg.Include); err != nil {
		return nil, err
	}
	if w.exclude, err = compileAll(cfg.Exclude); err != nil {
		return nil, err
	}
	if w.skip, err = compileAll(cfg.Skip); err != nil {
		return nil, err
	}
	return w, nil
}

// Discover returns the sorted root-relative paths of the files to rewrite,
// and separately those matched by the skip list. Hidden directories are not
// descended into and symlinks resolving outside the root are refused.
func (w *Walker) Discover(ctx context.Context) (files, skipped []string, err error) {
	err = filepath.WalkDir(w.cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(w.cfg.Root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !matchAny(w.include, rel) || matchAny(w.exclude, rel) {
			return nil
		}
		if matchAny(w.skip, rel) {
			w.logger.Info("skipping file", "file", rel)
			skipped = append(skipped, rel)
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if err := security.ValidateWithinRoot(path, w.cfg.Root); err != nil {
				return fmt.Errorf("refusing symlink: %w", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", w.cfg.Root, err)
	}

	slices.Sort(files)
	slices.Sort(skipped)
	w.logger.Debug("discovered files", "count", len(files), "skipped", len(skipped))
	return files, skipped, nil
}

// Run rewrites files (root-relative paths) using Jobs workers. If any file
// fails, the joined errors are returned and nothing is written. Otherwise
// the backup is written if configured, then every changed file is replaced
// atomically, unless this is a dry run.
func (w *Walker) Run(ctx context.Context, files []string) (*Summary, error) {
	results := make([]FileResult, len(files))
	errs := make([]error, len(files))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(w.cfg.Jobs, max(len(files), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				results[i], errs[i] = w.rewriteFile(files[i])
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	summary := &Summary{
		Results: results,
		Rules:   totalStats(results),
		DryRun:  w.cfg.DryRun,
	}
	if w.cfg.DryRun {
		return summary, nil
	}

	changed := slices.DeleteFunc(slices.Clone(results), func(r FileResult) bool { return !r.Changed })
	if len(changed) == 0 {
		return summary, nil
	}

	if w.cfg.Backup != "" {
		if err := w.writeBackup(changed); err != nil {
			return nil, err
		}
		summary.Backup = w.cfg.Backup
	}

	for _, r := range changed {
		dest := filepath.Join(w.cfg.Root, filepath.FromSlash(r.Path))
		if err := compression.WriteFileAtomic(dest, r.rewritten, r.mode); err != nil {
			return summary, &FileError{Path: r.Path, Err: fmt.Errorf("failed to write: %w", err)}
		}
		w.logger.Debug("wrote file", "file", r.Path)
	}

	return summary, nil
}

func (w *Walker) rewriteFile(rel string) (FileResult, error) {
	path := filepath.Join(w.cfg.Root, filepath.FromSlash(rel))

	info, err := os.Stat(path)
	if err != nil {
		return FileResult{}, &FileError{Path: rel, Err: err}
	}
	data, err := os.ReadFile(path) // #nosec G304 - Path discovered under the project root
	if err != nil {
		return FileResult{}, &FileError{Path: rel, Err: err}
	}

	out, stats, err := w.rewriter.ForFile(rel).RewriteWithStats(string(data))
	if err != nil {
		return FileResult{}, &FileError{Path: rel, Err: err}
	}

	result := FileResult{
		Path:      rel,
		Changed:   out != string(data),
		Stats:     stats,
		mode:      info.Mode().Perm(),
		modTime:   info.ModTime(),
		original:  data,
		rewritten: []byte(out),
	}
	w.logger.Debug("rewrote file", "file", rel, "changed", result.Changed)
	return result, nil
}

func (w *Walker) writeBackup(changed []FileResult) error {
	files := make([]compression.BackupFile, len(changed))
	for i, r := range changed {
		files[i] = compression.BackupFile{
			Name:    r.Path,
			Mode:    r.mode,
			ModTime: r.modTime,
			Data:    r.original,
		}
	}
	if err := compression.WriteBackup(w.cfg.Backup, files); err != nil {
		return fmt.Errorf("backup failed, no files were written: %w", err)
	}
	w.logger.Info("wrote backup", "path", w.cfg.Backup, "files", len(files))
	return nil
}

// totalStats sums per-rule counts across files, keeping pipeline order.
func totalStats(results []FileResult) []remap.RuleStats {
	var totals []remap.RuleStats
	for _, r := range results {
		if totals == nil {
			totals = make([]remap.RuleStats, len(r.Stats))
			for i, s := range r.Stats {
				totals[i].Rule = s.Rule
			}
		}
		for i, s := range r.Stats {
			totals[i].Matches += s.Matches
			totals[i].Changed += s.Changed
		}
	}
	return totals
}
