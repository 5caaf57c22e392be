package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/repalette/internal/remap"
	"github.com/jmylchreest/repalette/internal/walker"
)

type applyOptions struct {
	palettes    paletteFlags
	syntax      remap.Syntax
	walk        walker.Config
	strictLists bool
}

func newApplyCmd() *cobra.Command {
	opts := &applyOptions{
		syntax: remap.DefaultSyntax(),
		walk:   walker.DefaultConfig(),
	}
	opts.walk.ApplyEnv()

	cmd := &cobra.Command{
		Use:   "apply [root]",
		Short: "Rewrite palette references in game sources",
		Long: `Rewrite every palette reference in the selected source files under root
(default: the current directory).

Files are rewritten in memory first. If any file cannot be rewritten, nothing
is written and the error names the file and the rule that failed.

Brace lists such as {12, 13, 20} are rewritten element by element and every
changed list is logged for manual review, since a list of integers is not
necessarily a list of colours. Use --strict-lists to only rewrite lists made
entirely of known palette indices.

Examples:
  # Preview what would change
  repalette apply --dry-run ./game

  # Rewrite, keeping the originals in an archive
  repalette apply --backup before.tar.xz ./game

  # Only rewrite the systems directory
  repalette apply --include 'sys/**.lua'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.walk.Root = args[0]
			}
			return runApply(cmd, opts)
		},
	}

	opts.palettes.register(cmd.Flags())
	opts.syntax.RegisterFlags(cmd.Flags())
	opts.walk.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolVar(&opts.strictLists, "strict-lists", false, "only rewrite brace lists whose elements are all known palette indices")
	return cmd
}

func runApply(cmd *cobra.Command, opts *applyOptions) error {
	logger := newLogger(cmd)

	p, err := opts.palettes.load(logger)
	if err != nil {
		return err
	}
	if !p.corr.IsIdempotent() {
		logger.Warn("index correspondence is not idempotent, running apply again on rewritten sources will remap indices a second time")
	}

	rw, err := remap.New(p.space, p.corr,
		remap.WithSyntax(opts.syntax),
		remap.WithLogger(logger),
		remap.WithStrictLists(opts.strictLists),
	)
	if err != nil {
		return err
	}
	if logger.IsDebug() {
		var names []string
		for _, rule := range rw.Rules() {
			names = append(names, rule.Name())
		}
		logger.Debug("rule pipeline", "rules", strings.Join(names, ","), "strict_lists", opts.strictLists)
	}

	w, err := walker.New(opts.walk, rw, logger)
	if err != nil {
		return err
	}

	files, skipped, err := w.Discover(cmd.Context())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warn("no files matched", "root", opts.walk.Root, "include", opts.walk.Include)
		return nil
	}

	summary, err := w.Run(cmd.Context(), files)
	if err != nil {
		return err
	}
	summary.Skipped = skipped

	return printSummary(cmd, summary)
}

func printSummary(cmd *cobra.Command, s *walker.Summary) error {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return nil
	}
	out := cmd.OutOrStdout()

	verb := "rewrote"
	if s.DryRun {
		verb = "would rewrite"
	}
	changed := s.Changed()
	for _, path := range changed {
		fmt.Fprintf(out, "%s %s\n", verb, path)
	}
	for _, path := range s.Skipped {
		fmt.Fprintf(out, "skipped %s\n", path)
	}
	if len(changed) > 0 || len(s.Skipped) > 0 {
		fmt.Fprintln(out)
	}

	table := NewTable("RULE", "MATCHES", "CHANGED")
	table.SetAlign(1, AlignRight)
	table.SetAlign(2, AlignRight)
	for _, r := range s.Rules {
		table.AddRow(r.Rule, strconv.Itoa(r.Matches), strconv.Itoa(r.Changed))
	}
	if _, err := table.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	fmt.Fprintf(out, "\n%d of %d files changed\n", len(changed), len(s.Results))
	if s.Backup != "" {
		fmt.Fprintf(out, "originals saved to %s\n", s.Backup)
	}
	return nil
}
