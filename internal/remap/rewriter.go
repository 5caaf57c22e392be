// Package remap rewrites colour references in game source text from the
// legacy palette to the target palette.
//
// A Rewriter applies five rules in a fixed order. Each rule scans the whole
// text and replaces its matches before the next rule sees the result:
//
//  1. table-index     PAL[K]
//  2. index-setter    set_color(K, ...)
//  3. rgb-setter      love.graphics.setColor(r, g, b, ...)
//  4. lerp-endpoints  lerp_color(r1, g1, b1, r2, g2, b2, t)
//  5. brace-list      {a, b, c}
//
// Rules 1, 2 and 5 go through the index correspondence; rules 3 and 4 snap
// literals to the nearest target colour.
package remap

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/repalette/internal/colour"
)

// Rewriter applies the rule pipeline to source text. It is immutable after
// construction and safe for concurrent use.
type Rewriter struct {
	rules  []Rule
	logger hclog.Logger
}

type options struct {
	syntax      Syntax
	logger      hclog.Logger
	strictLists bool
}

// Option configures a Rewriter.
type Option func(*options)

// WithSyntax overrides the identifiers the rules match.
func WithSyntax(s Syntax) Option {
	return func(o *options) { o.syntax = s }
}

// WithLogger sets the logger used to report brace-list rewrites.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStrictLists makes the brace-list rule skip any list that contains an
// integer outside the correspondence.
func WithStrictLists(strict bool) Option {
	return func(o *options) { o.strictLists = strict }
}

// New builds a Rewriter over a colour space and a correspondence that were
// both constructed once for the run.
func New(space *colour.ColourSpace, corr *colour.IndexCorrespondence, opts ...Option) (*Rewriter, error) {
	o := options{
		syntax: DefaultSyntax(),
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.syntax.Validate(); err != nil {
		return nil, fmt.Errorf("invalid syntax: %w", err)
	}

	return &Rewriter{
		rules: []Rule{
			newTableIndexRule(o.syntax.Table, corr),
			newIndexSetterRule(o.syntax.Setter, corr),
			newRGBSetterRule(o.syntax.RGBSetter, space),
			newLerpRule(o.syntax.Lerp, space),
			&braceListRule{corr: corr, strict: o.strictLists},
		},
		logger: o.logger,
	}, nil
}

// Rules returns the pipeline in application order.
func (r *Rewriter) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// ForFile returns a Rewriter sharing the same rules whose log lines carry
// the file path.
func (r *Rewriter) ForFile(path string) *Rewriter {
	return &Rewriter{rules: r.rules, logger: r.logger.With("file", path)}
}

// Rewrite runs every rule over text in order and returns the result.
func (r *Rewriter) Rewrite(text string) (string, error) {
	out, _, err := r.RewriteWithStats(text)
	return out, err
}

// RewriteWithStats is Rewrite plus per-rule match counts. On error the
// returned text is empty; callers must not persist anything.
func (r *Rewriter) RewriteWithStats(text string) (string, []RuleStats, error) {
	stats := make([]RuleStats, 0, len(r.rules))
	for _, rule := range r.rules {
		var s RuleStats
		var err error
		text, s, err = rule.Apply(text, r.logger)
		if err != nil {
			return "", nil, err
		}
		if s.Matches > 0 {
			r.logger.Trace("rule applied", "rule", rule.Name(), "matches", s.Matches, "changed", s.Changed)
		}
		stats = append(stats, s)
	}
	return text, stats, nil
}
