package remap

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/repalette/internal/colour"
)

// Rule names, in pipeline order.
const (
	RuleTableIndex    = "table-index"
	RuleIndexSetter   = "index-setter"
	RuleRGBSetter     = "rgb-setter"
	RuleLerpEndpoints = "lerp-endpoints"
	RuleBraceList     = "brace-list"
)

// floatArg matches one unsigned decimal literal argument.
const floatArg = `\s*([0-9.]+)\s*`

// RuleStats counts what a rule did to one text.
type RuleStats struct {
	Rule    string `json:"rule"`
	Matches int    `json:"matches"`
	Changed int    `json:"changed"`
}

// Rule is a single pattern-to-replacement pass over source text.
// Text the rule does not match is returned byte-identical.
type Rule interface {
	Name() string
	Apply(text string, logger hclog.Logger) (string, RuleStats, error)
}

// tableIndexRule rewrites TABLE[K] through the index correspondence.
type tableIndexRule struct {
	re    *regexp.Regexp
	table string
	corr  *colour.IndexCorrespondence
}

func newTableIndexRule(table string, corr *colour.IndexCorrespondence) *tableIndexRule {
	return &tableIndexRule{
		re:    regexp.MustCompile(regexp.QuoteMeta(table) + `\[\s*([0-9]+)\s*\]`),
		table: table,
		corr:  corr,
	}
}

func (r *tableIndexRule) Name() string { return RuleTableIndex }

func (r *tableIndexRule) Apply(text string, _ hclog.Logger) (string, RuleStats, error) {
	return replaceAll(r.Name(), r.re, text, func(m []string) (string, error) {
		target, ok := lookupIndex(r.corr, m[1])
		if !ok {
			return m[0], nil
		}
		return fmt.Sprintf("%s[%d]", r.table, target), nil
	})
}

// indexSetterRule rewrites the leading index of SETTER(K, ...), keeping any
// trailing arguments verbatim.
type indexSetterRule struct {
	re     *regexp.Regexp
	setter string
	corr   *colour.IndexCorrespondence
}

func newIndexSetterRule(setter string, corr *colour.IndexCorrespondence) *indexSetterRule {
	return &indexSetterRule{
		re:     regexp.MustCompile(regexp.QuoteMeta(setter) + `\(\s*([0-9]+)(\s*,[^)]*)?\)`),
		setter: setter,
		corr:   corr,
	}
}

func (r *indexSetterRule) Name() string { return RuleIndexSetter }

func (r *indexSetterRule) Apply(text string, _ hclog.Logger) (string, RuleStats, error) {
	return replaceAll(r.Name(), r.re, text, func(m []string) (string, error) {
		target, ok := lookupIndex(r.corr, m[1])
		if !ok {
			return m[0], nil
		}
		return fmt.Sprintf("%s(%d%s)", r.setter, target, m[2]), nil
	})
}

// rgbSetterRule snaps RGB_SETTER(r, g, b, ...) literals to the exact
// nearest target colour.
type rgbSetterRule struct {
	re     *regexp.Regexp
	setter string
	space  *colour.ColourSpace
}

func newRGBSetterRule(setter string, space *colour.ColourSpace) *rgbSetterRule {
	return &rgbSetterRule{
		re: regexp.MustCompile(regexp.QuoteMeta(setter) +
			`\(` + floatArg + `,` + floatArg + `,` + floatArg + `([^)]*)\)`),
		setter: setter,
		space:  space,
	}
}

func (r *rgbSetterRule) Name() string { return RuleRGBSetter }

func (r *rgbSetterRule) Apply(text string, _ hclog.Logger) (string, RuleStats, error) {
	return replaceAll(r.Name(), r.re, text, func(m []string) (string, error) {
		c, err := parseNormalised(m[1], m[2], m[3])
		if err != nil {
			return "", err
		}
		snapped, _ := r.space.Snap(c)
		return fmt.Sprintf("%s(%s%s)", r.setter, snapped.Format(), m[4]), nil
	})
}

// lerpRule snaps both endpoints of LERP(r1, g1, b1, r2, g2, b2, t) and
// copies t through untouched.
type lerpRule struct {
	re    *regexp.Regexp
	lerp  string
	space *colour.ColourSpace
}

func newLerpRule(lerp string, space *colour.ColourSpace) *lerpRule {
	pattern := regexp.QuoteMeta(lerp) + `\(` + strings.Repeat(floatArg+`,`, 6) + `\s*([^)]+)\)`
	return &lerpRule{
		re:    regexp.MustCompile(pattern),
		lerp:  lerp,
		space: space,
	}
}

func (r *lerpRule) Name() string { return RuleLerpEndpoints }

func (r *lerpRule) Apply(text string, _ hclog.Logger) (string, RuleStats, error) {
	return replaceAll(r.Name(), r.re, text, func(m []string) (string, error) {
		from, err := parseNormalised(m[1], m[2], m[3])
		if err != nil {
			return "", err
		}
		to, err := parseNormalised(m[4], m[5], m[6])
		if err != nil {
			return "", err
		}
		a, _ := r.space.Snap(from)
		b, _ := r.space.Snap(to)
		return fmt.Sprintf("%s(%s, %s, %s)", r.lerp, a.Format(), b.Format(), m[7]), nil
	})
}

var braceListPattern = regexp.MustCompile(`\{([0-9\s,]+)\}`)

// braceListRule rewrites every known index inside a bare {a, b, c} list.
// It cannot tell palette indices from other integers, so every change is
// logged for review. In strict mode a list is only rewritten when all of
// its elements are known indices.
//
// Each comma-separated slot must hold exactly one integer. A single empty
// slot after the last comma is allowed, as Lua allows it, and a list of
// only whitespace is an empty table and left alone. Anything else, such as
// {33 34} or {33,,34}, fails the rewrite.
type braceListRule struct {
	corr   *colour.IndexCorrespondence
	strict bool
}

// listSlot is one element of a brace list with its surrounding whitespace.
type listSlot struct {
	lead, value, trail string
	index              int
	known              bool
}

func (r *braceListRule) Name() string { return RuleBraceList }

func (r *braceListRule) Apply(text string, logger hclog.Logger) (string, RuleStats, error) {
	return replaceAll(r.Name(), braceListPattern, text, func(m []string) (string, error) {
		if strings.TrimSpace(m[1]) == "" {
			return m[0], nil
		}

		slots, err := r.parseSlots(m[1])
		if err != nil {
			return "", err
		}
		if r.strict {
			for _, s := range slots {
				if s.value != "" && !s.known {
					logger.Debug("brace list left unchanged in strict mode", "list", m[0], "element", s.value)
					return m[0], nil
				}
			}
		}

		parts := make([]string, len(slots))
		for i, s := range slots {
			value := s.value
			if s.known {
				value = strconv.Itoa(s.index)
			}
			parts[i] = s.lead + value + s.trail
		}
		out := "{" + strings.Join(parts, ",") + "}"
		if out != m[0] {
			logger.Info("rewrote bare index list, review manually", "before", m[0], "after", out)
		}
		return out, nil
	})
}

func (r *braceListRule) parseSlots(list string) ([]listSlot, error) {
	raw := strings.Split(list, ",")
	slots := make([]listSlot, len(raw))
	for i, slot := range raw {
		value := strings.TrimSpace(slot)
		if value == "" && i > 0 && i == len(raw)-1 {
			slots[i] = listSlot{lead: slot}
			continue
		}

		n, err := strconv.Atoi(value)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("element %d: %w", i+1, err)
		}

		lead := slot[:strings.Index(slot, value)]
		s := listSlot{lead: lead, value: value, trail: slot[len(lead)+len(value):]}
		if err == nil {
			s.index, s.known = r.corr.Lookup(n)
		}
		slots[i] = s
	}
	return slots, nil
}

// lookupIndex maps a captured decimal index. Integers too large to parse
// cannot be palette indices and are reported as unknown.
func lookupIndex(corr *colour.IndexCorrespondence, s string) (int, bool) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return corr.Lookup(idx)
}

func parseNormalised(r, g, b string) (colour.Normalised, error) {
	var c colour.Normalised
	var err error
	if c.R, err = strconv.ParseFloat(r, 64); err != nil {
		return c, fmt.Errorf("red component: %w", err)
	}
	if c.G, err = strconv.ParseFloat(g, 64); err != nil {
		return c, fmt.Errorf("green component: %w", err)
	}
	if c.B, err = strconv.ParseFloat(b, 64); err != nil {
		return c, fmt.Errorf("blue component: %w", err)
	}
	return c, nil
}

// replaceAll replaces every match of re in text with the result of fn,
// which receives the full match followed by its submatches (empty for
// groups that did not participate). Any error from fn aborts the rewrite.
func replaceAll(rule string, re *regexp.Regexp, text string, fn func(m []string) (string, error)) (string, RuleStats, error) {
	stats := RuleStats{Rule: rule}
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, stats, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range locs {
		m := make([]string, len(loc)/2)
		for i := range m {
			if loc[2*i] >= 0 {
				m[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}

		repl, err := fn(m)
		if err != nil {
			return "", stats, &RuleError{Rule: rule, Match: m[0], Err: err}
		}

		stats.Matches++
		if repl != m[0] {
			stats.Changed++
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(repl)
		last = loc[1]
	}
	b.WriteString(text[last:])

	return b.String(), stats, nil
}
