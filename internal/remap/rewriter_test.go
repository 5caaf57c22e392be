package remap

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/repalette/internal/colour"
)

func defaultRewriter(t *testing.T, opts ...Option) *Rewriter {
	t.Helper()
	legacy := colour.DefaultLegacyPalette()
	space := colour.NewColourSpace(colour.DefaultTargetPalette())
	r, err := New(space, colour.BuildIndexCorrespondence(legacy, space), opts...)
	require.NoError(t, err)
	return r
}

// identityRewriter maps legacy 1..20 onto 1..16 then 1..4, so every image
// is its own image.
func identityRewriter(t *testing.T) *Rewriter {
	t.Helper()
	images := make([]int, 20)
	for i := range images {
		images[i] = i%16 + 1
	}
	corr, err := colour.NewIndexCorrespondence(images)
	require.NoError(t, err)
	require.True(t, corr.IsIdempotent())

	r, err := New(colour.NewColourSpace(colour.DefaultTargetPalette()), corr)
	require.NoError(t, err)
	return r
}

func TestRewriteTableIndex(t *testing.T) {
	r := defaultRewriter(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "mapped", in: "local c = PAL[1]", want: "local c = PAL[16]"},
		{name: "inner whitespace normalised", in: "PAL[ 12 ]", want: "PAL[9]"},
		{name: "several", in: "PAL[20], PAL[42]", want: "PAL[1], PAL[14]"},
		{name: "unknown index verbatim", in: "PAL[ 99 ]", want: "PAL[ 99 ]"},
		{name: "zero verbatim", in: "PAL[0]", want: "PAL[0]"},
		{name: "overflow verbatim", in: "PAL[99999999999999999999999]", want: "PAL[99999999999999999999999]"},
		{name: "expression index untouched", in: "PAL[i + 1]", want: "PAL[i + 1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Rewrite(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteIdentityIndex(t *testing.T) {
	got, err := identityRewriter(t).Rewrite("PAL[1]")
	require.NoError(t, err)
	assert.Equal(t, "PAL[1]", got)
}

func TestRewriteIndexSetter(t *testing.T) {
	r := defaultRewriter(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no extra arguments", in: "set_color(12)", want: "set_color(9)"},
		{name: "alpha preserved", in: "set_color(45, 0.5)", want: "set_color(10, 0.5)"},
		{name: "trailing spacing preserved", in: "set_color( 1 ,  0.25)", want: "set_color(16 ,  0.25)"},
		{name: "unknown verbatim", in: "set_color(70, 1)", want: "set_color(70, 1)"},
		{name: "non literal untouched", in: "set_color(idx, 1)", want: "set_color(idx, 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Rewrite(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteSetterTrailingArgs(t *testing.T) {
	got, err := identityRewriter(t).Rewrite("set_color(10, 0.5)")
	require.NoError(t, err)
	assert.Equal(t, "set_color(10, 0.5)", got)
}

func TestRewriteRGBSetter(t *testing.T) {
	r := defaultRewriter(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			// Legacy entry 1 is nearest to target entry 16.
			name: "legacy entry one",
			in:   "love.graphics.setColor(0.047, 0.055, 0.090)",
			want: "love.graphics.setColor(0.122, 0.055, 0.110)",
		},
		{
			name: "snaps to target entry one",
			in:   "love.graphics.setColor(0.55, 0.56, 0.68)",
			want: "love.graphics.setColor(0.549, 0.561, 0.682)",
		},
		{
			name: "alpha passes through",
			in:   "love.graphics.setColor(0.9, 0.7, 0.1, 0.35)",
			want: "love.graphics.setColor(0.894, 0.580, 0.227, 0.35)",
		},
		{
			name: "integer literals",
			in:   "love.graphics.setColor(1,1,1)",
			want: "love.graphics.setColor(0.961, 0.929, 0.729)",
		},
		{
			name: "non literal untouched",
			in:   "love.graphics.setColor(r, g, b)",
			want: "love.graphics.setColor(r, g, b)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Rewrite(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteLerp(t *testing.T) {
	r := defaultRewriter(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "both endpoints snapped",
			in:   "lerp_color(0.047, 0.055, 0.090, 0.9, 0.7, 0.1, t * 0.5)",
			want: "lerp_color(0.122, 0.055, 0.110, 0.894, 0.580, 0.227, t * 0.5)",
		},
		{
			name: "parameter copied verbatim",
			in:   "lerp_color(1,1,1,0,0,0,  k )",
			want: "lerp_color(0.961, 0.929, 0.729, 0.122, 0.055, 0.110, k )",
		},
		{
			name: "nested call in parameter",
			in:   "lerp_color(1, 1, 1, 0, 0, 0, math.min(a, 1) )",
			want: "lerp_color(0.961, 0.929, 0.729, 0.122, 0.055, 0.110, math.min(a, 1) )",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Rewrite(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteBraceList(t *testing.T) {
	r := defaultRewriter(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "known indices", in: "({33, 34, 32})", want: "({2, 3, 3})"},
		{name: "unknown element kept", in: "{33, 1920}", want: "{2, 1920}"},
		{name: "spacing preserved", in: "{33,34 ,32}", want: "{2,3 ,3}"},
		{name: "multi-line", in: "{\n  33,\n  34,\n}", want: "{\n  2,\n  3,\n}"},
		{name: "trailing comma", in: "{33, 34, }", want: "{2, 3, }"},
		{name: "overflow kept", in: "{33, 99999999999999999999}", want: "{2, 99999999999999999999}"},
		{name: "empty braces", in: "local t = { }", want: "local t = { }"},
		{name: "all unknown", in: "{1920, 1080}", want: "{1920, 1080}"},
		{name: "not a bare list", in: "{x = 1, y = 2}", want: "{x = 1, y = 2}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Rewrite(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteBraceListStrict(t *testing.T) {
	r := defaultRewriter(t, WithStrictLists(true))

	got, err := r.Rewrite("{33, 1920} {33, 34}")
	require.NoError(t, err)
	assert.Equal(t, "{33, 1920} {2, 3}", got)
}

func TestRewriteBraceListLogsForReview(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Info})
	r := defaultRewriter(t, WithLogger(logger)).ForFile("sys/player.lua")

	_, err := r.Rewrite("x = {33, 34, 32}")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "review manually")
	assert.Contains(t, buf.String(), "sys/player.lua")
}

func TestRewriteMalformedLiteral(t *testing.T) {
	r := defaultRewriter(t)

	tests := []struct {
		name string
		in   string
		rule string
	}{
		{name: "double dot", in: "love.graphics.setColor(1.2.3, 0, 0)", rule: RuleRGBSetter},
		{name: "lone dot", in: "lerp_color(., 0, 0, 1, 1, 1, t)", rule: RuleLerpEndpoints},
		{name: "list missing comma", in: "local l = {33 34}", rule: RuleBraceList},
		{name: "list empty element", in: "local l = {33,,34}", rule: RuleBraceList},
		{name: "list only commas", in: "local l = { , }", rule: RuleBraceList},
		{name: "list leading comma", in: "local l = {,33}", rule: RuleBraceList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Rewrite("PAL[1]\n" + tt.in)
			require.Error(t, err)
			assert.Empty(t, got)

			var ruleErr *RuleError
			require.True(t, errors.As(err, &ruleErr))
			assert.Equal(t, tt.rule, ruleErr.Rule)

			var numErr *strconv.NumError
			assert.True(t, errors.As(err, &numErr))
		})
	}
}

func TestRewriteNonInterference(t *testing.T) {
	r := defaultRewriter(t)

	inputs := []string{
		"",
		"local x = foo(1, 2)\nprint('PAL is a table')\n",
		"-- set_color is documented elsewhere\nreturn {x = 10, y = 20}\n",
		"love.graphics.rectangle('fill', 0, 0, 10, 10)\r\n",
		"unicode ✓ { a } PAL [3]",
	}

	for _, in := range inputs {
		got, err := r.Rewrite(in)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}
}

const sampleSource = `local PAL = require("core.palette")

function draw_player(p)
    set_color(12)
    love.graphics.rectangle("fill", p.x, p.y, 8, 8)
    set_color(3, 0.5)
    love.graphics.setColor(0.9, 0.7, 0.1, p.alpha)
    local c = lerp_color(0.1, 0.5, 0.95, 0.85, 0.2, 0.15, p.hurt)
    local tint = PAL[14]
    return ({11, 12, 13})
end
`

func TestRewriteIdempotentWithIdempotentMapping(t *testing.T) {
	r := identityRewriter(t)

	once, err := r.Rewrite(sampleSource)
	require.NoError(t, err)
	twice, err := r.Rewrite(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestRewriteSnapRulesAreFixedPoints(t *testing.T) {
	r := defaultRewriter(t)
	in := "love.graphics.setColor(0.31, 0.38, 0.48)\nlerp_color(0.2, 0.22, 0.26, 0.98, 0.91, 0.16, dt)\n"

	once, err := r.Rewrite(in)
	require.NoError(t, err)
	twice, err := r.Rewrite(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestRewriteWithStats(t *testing.T) {
	r := defaultRewriter(t)

	out, stats, err := r.RewriteWithStats(sampleSource)
	require.NoError(t, err)
	require.Len(t, stats, 5)

	names := make([]string, len(stats))
	for i, s := range stats {
		names[i] = s.Rule
	}
	assert.Equal(t, []string{RuleTableIndex, RuleIndexSetter, RuleRGBSetter, RuleLerpEndpoints, RuleBraceList}, names)

	assert.Equal(t, RuleStats{Rule: RuleTableIndex, Matches: 1, Changed: 1}, stats[0])
	assert.Equal(t, RuleStats{Rule: RuleIndexSetter, Matches: 2, Changed: 1}, stats[1])
	assert.Equal(t, 1, stats[2].Matches)
	assert.Equal(t, 1, stats[3].Matches)
	assert.Equal(t, RuleStats{Rule: RuleBraceList, Matches: 1, Changed: 1}, stats[4])

	assert.Contains(t, out, "set_color(9)")
	assert.Contains(t, out, "set_color(3, 0.5)")
	assert.Contains(t, out, "love.graphics.setColor(0.894, 0.580, 0.227, p.alpha)")
	assert.Contains(t, out, "local tint = PAL[6]")
	assert.Contains(t, out, "({2, 9, 5})")
}

func TestRewriteCustomSyntax(t *testing.T) {
	syntax := Syntax{
		Table:     "COLOURS",
		Setter:    "gfx.pen",
		RGBSetter: "gfx.rgb",
		Lerp:      "mix",
	}
	r := defaultRewriter(t, WithSyntax(syntax))

	got, err := r.Rewrite("COLOURS[1] gfx.pen(12) gfx.rgb(0.55, 0.56, 0.68) PAL[1] gfxXpen(12)")
	require.NoError(t, err)
	assert.Equal(t, "COLOURS[16] gfx.pen(9) gfx.rgb(0.549, 0.561, 0.682) PAL[1] gfxXpen(12)", got)
}

func TestNewInvalidSyntax(t *testing.T) {
	space := colour.NewColourSpace(colour.DefaultTargetPalette())
	corr := colour.BuildIndexCorrespondence(colour.DefaultLegacyPalette(), space)

	s := DefaultSyntax()
	s.Lerp = ""
	_, err := New(space, corr, WithSyntax(s))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lerp")
}
