package windowmatch

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/autopage/pkg/definition"
	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/repos"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func page(t *testing.T, name string, rules ...definition.MatchRule) PreparedPage {
	t.Helper()
	def := &definition.AutopageDef{Matches: rules}
	return Prepare(name, def, repos.Repo{Name: name}, zerolog.Nop())
}

func names(pages []PreparedPage) []string {
	var out []string
	for _, p := range pages {
		out = append(out, p.PageName)
	}
	return out
}

func TestEvaluateClassShortCircuit(t *testing.T) {
	ev := NewEvaluator([]PreparedPage{
		page(t, "code", definition.MatchRule{ClassPattern: strPtr("code")}),
		page(t, "slack", definition.MatchRule{NamePattern: strPtr("(?i)slack")}),
	})

	got := ev.Evaluate("Slack - general", "code")
	assert.Equal(t, []string{"code"}, names(got))
}

func TestEvaluate(t *testing.T) {
	ev := NewEvaluator([]PreparedPage{
		page(t, "firefox",
			definition.MatchRule{ClassPattern: strPtr("firefox")},
			definition.MatchRule{NamePattern: strPtr(".*Mozilla Firefox")},
		),
		page(t, "terminal", definition.MatchRule{ClassPattern: strPtr("kitty|alacritty")}),
		page(t, "browser", definition.MatchRule{ClassPattern: strPtr("firefox|chromium")}),
		page(t, "none"),
	})

	tests := []struct {
		name  string
		title string
		class string
		want  []string
	}{
		{"class match, case-insensitive", "whatever", "Firefox", []string{"firefox", "browser"}},
		{"title match", "Docs - Mozilla Firefox", "unknown", []string{"firefox"}},
		{"alternation anchored as a whole", "", "alacritty", []string{"terminal"}},
		{"partial class is not a match", "", "firefox-esr", nil},
		{"nothing", "Editor", "gedit", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(ev.Evaluate(tt.title, tt.class)))
		})
	}
}

func TestEvaluatePageOnceAndDiscoveryOrder(t *testing.T) {
	ev := NewEvaluator([]PreparedPage{
		page(t, "b",
			definition.MatchRule{ClassPattern: strPtr("x")},
			definition.MatchRule{NamePattern: strPtr("y")},
		),
		page(t, "a", definition.MatchRule{NamePattern: strPtr("y")}),
	})

	assert.Equal(t, []string{"b", "a"}, names(ev.Evaluate("y", "x")))
}

func TestCompileRulesSkipsMalformed(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	rules := CompileRules([]definition.MatchRule{
		{ClassPattern: strPtr("(")},
		{ClassPattern: strPtr("ok"), NamePattern: strPtr("[")},
		{NamePattern: strPtr("fine")},
	}, logger)

	require.Len(t, rules, 1)
	assert.True(t, rules[0].Matches("FINE", ""))
	assert.Contains(t, buf.String(), "Skipping match rule")

	ev := NewEvaluator([]PreparedPage{
		page(t, "broken", definition.MatchRule{ClassPattern: strPtr("(")}),
		page(t, "good", definition.MatchRule{ClassPattern: strPtr("term")}),
	})
	assert.Equal(t, []string{"good"}, names(ev.Evaluate("", "term")))
}

func TestCompile(t *testing.T) {
	_, err := Compile("(")
	assert.True(t, errors.IsErrorCode(err, errors.ErrMatchRule))

	re, err := Compile("code")
	require.NoError(t, err)
	assert.True(t, re.MatchString("CODE"))
	assert.False(t, re.MatchString("vscode"))
}

func TestDecodeWindowEvent(t *testing.T) {
	valid := []any{
		[]any{"Slack - general", "Slack"},
		[]string{"Slack - general", "Slack"},
		WindowEvent{Title: "Slack - general", Class: "Slack"},
	}
	for _, v := range valid {
		ev, err := DecodeWindowEvent(v)
		require.NoError(t, err)
		assert.Equal(t, WindowEvent{Title: "Slack - general", Class: "Slack"}, ev)
	}

	invalid := []any{nil, "Slack", []any{"only"}, []any{"a", 3}, []string{"a", "b", "c"}, 42}
	for _, v := range invalid {
		_, err := DecodeWindowEvent(v)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedEvent))
	}
}
