// Package windowmatch decides which prepared pages apply to a foreground
// window. Patterns match the whole class or title, ignoring case.
package windowmatch

import (
	"regexp"

	"github.com/arthur-debert/autopage/pkg/definition"
	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/repos"
	"github.com/rs/zerolog"
)

// CompiledRule is a MatchRule with its patterns compiled. A nil field
// never matches.
type CompiledRule struct {
	Class *regexp.Regexp
	Name  *regexp.Regexp
}

// Matches reports whether the rule fires. The class is checked first.
func (r CompiledRule) Matches(title, class string) bool {
	if r.Class != nil && r.Class.MatchString(class) {
		return true
	}
	return r.Name != nil && r.Name.MatchString(title)
}

// Compile anchors and compiles a window pattern.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)^(?:" + pattern + ")$")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMatchRule, "invalid match pattern %q", pattern).
			WithDetail("pattern", pattern)
	}
	return re, nil
}

// CompileRules compiles rules in order. A rule with a malformed pattern is
// logged and left out; the others are kept.
func CompileRules(rules []definition.MatchRule, logger zerolog.Logger) []CompiledRule {
	compiled := make([]CompiledRule, 0, len(rules))
	for i, rule := range rules {
		var (
			cr  CompiledRule
			err error
		)
		if rule.ClassPattern != nil {
			cr.Class, err = Compile(*rule.ClassPattern)
		}
		if err == nil && rule.NamePattern != nil {
			cr.Name, err = Compile(*rule.NamePattern)
		}
		if err != nil {
			logger.Warn().Err(err).Int("rule", i).Msg("Skipping match rule")
			continue
		}
		compiled = append(compiled, cr)
	}
	return compiled
}

// PreparedPage is a discovered repo ready for auto-switching.
type PreparedPage struct {
	PageName   string
	Definition *definition.AutopageDef
	Repo       repos.Repo
	Rules      []CompiledRule
}

// Prepare compiles the match rules of def for the page name.
func Prepare(name string, def *definition.AutopageDef, repo repos.Repo, logger zerolog.Logger) PreparedPage {
	return PreparedPage{
		PageName:   name,
		Definition: def,
		Repo:       repo,
		Rules:      CompileRules(def.Matches, logger.With().Str("page", name).Logger()),
	}
}

// Evaluator holds the pages of one listen session.
type Evaluator struct {
	pages []PreparedPage
}

func NewEvaluator(pages []PreparedPage) *Evaluator {
	return &Evaluator{pages: append([]PreparedPage(nil), pages...)}
}

// Pages returns the prepared pages in discovery order.
func (e *Evaluator) Pages() []PreparedPage {
	return e.pages
}

// Evaluate returns every page with a rule matching the window, in
// discovery order. A page appears at most once.
func (e *Evaluator) Evaluate(title, class string) []PreparedPage {
	var matched []PreparedPage
	for _, p := range e.pages {
		for _, rule := range p.Rules {
			if rule.Matches(title, class) {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched
}
