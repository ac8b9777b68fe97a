package definition

// MatchRule selects a page for a foreground window. Either pattern may be
// nil; a rule with both nil never fires.
type MatchRule struct {
	ClassPattern *string
	NamePattern  *string
}

// Action is either a shorthand (Type) or an explicit (ID + Settings) action.
// An action with neither form set is a no-op.
type Action struct {
	Type     *string
	ID       *string
	Settings map[string]any
}

// IsShorthand reports whether the action is typed text or a key combo.
func (a Action) IsShorthand() bool {
	return a.Type != nil
}

// IsExplicit reports whether the action targets a plugin action by id.
func (a Action) IsExplicit() bool {
	return a.Type == nil && a.ID != nil
}

// Button is one key on the deck. Icon holds a name pattern until icon
// resolution rewrites it to a media path (or nil when nothing matched).
type Button struct {
	Location   *string
	Icon       *string
	Top        *string
	Center     *string
	Bottom     *string
	Background *string
	Opacity    *float64
	Size       *float64
	Actions    []Action
}

// Labels returns the non-empty labels keyed by position.
func (b Button) Labels() map[string]string {
	labels := make(map[string]string, 3)
	for pos, text := range map[string]*string{"top": b.Top, "center": b.Center, "bottom": b.Bottom} {
		if text != nil && *text != "" {
			labels[pos] = *text
		}
	}
	return labels
}

// AutopageDef is one parsed recipe.
type AutopageDef struct {
	Matches    []MatchRule
	Buttons    []Button
	SourcePath string
}
