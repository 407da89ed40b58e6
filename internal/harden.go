package internal

import "github.com/microcosm-cc/bluemonday"

// Hardener runs sanitized output through a bluemonday user-generated-content
// policy. It catches what a permissive caller policy or a hand-written
// rewrite lets through (script bodies, event handler attributes, unsafe URL
// schemes) while keeping the inline styles and classes a walk usually keeps.
// It is safe for concurrent use.
type Hardener struct {
	policy *bluemonday.Policy
}

func NewHardener() *Hardener {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("style", "class").Globally()
	p.AllowStyling()
	return &Hardener{policy: p}
}

func (h *Hardener) Apply(markup string) string {
	if markup == "" {
		return ""
	}
	return h.policy.Sanitize(markup)
}
