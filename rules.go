package tagsanitizer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/cybergodev/tagsanitizer/internal"
)

// Action is what a rule does with the element it matches.
type Action string

const (
	ActionKeep    Action = "keep"    // print the element
	ActionUnwrap  Action = "unwrap"  // IgnoreSelf
	ActionDrop    Action = "drop"    // IgnoreSelfAndContents
	ActionRewrite Action = "rewrite" // RewriteAs the rendered template
)

// TagRule is the ruling for one tag name.
type TagRule struct {
	Action Action   `yaml:"action,omitempty"`
	Allow  []string `yaml:"allow,omitempty"`

	// Rewrite is a text/template rendered against the element. It may call
	// .Name, .Attr "key", and the functions escape and basename.
	Rewrite string `yaml:"rewrite,omitempty"`

	// Require names an attribute that must be present for the rewrite to
	// apply; without it the element is kept.
	Require string `yaml:"require,omitempty"`
}

// Rules is a declarative Policy: a rule per tag name plus a default rule for
// every other element. Tag names match case-insensitively. A compiled Rules
// value is read-only and safe for concurrent use.
//
//	default:
//	  allow: [style]
//	tags:
//	  html: {action: unwrap}
//	  head: {action: drop}
//	  a:    {allow: [href]}
//	  img:
//	    action: rewrite
//	    require: src
//	    rewrite: '<a href="{{.Attr "src" | escape}}">{{.Attr "src" | basename | escape}}</a>'
type Rules struct {
	Default TagRule            `yaml:"default"`
	Tags    map[string]TagRule `yaml:"tags,omitempty"`

	// Logger receives rewrite template failures. Nil means no logging.
	Logger *zerolog.Logger `yaml:"-"`

	compiled map[string]compiledRule
	fallback compiledRule
	key      string
}

type compiledRule struct {
	TagRule
	tmpl *template.Template
}

// rewriteData is what a rewrite template sees as its dot.
type rewriteData struct {
	Name string
	tag  *Tag
}

// Attr returns the value of the first attribute named key, or "".
func (d rewriteData) Attr(key string) string {
	v, _ := d.tag.Attr(key)
	return v
}

var rewriteFuncs = template.FuncMap{
	"escape": html.EscapeString,
	"basename": func(u string) string {
		segment, _ := internal.LastPathSegment(u)
		return segment
	},
}

// ParseRules decodes and compiles a YAML rules document.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	if err := r.Compile(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadRules reads and compiles a YAML rules file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return ParseRules(data)
}

// Compile validates the rules and prepares them for Decide. It must be
// called after building or changing a Rules value by hand.
func (r *Rules) Compile() error {
	fallback, err := compileRule("default", r.Default)
	if err != nil {
		return err
	}
	compiled := make(map[string]compiledRule, len(r.Tags))
	for name, rule := range r.Tags {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return fmt.Errorf("%w: empty tag name", ErrInvalidRules)
		}
		if _, dup := compiled[key]; dup {
			return fmt.Errorf("%w: tag %q listed twice", ErrInvalidRules, key)
		}
		c, err := compileRule(key, rule)
		if err != nil {
			return err
		}
		compiled[key] = c
	}

	canonical, err := yaml.Marshal(struct {
		Default TagRule            `yaml:"default"`
		Tags    map[string]TagRule `yaml:"tags"`
	}{r.Default, r.Tags})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	sum := sha256.Sum256(canonical)

	r.fallback = fallback
	r.compiled = compiled
	r.key = "rules:" + hex.EncodeToString(sum[:])
	return nil
}

func compileRule(name string, rule TagRule) (compiledRule, error) {
	c := compiledRule{TagRule: rule}
	switch rule.Action {
	case "":
		c.Action = ActionKeep
	case ActionKeep, ActionUnwrap, ActionDrop:
	case ActionRewrite:
		if rule.Rewrite == "" {
			return c, fmt.Errorf("%w: %s: rewrite action needs a rewrite template", ErrInvalidRules, name)
		}
		tmpl, err := template.New(name).Funcs(rewriteFuncs).Option("missingkey=error").Parse(rule.Rewrite)
		if err != nil {
			return c, fmt.Errorf("%w: %s: %v", ErrInvalidRules, name, err)
		}
		c.tmpl = tmpl
	default:
		return c, fmt.Errorf("%w: %s: unknown action %q", ErrInvalidRules, name, rule.Action)
	}
	if rule.Rewrite != "" && c.Action != ActionRewrite {
		return c, fmt.Errorf("%w: %s: rewrite template given for action %q", ErrInvalidRules, name, c.Action)
	}
	return c, nil
}

// Decide applies the rule for tag's name, or the default rule.
func (r *Rules) Decide(tag *Tag) {
	rule, ok := r.compiled[strings.ToLower(tag.Name)]
	if !ok {
		rule = r.fallback
	}

	tag.AllowAttributes(rule.Allow...)
	switch rule.Action {
	case ActionUnwrap:
		tag.IgnoreSelf()
	case ActionDrop:
		tag.IgnoreSelfAndContents()
	case ActionRewrite:
		if rule.Require != "" {
			if _, ok := tag.Attr(rule.Require); !ok {
				return
			}
		}
		var sb strings.Builder
		if err := rule.tmpl.Execute(&sb, rewriteData{Name: tag.Name, tag: tag}); err != nil {
			// A half-rendered rewrite could be anything; drop the element.
			if r.Logger != nil {
				r.Logger.Warn().Err(err).Str("tag", tag.Name).Msg("rewrite template failed, dropping element")
			}
			tag.IgnoreSelfAndContents()
			return
		}
		tag.RewriteAs(sb.String())
	}
}

// CacheKey identifies the compiled rules; equal documents yield equal keys.
func (r *Rules) CacheKey() string { return r.key }
