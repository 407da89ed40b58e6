package tagsanitizer

import "strings"

// Policy decides what happens to each element of a walk. Decide is called
// exactly once per element, before any of the element's children, and must
// express its ruling through the Tag's methods.
type Policy interface {
	Decide(tag *Tag)
}

// PolicyFunc adapts an ordinary function to a Policy.
type PolicyFunc func(tag *Tag)

func (f PolicyFunc) Decide(tag *Tag) { f(tag) }

// DenyAttributes makes no decisions: every element and text node is kept and
// every attribute is dropped.
var DenyAttributes Policy = denyAttributes{}

type denyAttributes struct{}

func (denyAttributes) Decide(*Tag) {}

func (denyAttributes) CacheKey() string { return "deny-attributes" }

// CacheKeyer is implemented by policies whose decisions depend on nothing but
// the Tag. The key must change whenever the policy's behavior does; a
// Sanitizer only caches results for policies that implement it.
type CacheKeyer interface {
	CacheKey() string
}

// Chain runs each policy against the same Tag, in order. Later policies see
// and may override the decisions of earlier ones. The chain is a CacheKeyer
// when every policy in it reports a non-empty key. The key is taken when
// Chain is called; build a new chain after recompiling a member.
func Chain(policies ...Policy) Policy {
	keys := make([]string, 0, len(policies))
	for _, p := range policies {
		if p == nil {
			continue
		}
		k, ok := p.(CacheKeyer)
		if !ok {
			return chain(policies)
		}
		key := k.CacheKey()
		if key == "" {
			return chain(policies)
		}
		keys = append(keys, key)
	}
	return keyedChain{chain: policies, key: strings.Join(keys, "\x00")}
}

type chain []Policy

func (c chain) Decide(tag *Tag) {
	for _, p := range c {
		if p != nil {
			p.Decide(tag)
		}
	}
}

type keyedChain struct {
	chain
	key string
}

func (c keyedChain) CacheKey() string { return "chain:" + c.key }
