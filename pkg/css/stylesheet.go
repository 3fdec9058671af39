package css

import (
	"cmp"
	"slices"
	"strings"
)

// Origin says where a rule came from. User-agent rules always lose to
// author rules.
type Origin int

const (
	UserAgent Origin = iota
	Author
)

func (o Origin) String() string {
	if o == UserAgent {
		return "user-agent"
	}
	return "author"
}

// SelectorPart is one compound of a descendant chain: tag, .class or
// tag.class. An empty Tag matches any element.
type SelectorPart struct {
	Tag   string
	Class string
}

func (p SelectorPart) String() string {
	if p.Class == "" {
		return p.Tag
	}
	return p.Tag + "." + p.Class
}

// Selector is a descendant chain, outermost ancestor first.
type Selector struct {
	Parts []SelectorPart
}

// Specificity is 1 when any part is class-qualified, else 0.
func (s Selector) Specificity() int {
	for _, p := range s.Parts {
		if p.Class != "" {
			return 1
		}
	}
	return 0
}

func (s Selector) String() string {
	parts := make([]string, len(s.Parts))
	for i, p := range s.Parts {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// Rule represents a CSS rule (selector + declarations)
type Rule struct {
	Selector     Selector
	Declarations map[string]string // property -> value
	Origin       Origin
	Order        int
}

// Priority is the cascade sort key of a rule.
type Priority struct {
	Origin      Origin
	Specificity int
	Order       int
}

func (r Rule) Priority() Priority {
	return Priority{Origin: r.Origin, Specificity: r.Selector.Specificity(), Order: r.Order}
}

// Compare orders priorities origin first, then specificity, then source
// order.
func (p Priority) Compare(o Priority) int {
	if c := cmp.Compare(p.Origin, o.Origin); c != 0 {
		return c
	}
	if c := cmp.Compare(p.Specificity, o.Specificity); c != 0 {
		return c
	}
	return cmp.Compare(p.Order, o.Order)
}

// SortRules sorts rules in place so that later rules win. The sort is
// stable: rules with equal priority keep their relative order.
func SortRules(rules []Rule) {
	slices.SortStableFunc(rules, func(a, b Rule) int {
		return a.Priority().Compare(b.Priority())
	})
}
