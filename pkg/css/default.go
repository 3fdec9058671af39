package css

import (
	_ "embed"
	"slices"
	"sync"
)

//go:embed browser.css
var browserCSS string

var (
	defaultOnce  sync.Once
	defaultRules []Rule
)

// DefaultRules returns a copy of the parsed user-agent stylesheet.
func DefaultRules() []Rule {
	defaultOnce.Do(func() {
		defaultRules = NewParser(nil, UserAgent).Parse(browserCSS)
	})
	return slices.Clone(defaultRules)
}
