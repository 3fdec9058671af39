package css

import (
	"strings"

	"soyorin/pkg/html"
)

// Matches reports whether the element matches the selector. The last part
// must match the element itself; earlier parts must match ancestors in
// order, each further out than the one after it.
func Matches(e *html.Element, sel Selector) bool {
	if len(sel.Parts) == 0 || !matchesPart(e, sel.Parts[len(sel.Parts)-1]) {
		return false
	}
	i := len(sel.Parts) - 2
	for p := e.Parent(); p != nil && i >= 0; p = p.Parent() {
		if matchesPart(p, sel.Parts[i]) {
			i--
		}
	}
	return i < 0
}

func matchesPart(e *html.Element, part SelectorPart) bool {
	if part.Tag != "" && e.Tag != part.Tag {
		return false
	}
	if part.Class == "" {
		return true
	}
	return hasClass(e, part.Class)
}

func hasClass(e *html.Element, class string) bool {
	attr, ok := e.GetAttribute("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(attr) {
		if c == class {
			return true
		}
	}
	return false
}
