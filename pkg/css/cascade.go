package css

import (
	"strconv"

	"soyorin/pkg/html"
)

// Properties that children take from their parent, with the values the
// root starts from.
var inheritedProperties = map[string]string{
	"font-size":   "16px",
	"font-style":  "normal",
	"font-weight": "normal",
	"font-family": "sans-serif",
	"color":       "black",
}

// Properties reset on every element.
var defaultProperties = map[string]string{
	"display":          "inline",
	"background-color": "transparent",
}

// Style computes the style of every element under root, in document
// order. rules must already be sorted with SortRules; each matching rule
// overrides the ones before it and the inline style attribute overrides all
// of them.
func Style(root *html.Element, rules []Rule) {
	styleElement(root, rules)
}

func styleElement(e *html.Element, rules []Rule) {
	parentStyle := map[string]string(nil)
	if p := e.Parent(); p != nil {
		parentStyle = p.Style
	}

	style := make(map[string]string, len(inheritedProperties)+len(defaultProperties))
	for prop, def := range inheritedProperties {
		if v, ok := parentStyle[prop]; ok {
			style[prop] = v
		} else {
			style[prop] = def
		}
	}
	for prop, def := range defaultProperties {
		style[prop] = def
	}

	for _, rule := range rules {
		if !Matches(e, rule.Selector) {
			continue
		}
		for prop, value := range rule.Declarations {
			style[prop] = value
		}
	}

	if attr, ok := e.GetAttribute("style"); ok {
		for prop, value := range ParseInline(attr) {
			style[prop] = value
		}
	}

	parentSize := 16.0
	if v, ok := ParseLength(parentStyle["font-size"]); ok {
		parentSize = v
	}
	style["font-size"] = FormatLength(resolveFontSize(style["font-size"], parentSize))
	style["font-weight"] = normalizeWeight(style["font-weight"], parentStyle["font-weight"])
	style["font-style"] = normalizeFontStyle(style["font-style"])

	e.Style = style
	for _, child := range e.Children {
		if ce, ok := child.(*html.Element); ok {
			styleElement(ce, rules)
		}
	}
}

// normalizeWeight reduces font-weight to the two weights layout draws.
func normalizeWeight(v, parent string) string {
	switch v {
	case "normal", "bold":
		return v
	case "bolder":
		return "bold"
	case "lighter":
		return "normal"
	case "inherit":
		if parent == "bold" {
			return "bold"
		}
		return "normal"
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 600 {
		return "bold"
	}
	return "normal"
}

// normalizeFontStyle maps oblique to italic and anything unknown to
// normal.
func normalizeFontStyle(v string) string {
	if v == "italic" || v == "oblique" {
		return "italic"
	}
	return "normal"
}
