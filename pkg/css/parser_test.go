package css

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestParser_SimpleRules(t *testing.T) {
	p := NewParser(zaptest.NewLogger(t), Author)
	rules := p.Parse("p { color: red; font-size: 20px } div.note { background-color: yellow; }")
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].Selector.String() != "p" || rules[0].Declarations["color"] != "red" {
		t.Errorf("unexpected first rule %+v", rules[0])
	}
	if rules[0].Declarations["font-size"] != "20px" {
		t.Errorf("expected font-size 20px, got %q", rules[0].Declarations["font-size"])
	}
	if rules[1].Selector.String() != "div.note" || rules[1].Declarations["background-color"] != "yellow" {
		t.Errorf("unexpected second rule %+v", rules[1])
	}
	if rules[0].Origin != Author || rules[0].Order != 0 || rules[1].Order != 1 {
		t.Errorf("unexpected origin/order %v/%d/%d", rules[0].Origin, rules[0].Order, rules[1].Order)
	}
}

func TestParser_SelectorList(t *testing.T) {
	rules := NewParser(zaptest.NewLogger(t), Author).Parse("h1, h2 , .big { font-weight: bold }")
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	want := []string{"h1", "h2", ".big"}
	for i, w := range want {
		if rules[i].Selector.String() != w {
			t.Errorf("rule %d: expected selector %q, got %q", i, w, rules[i].Selector.String())
		}
		if rules[i].Declarations["font-weight"] != "bold" {
			t.Errorf("rule %d: missing declaration", i)
		}
	}
	rules[0].Declarations["font-weight"] = "normal"
	if rules[1].Declarations["font-weight"] != "bold" {
		t.Error("rules of one selector list must not share declarations")
	}
}

func TestParser_DescendantSelector(t *testing.T) {
	rules := NewParser(nil, Author).Parse("ul li.item a { color: green }")
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	parts := rules[0].Selector.Parts
	if len(parts) != 3 || parts[0].Tag != "ul" || parts[1].Tag != "li" || parts[1].Class != "item" || parts[2].Tag != "a" {
		t.Errorf("unexpected parts %+v", parts)
	}
}

func TestParser_UnsupportedSelectorsSkipped(t *testing.T) {
	sheet := `
		a:hover { color: red }
		#main { color: red }
		div > p { color: red }
		input[type=text] { color: red }
		p.a.b { color: red }
		p { color: blue }
	`
	rules := NewParser(zaptest.NewLogger(t), Author).Parse(sheet)
	if len(rules) != 1 {
		t.Fatalf("expected only the p rule, got %d rules", len(rules))
	}
	if rules[0].Selector.String() != "p" {
		t.Errorf("expected p, got %s", rules[0].Selector.String())
	}
}

func TestParser_AtRulesSkipped(t *testing.T) {
	sheet := `@import "x.css";
		@media screen { p { color: red } }
		div { color: blue }`
	rules := NewParser(zaptest.NewLogger(t), Author).Parse(sheet)
	if len(rules) != 1 || rules[0].Selector.String() != "div" {
		t.Fatalf("expected only the div rule, got %+v", rules)
	}
}

func TestParser_CommentsIgnored(t *testing.T) {
	rules := NewParser(nil, Author).Parse("/* p { color: red } */ b { font-weight: bold } /* trailing */")
	if len(rules) != 1 || rules[0].Selector.String() != "b" {
		t.Fatalf("expected only the b rule, got %+v", rules)
	}
}

func TestParser_ImportantDropped(t *testing.T) {
	rules := NewParser(nil, Author).Parse("p { color: red !important }")
	if len(rules) != 1 || rules[0].Declarations["color"] != "red" {
		t.Fatalf("expected color red, got %+v", rules)
	}
}

func TestParser_OrderContinuesAcrossSheets(t *testing.T) {
	p := NewParser(nil, Author)
	first := p.Parse("p { color: red } b { color: blue }")
	second := p.Parse("i { color: green }")
	if len(first) != 2 || len(second) != 1 {
		t.Fatalf("unexpected rule counts %d %d", len(first), len(second))
	}
	if second[0].Order != 2 {
		t.Errorf("expected order 2, got %d", second[0].Order)
	}
}

func TestParser_Empty(t *testing.T) {
	if rules := NewParser(nil, Author).Parse(""); len(rules) != 0 {
		t.Errorf("expected no rules, got %d", len(rules))
	}
}

func TestParseInline(t *testing.T) {
	decls := ParseInline("color: red; font-size:12px;  background-color : #ff0000")
	want := map[string]string{"color": "red", "font-size": "12px", "background-color": "#ff0000"}
	for k, v := range want {
		if decls[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, decls[k])
		}
	}
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"p", true},
		{".x", true},
		{"div.x", true},
		{"div p.y span", true},
		{"#id", false},
		{"a:hover", false},
		{"*", false},
		{"p.", false},
		{"", false},
	}
	for _, tt := range tests {
		if _, ok := ParseSelector(tt.in); ok != tt.ok {
			t.Errorf("ParseSelector(%q): expected ok=%v", tt.in, tt.ok)
		}
	}
}
