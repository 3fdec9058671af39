package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses stylesheets into rules. Source order is counted across
// every sheet a parser sees, so one parser should serve one document.
type Parser struct {
	log    *zap.Logger
	origin Origin
	order  int
}

// NewParser creates a parser producing rules of the given origin.
func NewParser(log *zap.Logger, origin Origin) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser"), origin: origin}
}

// Parse parses stylesheet text. Rules with selectors outside the supported
// grammar (tag, .class, tag.class and descendant chains of them) are
// skipped; at-rules are skipped with their blocks.
func (p *Parser) Parse(sheet string) []Rule {
	rules := make([]Rule, 0)

	input := parse.NewInput(bytes.NewReader([]byte(sheet)))
	parser := css.NewParser(input, false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(err))
			}
			return rules

		case css.BeginAtRuleGrammar:
			p.log.Debug("Skipping @-rule", zap.String("rule", string(data)))
			skipBlock(parser)

		case css.AtRuleGrammar:
			p.log.Debug("Skipping @-rule", zap.String("rule", string(data)))

		case css.BeginRulesetGrammar:
			selectors := splitSelectors(data, parser.Values())
			declarations := parseDeclarations(parser)
			for _, raw := range selectors {
				sel, ok := ParseSelector(raw)
				if !ok {
					p.log.Debug("Skipping unsupported selector", zap.String("selector", raw))
					continue
				}
				decls := make(map[string]string, len(declarations))
				for k, v := range declarations {
					decls[k] = v
				}
				rules = append(rules, Rule{
					Selector:     sel,
					Declarations: decls,
					Origin:       p.origin,
					Order:        p.order,
				})
				p.order++
			}

		case css.QualifiedRuleGrammar:
			// A selector without a block declares nothing.
		}
	}
}

// ParseInline parses the body of a style attribute.
func ParseInline(style string) map[string]string {
	input := parse.NewInput(bytes.NewReader([]byte(style)))
	return parseDeclarations(css.NewParser(input, true))
}

func skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseDeclarations reads declarations until the end of the ruleset. Later
// declarations of the same property override earlier ones.
func parseDeclarations(parser *css.Parser) map[string]string {
	declarations := make(map[string]string)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return declarations
		case css.BeginRulesetGrammar, css.BeginAtRuleGrammar:
			skipBlock(parser)
		case css.DeclarationGrammar:
			name := strings.ToLower(string(data))
			if value := declarationValue(parser.Values()); name != "" && value != "" {
				declarations[name] = value
			}
		}
	}
}

// declarationValue joins value tokens, collapsing whitespace and dropping a
// trailing !important.
func declarationValue(tokens []css.Token) string {
	var sb strings.Builder
	pendingSpace := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			pendingSpace = sb.Len() > 0
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			pendingSpace = false
		}
		sb.Write(t.Data)
	}
	value := strings.TrimSpace(sb.String())
	if i := strings.LastIndex(value, "!"); i >= 0 && strings.EqualFold(strings.TrimSpace(value[i+1:]), "important") {
		value = strings.TrimSpace(value[:i])
	}
	return value
}

func splitSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// ParseSelector parses a descendant chain of tag, .class and tag.class
// parts. Anything else (ids, attributes, pseudo-classes, other
// combinators, multiple classes) is reported as unsupported.
func ParseSelector(s string) (Selector, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Selector{}, false
	}
	parts := make([]SelectorPart, 0, len(fields))
	for _, f := range fields {
		part, ok := parseSelectorPart(f)
		if !ok {
			return Selector{}, false
		}
		parts = append(parts, part)
	}
	return Selector{Parts: parts}, true
}

func parseSelectorPart(s string) (SelectorPart, bool) {
	tag, class, hasClass := strings.Cut(s, ".")
	if !isIdent(tag, true) {
		return SelectorPart{}, false
	}
	if hasClass && !isIdent(class, false) {
		return SelectorPart{}, false
	}
	if tag == "" && !hasClass {
		return SelectorPart{}, false
	}
	return SelectorPart{Tag: strings.ToLower(tag), Class: class}, true
}

func isIdent(s string, allowEmpty bool) bool {
	if s == "" {
		return allowEmpty
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '-':
		case c >= '0' && c <= '9' && i > 0:
		case c >= 0x80:
		default:
			return false
		}
	}
	return true
}
