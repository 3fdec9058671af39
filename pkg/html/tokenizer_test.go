package html

import "testing"

func TestTokenizer_SimpleStartTag(t *testing.T) {
	tokenizer := NewTokenizer("<div>")
	token := tokenizer.NextToken()
	if token.Type != TokenStartTag {
		t.Errorf("expected TokenStartTag, got %v", token.Type)
	}
	if token.TagName != "div" {
		t.Errorf("expected tag name 'div', got '%s'", token.TagName)
	}
}

func TestTokenizer_TagNameIsCaseFolded(t *testing.T) {
	token := NewTokenizer("<DiV CLASS=x>").NextToken()
	if token.TagName != "div" {
		t.Errorf("expected 'div', got '%s'", token.TagName)
	}
	if token.Attributes["class"] != "x" {
		t.Errorf("expected class='x', got %v", token.Attributes)
	}
}

func TestTokenizer_TagWithAttributes(t *testing.T) {
	tokenizer := NewTokenizer(`<div style="color: red" id="main">`)
	token := tokenizer.NextToken()
	if token.Attributes["style"] != "color: red" {
		t.Errorf("expected style='color: red', got '%s'", token.Attributes["style"])
	}
	if token.Attributes["id"] != "main" {
		t.Errorf("expected id='main', got '%s'", token.Attributes["id"])
	}
}

func TestTokenizer_CompleteSequence(t *testing.T) {
	tokenizer := NewTokenizer("<div>Hello</div>")
	token1 := tokenizer.NextToken()
	if token1.Type != TokenStartTag || token1.TagName != "div" {
		t.Error("expected start tag 'div'")
	}
	token2 := tokenizer.NextToken()
	if token2.Type != TokenText || token2.Text != "Hello" {
		t.Error("expected text 'Hello'")
	}
	token3 := tokenizer.NextToken()
	if token3.Type != TokenEndTag || token3.TagName != "div" {
		t.Error("expected end tag 'div'")
	}
	token4 := tokenizer.NextToken()
	if token4.Type != TokenEOF {
		t.Error("expected EOF")
	}
}

func TestTokenizer_QuotedGreaterThan(t *testing.T) {
	tokenizer := NewTokenizer(`<div title="a > b">x`)
	token := tokenizer.NextToken()
	if token.Attributes["title"] != "a > b" {
		t.Errorf("expected title 'a > b', got '%s'", token.Attributes["title"])
	}
	if next := tokenizer.NextToken(); next.Type != TokenText || next.Text != "x" {
		t.Errorf("expected text 'x' after tag, got %v %q", next.Type, next.Text)
	}
}

func TestTokenizer_MismatchedQuoteKeepsOtherQuote(t *testing.T) {
	token := NewTokenizer(`<div class="hello'world">`).NextToken()
	if token.Attributes["class"] != "hello'world" {
		t.Errorf("expected class \"hello'world\", got '%s'", token.Attributes["class"])
	}
}

func TestTokenizer_UnterminatedQuoteEndsAtTag(t *testing.T) {
	tokenizer := NewTokenizer(`<div title="abc>text`)
	token := tokenizer.NextToken()
	if token.Type != TokenStartTag || token.Attributes["title"] != "abc" {
		t.Fatalf("expected div with title 'abc', got %v %v", token.Type, token.Attributes)
	}
	if next := tokenizer.NextToken(); next.Text != "text" {
		t.Errorf("expected text 'text', got %q", next.Text)
	}
}

func TestTokenizer_BooleanAndUnquotedAttributes(t *testing.T) {
	token := NewTokenizer(`<input type=text disabled value='a b'>`).NextToken()
	want := map[string]string{"type": "text", "disabled": "", "value": "a b"}
	for k, v := range want {
		got, ok := token.Attributes[k]
		if !ok || got != v {
			t.Errorf("attribute %s: expected %q, got %q (present=%v)", k, v, got, ok)
		}
	}
}

func TestTokenizer_SelfClosingSyntax(t *testing.T) {
	token := NewTokenizer(`<br/>`).NextToken()
	if token.TagName != "br" || len(token.Attributes) != 0 {
		t.Errorf("expected bare br, got %q %v", token.TagName, token.Attributes)
	}
}

func TestTokenizer_CommentsSkipped(t *testing.T) {
	tokenizer := NewTokenizer("a<!-- <b> -- still comment -->c")
	if tok := tokenizer.NextToken(); tok.Text != "a" {
		t.Errorf("expected 'a', got %q", tok.Text)
	}
	if tok := tokenizer.NextToken(); tok.Type != TokenText || tok.Text != "c" {
		t.Errorf("expected text 'c', got %v %q", tok.Type, tok.Text)
	}
}

func TestTokenizer_DoctypeSkipped(t *testing.T) {
	tok := NewTokenizer("<!DOCTYPE html><p>").NextToken()
	if tok.Type != TokenStartTag || tok.TagName != "p" {
		t.Errorf("expected start tag p, got %v %q", tok.Type, tok.TagName)
	}
}

func TestTokenizer_EntitiesLtGtOnly(t *testing.T) {
	tok := NewTokenizer("1 &lt; 2 &amp;&gt; 0").NextToken()
	if tok.Text != "1 < 2 &amp;> 0" {
		t.Errorf("unexpected decoded text %q", tok.Text)
	}
}

func TestTokenizer_StrayLessThanIsText(t *testing.T) {
	tok := NewTokenizer("a < b").NextToken()
	if tok.Type != TokenText || tok.Text != "a < b" {
		t.Errorf("expected text 'a < b', got %v %q", tok.Type, tok.Text)
	}
}

func TestTokenizer_UnterminatedTagDropped(t *testing.T) {
	tokenizer := NewTokenizer("x<div")
	tokenizer.NextToken()
	if tok := tokenizer.NextToken(); tok.Type != TokenEOF {
		t.Errorf("expected EOF, got %v", tok.Type)
	}
}

func TestTokenizer_ReadRawUntil(t *testing.T) {
	tokenizer := NewTokenizer("<script>if (a < b) { x = '</div>'; }</SCRIPT>after")
	tokenizer.NextToken()
	raw := tokenizer.ReadRawUntil("script")
	if raw != "if (a < b) { x = '</div>'; }" {
		t.Errorf("unexpected raw content %q", raw)
	}
	if tok := tokenizer.NextToken(); tok.Text != "after" {
		t.Errorf("expected 'after', got %q", tok.Text)
	}
}
