package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"soyorin/pkg/display"
	"soyorin/pkg/layout"
	"soyorin/pkg/url"
)

var errNotFound = errors.New("not found")

// fakeWeb serves fixed pages keyed by URL and records every request.
type fakeWeb struct {
	pages    map[string]string
	requests []string
}

func (w *fakeWeb) Request(_ context.Context, u *url.URL) (string, error) {
	key := u.CacheKey()
	w.requests = append(w.requests, key)
	if u.Kind == url.About {
		return "", nil
	}
	body, ok := w.pages[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, errNotFound)
	}
	return body, nil
}

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return u
}

func loadTab(t *testing.T, web *fakeWeb, addr string) *Tab {
	t.Helper()
	tab := NewTab(web, zaptest.NewLogger(t), DefaultViewport)
	if err := tab.Load(context.Background(), mustURL(t, addr)); err != nil {
		t.Fatalf("Load(%s): %v", addr, err)
	}
	return tab
}

func words(list display.List) []string {
	var out []string
	for _, cmd := range list {
		if dt, ok := cmd.(*display.DrawText); ok {
			out = append(out, dt.Text)
		}
	}
	return out
}

func TestTab_Load(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{
		"http://example.org/": "<title> Hello  page </title><p>hello world</p>",
	}}
	tab := loadTab(t, web, "http://example.org/")

	if got := strings.Join(words(tab.DisplayList), " "); got != "hello world" {
		t.Errorf("expected page words, got %q", got)
	}
	if tab.Title() != "Hello page" {
		t.Errorf("unexpected title %q", tab.Title())
	}
	if tab.Scroll() != 0 {
		t.Error("new page should start at the top")
	}
}

func TestTab_TitleFallsBackToURL(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{"http://example.org/a": "<p>x</p>"}}
	tab := loadTab(t, web, "http://example.org/a")
	if tab.Title() != "http://example.org/a" {
		t.Errorf("unexpected title %q", tab.Title())
	}
}

func TestTab_LoadFailureShowsBlank(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{}}
	tab := NewTab(web, zaptest.NewLogger(t), DefaultViewport)
	err := tab.Load(context.Background(), mustURL(t, "http://example.org/missing"))
	if !errors.Is(err, errNotFound) {
		t.Fatalf("expected the fetch error, got %v", err)
	}
	if tab.URL.Kind != url.About {
		t.Errorf("expected about:blank, got %s", tab.URL)
	}
	if len(tab.DisplayList) != 0 {
		t.Errorf("blank page should paint nothing, got %d commands", len(tab.DisplayList))
	}
}

func TestTab_Stylesheets(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{
		"http://example.org/dir/page.html": `<link rel="stylesheet" href="site.css">` +
			`<style>p { color: green }</style>` +
			`<p class="note">text</p>`,
		"http://example.org/dir/site.css": "p { color: red; background-color: yellow }",
	}}
	tab := loadTab(t, web, "http://example.org/dir/page.html")

	p := tab.Nodes.Find("p")
	if p.Style["color"] != "green" {
		t.Errorf("later style element should win, got %q", p.Style["color"])
	}
	if p.Style["background-color"] != "yellow" {
		t.Errorf("linked sheet not applied, got %q", p.Style["background-color"])
	}
	if web.requests[len(web.requests)-1] != "http://example.org/dir/site.css" {
		t.Errorf("stylesheet resolved wrongly: %v", web.requests)
	}
}

func TestTab_StylesheetOrderFollowsDocument(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{
		"http://example.org/": `<style>p { color: green }</style>` +
			`<link rel="stylesheet" href="/late.css"><p>text</p>`,
		"http://example.org/late.css": "p { color: red }",
	}}
	tab := loadTab(t, web, "http://example.org/")
	if got := tab.Nodes.Find("p").Style["color"]; got != "red" {
		t.Errorf("later linked sheet should win, got %q", got)
	}
}

func TestTab_BrokenStylesheetSkipped(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{
		"http://example.org/": `<link rel="stylesheet" href="missing.css">` +
			`<link rel="alternate" href="feed.xml">` +
			`<link rel="stylesheet" href="ok.css"><p>text</p>`,
		"http://example.org/ok.css": "p { color: blue }",
	}}
	tab := loadTab(t, web, "http://example.org/")
	if got := tab.Nodes.Find("p").Style["color"]; got != "blue" {
		t.Errorf("remaining sheets should apply, got %q", got)
	}
	for _, r := range web.requests {
		if strings.HasSuffix(r, "feed.xml") {
			t.Error("non-stylesheet link was fetched")
		}
	}
}

func TestTab_UserAgentStylesApply(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{"http://example.org/": "<a href=x>link</a>"}}
	tab := loadTab(t, web, "http://example.org/")
	if got := tab.Nodes.Find("a").Style["color"]; got != "blue" {
		t.Errorf("expected default link color, got %q", got)
	}
}

func TestTab_ViewSource(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{"http://example.org/": "<b>bold</b>"}}
	tab := loadTab(t, web, "view-source:http://example.org/")

	if tab.Nodes.Find("b") != nil {
		t.Error("view-source should not parse the markup")
	}
	pre := tab.Nodes.Find("pre")
	if pre == nil || pre.TextContent() != "<b>bold</b>" {
		t.Fatalf("expected raw markup in a pre block")
	}
	if got := words(tab.DisplayList); len(got) != 1 || got[0] != "<b>bold</b>" {
		t.Errorf("unexpected words %q", got)
	}
}

func longPage(n int) string {
	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "<p>paragraph %d</p>", i)
	}
	return sb.String()
}

func TestTab_ScrollClamps(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{"http://example.org/": longPage(100)}}
	tab := loadTab(t, web, "http://example.org/")

	tab.ScrollUp()
	if tab.Scroll() != 0 {
		t.Errorf("cannot scroll above the top, got %g", tab.Scroll())
	}
	tab.ScrollDown()
	if tab.Scroll() != DefaultScrollStep {
		t.Errorf("expected one step, got %g", tab.Scroll())
	}

	tab.ScrollBy(1e9)
	want := tab.Document.Height + 2*layout.VStep - DefaultViewport.Height
	if tab.Scroll() != want {
		t.Errorf("expected scroll clamped to %g, got %g", want, tab.Scroll())
	}

	for _, cmd := range tab.Visible() {
		b := cmd.Bounds()
		if b.Bottom < tab.Scroll() || b.Top > tab.Scroll()+tab.Height() {
			t.Errorf("command outside the view: %s", display.Describe(cmd))
		}
	}
	if len(tab.Visible()) >= len(tab.DisplayList) {
		t.Error("expected some commands to be clipped")
	}
}

func TestTab_ShortPageDoesNotScroll(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{"http://example.org/": "<p>short</p>"}}
	tab := loadTab(t, web, "http://example.org/")
	tab.ScrollDown()
	if tab.Scroll() != 0 {
		t.Errorf("short page scrolled to %g", tab.Scroll())
	}
}

func findWord(t *testing.T, tab *Tab, word string) *layout.TextBox {
	t.Helper()
	for _, b := range layout.Tree(tab.Document) {
		if tb, ok := b.(*layout.TextBox); ok && tb.Word == word {
			return tb
		}
	}
	t.Fatalf("word %q not laid out", word)
	return nil
}

func TestTab_ClickFollowsLink(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{
		"http://example.org/dir/": `<p>see <a href="next.html">the <b>next</b> page</a></p>`,
		"http://example.org/dir/next.html": "<p>arrived</p>",
	}}
	tab := loadTab(t, web, "http://example.org/dir/")

	if ok, err := tab.Click(context.Background(), 1, 1); ok || err != nil {
		t.Errorf("click outside a link should do nothing, got %v %v", ok, err)
	}
	if ok, err := tab.Click(context.Background(), 700, 500); ok || err != nil {
		t.Errorf("click on empty space should do nothing, got %v %v", ok, err)
	}

	next := findWord(t, tab, "next")
	ok, err := tab.Click(context.Background(), next.X+1, next.Y+1)
	if !ok || err != nil {
		t.Fatalf("expected link navigation, got %v %v", ok, err)
	}
	if tab.URL.String() != "http://example.org/dir/next.html" {
		t.Errorf("navigated to %s", tab.URL)
	}
	if got := words(tab.DisplayList); len(got) != 1 || got[0] != "arrived" {
		t.Errorf("unexpected page %q", got)
	}
}

func TestTab_ClickAccountsForScroll(t *testing.T) {
	page := longPage(60) + `<p><a href="/end">end</a></p>`
	web := &fakeWeb{pages: map[string]string{
		"http://example.org/":    page,
		"http://example.org/end": "done",
	}}
	tab := loadTab(t, web, "http://example.org/")
	tab.ScrollBy(1e9)

	end := findWord(t, tab, "end")
	ok, err := tab.Click(context.Background(), end.X+1, end.Y+1-tab.Scroll())
	if !ok || err != nil {
		t.Fatalf("expected link navigation, got %v %v", ok, err)
	}
	if tab.URL.Path != "/end" {
		t.Errorf("navigated to %s", tab.URL)
	}
}

func TestBrowser_TabsAndChrome(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{
		"http://example.org/":     "<p>first</p>",
		"http://example.org/home": "<p>home</p>",
	}}
	ctx := context.Background()
	b := NewBrowser(web, zaptest.NewLogger(t), DefaultViewport, mustURL(t, "http://example.org/home"))

	if f := b.Frame(); len(f.Page) != 0 || len(f.Chrome) == 0 {
		t.Errorf("empty browser should draw only chrome")
	}

	first, err := b.NewTab(ctx, mustURL(t, "http://example.org/"))
	if err != nil {
		t.Fatal(err)
	}
	if first.Height() != DefaultViewport.Height-b.Chrome.Bottom {
		t.Errorf("tab height should exclude the chrome, got %g", first.Height())
	}

	plus := b.Chrome.NewTabRect
	if err := b.Click(ctx, plus.Left+2, plus.Top+2); err != nil {
		t.Fatal(err)
	}
	if len(b.Tabs()) != 2 || b.ActiveTab().URL.Path != "/home" {
		t.Fatalf("new-tab button should open home, got %d tabs", len(b.Tabs()))
	}

	r := b.Chrome.TabRect(0)
	if err := b.Click(ctx, r.Left+2, r.Top+2); err != nil {
		t.Fatal(err)
	}
	if b.ActiveTab() != first {
		t.Error("clicking a tab label should activate it")
	}
	if err := b.Activate(5); err == nil {
		t.Error("expected error for a missing tab")
	}

	labels := words(b.Chrome.Paint())
	if strings.Join(labels, " ") != "+ Tab 0 Tab 1" {
		t.Errorf("unexpected chrome labels %q", labels)
	}
	var outline bool
	for _, cmd := range b.Chrome.Paint() {
		if o, ok := cmd.(*display.DrawOutline); ok && o.Rect == plus {
			outline = true
		}
	}
	if !outline {
		t.Error("new-tab button should be outlined")
	}

	f := b.Frame()
	if f.Offset != b.Chrome.Bottom || strings.Join(words(f.Page), " ") != "first" {
		t.Errorf("unexpected frame offset %g page %q", f.Offset, words(f.Page))
	}
}

func TestBrowser_ClickBelowChromeGoesToTab(t *testing.T) {
	web := &fakeWeb{pages: map[string]string{
		"http://example.org/":  `<a href="/b">link</a>`,
		"http://example.org/b": "b page",
	}}
	b := NewBrowser(web, zaptest.NewLogger(t), DefaultViewport, nil)
	tab, err := b.NewTab(context.Background(), mustURL(t, "http://example.org/"))
	if err != nil {
		t.Fatal(err)
	}
	link := findWord(t, tab, "link")
	if err := b.Click(context.Background(), link.X+1, link.Y+1+b.Chrome.Bottom); err != nil {
		t.Fatal(err)
	}
	if tab.URL.Path != "/b" {
		t.Errorf("expected navigation, at %s", tab.URL)
	}
}
