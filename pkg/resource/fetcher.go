package resource

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"soyorin/pkg/css"
	"soyorin/pkg/html"
	"soyorin/pkg/url"
)

// Fetcher retrieves the text of a URL. *net.Connection is the production
// implementation.
type Fetcher interface {
	Request(ctx context.Context, u *url.URL) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, u *url.URL) (string, error)

func (f FetcherFunc) Request(ctx context.Context, u *url.URL) (string, error) {
	return f(ctx, u)
}

// collectRules returns the user-agent rules followed by every author sheet
// of the document in document order: linked stylesheets fetched relative to
// base, and the contents of style elements. Sheets that cannot be resolved
// or fetched are skipped; the returned error combines all such failures.
func collectRules(ctx context.Context, fetcher Fetcher, log *zap.Logger, root *html.Element, base *url.URL) ([]css.Rule, error) {
	rules := css.DefaultRules()
	parser := css.NewParser(log, css.Author)

	var errs error
	for _, n := range html.TreeToList(root, nil) {
		e, ok := n.(*html.Element)
		if !ok {
			continue
		}
		switch {
		case e.Tag == "style":
			rules = append(rules, parser.Parse(e.TextContent())...)
		case e.Tag == "link" && isStylesheet(e):
			href, _ := e.GetAttribute("href")
			sheet, err := fetchSheet(ctx, fetcher, base, href)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			rules = append(rules, parser.Parse(sheet)...)
		}
	}
	return rules, errs
}

func isStylesheet(e *html.Element) bool {
	if _, ok := e.GetAttribute("href"); !ok {
		return false
	}
	rel, _ := e.GetAttribute("rel")
	for _, r := range strings.Fields(rel) {
		if strings.EqualFold(r, "stylesheet") {
			return true
		}
	}
	return false
}

func fetchSheet(ctx context.Context, fetcher Fetcher, base *url.URL, href string) (string, error) {
	u, err := base.Resolve(href)
	if err != nil {
		return "", fmt.Errorf("resolving stylesheet %q: %w", href, err)
	}
	sheet, err := fetcher.Request(ctx, u)
	if err != nil {
		return "", fmt.Errorf("fetching stylesheet %s: %w", u, err)
	}
	return sheet, nil
}
