// Package url parses the URLs the browser can load: http, https, file,
// data and about:blank, each optionally prefixed with view-source:.
package url

import (
	"errors"
	"fmt"
	neturl "net/url"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrInvalid           = errors.New("invalid url")
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
	// ErrNotHierarchical is returned when a relative reference is resolved
	// against a base that has no path to resolve it in.
	ErrNotHierarchical = errors.New("relative reference needs an http(s) base")
)

type Kind int

const (
	HTTP Kind = iota
	File
	Data
	About
)

func (k Kind) String() string {
	switch k {
	case HTTP:
		return "http"
	case File:
		return "file"
	case Data:
		return "data"
	case About:
		return "about"
	}
	return "unknown"
}

const viewSourcePrefix = "view-source:"

// URL is a parsed URL. Which fields are meaningful depends on Kind.
type URL struct {
	Kind       Kind
	ViewSource bool

	// http, https
	Scheme   string
	Username string
	Password string
	Host     string
	Port     int
	Path     string
	Query    string
	Fragment string

	// data
	MediaType string
	Params    map[string]string
	Base64    bool
	Payload   string
}

func defaultPort(scheme string) int {
	if scheme == "https" {
		return 443
	}
	return 80
}

// Blank is about:blank.
func Blank() *URL {
	return &URL{Kind: About, Path: "blank"}
}

func Parse(s string) (*URL, error) {
	viewSource := false
	if rest, ok := strings.CutPrefix(s, viewSourcePrefix); ok {
		viewSource = true
		s = rest
	}

	u, err := parse(s)
	if err != nil {
		return nil, err
	}
	u.ViewSource = viewSource
	return u, nil
}

func parse(s string) (*URL, error) {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok || scheme == "" {
		return nil, fmt.Errorf("%w: %q has no scheme", ErrInvalid, s)
	}

	switch strings.ToLower(scheme) {
	case "about":
		if rest != "blank" {
			return nil, fmt.Errorf("%w: about:%s", ErrUnsupportedScheme, rest)
		}
		return Blank(), nil
	case "data":
		return parseData(rest)
	case "http", "https", "file":
		return parseHierarchical(s)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
}

// parseData reads [<mediatype>][;<param>=<value>]*[;base64],<data>.
func parseData(s string) (*URL, error) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("%w: data url without ','", ErrInvalid)
	}

	u := &URL{Kind: Data, MediaType: "text/plain", Params: make(map[string]string), Payload: payload}
	for i, part := range strings.Split(meta, ";") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.EqualFold(part, "base64"):
			u.Base64 = true
		case strings.Contains(part, "="):
			k, v, _ := strings.Cut(part, "=")
			u.Params[strings.TrimSpace(k)] = strings.TrimSpace(v)
		case i == 0:
			u.MediaType = part
		}
	}
	if u.MediaType == "text/plain" {
		if _, ok := u.Params["charset"]; !ok {
			u.Params["charset"] = "US-ASCII"
		}
	}
	return u, nil
}

func parseHierarchical(s string) (*URL, error) {
	pu, err := neturl.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	scheme := strings.ToLower(pu.Scheme)

	if scheme == "file" {
		host := pu.Host
		if host == "" {
			host = "localhost"
		}
		return &URL{Kind: File, Scheme: scheme, Host: host, Path: pu.Path}, nil
	}

	if pu.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalid, s)
	}
	u := &URL{
		Kind:     HTTP,
		Scheme:   scheme,
		Host:     pu.Hostname(),
		Port:     defaultPort(scheme),
		Path:     pu.EscapedPath(),
		Query:    pu.RawQuery,
		Fragment: pu.EscapedFragment(),
	}
	if p := pu.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("%w: bad port %q", ErrInvalid, p)
		}
		u.Port = port
	}
	if pu.User != nil {
		u.Username = pu.User.Username()
		u.Password, _ = pu.User.Password()
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// Origin returns scheme://host[:port] for http(s) URLs.
func (u *URL) Origin() string {
	var sb strings.Builder
	sb.WriteString(u.Scheme)
	sb.WriteString("://")
	if u.Username != "" {
		sb.WriteString(u.Username)
		if u.Password != "" {
			sb.WriteByte(':')
			sb.WriteString(u.Password)
		}
		sb.WriteByte('@')
	}
	if strings.Contains(u.Host, ":") {
		sb.WriteString("[" + u.Host + "]")
	} else {
		sb.WriteString(u.Host)
	}
	if u.Port != defaultPort(u.Scheme) {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(u.Port))
	}
	return sb.String()
}

// String formats the URL so that Parse(u.String()) yields an equal URL.
// The fragment is kept; CacheKey drops it.
func (u *URL) String() string {
	s := u.withoutFragment()
	if u.Kind == HTTP && u.Fragment != "" {
		s += "#" + u.Fragment
	}
	if u.ViewSource {
		s = viewSourcePrefix + s
	}
	return s
}

// CacheKey identifies the resource the URL names: no fragment and no
// view-source prefix.
func (u *URL) CacheKey() string {
	return u.withoutFragment()
}

func (u *URL) withoutFragment() string {
	switch u.Kind {
	case About:
		return "about:blank"
	case File:
		host := u.Host
		if host == "localhost" {
			host = ""
		}
		return "file://" + host + u.Path
	case Data:
		var sb strings.Builder
		sb.WriteString("data:")
		sb.WriteString(u.MediaType)
		keys := make([]string, 0, len(u.Params))
		for k := range u.Params {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			sb.WriteString(";" + k + "=" + u.Params[k])
		}
		if u.Base64 {
			sb.WriteString(";base64")
		}
		sb.WriteByte(',')
		sb.WriteString(u.Payload)
		return sb.String()
	}
	s := u.Origin() + u.Path
	if u.Query != "" {
		s += "?" + u.Query
	}
	return s
}

// Resolve resolves a reference found in a document loaded from u.
// Absolute references are parsed as they are; "//host/..." takes u's
// scheme; anything else needs an http(s) base.
func (u *URL) Resolve(ref string) (*URL, error) {
	ref = strings.TrimSpace(ref)
	if hasScheme(ref) {
		return Parse(ref)
	}
	if u.Kind != HTTP {
		return nil, fmt.Errorf("%w: %q against %s", ErrNotHierarchical, ref, u)
	}
	if strings.HasPrefix(ref, "//") {
		return Parse(u.Scheme + ":" + ref)
	}

	switch {
	case ref == "":
		return Parse(u.withoutFragment())
	case strings.HasPrefix(ref, "#"):
		return Parse(u.withoutFragment() + ref)
	case strings.HasPrefix(ref, "?"):
		return Parse(u.Origin() + u.Path + ref)
	case strings.HasPrefix(ref, "/"):
		return Parse(u.Origin() + ref)
	}

	dir := u.Path
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		dir = dir[:i]
	}
	for {
		if rest, ok := strings.CutPrefix(ref, "../"); ok {
			ref = rest
			if i := strings.LastIndex(dir, "/"); i >= 0 {
				dir = dir[:i]
			}
			continue
		}
		if rest, ok := strings.CutPrefix(ref, "./"); ok {
			ref = rest
			continue
		}
		break
	}
	return Parse(u.Origin() + dir + "/" + ref)
}

// hasScheme reports whether ref starts with "scheme:". A colon after the
// first '/', '?' or '#' belongs to the path, query or fragment.
func hasScheme(ref string) bool {
	if strings.HasPrefix(ref, viewSourcePrefix) {
		return true
	}
	head := ref
	if i := strings.IndexAny(ref, "/?#"); i >= 0 {
		head = ref[:i]
	}
	scheme, _, ok := strings.Cut(head, ":")
	return ok && isScheme(scheme)
}

// isScheme checks the scheme grammar: a letter, then letters, digits, '+',
// '-' or '.'.
func isScheme(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
