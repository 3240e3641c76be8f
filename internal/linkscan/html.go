package linkscan

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"webmention/internal/weburl"
)

// linkAttrs lists the attribute carrying a URL for every element treated as
// a hyperlink to another document.
var linkAttrs = map[atom.Atom]string{ //nolint: gochecknoglobals
	atom.A:          "href",
	atom.Area:       "href",
	atom.Link:       "href",
	atom.Img:        "src",
	atom.Audio:      "src",
	atom.Video:      "src",
	atom.Source:     "src",
	atom.Iframe:     "src",
	atom.Blockquote: "cite",
	atom.Q:          "cite",
	atom.Ins:        "cite",
	atom.Del:        "cite",
}

// HTMLLinks parses body and returns every hyperlink reference resolved
// against the effective base: the first <base href> (itself resolved against
// source) or source. References that do not resolve to http(s) URLs are
// dropped. Duplicates are kept in document order.
func HTMLLinks(body []byte, source *url.URL) []*url.URL {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var (
		baseHref string
		hasBase  bool
		refs     []string
	)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Base && !hasBase {
				if href, ok := attr(n, "href"); ok {
					baseHref, hasBase = href, true
				}
			}
			if key, ok := linkAttrs[n.DataAtom]; ok {
				if ref, ok := attr(n, key); ok && strings.TrimSpace(ref) != "" {
					refs = append(refs, ref)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	base := source
	if hasBase {
		if b, err := weburl.Resolve(source, baseHref); err == nil {
			base = b
		}
	}

	links := make([]*url.URL, 0, len(refs))
	for _, ref := range refs {
		u, err := weburl.Resolve(base, ref)
		if err != nil {
			continue
		}
		links = append(links, u)
	}

	return links
}

// HTMLContainsURL reports whether body holds a hyperlink that resolves to
// target. source is the URL the document was fetched from.
func HTMLContainsURL(body []byte, target, source *url.URL) bool {
	want := target.String()
	for _, u := range HTMLLinks(body, source) {
		if u.String() == want {
			return true
		}
	}

	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}

	return "", false
}
