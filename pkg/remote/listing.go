package remote

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// parseListing returns the href of every anchor in an index page, in
// document order. Parent, self, sort and absolute links are dropped.
func parseListing(r io.Reader) ([]string, error) {
	var hrefs []string

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return hrefs, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" && keepHref(string(val)) {
					hrefs = append(hrefs, string(val))
				}
				if !more {
					break
				}
			}
		}
	}
}

func keepHref(href string) bool {
	switch {
	case href == "", href == "../", href == "./":
		return false
	case strings.HasPrefix(href, "?"), strings.HasPrefix(href, "/"), strings.HasPrefix(href, "#"):
		return false
	case strings.Contains(href, "://"):
		return false
	}
	return true
}
