package auth

import (
	"errors"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// hiddenInputs collects every <input type="hidden"> name/value pair from a
// page. Login dialects start from these to preserve CSRF tokens and other
// server-populated fields across form submissions.
func hiddenInputs(page string) (url.Values, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "input" {
			return
		}
		if attr(n, "type") != "hidden" {
			return
		}
		if name := attr(n, "name"); name != "" {
			values.Set(name, attr(n, "value"))
		}
	})
	return values, nil
}

// authorizeForm locates the confirmation form whose submit control reads
// "Authorize" and returns its action and input values.
func authorizeForm(page string) (action string, values url.Values, err error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", nil, err
	}

	var form *html.Node
	walk(root, func(n *html.Node) {
		if form != nil || n.Type != html.ElementNode || n.Data != "form" {
			return
		}
		if hasAuthorizeSubmit(n) {
			form = n
		}
	})
	if form == nil {
		return "", nil, errors.New("authorization form not found")
	}

	values = url.Values{}
	walk(form, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "input" {
			return
		}
		if attr(n, "type") == "submit" {
			return
		}
		if name := attr(n, "name"); name != "" {
			values.Set(name, attr(n, "value"))
		}
	})
	return attr(form, "action"), values, nil
}

// hasAuthorizeSubmit reports whether a form contains a submit control
// labelled "Authorize" (input value or button text).
func hasAuthorizeSubmit(form *html.Node) bool {
	found := false
	walk(form, func(n *html.Node) {
		if found || n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "input":
			if attr(n, "type") == "submit" && strings.Contains(attr(n, "value"), "Authorize") {
				found = true
			}
		case "button":
			if strings.Contains(text(n), "Authorize") {
				found = true
			}
		}
	})
	return found
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return b.String()
}
