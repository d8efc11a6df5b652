package htmlparse

import (
	"strings"

	"golang.org/x/net/html"
)

// simpleSelector is one compound step: optional tag plus any number of
// class/id requirements, e.g. "div.card#main".
type simpleSelector struct {
	tag     string
	id      string
	classes []string
}

// parseSelector splits a descendant-combinator selector ("div.card a") into
// compound steps. Only tag, ".class" and "#id" parts are supported; that
// covers the extraction rules the node accepts.
func parseSelector(selector string) []simpleSelector {
	var steps []simpleSelector
	for _, part := range strings.Fields(selector) {
		steps = append(steps, parseSimple(part))
	}
	return steps
}

func parseSimple(part string) simpleSelector {
	const (
		modeTag = iota
		modeClass
		modeID
	)
	var sel simpleSelector
	mode := modeTag
	var buf strings.Builder
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		switch mode {
		case modeTag:
			sel.tag = buf.String()
		case modeClass:
			sel.classes = append(sel.classes, buf.String())
		case modeID:
			sel.id = buf.String()
		}
		buf.Reset()
	}
	for _, r := range part {
		switch r {
		case '.':
			flush()
			mode = modeClass
		case '#':
			flush()
			mode = modeID
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	return sel
}

func (s simpleSelector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if s.tag != "" && s.tag != "*" && !strings.EqualFold(n.Data, s.tag) {
		return false
	}
	if s.id != "" && attr(n, "id") != s.id {
		return false
	}
	if len(s.classes) > 0 {
		classes := strings.Fields(attr(n, "class"))
		for _, want := range s.classes {
			found := false
			for _, have := range classes {
				if have == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// selectAll walks the document and returns every node matched by the selector
// chain, in document order.
func selectAll(doc *html.Node, steps []simpleSelector) []*html.Node {
	if len(steps) == 0 {
		return nil
	}
	current := []*html.Node{doc}
	for _, step := range steps {
		var next []*html.Node
		for _, scope := range current {
			next = append(next, descendantsMatching(scope, step)...)
		}
		current = next
	}
	return current
}

func descendantsMatching(scope *html.Node, step simpleSelector) []*html.Node {
	var matched []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if step.matches(child) {
				matched = append(matched, child)
			}
			walk(child)
		}
	}
	walk(scope)
	return matched
}

// textContent collects the concatenated trimmed text of a subtree.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}
