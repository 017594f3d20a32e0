package htmlplugin

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseDocument parses a complete HTML document. Missing html, head and body
// elements are synthesised by the parser.
func ParseDocument(doc string) (*html.Node, error) {
	n, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse HTML document: %w", err)
	}
	return n, nil
}

// RenderDocument serialises a parsed document.
func RenderDocument(doc *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("render HTML document: %w", err)
	}
	return buf.String(), nil
}

// FindElement returns the first element below n with the given atom.
func FindElement(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func render(template, title string, head, body []*TagDescriptor) (string, error) {
	doc, err := ParseDocument(template)
	if err != nil {
		return "", err
	}
	headEl := FindElement(doc, atom.Head)
	bodyEl := FindElement(doc, atom.Body)
	if headEl == nil || bodyEl == nil {
		return "", fmt.Errorf("template has no head or body element")
	}

	if title != "" {
		t := FindElement(headEl, atom.Title)
		if t == nil {
			t = (&TagDescriptor{TagName: "title"}).Node()
			headEl.AppendChild(t)
		}
		for t.FirstChild != nil {
			t.RemoveChild(t.FirstChild)
		}
		t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	}

	for _, tag := range head {
		if tag != nil {
			headEl.AppendChild(tag.Node())
		}
	}
	for _, tag := range body {
		if tag != nil {
			bodyEl.AppendChild(tag.Node())
		}
	}
	return RenderDocument(doc)
}
