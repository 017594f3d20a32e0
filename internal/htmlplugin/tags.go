package htmlplugin

import (
	"bytes"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TagDescriptor describes one element before it is rendered.
type TagDescriptor struct {
	TagName    string
	Attributes map[string]string
	VoidTag    bool
	InnerHTML  string
}

// LinkTag describes a stylesheet link.
func LinkTag(href string) *TagDescriptor {
	return &TagDescriptor{
		TagName:    "link",
		Attributes: map[string]string{"href": href, "rel": "stylesheet"},
		VoidTag:    true,
	}
}

// ScriptTag describes an external script.
func ScriptTag(src string) *TagDescriptor {
	return &TagDescriptor{
		TagName:    "script",
		Attributes: map[string]string{"src": src, "type": "text/javascript"},
	}
}

// StyleTag describes an inline style block holding css.
func StyleTag(css string) *TagDescriptor {
	return &TagDescriptor{
		TagName:    "style",
		Attributes: map[string]string{"type": "text/css"},
		InnerHTML:  css,
	}
}

// Attr returns the named attribute, or "" when absent.
func (t *TagDescriptor) Attr(name string) string {
	if t == nil {
		return ""
	}
	return t.Attributes[name]
}

// Node converts the descriptor into a detached element node. Attributes are
// emitted in name order so output is stable.
func (t *TagDescriptor) Node() *html.Node {
	name := strings.ToLower(t.TagName)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
	}
	keys := make([]string, 0, len(t.Attributes))
	for k := range t.Attributes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: t.Attributes[k]})
	}
	if !t.VoidTag && t.InnerHTML != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: t.InnerHTML})
	}
	return n
}

// String renders the descriptor as markup.
func (t *TagDescriptor) String() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, t.Node()); err != nil {
		return "<" + t.TagName + ">"
	}
	return buf.String()
}
