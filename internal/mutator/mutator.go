// Package mutator embeds a stylesheet into the output of the HTML plugin,
// either by swapping its link tag for a style block or by inserting a new
// style block into the rendered document.
package mutator

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/styleext/internal/bundler"
	"git.home.luguber.info/inful/styleext/internal/config"
	"git.home.luguber.info/inful/styleext/internal/errors"
	"git.home.luguber.info/inful/styleext/internal/htmlplugin"
	"git.home.luguber.info/inful/styleext/internal/minify"
)

// Source gives access to asset content.
type Source interface {
	Asset(name string) (bundler.Asset, bool)
}

// Mutator rewrites HTML plugin payloads. A nil minifier embeds the
// stylesheet unchanged.
type Mutator struct {
	minifier minify.Minifier
}

// New creates a mutator.
func New(m minify.Minifier) *Mutator {
	return &Mutator{minifier: m}
}

// StyleContent returns the text to embed for filename: the asset source,
// minified when a minifier is set.
func (m *Mutator) StyleContent(src Source, filename string) (string, error) {
	a, ok := src.Asset(filename)
	if !ok || a == nil {
		return "", errors.AssetMissing(filename)
	}
	raw := a.Source()
	if m.minifier == nil {
		return string(raw), nil
	}
	out, err := m.minifier.Minify(raw)
	if err != nil {
		return "", errors.MinifyFailed(filename, err)
	}
	return string(out), nil
}

// Replace swaps the first link tag in head or body that references filename
// for a style block. It reports whether a tag was replaced; a payload without
// such a link is left alone.
func (m *Mutator) Replace(src Source, data *htmlplugin.EventData, filename string) (bool, error) {
	if data == nil {
		return false, errors.MalformedPayload(htmlplugin.HookAlterAssetTagGroups, "no event data")
	}
	groups := []*[]*htmlplugin.TagDescriptor{&data.Head, &data.Body}
	for _, tags := range groups {
		i := indexOfLink(*tags, filename)
		if i < 0 {
			continue
		}
		css, err := m.StyleContent(src, filename)
		if err != nil {
			return false, err
		}
		(*tags)[i] = htmlplugin.StyleTag(css)
		return true, nil
	}
	return false, nil
}

// Insert adds a style block with the content of filename as first or last
// child of head or body of the rendered document, as pos says. The block is
// spliced into the document text, so every other byte is kept. Existing link
// tags are kept.
func (m *Mutator) Insert(src Source, data *htmlplugin.EventData, filename string, pos config.Position) error {
	if data == nil || strings.TrimSpace(data.HTML) == "" {
		return errors.MalformedPayload(htmlplugin.HookBeforeEmit, "no html document")
	}
	if pos.Replaces() {
		return errors.InternalError("insert called with replace position", nil).WithContext("position", pos.String())
	}
	css, err := m.StyleContent(src, filename)
	if err != nil {
		return err
	}

	block := htmlplugin.StyleTag(css)
	if at, ok := spliceOffset(data.HTML, pos); ok {
		data.HTML = data.HTML[:at] + block.String() + data.HTML[at:]
		return nil
	}
	return insertParsed(data, block, pos)
}

// spliceOffset locates the byte offset where pos places a child: after the
// first <head> or <body> start tag, before the first </head>, or before the
// last </body>. It fails when the document leaves that tag implicit.
func spliceOffset(doc string, pos config.Position) (int, bool) {
	name, end := "body", !pos.AtStart()
	if pos.InHead() {
		name = "head"
	}

	z := html.NewTokenizer(strings.NewReader(doc))
	offset, at := 0, -1
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		n := len(z.Raw())
		tag, _ := z.TagName()
		switch {
		case !end && tt == html.StartTagToken && string(tag) == name:
			return offset + n, true
		case end && tt == html.EndTagToken && string(tag) == name:
			if name == "head" {
				return offset, true
			}
			at = offset
		}
		offset += n
	}
	return at, at >= 0
}

// insertParsed inserts block through a parse and render round trip, letting
// the parser synthesize the missing element. The rest of the document comes
// out normalized.
func insertParsed(data *htmlplugin.EventData, block *htmlplugin.TagDescriptor, pos config.Position) error {
	doc, err := htmlplugin.ParseDocument(data.HTML)
	if err != nil {
		return errors.RenderFailed(htmlplugin.HookBeforeEmit, err)
	}
	target := atom.Body
	if pos.InHead() {
		target = atom.Head
	}
	parent := htmlplugin.FindElement(doc, target)
	if parent == nil {
		return errors.MalformedPayload(htmlplugin.HookBeforeEmit, "document has no "+target.String())
	}
	insertChild(parent, block.Node(), pos.AtStart())

	out, err := htmlplugin.RenderDocument(doc)
	if err != nil {
		return errors.RenderFailed(htmlplugin.HookBeforeEmit, err)
	}
	data.HTML = out
	return nil
}

func insertChild(parent, child *html.Node, first bool) {
	if first && parent.FirstChild != nil {
		parent.InsertBefore(child, parent.FirstChild)
		return
	}
	parent.AppendChild(child)
}

func indexOfLink(tags []*htmlplugin.TagDescriptor, filename string) int {
	for i, t := range tags {
		if t == nil || !strings.EqualFold(t.TagName, "link") {
			continue
		}
		if References(t.Attr("href"), filename) {
			return i
		}
	}
	return -1
}

// References reports whether href points at filename: an exact match or a
// match of the last path segments after a public path, ignoring any query
// or fragment.
func References(href, filename string) bool {
	if href == "" || filename == "" {
		return false
	}
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	return href == filename || strings.HasSuffix(href, "/"+filename)
}
