package htmlplugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"
)

func TestTagDescriptor_String(t *testing.T) {
	tests := []struct {
		name string
		tag  *TagDescriptor
		want string
	}{
		{"link", LinkTag("a.css"), `<link href="a.css" rel="stylesheet"/>`},
		{"script", ScriptTag("a.js"), `<script src="a.js" type="text/javascript"></script>`},
		{"style keeps raw text", StyleTag("a>b{content:\"&\"}"), `<style type="text/css">a>b{content:"&"}</style>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tag.String())
		})
	}
}

func TestTagDescriptor_Attr(t *testing.T) {
	var nilTag *TagDescriptor
	assert.Empty(t, nilTag.Attr("href"))
	assert.Equal(t, "x.css", LinkTag("x.css").Attr("href"))
}

func TestParseAndRenderDocument(t *testing.T) {
	doc, err := ParseDocument("<p>hi</p>")
	require.NoError(t, err)
	require.NotNil(t, FindElement(doc, atom.Head))
	body := FindElement(doc, atom.Body)
	require.NotNil(t, body)

	body.AppendChild(StyleTag("p{}").Node())
	out, err := RenderDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, `<html><head></head><body><p>hi</p><style type="text/css">p{}</style></body></html>`, out)
}

func TestRender_TitleInsertedWhenMissing(t *testing.T) {
	out, err := render("<html><head></head><body></body></html>", "T", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "<html><head><title>T</title></head><body></body></html>", out)
}
