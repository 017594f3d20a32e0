// Package minify compacts stylesheet text before it is inlined.
package minify

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Minifier turns source text into an equivalent, smaller text.
type Minifier interface {
	Minify(src []byte) ([]byte, error)
}

// Func adapts a function to the Minifier interface.
type Func func(src []byte) ([]byte, error)

// Minify calls f.
func (f Func) Minify(src []byte) ([]byte, error) { return f(src) }

// Options control the CSS minifier.
type Options struct {
	// KeepSpecialComments keeps top level /*! ... */ comments (licences).
	KeepSpecialComments bool `yaml:"keep_special_comments"`
	// KeepTrailingSemicolon keeps the last semicolon before a closing brace.
	KeepTrailingSemicolon bool `yaml:"keep_trailing_semicolon"`
}

// Defaults are the options used for "minify: true".
func Defaults() Options {
	return Options{KeepSpecialComments: true}
}

// CSS is a whitespace and comment stripping minifier built on the tdewolff
// CSS grammar parser. It does not rewrite values.
type CSS struct {
	opts Options
}

// NewCSS creates a CSS minifier.
func NewCSS(opts Options) *CSS {
	return &CSS{opts: opts}
}

// Options returns the minifier options.
func (m *CSS) Options() Options { return m.opts }

var (
	semicolon  = []byte(";")
	colon      = []byte(":")
	comma      = []byte(",")
	leftBrace  = []byte("{")
	rightBrace = []byte("}")
	space      = []byte(" ")
)

// Minify parses src and writes it back without comments and redundant
// whitespace. Parse errors are returned rather than passed through, so a
// broken stylesheet never ships half-minified. Non-blank input never yields
// empty output: if everything was stripped the trimmed input is returned.
func (m *CSS) Minify(src []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(src)
	if len(trimmed) == 0 {
		return []byte{}, nil
	}

	p := css.NewParser(parse.NewInput(bytes.NewReader(src)), false)
	var out bytes.Buffer
	pending := false

	for {
		gt, tt, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.HasParseError() {
				return nil, fmt.Errorf("minify css: %w", p.Err())
			}
			if err := p.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("minify css: %w", err)
			}
			if pending {
				out.Write(semicolon)
			}
			if out.Len() == 0 {
				return append([]byte(nil), trimmed...), nil
			}
			return out.Bytes(), nil
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			if pending && m.opts.KeepTrailingSemicolon {
				out.Write(semicolon)
			}
			pending = false
			out.Write(rightBrace)
			continue
		}

		if pending {
			out.Write(semicolon)
			pending = false
		}

		switch gt {
		case css.CommentGrammar:
			if m.opts.KeepSpecialComments && bytes.HasPrefix(data, []byte("/*!")) {
				out.Write(data)
			}
		case css.AtRuleGrammar:
			out.Write(data)
			writeValues(&out, p.Values())
			pending = true
		case css.BeginAtRuleGrammar:
			out.Write(data)
			writeValues(&out, p.Values())
			out.Write(leftBrace)
		case css.QualifiedRuleGrammar:
			writeValues(&out, p.Values())
			out.Write(comma)
		case css.BeginRulesetGrammar:
			writeValues(&out, p.Values())
			out.Write(leftBrace)
		case css.DeclarationGrammar:
			out.Write(data)
			out.Write(colon)
			writeValues(&out, p.Values())
			pending = true
		case css.CustomPropertyGrammar:
			out.Write(data)
			out.Write(colon)
			if vals := p.Values(); len(vals) > 0 {
				out.Write(bytes.TrimSpace(vals[0].Data))
			}
			pending = true
		case css.TokenGrammar:
			if tt == css.WhitespaceToken {
				out.Write(space)
			} else {
				out.Write(data)
			}
		}
	}
}

func writeValues(out *bytes.Buffer, vals []css.Token) {
	for _, v := range vals {
		if v.TokenType == css.WhitespaceToken {
			out.Write(space)
			continue
		}
		out.Write(v.Data)
	}
}
