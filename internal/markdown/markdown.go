// Package markdown renders discovered beans as GitHub flavored Markdown and
// inspects rendered documents with goldmark.
package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// Inspect parses body and reports its headings, tables and links.
func Inspect(body []byte) Report {
	md := newMarkdown()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var rep Report
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			rep.Headings = append(rep.Headings, nodeText(node, body))
		case *east.Table:
			rep.Tables = append(rep.Tables, tableShape(node))
		case *gmast.AutoLink:
			rep.Links = append(rep.Links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Link:
			rep.Links = append(rep.Links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not in the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		rep.Links = append(rep.Links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}
	return rep
}

// ExtractLinks returns every link destination in body.
func ExtractLinks(body []byte) []Link {
	return Inspect(body).Links
}

// ToHTML renders body as an HTML fragment. Raw HTML such as anchors is kept.
func ToHTML(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := newMarkdown().Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

func tableShape(t *east.Table) TableShape {
	var shape TableShape
	for c := t.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *east.TableHeader:
			shape.Columns = c.ChildCount()
		case *east.TableRow:
			shape.Rows++
		}
	}
	return shape
}

func nodeText(n gmast.Node, src []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}
