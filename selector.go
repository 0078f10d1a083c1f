package xmldom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	xmldomerrors "github.com/jacoelho/xmldom/errors"
)

// Selector is a compiled CSS selector list. A list matches an element when
// any selector in it does.
//
// Grammar parsing and the matching algorithm are delegated to cascadia,
// which folds type and attribute names to ASCII lowercase; name matching is
// therefore ASCII-case-insensitive, while attribute values, ids, and
// classes stay case-sensitive. Namespace selector syntax is rejected at
// compile time.
type Selector struct {
	group cascadia.SelectorGroup
	expr  string
}

// NewSelector compiles a selector list.
func NewSelector(expr string) (*Selector, error) {
	group, err := cascadia.ParseGroup(expr)
	if err != nil {
		return nil, xmldomerrors.Selector(expr, err)
	}
	return &Selector{group: group, expr: expr}, nil
}

// String returns the source expression.
func (s *Selector) String() string {
	return s.expr
}

// Matches reports whether el satisfies any selector in the list.
func (s *Selector) Matches(d *Document, el Element) bool {
	shadow := d.buildShadow()
	n, ok := shadow[el]
	if !ok {
		return false
	}
	return s.group.Match(n)
}

// QuerySelector returns the first element under root, in pre-order document
// order, matching sel. The traversal starts at root itself.
func (d *Document) QuerySelector(root Element, sel *Selector) (Element, bool) {
	shadow := d.buildShadow()
	for el := range d.Walk(root) {
		if n, ok := shadow[el]; ok && sel.group.Match(n) {
			return el, true
		}
	}
	return Element{}, false
}

// QuerySelectorAll returns every element under root matching sel, in
// pre-order document order.
func (d *Document) QuerySelectorAll(root Element, sel *Selector) []Element {
	shadow := d.buildShadow()
	var out []Element
	for el := range d.Walk(root) {
		if n, ok := shadow[el]; ok && sel.group.Match(n) {
			out = append(out, el)
		}
	}
	return out
}

// buildShadow projects the root subtree into an html.Node tree for the
// matcher: elements with lowercased names and attribute keys, text and
// CDATA as text nodes (so :empty behaves), comments as comment nodes. The
// tree hangs off a DocumentNode so :root resolves. Queries never mutate the
// document, so the projection is rebuilt per call.
func (d *Document) buildShadow() map[Element]*html.Node {
	shadow := make(map[Element]*html.Node, d.nodes.Len())
	doc := &html.Node{Type: html.DocumentNode}
	if !d.root.IsZero() {
		if n := d.shadowNode(d.root.Node, shadow); n != nil {
			doc.AppendChild(n)
		}
	}
	return shadow
}

func (d *Document) shadowNode(n Node, shadow map[Element]*html.Node) *html.Node {
	p, ok := d.nodes.Get(n.key)
	if !ok {
		return nil
	}
	switch p.kind {
	case KindElement:
		node := &html.Node{
			Type: html.ElementNode,
			Data: strings.ToLower(p.name.String()),
		}
		for _, a := range d.attrs[n.key] {
			node.Attr = append(node.Attr, html.Attribute{
				Key: strings.ToLower(a.name.String()),
				Val: a.value,
			})
		}
		shadow[Element{n}] = node
		for _, child := range p.children {
			if cn := d.shadowNode(child, shadow); cn != nil {
				node.AppendChild(cn)
			}
		}
		return node
	case KindText, KindCData:
		return &html.Node{Type: html.TextNode, Data: p.text}
	case KindComment:
		return &html.Node{Type: html.CommentNode, Data: p.text}
	default:
		// Processing instructions and doctypes carry no selector semantics.
		return nil
	}
}
