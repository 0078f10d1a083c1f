// Package xmldom implements a mutable in-memory XML document model.
//
// A Document owns every node in a generation-checked arena and exposes a
// handle-based mutation API, deterministic canonicalization (Sort),
// configurable serialization, and CSS selector queries. The model is
// single-threaded: callers needing concurrent access must serialize it
// externally. Clone is the only sharing primitive and shares nothing.
package xmldom

import (
	"slices"

	xmldomerrors "github.com/jacoelho/xmldom/errors"
	"github.com/jacoelho/xmldom/internal/arena"
)

// Document is a mutable XML document: a root element subtree, the nodes
// preceding and following it, and an optional XML declaration.
type Document struct {
	nodes   *arena.Arena[payload]
	parents map[arena.Key]Element
	attrs   map[arena.Key][]attrEntry
	root    Element
	before  []Node
	after   []Node
	decl    *Declaration
}

// Declaration is the document's XML declaration. Empty fields are omitted
// when rendering.
type Declaration struct {
	Version    string
	Encoding   string
	Standalone string
}

// DeclarationV10 returns a version="1.0" UTF-8 declaration.
func DeclarationV10() *Declaration {
	return &Declaration{Version: "1.0", Encoding: "UTF-8"}
}

// DeclarationV11 returns a version="1.1" UTF-8 declaration.
func DeclarationV11() *Declaration {
	return &Declaration{Version: "1.1", Encoding: "UTF-8"}
}

// Attr is one attribute as a name/value pair. Name is the prefixed form.
type Attr struct {
	Name  string
	Value string
}

// attrEntry is the stored form of an attribute; insertion order is preserved
// in the per-element slice.
type attrEntry struct {
	name  QName
	value string
}

// New creates a document containing only an empty root element.
func New(rootName string) (*Document, error) {
	d := newDocument()
	name, err := ParseQName(rootName)
	if err != nil {
		return nil, err
	}
	d.root = d.newElement(name)
	return d, nil
}

func newDocument() *Document {
	return &Document{
		nodes:   arena.New[payload](),
		parents: make(map[arena.Key]Element),
		attrs:   make(map[arena.Key][]attrEntry),
	}
}

func (d *Document) newElement(name QName) Element {
	key := d.nodes.Insert(payload{kind: KindElement, name: name})
	return Element{Node{key: key}}
}

func (d *Document) newLeaf(kind NodeKind, text string) Node {
	return Node{key: d.nodes.Insert(payload{kind: kind, text: text})}
}

// Root returns the root element.
func (d *Document) Root() Element {
	return d.root
}

// Declaration returns the XML declaration, or nil when the document has none.
func (d *Document) Declaration() *Declaration {
	return d.decl
}

// SetDeclaration replaces the XML declaration; nil removes it.
func (d *Document) SetDeclaration(decl *Declaration) {
	d.decl = decl
}

// Before returns the nodes preceding the root element, in document order.
func (d *Document) Before() []Node {
	return slices.Clone(d.before)
}

// After returns the nodes following the root element, in document order.
func (d *Document) After() []Node {
	return slices.Clone(d.after)
}

// Doctype returns the doctype body, if the document has one.
func (d *Document) Doctype() (string, bool) {
	for _, n := range d.before {
		if p, ok := d.nodes.Get(n.key); ok && p.kind == KindDocumentType {
			return p.text, true
		}
	}
	return "", false
}

// SetDoctype sets the doctype body. An existing doctype is replaced in
// place, keeping its position among the preceding nodes; otherwise the
// doctype is inserted before everything else.
func (d *Document) SetDoctype(doctype string) {
	for _, n := range d.before {
		if p, ok := d.nodes.Get(n.key); ok && p.kind == KindDocumentType {
			p.text = doctype
			return
		}
	}
	d.before = append([]Node{d.newLeaf(KindDocumentType, doctype)}, d.before...)
}

// RemoveDoctype removes the doctype, if present.
func (d *Document) RemoveDoctype() {
	for i, n := range d.before {
		if p, ok := d.nodes.Get(n.key); ok && p.kind == KindDocumentType {
			d.before = slices.Delete(d.before, i, i+1)
			d.nodes.Remove(n.key)
			return
		}
	}
}

// pushOutside appends a free-standing node to the before or after list.
func (d *Document) pushOutside(kind NodeKind, text string, afterRoot bool) Node {
	n := d.newLeaf(kind, text)
	if afterRoot {
		d.after = append(d.after, n)
	} else {
		d.before = append(d.before, n)
	}
	return n
}

// element resolves el or reports a stale handle.
func (d *Document) element(op string, el Element) (*payload, error) {
	p, ok := d.nodes.Get(el.key)
	if !ok || p.kind != KindElement {
		return nil, xmldomerrors.StaleHandle(op)
	}
	return p, nil
}

// Clone returns a deep, independent copy of the document. All slots and side
// tables are freshly allocated; handles obtained from d remain valid against
// the clone, and mutations on either side never affect the other.
func (d *Document) Clone() *Document {
	out := &Document{
		nodes: d.nodes.Clone(func(p payload) payload {
			p.children = slices.Clone(p.children)
			return p
		}),
		parents: make(map[arena.Key]Element, len(d.parents)),
		attrs:   make(map[arena.Key][]attrEntry, len(d.attrs)),
		root:    d.root,
		before:  slices.Clone(d.before),
		after:   slices.Clone(d.after),
	}
	for k, v := range d.parents {
		out.parents[k] = v
	}
	for k, v := range d.attrs {
		out.attrs[k] = slices.Clone(v)
	}
	if d.decl != nil {
		decl := *d.decl
		out.decl = &decl
	}
	return out
}
