package xmldom

import (
	"iter"
	"slices"

	xmldomerrors "github.com/jacoelho/xmldom/errors"
)

// AppendNewElement creates an element named name with the given attributes
// and appends it to parent's children. Attribute names must be valid QNames;
// a duplicate name collapses to the last value while keeping the position of
// the first occurrence.
func (d *Document) AppendNewElement(parent Element, name string, attrs []Attr) (Element, error) {
	if _, err := d.element("AppendNewElement", parent); err != nil {
		return Element{}, err
	}
	el, err := d.buildElement(name, attrs)
	if err != nil {
		return Element{}, err
	}
	// Re-resolve: the arena may have grown while inserting the new element.
	pp, _ := d.element("AppendNewElement", parent)
	pp.children = append(pp.children, el.Node)
	d.parents[el.key] = parent
	return el, nil
}

// AppendNewElementAfter creates an element like AppendNewElement but splices
// it into the parent's children immediately after sibling. It fails when
// sibling has no parent, which is the case for the root.
func (d *Document) AppendNewElementAfter(sibling Element, name string, attrs []Attr) (Element, error) {
	if _, err := d.element("AppendNewElementAfter", sibling); err != nil {
		return Element{}, err
	}
	parent, ok := d.parents[sibling.key]
	if !ok {
		return Element{}, xmldomerrors.Structure("sibling has no parent element")
	}
	pp, err := d.element("AppendNewElementAfter", parent)
	if err != nil {
		return Element{}, err
	}
	at := slices.Index(pp.children, sibling.Node)
	if at < 0 {
		return Element{}, xmldomerrors.Structure("sibling is not a child of its recorded parent")
	}
	el, err := d.buildElement(name, attrs)
	if err != nil {
		return Element{}, err
	}
	// Re-resolve: the arena may have grown while inserting the new element.
	pp, _ = d.element("AppendNewElementAfter", parent)
	pp.children = slices.Insert(pp.children, at+1, el.Node)
	d.parents[el.key] = parent
	return el, nil
}

func (d *Document) buildElement(name string, attrs []Attr) (Element, error) {
	qname, err := ParseQName(name)
	if err != nil {
		return Element{}, err
	}
	entries := make([]attrEntry, 0, len(attrs))
	for _, a := range attrs {
		aname, err := ParseQName(a.Name)
		if err != nil {
			return Element{}, err
		}
		if i := slices.IndexFunc(entries, func(e attrEntry) bool { return e.name == aname }); i >= 0 {
			entries[i].value = a.Value
			continue
		}
		entries = append(entries, attrEntry{name: aname, value: a.Value})
	}
	el := d.newElement(qname)
	if len(entries) > 0 {
		d.attrs[el.key] = entries
	}
	return el, nil
}

// AppendText appends a text node to parent's children.
func (d *Document) AppendText(parent Element, text string) (Node, error) {
	return d.appendLeaf("AppendText", parent, KindText, text)
}

// AppendCData appends a CDATA section to parent's children.
func (d *Document) AppendCData(parent Element, text string) (Node, error) {
	return d.appendLeaf("AppendCData", parent, KindCData, text)
}

// AppendComment appends a comment to parent's children.
func (d *Document) AppendComment(parent Element, text string) (Node, error) {
	return d.appendLeaf("AppendComment", parent, KindComment, text)
}

// AppendProcessingInstruction appends a processing instruction node holding
// data (target and data, opaque to the model) to parent's children.
func (d *Document) AppendProcessingInstruction(parent Element, data string) (Node, error) {
	return d.appendLeaf("AppendProcessingInstruction", parent, KindProcessingInstruction, data)
}

func (d *Document) appendLeaf(op string, parent Element, kind NodeKind, text string) (Node, error) {
	if _, err := d.element(op, parent); err != nil {
		return Node{}, err
	}
	n := d.newLeaf(kind, text)
	// Re-resolve: the arena may have grown while inserting the leaf.
	pp, _ := d.element(op, parent)
	pp.children = append(pp.children, n)
	d.parents[n.key] = parent
	return n, nil
}

// SetText replaces all children of el with a single text node.
func (d *Document) SetText(el Element, text string) error {
	pp, err := d.element("SetText", el)
	if err != nil {
		return err
	}
	children := pp.children
	pp.children = nil
	for _, child := range children {
		d.freeSubtree(child)
	}
	n := d.newLeaf(KindText, text)
	d.parents[n.key] = el
	pp, _ = d.nodes.Get(el.key)
	pp.children = []Node{n}
	return nil
}

// AppendElement re-parents el under parent. When el already has a parent it
// is detached first, so an element is never a child of two parents. Moving
// the root or moving an element into its own subtree is a structural error.
func (d *Document) AppendElement(parent Element, el Element) error {
	pp, err := d.element("AppendElement", parent)
	if err != nil {
		return err
	}
	if _, err := d.element("AppendElement", el); err != nil {
		return err
	}
	if el == d.root {
		return xmldomerrors.Structure("cannot re-parent the root element")
	}
	for a := parent; ; {
		if a == el {
			return xmldomerrors.Structure("cannot append an element into its own subtree")
		}
		next, ok := d.parents[a.key]
		if !ok {
			break
		}
		a = next
	}
	if old, ok := d.parents[el.key]; ok {
		if op, err := d.element("AppendElement", old); err == nil {
			if i := slices.Index(op.children, el.Node); i >= 0 {
				op.children = slices.Delete(op.children, i, i+1)
			}
		}
		delete(d.parents, el.key)
	}
	pp, _ = d.nodes.Get(parent.key)
	pp.children = append(pp.children, el.Node)
	d.parents[el.key] = parent
	return nil
}

// RemoveChild removes n from parent's children and frees its subtree from
// the arena along with the associated side table entries. It is a no-op when
// n is not currently a child of parent.
func (d *Document) RemoveChild(parent Element, n Node) error {
	pp, err := d.element("RemoveChild", parent)
	if err != nil {
		return err
	}
	i := slices.Index(pp.children, n)
	if i < 0 {
		return nil
	}
	pp.children = slices.Delete(pp.children, i, i+1)
	d.freeSubtree(n)
	return nil
}

// freeSubtree removes n and everything below it from the arena and the side
// tables, leaving no partially updated entries behind.
func (d *Document) freeSubtree(n Node) {
	if p, ok := d.nodes.Get(n.key); ok && p.kind == KindElement {
		for _, child := range p.children {
			d.freeSubtree(child)
		}
	}
	delete(d.parents, n.key)
	delete(d.attrs, n.key)
	d.nodes.Remove(n.key)
}

// SetAttribute sets the attribute name on el. An existing attribute keeps
// its position; a new one is appended.
func (d *Document) SetAttribute(el Element, name, value string) error {
	if _, err := d.element("SetAttribute", el); err != nil {
		return err
	}
	qname, err := ParseQName(name)
	if err != nil {
		return err
	}
	entries := d.attrs[el.key]
	if i := slices.IndexFunc(entries, func(e attrEntry) bool { return e.name == qname }); i >= 0 {
		entries[i].value = value
		return nil
	}
	d.attrs[el.key] = append(entries, attrEntry{name: qname, value: value})
	return nil
}

// RemoveAttribute removes the attribute name from el, if present.
func (d *Document) RemoveAttribute(el Element, name string) error {
	if _, err := d.element("RemoveAttribute", el); err != nil {
		return err
	}
	entries := d.attrs[el.key]
	i := slices.IndexFunc(entries, func(e attrEntry) bool { return e.name.String() == name })
	if i < 0 {
		return nil
	}
	entries = slices.Delete(entries, i, i+1)
	if len(entries) == 0 {
		delete(d.attrs, el.key)
		return nil
	}
	d.attrs[el.key] = entries
	return nil
}

// Attribute returns the value of the attribute name on el.
func (d *Document) Attribute(el Element, name string) (string, bool) {
	for _, e := range d.attrs[el.key] {
		if e.name.String() == name {
			return e.value, true
		}
	}
	return "", false
}

// Attributes returns el's attributes in order. Absence of attributes is an
// empty slice, not an error.
func (d *Document) Attributes(el Element) []Attr {
	entries := d.attrs[el.key]
	if len(entries) == 0 {
		return nil
	}
	out := make([]Attr, len(entries))
	for i, e := range entries {
		out[i] = Attr{Name: e.name.String(), Value: e.value}
	}
	return out
}

// Name returns el's qualified name; the zero QName when el is stale.
func (d *Document) Name(el Element) QName {
	if p, ok := d.nodes.Get(el.key); ok && p.kind == KindElement {
		return p.name
	}
	return QName{}
}

// Kind returns the node kind for n.
func (d *Document) Kind(n Node) (NodeKind, bool) {
	if p, ok := d.nodes.Get(n.key); ok {
		return p.kind, true
	}
	return 0, false
}

// Text returns the textual content of a non-element node.
func (d *Document) Text(n Node) (string, bool) {
	if p, ok := d.nodes.Get(n.key); ok && p.kind != KindElement {
		return p.text, true
	}
	return "", false
}

// AsElement narrows n to an element handle.
func (d *Document) AsElement(n Node) (Element, bool) {
	if p, ok := d.nodes.Get(n.key); ok && p.kind == KindElement {
		return Element{n}, true
	}
	return Element{}, false
}

// Parent returns the element containing n. The root and the free-standing
// nodes around it have no parent.
func (d *Document) Parent(n Node) (Element, bool) {
	parent, ok := d.parents[n.key]
	return parent, ok
}

// ChildNodes returns all of el's children, of any kind.
func (d *Document) ChildNodes(el Element) []Node {
	if p, ok := d.nodes.Get(el.key); ok && p.kind == KindElement {
		return slices.Clone(p.children)
	}
	return nil
}

// Children returns el's element children only.
func (d *Document) Children(el Element) []Element {
	p, ok := d.nodes.Get(el.key)
	if !ok || p.kind != KindElement {
		return nil
	}
	var out []Element
	for _, child := range p.children {
		if ce, ok := d.AsElement(child); ok {
			out = append(out, ce)
		}
	}
	return out
}

// NextSiblingElement returns the next element sibling of el, skipping
// non-element siblings.
func (d *Document) NextSiblingElement(el Element) (Element, bool) {
	return d.siblingElement(el, +1)
}

// PrevSiblingElement returns the previous element sibling of el, skipping
// non-element siblings.
func (d *Document) PrevSiblingElement(el Element) (Element, bool) {
	return d.siblingElement(el, -1)
}

func (d *Document) siblingElement(el Element, step int) (Element, bool) {
	parent, ok := d.parents[el.key]
	if !ok {
		return Element{}, false
	}
	pp, ok := d.nodes.Get(parent.key)
	if !ok {
		return Element{}, false
	}
	at := slices.Index(pp.children, el.Node)
	if at < 0 {
		return Element{}, false
	}
	for i := at + step; 0 <= i && i < len(pp.children); i += step {
		if ce, ok := d.AsElement(pp.children[i]); ok {
			return ce, true
		}
	}
	return Element{}, false
}

// Walk returns a restartable pre-order depth-first traversal of the subtree
// rooted at el, starting with el itself and excluding el's siblings.
func (d *Document) Walk(el Element) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		d.walkFrom(el, yield)
	}
}

func (d *Document) walkFrom(el Element, yield func(Element) bool) bool {
	p, ok := d.nodes.Get(el.key)
	if !ok || p.kind != KindElement {
		return true
	}
	if !yield(el) {
		return false
	}
	for _, child := range slices.Clone(p.children) {
		if ce, ok := d.AsElement(child); ok {
			if !d.walkFrom(ce, yield) {
				return false
			}
		}
	}
	return true
}
