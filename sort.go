package xmldom

import (
	"cmp"
	"slices"
)

// Sort canonicalizes the document in place. Attributes of every element are
// always reordered by qualified name. When reorderElements is true, sibling
// sequences (the nodes around the root and every element's children,
// recursively) are additionally reordered into a deterministic order; see
// sortSiblings for the rules. Tree shape, text, and attribute values are
// never changed, and the whole pass is idempotent.
func (d *Document) Sort(reorderElements bool) {
	// The sibling comparator assumes attribute lists are already sorted, so
	// the attribute pass must run first.
	for el := range d.Walk(d.root) {
		entries := d.attrs[el.key]
		slices.SortStableFunc(entries, func(a, b attrEntry) int {
			return cmp.Compare(a.name.String(), b.name.String())
		})
	}
	if !reorderElements {
		return
	}
	d.before = d.sortSiblings(d.before)
	d.sortChildren(d.root)
	d.after = d.sortSiblings(d.after)
}

func (d *Document) sortChildren(el Element) {
	p, ok := d.nodes.Get(el.key)
	if !ok || p.kind != KindElement {
		return
	}
	p.children = d.sortSiblings(p.children)
	for _, child := range p.children {
		if ce, ok := d.AsElement(child); ok {
			d.sortChildren(ce)
		}
	}
}

// sortSiblings reorders one sibling sequence. Comments, CDATA sections, and
// doctypes travel as context attached to the element they directly precede;
// text and processing instructions keep their relative order after the
// elements. A sequence mixing text with elements is inline markup whose
// order is significant and is returned verbatim.
func (d *Document) sortSiblings(nodes []Node) []Node {
	if len(nodes) < 2 {
		return nodes
	}

	hasText := false
	hasElement := false
	for _, n := range nodes {
		switch kind, _ := d.Kind(n); kind {
		case KindText:
			hasText = true
		case KindElement:
			hasElement = true
		}
	}
	if hasText && hasElement {
		return nodes
	}

	type group struct {
		element Element
		pre     []Node
	}
	var elements []group
	var dangling []Node
	var post []Node
	var preBuf []Node

	for _, n := range nodes {
		kind, ok := d.Kind(n)
		if !ok {
			continue
		}
		switch kind {
		case KindComment, KindCData, KindDocumentType:
			preBuf = append(preBuf, n)
		case KindElement:
			el, _ := d.AsElement(n)
			elements = append(elements, group{element: el, pre: preBuf})
			preBuf = nil
		case KindText, KindProcessingInstruction:
			// An intervening node breaks the "directly preceding" run.
			dangling = append(dangling, preBuf...)
			preBuf = nil
			post = append(post, n)
		}
	}
	dangling = append(dangling, preBuf...)

	slices.SortStableFunc(elements, func(a, b group) int {
		return d.compareElements(a.element, b.element)
	})

	out := make([]Node, 0, len(nodes))
	for _, g := range elements {
		out = append(out, g.pre...)
		out = append(out, g.element.Node)
	}
	out = append(out, dangling...)
	out = append(out, post...)
	return out
}

// compareElements is the composite canonical ordering key: name, id
// attribute value when both sides have one, attribute name sequence,
// attribute count, attribute value sequence. It is a total pre-order:
// fully identical elements compare equal and rely on the stable sort to
// keep their original relative order. Attribute lists are assumed sorted.
func (d *Document) compareElements(a, b Element) int {
	if c := cmp.Compare(d.Name(a).String(), d.Name(b).String()); c != 0 {
		return c
	}

	aAttrs := d.attrs[a.key]
	bAttrs := d.attrs[b.key]

	aID, aOK := d.Attribute(a, "id")
	bID, bOK := d.Attribute(b, "id")
	if aOK && bOK {
		if c := cmp.Compare(aID, bID); c != 0 {
			return c
		}
	}

	for i := 0; i < len(aAttrs) && i < len(bAttrs); i++ {
		if c := cmp.Compare(aAttrs[i].name.String(), bAttrs[i].name.String()); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(len(aAttrs), len(bAttrs)); c != 0 {
		return c
	}
	for i := 0; i < len(aAttrs) && i < len(bAttrs); i++ {
		if c := cmp.Compare(aAttrs[i].value, bAttrs[i].value); c != 0 {
			return c
		}
	}
	return 0
}
