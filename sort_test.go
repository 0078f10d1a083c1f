package xmldom

import "testing"

func TestSortAttributesOnly(t *testing.T) {
	d := mustParse(t, `<r b="2" a="1" />`)
	d.Sort(false)
	if got := d.String(); got != `<r a="1" b="2" />` {
		t.Fatalf("String() = %q", got)
	}
}

func TestSortAttributeOrderInvariance(t *testing.T) {
	a := mustParse(t, `<r b="2" a="1"><x d="4" c="3" /></r>`)
	b := mustParse(t, `<r a="1" b="2"><x c="3" d="4" /></r>`)
	a.Sort(true)
	b.Sort(true)
	if got, want := a.String(), b.String(); got != want {
		t.Fatalf("canonical forms differ: %q vs %q", got, want)
	}
}

func TestSortSiblingsByName(t *testing.T) {
	d := mustParse(t, "<r><c/><b/><a/></r>")
	d.Sort(true)
	if got := d.String(); got != "<r><a/><b/><c/></r>" {
		t.Fatalf("String() = %q", got)
	}
}

func TestSortIsIdempotent(t *testing.T) {
	d := mustParse(t, `<r><z/><a id="2"/><a id="1"/><!--note--><m/></r>`)
	d.Sort(true)
	first := d.String()
	d.Sort(true)
	if got := d.String(); got != first {
		t.Fatalf("second Sort changed output: %q vs %q", got, first)
	}
}

func TestSortRecursesIntoChildren(t *testing.T) {
	d := mustParse(t, "<r><z><b/><a/></z><y/></r>")
	d.Sort(true)
	if got := d.String(); got != "<r><y/><z><a/><b/></z></r>" {
		t.Fatalf("String() = %q", got)
	}
}

func TestSortMixedContentUntouched(t *testing.T) {
	d := mustParse(t, "<r>hello<b/><a/></r>")
	d.Sort(true)
	if got := d.String(); got != "<r>hello<b/><a/></r>" {
		t.Fatalf("String() = %q, mixed content must keep its order", got)
	}
}

func TestSortByIDValue(t *testing.T) {
	d := mustParse(t, `<r><x id="2" /><x id="1" /></r>`)
	d.Sort(true)
	if got := d.String(); got != `<r><x id="1" /><x id="2" /></r>` {
		t.Fatalf("String() = %q", got)
	}
}

func TestSortByAttributeCount(t *testing.T) {
	d := mustParse(t, `<r><x a="1" b="2" /><x a="1" /></r>`)
	d.Sort(true)
	if got := d.String(); got != `<r><x a="1" /><x a="1" b="2" /></r>` {
		t.Fatalf("String() = %q", got)
	}
}

func TestSortByAttributeValue(t *testing.T) {
	d := mustParse(t, `<r><x a="2" /><x a="1" /></r>`)
	d.Sort(true)
	if got := d.String(); got != `<r><x a="1" /><x a="2" /></r>` {
		t.Fatalf("String() = %q", got)
	}
}

func TestSortCommentTravelsWithElement(t *testing.T) {
	d := mustParse(t, "<r><!--note--><b/><a/></r>")
	d.Sort(true)
	if got := d.String(); got != "<r><a/><!--note--><b/></r>" {
		t.Fatalf("String() = %q, comment must stay with the element it precedes", got)
	}
}

func TestSortTextBreaksPrecedingRun(t *testing.T) {
	// A processing instruction between a comment and the next element breaks
	// the attachment: the comment dangles after the elements instead.
	d, _ := New("r")
	root := d.Root()
	if _, err := d.AppendComment(root, "dangling"); err != nil {
		t.Fatalf("AppendComment() error = %v", err)
	}
	if _, err := d.AppendProcessingInstruction(root, "pi data"); err != nil {
		t.Fatalf("AppendProcessingInstruction() error = %v", err)
	}
	if _, err := d.AppendNewElement(root, "b", nil); err != nil {
		t.Fatalf("AppendNewElement() error = %v", err)
	}
	if _, err := d.AppendNewElement(root, "a", nil); err != nil {
		t.Fatalf("AppendNewElement() error = %v", err)
	}
	d.Sort(true)
	want := "<r><a/><b/><!--dangling--><?pi data?></r>"
	if got := d.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestSortStableForIdenticalElements(t *testing.T) {
	d, _ := New("r")
	root := d.Root()
	first, _ := d.AppendNewElement(root, "x", []Attr{{Name: "a", Value: "1"}})
	second, _ := d.AppendNewElement(root, "x", []Attr{{Name: "a", Value: "1"}})
	d.Sort(true)
	children := d.Children(root)
	if children[0] != first || children[1] != second {
		t.Fatal("Sort reordered fully identical siblings")
	}
}

func TestSortShapePreserved(t *testing.T) {
	d := mustParse(t, `<r><b><inner>text</inner></b><a/></r>`)
	d.Sort(true)
	if got := d.String(); got != `<r><a/><b><inner>text</inner></b></r>` {
		t.Fatalf("String() = %q", got)
	}
}
