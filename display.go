package xmldom

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

// EntityMode selects how characters that need escaping are rendered.
type EntityMode int

const (
	// EntityModeStandard uses named entities for the five XML specials and
	// hex character references for everything else.
	EntityModeStandard EntityMode = iota
	// EntityModeHex uses hex character references for the five XML specials
	// as well.
	EntityModeHex
)

// Config controls serialization.
type Config struct {
	IsPretty        bool
	Indent          int
	MaxLineLength   int
	EntityMode      EntityMode
	IndentTextNodes bool
}

// DefaultConfig returns the compact single-line configuration.
func DefaultConfig() Config {
	return Config{}
}

// PrettyConfig returns the default pretty-printing configuration.
func PrettyConfig() Config {
	return Config{
		IsPretty:        true,
		Indent:          2,
		MaxLineLength:   120,
		EntityMode:      EntityModeStandard,
		IndentTextNodes: true,
	}
}

// String renders the document compactly. An untouched parsed document
// reproduces its input byte-for-byte, modulo tokenizer entity
// normalization.
func (d *Document) String() string {
	return d.render(DefaultConfig())
}

// StringPretty renders the document with PrettyConfig.
func (d *Document) StringPretty() string {
	return d.render(PrettyConfig())
}

// StringPrettyWithConfig renders the document with an explicit
// configuration.
func (d *Document) StringPrettyWithConfig(cfg Config) string {
	return d.render(cfg)
}

func (d *Document) render(cfg Config) string {
	var sb strings.Builder
	p := &printer{w: &sb, cfg: cfg, doc: d}
	p.document()
	return sb.String()
}

// Print renders the document to w under cfg.
func (d *Document) Print(w io.Writer, cfg Config) error {
	sw := &errWriter{w: w}
	p := &printer{w: sw, cfg: cfg, doc: d}
	p.document()
	return sw.err
}

// ElementString renders the subtree rooted at el compactly.
func (d *Document) ElementString(el Element) string {
	var sb strings.Builder
	p := &printer{w: &sb, cfg: DefaultConfig(), doc: d}
	p.node(el.Node, printState{})
	return sb.String()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) WriteString(s string) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := io.WriteString(w.w, s)
	w.err = err
	return n, err
}

type stringWriter interface {
	WriteString(s string) (int, error)
}

// printState carries the per-subtree rendering state. Pretty mode can be
// demoted for a subtree that mixes text with other content.
type printState struct {
	pretty bool
	indent int
}

func (s printState) withIndent(cfg Config) printState {
	if !cfg.IsPretty {
		return s
	}
	return printState{pretty: s.pretty, indent: s.indent + cfg.Indent}
}

func (s printState) withoutPretty() printState {
	return printState{}
}

type printer struct {
	w   stringWriter
	cfg Config
	doc *Document
}

func (p *printer) write(s string) {
	p.w.WriteString(s)
}

func (p *printer) pad(n int) {
	if n > 0 {
		p.write(strings.Repeat(" ", n))
	}
}

func (p *printer) newline(st printState) {
	if st.pretty {
		p.write("\n")
	}
}

func (p *printer) document() {
	st := printState{pretty: p.cfg.IsPretty}
	if decl := p.doc.decl; decl != nil {
		p.declaration(decl, st)
	}
	for _, n := range p.doc.before {
		p.node(n, st)
	}
	if !p.doc.root.IsZero() {
		p.node(p.doc.root.Node, st)
	}
	for _, n := range p.doc.after {
		p.node(n, st)
	}
}

func (p *printer) declaration(decl *Declaration, st printState) {
	p.write("<?xml")
	if decl.Version != "" {
		p.write(` version="` + decl.Version + `"`)
	}
	if decl.Encoding != "" {
		p.write(` encoding="` + decl.Encoding + `"`)
	}
	if decl.Standalone != "" {
		p.write(` standalone="` + decl.Standalone + `"`)
	}
	p.write("?>")
	p.newline(st)
}

func (p *printer) node(n Node, st printState) {
	pl, ok := p.doc.nodes.Get(n.key)
	if !ok {
		return
	}
	switch pl.kind {
	case KindElement:
		p.element(n, pl, st)
	case KindText:
		p.text(pl.text, st)
	case KindCData:
		if st.pretty && p.cfg.IndentTextNodes {
			p.pad(st.indent)
		}
		p.write("<![CDATA[")
		p.write(pl.text)
		p.write("]]>")
		if st.pretty && p.cfg.IndentTextNodes {
			p.write("\n")
		}
	case KindProcessingInstruction:
		if st.pretty {
			p.pad(st.indent)
		}
		p.write("<?")
		p.write(pl.text)
		p.write("?>")
		p.newline(st)
	case KindComment:
		if st.pretty {
			p.pad(st.indent)
		}
		p.write("<!--")
		p.write(processEntities(pl.text, p.cfg.EntityMode, true, true))
		p.write("-->")
		p.newline(st)
	case KindDocumentType:
		if st.pretty {
			p.pad(st.indent)
		}
		p.write("<!DOCTYPE ")
		p.write(pl.text)
		p.write(">")
		p.newline(st)
	}
}

func (p *printer) text(text string, st printState) {
	if st.pretty && p.cfg.IndentTextNodes {
		// Indented text is re-flowed: surrounding whitespace belongs to the
		// printer, not the content. Whitespace-only runs vanish entirely.
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return
		}
		p.pad(st.indent)
		p.write(processEntities(trimmed, p.cfg.EntityMode, true, true))
		p.write("\n")
		return
	}
	p.write(processEntities(text, p.cfg.EntityMode, true, true))
}

func (p *printer) element(n Node, pl *payload, st printState) {
	attrs := p.doc.attrs[n.key]
	name := pl.name.String()

	if len(pl.children) == 0 {
		p.pad(st.indent)
		p.write("<")
		p.write(name)
		if len(attrs) > 0 {
			p.openAttrs(name, attrs, st)
			p.write(" />")
		} else {
			p.write("/>")
		}
		p.newline(st)
		return
	}

	hasText := false
	for _, child := range pl.children {
		if cp, ok := p.doc.nodes.Get(child.key); ok && (cp.kind == KindText || cp.kind == KindCData) {
			hasText = true
			break
		}
	}

	p.pad(st.indent)
	p.write("<")
	p.write(name)
	if len(attrs) > 0 {
		p.openAttrs(name, attrs, st)
	}
	p.write(">")
	indented := p.cfg.IndentTextNodes || !hasText
	if indented && st.pretty {
		p.write("\n")
	}

	childState := st.withIndent(p.cfg)
	if hasText && !p.cfg.IndentTextNodes {
		childState = st.withoutPretty()
	}
	for _, child := range pl.children {
		p.node(child, childState)
	}

	if indented && st.pretty {
		p.pad(st.indent)
		p.write("</")
		p.write(name)
		p.write(">")
		p.write("\n")
		return
	}
	p.write("</")
	p.write(name)
	p.write(">")
	p.newline(st)
}

// openAttrs writes the attribute list of an open tag, starting with the
// separator after the tag name. The first attribute wraps when the tag plus
// that attribute alone overflow the line; subsequent attributes wrap when
// the whole projected single-line form does.
func (p *printer) openAttrs(name string, attrs []attrEntry, st printState) {
	firstLen := len(name) + 2 + attrWidth(attrs[0])
	if st.pretty && firstLen > p.cfg.MaxLineLength {
		p.write("\n")
		p.pad(st.indent + p.cfg.Indent)
	} else {
		p.write(" ")
	}

	fullLen := len(name) + 2
	for _, a := range attrs {
		fullLen += attrWidth(a)
	}
	wrap := st.pretty && fullLen > p.cfg.MaxLineLength
	attrState := st.withIndent(p.cfg)

	for i, a := range attrs {
		if i > 0 {
			if wrap {
				p.write("\n")
				p.pad(attrState.indent)
			} else {
				p.write(" ")
			}
		}
		p.write(a.name.String())
		p.write("=\"")
		p.write(processEntities(a.value, p.cfg.EntityMode, false, false))
		p.write("\"")
	}
}

// attrWidth is the projected single-line width of one attribute: name,
// value, and the `="" ` overhead.
func attrWidth(a attrEntry) int {
	return len(a.name.String()) + len(a.value) + 4
}

// printableCategories are the Unicode general categories rendered verbatim:
// letters, marks, numbers, punctuation, symbols. Separators and the "other"
// group need escaping outside the whitespace carve-outs.
var printableCategories = []*unicode.RangeTable{
	unicode.L, unicode.M, unicode.N, unicode.P, unicode.S,
}

func isASCIIControl(r rune) bool {
	return r < 0x20 || r == 0x7F
}

func isASCIIWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

func escapeTriggers(r rune) bool {
	switch r {
	case '<', '>', '\'', '"', '&':
		return true
	}
	if isASCIIControl(r) {
		return true
	}
	return !unicode.In(r, printableCategories...)
}

// processEntities escapes input for the given context. Text content allows
// separators through verbatim; attribute values escape them along with the
// quote characters. Strings needing no escaping are returned as-is.
func processEntities(input string, mode EntityMode, allowSeparators, isText bool) string {
	if !strings.ContainsFunc(input, escapeTriggers) {
		return input
	}
	var sb strings.Builder
	sb.Grow(len(input))
	for _, r := range input {
		switch {
		case mode == EntityModeStandard && r == '&':
			sb.WriteString("&amp;")
		case mode == EntityModeStandard && r == '\'' && !isText:
			sb.WriteString("&apos;")
		case mode == EntityModeStandard && r == '"' && !isText:
			sb.WriteString("&quot;")
		case mode == EntityModeStandard && r == '<':
			sb.WriteString("&lt;")
		case mode == EntityModeStandard && r == '>':
			sb.WriteString("&gt;")
		case mode == EntityModeHex && (r == '&' || r == '\'' || r == '"' || r == '<' || r == '>'):
			writeHexRef(&sb, r)
		case isASCIIControl(r) && !isASCIIWhitespace(r):
			writeHexRef(&sb, r)
		default:
			isWhitespace := r != '\u00a0' &&
				(r == ' ' || allowSeparators && (isASCIIWhitespace(r) || unicode.In(r, unicode.Z)))
			if isWhitespace || unicode.In(r, printableCategories...) {
				sb.WriteRune(r)
				continue
			}
			writeHexRef(&sb, r)
		}
	}
	return sb.String()
}

func writeHexRef(sb *strings.Builder, r rune) {
	fmt.Fprintf(sb, "&#x%04X;", r)
}
