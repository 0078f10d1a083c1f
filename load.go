package xmldom

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html/charset"

	xmldomerrors "github.com/jacoelho/xmldom/errors"
)

var cdataPrefix = []byte("<![CDATA[")

// FromString parses a document from in-memory text.
func FromString(s string) (*Document, error) {
	return parse([]byte(s))
}

// FromReader parses a document from a byte stream. The whole stream is
// buffered: the model is in-memory by design.
func FromReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, xmldomerrors.Parse(err)
	}
	return parse(data)
}

// parse drives the pull tokenizer and builds the tree through the document
// mutation API. The stdlib decoder folds CDATA sections into CharData, so
// each CharData token is checked against its raw byte span to recover the
// distinction; the check degrades to plain text when a charset conversion
// shifted the offsets.
func parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	d := newDocument()
	var stack []Element
	rootClosed := false
	sawDoctype := false
	var prevOffset int64

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, xmldomerrors.Parse(err)
		}
		start := prevOffset
		prevOffset = dec.InputOffset()

		switch t := tok.(type) {
		case xml.StartElement:
			name := rawName(t.Name)
			if rootClosed {
				return nil, xmldomerrors.SupplementaryElement(name)
			}
			attrs := make([]Attr, 0, len(t.Attr))
			for _, a := range t.Attr {
				attrs = append(attrs, Attr{Name: rawName(a.Name), Value: a.Value})
			}
			var el Element
			if len(stack) == 0 {
				el, err = d.initRoot(name, attrs)
			} else {
				el, err = d.AppendNewElement(stack[len(stack)-1], name, attrs)
			}
			if err != nil {
				return nil, err
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, xmldomerrors.ParseMessage("unexpected end tag </%s>", rawName(t.Name))
			}
			top := stack[len(stack)-1]
			if got, want := rawName(t.Name), d.Name(top).String(); got != want {
				return nil, xmldomerrors.ParseMessage("end tag </%s> does not match <%s>", got, want)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				rootClosed = true
			}

		case xml.CharData:
			text := string(t)
			kind := KindText
			if int(start) >= 0 && int(start) < len(data) && bytes.HasPrefix(data[start:], cdataPrefix) {
				kind = KindCData
			}
			if len(stack) > 0 {
				// Whitespace-only runs inside an element are significant.
				if _, err := d.appendLeaf("parse", stack[len(stack)-1], kind, text); err != nil {
					return nil, err
				}
				continue
			}
			if kind == KindText && isIgnorableOutsideRoot(text) {
				continue
			}
			d.pushOutside(kind, text, rootClosed)

		case xml.Comment:
			if len(stack) > 0 {
				if _, err := d.AppendComment(stack[len(stack)-1], string(t)); err != nil {
					return nil, err
				}
				continue
			}
			d.pushOutside(KindComment, string(t), rootClosed)

		case xml.ProcInst:
			// The declaration is surfaced as a processing instruction with
			// target "xml". All other processing instructions are dropped,
			// as are redundant declarations after the first.
			if t.Target == "xml" && d.decl == nil && d.root.IsZero() {
				d.decl = parseDeclaration(string(t.Inst))
			}

		case xml.Directive:
			body := string(t)
			if rest, ok := strings.CutPrefix(body, "DOCTYPE"); ok {
				if sawDoctype || !d.root.IsZero() {
					continue
				}
				sawDoctype = true
				d.pushOutside(KindDocumentType, strings.TrimSpace(rest), false)
			}
		}
	}

	if d.root.IsZero() {
		return nil, xmldomerrors.ParseMessage("no root element found")
	}
	if len(stack) > 0 {
		return nil, xmldomerrors.ParseMessage("unexpected end of input: <%s> is not closed", d.Name(stack[len(stack)-1]))
	}
	return d, nil
}

// initRoot creates the root element of a loader-built document.
func (d *Document) initRoot(name string, attrs []Attr) (Element, error) {
	el, err := d.buildElement(name, attrs)
	if err != nil {
		return Element{}, err
	}
	d.root = el
	return el, nil
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// isIgnorableOutsideRoot reports whether text is insignificant at the top
// level: whitespace, possibly with a byte order mark.
func isIgnorableOutsideRoot(text string) bool {
	for _, r := range text {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// parseDeclaration extracts version, encoding, and standalone from the body
// of an <?xml ...?> declaration. Unknown or malformed fields are left empty.
func parseDeclaration(inst string) *Declaration {
	decl := &Declaration{
		Version:    declField(inst, "version"),
		Encoding:   declField(inst, "encoding"),
		Standalone: declField(inst, "standalone"),
	}
	return decl
}

func declField(inst, field string) string {
	rest := inst
	for {
		i := strings.Index(rest, field)
		if i < 0 {
			return ""
		}
		rest = rest[i+len(field):]
		trimmed := strings.TrimLeft(rest, " \t\r\n")
		if !strings.HasPrefix(trimmed, "=") {
			continue
		}
		trimmed = strings.TrimLeft(trimmed[1:], " \t\r\n")
		if len(trimmed) == 0 {
			return ""
		}
		quote := trimmed[0]
		if quote != '"' && quote != '\'' {
			return ""
		}
		end := strings.IndexByte(trimmed[1:], quote)
		if end < 0 {
			return ""
		}
		return trimmed[1 : 1+end]
	}
}
