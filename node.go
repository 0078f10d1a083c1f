package xmldom

import "github.com/jacoelho/xmldom/internal/arena"

// NodeKind discriminates the closed set of node payload variants. The
// serializer and canonicalizer switch over it exhaustively; adding a variant
// requires touching every switch.
type NodeKind uint8

const (
	// KindElement is an element node carrying a name and ordered children.
	KindElement NodeKind = iota + 1
	// KindText is a character data node.
	KindText
	// KindCData is a CDATA section; its content is never entity-escaped.
	KindCData
	// KindProcessingInstruction is a processing instruction (target and data).
	KindProcessingInstruction
	// KindComment is a comment node.
	KindComment
	// KindDocumentType is a raw doctype body.
	KindDocumentType
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindCData:
		return "CDataSection"
	case KindProcessingInstruction:
		return "ProcessingInstruction"
	case KindComment:
		return "Comment"
	case KindDocumentType:
		return "DocumentType"
	default:
		return "Unknown"
	}
}

// Node is an opaque, copyable, generation-checked handle to a node in a
// Document. Handles compare with ==; a handle to a removed node stops
// resolving instead of aliasing a reused slot.
type Node struct {
	key arena.Key
}

// IsZero reports whether n is the zero handle.
func (n Node) IsZero() bool {
	return n.key.IsZero()
}

// Element is a Node handle known to refer to an element.
type Element struct {
	Node
}

// payload is the tagged union stored per arena slot.
type payload struct {
	kind     NodeKind
	text     string // all non-element variants
	name     QName  // KindElement
	children []Node // KindElement
}
