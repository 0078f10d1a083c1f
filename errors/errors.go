// Package errors defines the typed errors reported by xmldom.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of document error.
type Code string

const (
	// CodeInvalidQName indicates a malformed element or attribute name.
	CodeInvalidQName Code = "dom-invalid-qname"
	// CodeStaleHandle indicates an arena lookup through a freed or foreign handle.
	CodeStaleHandle Code = "dom-stale-handle"
	// CodeStructure indicates a structural operation that would break the tree.
	CodeStructure Code = "dom-structure"
	// CodeSupplementaryElement indicates a second top-level element after the root closed.
	CodeSupplementaryElement Code = "dom-supplementary-element-after-root"
	// CodeParse indicates the input text could not be parsed.
	CodeParse Code = "xml-parse-error"
	// CodeSelectorSyntax indicates a selector expression that failed to compile.
	CodeSelectorSyntax Code = "selector-syntax-error"
)

// DocumentError describes a document model failure with a stable code.
type DocumentError struct {
	Code    Code
	Message string
	Err     error
}

// Error returns the code-prefixed message.
func (e *DocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// InvalidQName reports a name that violates the XML name productions.
func InvalidQName(name string) error {
	return &DocumentError{Code: CodeInvalidQName, Message: fmt.Sprintf("invalid qualified name %q", name)}
}

// StaleHandle reports a lookup through a handle that no longer resolves.
func StaleHandle(op string) error {
	return &DocumentError{Code: CodeStaleHandle, Message: fmt.Sprintf("%s: handle does not resolve to a live node", op)}
}

// Structure reports a structural operation the tree cannot accept.
func Structure(msg string) error {
	return &DocumentError{Code: CodeStructure, Message: msg}
}

// SupplementaryElement reports a top-level element after the root closed.
func SupplementaryElement(name string) error {
	return &DocumentError{Code: CodeSupplementaryElement, Message: fmt.Sprintf("supplementary element %q after root", name)}
}

// Parse wraps a tokenizer failure.
func Parse(err error) error {
	return &DocumentError{Code: CodeParse, Message: "parse document", Err: err}
}

// ParseMessage reports a parse failure detected by the loader itself.
func ParseMessage(format string, args ...any) error {
	return &DocumentError{Code: CodeParse, Message: fmt.Sprintf(format, args...)}
}

// Selector wraps a selector compilation failure.
func Selector(expr string, err error) error {
	return &DocumentError{Code: CodeSelectorSyntax, Message: fmt.Sprintf("compile selector %q", expr), Err: err}
}

// AsDocument extracts a DocumentError from err's chain.
func AsDocument(err error) (*DocumentError, bool) {
	var de *DocumentError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// CodeOf returns the code of the first DocumentError in err's chain, or the
// empty Code when there is none.
func CodeOf(err error) Code {
	if de, ok := AsDocument(err); ok {
		return de.Code
	}
	return ""
}
