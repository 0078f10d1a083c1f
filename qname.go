package xmldom

import (
	"strings"

	xmldomerrors "github.com/jacoelho/xmldom/errors"
)

// QName is a qualified XML name: an optional namespace prefix and a local
// part. Equality and ordering use the full prefixed form, which String
// reconstructs.
type QName struct {
	Prefix string
	Local  string
}

// ParseQName validates name against the XML Name productions and splits an
// optional prefix off at the first colon.
func ParseQName(name string) (QName, error) {
	if !isValidName(name) {
		return QName{}, xmldomerrors.InvalidQName(name)
	}
	if prefix, local, ok := strings.Cut(name, ":"); ok && prefix != "" && local != "" {
		return QName{Prefix: prefix, Local: local}, nil
	}
	return QName{Local: name}, nil
}

// String returns the prefixed form of the name.
func (q QName) String() string {
	if q.Prefix == "" {
		return q.Local
	}
	return q.Prefix + ":" + q.Local
}

// IsZero reports whether q is the zero QName.
func (q QName) IsZero() bool {
	return q.Prefix == "" && q.Local == ""
}

// isValidName reports whether s matches the XML 1.0 Name production.
func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isNameStartChar(r) {
				return false
			}
			continue
		}
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

func isNameStartChar(r rune) bool {
	switch {
	case r == ':' || r == '_',
		'A' <= r && r <= 'Z',
		'a' <= r && r <= 'z':
		return true
	}
	switch {
	case 0xC0 <= r && r <= 0xD6,
		0xD8 <= r && r <= 0xF6,
		0xF8 <= r && r <= 0x2FF,
		0x370 <= r && r <= 0x37D,
		0x37F <= r && r <= 0x1FFF,
		0x200C <= r && r <= 0x200D,
		0x2070 <= r && r <= 0x218F,
		0x2C00 <= r && r <= 0x2FEF,
		0x3001 <= r && r <= 0xD7FF,
		0xF900 <= r && r <= 0xFDCF,
		0xFDF0 <= r && r <= 0xFFFD,
		0x10000 <= r && r <= 0xEFFFF:
		return true
	}
	return false
}

func isNameChar(r rune) bool {
	if isNameStartChar(r) {
		return true
	}
	switch {
	case r == '-' || r == '.',
		'0' <= r && r <= '9',
		r == 0xB7,
		0x300 <= r && r <= 0x36F,
		0x203F <= r && r <= 0x2040:
		return true
	}
	return false
}
