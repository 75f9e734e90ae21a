package treestore

import (
	"strconv"
	"strings"
)

type idKind uint8

const (
	idNone idKind = iota
	idInt
	idString
)

// ID identifies an item. It is either numeric or a string; the two spaces
// never overlap, so IntID(7) and StringID("7") are different ids. The zero
// value is "no id" and is used as the parent of root items.
type ID struct {
	kind idKind
	num  int64
	str  string
}

func IntID(n int64) ID { return ID{kind: idInt, num: n} }

func StringID(s string) ID { return ID{kind: idString, str: s} }

// ParseID turns typed or scripted text into an id: decimal text is numeric,
// anything else a string id, blank input the zero ID. Decoded seed values keep
// their own type instead.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntID(n)
	}
	return StringID(s)
}

func (id ID) IsZero() bool { return id.kind == idNone }

// Int returns the numeric value for numeric ids.
func (id ID) Int() (int64, bool) {
	if id.kind != idInt {
		return 0, false
	}
	return id.num, true
}

func (id ID) String() string {
	switch id.kind {
	case idInt:
		return strconv.FormatInt(id.num, 10)
	case idString:
		return id.str
	default:
		return ""
	}
}

// GoString keeps numeric and string ids apart in debug output.
func (id ID) GoString() string {
	switch id.kind {
	case idInt:
		return id.String()
	case idString:
		return strconv.Quote(id.str)
	default:
		return "null"
	}
}
