package dnd

import "strconv"

// ID identifies a draggable item or a container. IDs that parse as base-10
// integers are numeric; all other IDs are strings. Two IDs are equal with ==.
type ID struct {
	num     int
	str     string
	numeric bool
}

// IntID returns a numeric ID.
func IntID(n int) ID { return ID{num: n, numeric: true} }

// ParseID returns a numeric ID when s is a valid integer and a string ID
// otherwise.
func ParseID(s string) ID {
	if n, err := strconv.Atoi(s); err == nil {
		return IntID(n)
	}
	return ID{str: s}
}

// Int returns the numeric value and whether the ID is numeric.
func (id ID) Int() (int, bool) { return id.num, id.numeric }

// IsZero reports whether id is the empty string ID.
func (id ID) IsZero() bool { return !id.numeric && id.str == "" }

func (id ID) String() string {
	if id.numeric {
		return strconv.Itoa(id.num)
	}
	return id.str
}
