package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

type answerKind uint8

const (
	kindAbsent answerKind = iota
	kindSingle
	kindList
)

// Answer is the value given to one question: absent, a single string, or
// an ordered list of strings. The zero value is absent.
type Answer struct {
	kind   answerKind
	single string
	list   []string
}

func None() Answer { return Answer{} }

func Single(s string) Answer { return Answer{kind: kindSingle, single: s} }

// List copies ss so later mutation of the argument does not leak in.
func List(ss ...string) Answer {
	return Answer{kind: kindList, list: slices.Clone(ss)}
}

func (a Answer) IsAbsent() bool { return a.kind == kindAbsent }

func (a Answer) IsList() bool { return a.kind == kindList }

// Len is the string length of a single answer or the element count of a
// list. Absent answers have length zero.
func (a Answer) Len() int {
	switch a.kind {
	case kindSingle:
		return len(a.single)
	case kindList:
		return len(a.list)
	}
	return 0
}

// Strings returns a copy of the list elements, or a one-element slice for
// a single answer.
func (a Answer) Strings() []string {
	switch a.kind {
	case kindSingle:
		return []string{a.single}
	case kindList:
		return slices.Clone(a.list)
	}
	return nil
}

// At returns element i of a list answer, or "" when out of range.
func (a Answer) At(i int) string {
	if a.kind == kindSingle && i == 0 {
		return a.single
	}
	if a.kind != kindList || i < 0 || i >= len(a.list) {
		return ""
	}
	return a.list[i]
}

func (a Answer) Contains(s string) bool {
	switch a.kind {
	case kindSingle:
		return a.single == s
	case kindList:
		return slices.Contains(a.list, s)
	}
	return false
}

// Flatten renders the answer for a payload.
func (a Answer) Flatten(delim string) string {
	switch a.kind {
	case kindSingle:
		return a.single
	case kindList:
		return strings.Join(a.list, delim)
	}
	return ""
}

func (a Answer) Equal(b Answer) bool {
	if a.kind != b.kind {
		return false
	}
	return a.single == b.single && slices.Equal(a.list, b.list)
}

func (a Answer) String() string {
	switch a.kind {
	case kindSingle:
		return fmt.Sprintf("%q", a.single)
	case kindList:
		return fmt.Sprintf("%q", a.list)
	}
	return "<absent>"
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case kindSingle:
		return json.Marshal(a.single)
	case kindList:
		if a.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.list)
	}
	return []byte("null"), nil
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = None()
		return nil
	case len(data) > 0 && data[0] == '[':
		var ss []string
		if err := json.Unmarshal(data, &ss); err != nil {
			return fmt.Errorf("decoding answer list: %w", err)
		}
		*a = List(ss...)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding answer: %w", err)
	}
	*a = Single(s)
	return nil
}

// Collection holds one answer slot per question, in question order.
type Collection []Answer

// Get returns slot i, or an absent answer for slots never written.
func (c Collection) Get(i int) Answer {
	if i < 0 || i >= len(c) {
		return None()
	}
	return c[i]
}

// Set returns the collection with slot i replaced, growing it as needed.
// The receiver is not modified.
func (c Collection) Set(i int, a Answer) Collection {
	n := max(len(c), i+1)
	out := make(Collection, n)
	copy(out, c)
	out[i] = a
	return out
}
