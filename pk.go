package shelf

import (
	"strings"

	"github.com/tidwall/match"
)

// PK is a record id split into ":" separated segments for ordering.
type PK struct {
	key      string
	segments []string
}

func newPK(k string) PK {
	return PK{
		key:      k,
		segments: strings.Split(k, ":"),
	}
}

func (pk PK) String() string {
	return pk.key
}

func (pk PK) Equal(other PK) bool {
	return pk.key == other.key
}

func (pk PK) HasPrefix(prefix string) bool {
	return strings.HasPrefix(pk.key, prefix)
}

// Match reports whether the key matches a glob pattern. An empty pattern
// or "*" matches every key.
func (pk PK) Match(pattern string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	return match.Match(pk.key, pattern)
}

// Less orders keys segment by segment. Plain numeric segments compare by
// value and sort before any other segment; everything else compares as
// strings, so "user:2" < "user:10" while "001" and "01" stay distinct.
func (pk PK) Less(other PK) bool {
	l := smallestSegmentLen(pk.segments, other.segments)

	for i := 0; i < l; i++ {
		a, b := pk.segments[i], other.segments[i]
		if a == b {
			continue
		}

		aNum, bNum := isNumericSegment(a), isNumericSegment(b)
		switch {
		case aNum && bNum:
			if len(a) != len(b) {
				return len(a) < len(b)
			}
			return a < b
		case aNum:
			return true
		case bNum:
			return false
		default:
			return a < b
		}
	}

	return len(pk.segments) < len(other.segments)
}

func byPrimaryKeys[R Record](a, b interface{}) bool {
	i1, i2 := a.(*item[R]), b.(*item[R])
	return i1.key.Less(i2.key)
}

func smallestSegmentLen(a, b []string) int {
	if len(a) > len(b) {
		return len(b)
	}

	return len(a)
}

// isNumericSegment accepts digit-only segments without a leading zero.
func isNumericSegment(s string) bool {
	if s == "" || (s[0] == '0' && len(s) > 1) {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
