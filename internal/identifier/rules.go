// Package identifier holds the validation predicates shared by table and field
// identifiers (display names and api names).
//
// Every predicate compares the trimmed input but never returns a modified
// value: trimming is a validation concern only and the caller keeps submitting
// exactly what the user typed.
package identifier

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLength is the length bound applied to both name and api_name.
const MaxLength = 255

var apiNameRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// Sibling is the part of a neighbouring entity the uniqueness checks need.
type Sibling struct {
	ID      string
	Name    string
	APIName string
}

// Attr selects the identifier of a sibling that a value is compared against.
type Attr func(Sibling) string

// ByName compares against the sibling display name.
func ByName(s Sibling) string { return s.Name }

// ByAPIName compares against the sibling api name.
func ByAPIName(s Sibling) string { return s.APIName }

// IsNonEmpty reports whether s has at least one non-space character.
func IsNonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsWithinLength reports whether the trimmed s has at most max characters.
func IsWithinLength(s string, max int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) <= max
}

// IsValidAPIName reports whether s is a safe api identifier: lowercase ascii
// letters, digits and single underscores, not starting or ending with one.
func IsValidAPIName(s string) bool {
	s = strings.TrimSpace(s)
	if !apiNameRe.MatchString(s) {
		return false
	}
	if strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") {
		return false
	}
	return !strings.Contains(s, "__")
}

// IsUniqueAmong reports whether the trimmed s differs from attr of every
// sibling. The sibling whose ID equals excludeID is skipped so an entity never
// conflicts with itself. Siblings with an empty value never collide.
// Comparison is case-sensitive.
func IsUniqueAmong(s string, siblings []Sibling, attr Attr, excludeID string) bool {
	needle := strings.TrimSpace(s)
	for _, sib := range siblings {
		if excludeID != "" && sib.ID == excludeID {
			continue
		}
		v := strings.TrimSpace(attr(sib))
		if v == "" {
			continue
		}
		if v == needle {
			return false
		}
	}
	return true
}

// ReservedSet is a fixed set of words an identifier may not take.
type ReservedSet map[string]struct{}

// NewReservedSet builds a set from words; surrounding whitespace is ignored.
func NewReservedSet(words ...string) ReservedSet {
	set := make(ReservedSet, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// Contains reports whether the trimmed s is reserved.
func (r ReservedSet) Contains(s string) bool {
	_, ok := r[strings.TrimSpace(s)]
	return ok
}

// IsNotReserved reports whether the trimmed s is absent from reserved.
func IsNotReserved(s string, reserved ReservedSet) bool {
	return !reserved.Contains(s)
}
