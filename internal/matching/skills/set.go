// Package skills normalizes skill tokens and classifies them into affinity groups.
package skills

import (
	"sort"
	"strings"
)

// Set is a normalized, duplicate-free collection of skills. The zero value is
// an empty set.
type Set struct {
	items map[string]struct{}
}

// Normalize lower-cases, trims and collapses whitespace in every token, drops
// empty tokens and removes duplicates.
func Normalize(raw []string) Set {
	s := Set{items: make(map[string]struct{}, len(raw))}
	for _, r := range raw {
		s.Add(r)
	}
	return s
}

// NormalizeToken returns the canonical form of one skill.
func NormalizeToken(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// Add inserts raw after normalization. Empty tokens are ignored.
func (s *Set) Add(raw string) {
	tok := NormalizeToken(raw)
	if tok == "" {
		return
	}
	if s.items == nil {
		s.items = make(map[string]struct{})
	}
	s.items[tok] = struct{}{}
}

func (s Set) Len() int {
	return len(s.items)
}

func (s Set) Empty() bool {
	return len(s.items) == 0
}

// Has reports membership; raw is normalized first.
func (s Set) Has(raw string) bool {
	_, ok := s.items[NormalizeToken(raw)]
	return ok
}

// Intersect returns the skills present in both sets.
func (s Set) Intersect(other Set) Set {
	small, large := s, other
	if large.Len() < small.Len() {
		small, large = large, small
	}
	out := Set{items: make(map[string]struct{})}
	for k := range small.items {
		if _, ok := large.items[k]; ok {
			out.items[k] = struct{}{}
		}
	}
	return out
}

// Minus returns the skills of s absent from other.
func (s Set) Minus(other Set) Set {
	out := Set{items: make(map[string]struct{})}
	for k := range s.items {
		if _, ok := other.items[k]; !ok {
			out.items[k] = struct{}{}
		}
	}
	return out
}

// Slice returns the skills sorted ascending.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s.items))
	for k := range s.items {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
