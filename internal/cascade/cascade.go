// Package cascade picks attribute values from an ordered list of candidate
// records: the most specific record first, more general ones after.
//
// Candidates may be nil (an absent level) and are skipped. An extractor
// reports whether the record defines the attribute; "defined but empty"
// (empty string, empty list, zero capacity) counts as not defined.
package cascade

import "strings"

// Find returns the first value extract accepts.
func Find[S any, T any](candidates []*S, extract func(*S) (T, bool)) (T, bool) {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if v, ok := extract(c); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Resolve is Find with a fallback for when no candidate defines the value.
func Resolve[S any, T any](candidates []*S, extract func(*S) (T, bool), fallback T) T {
	if v, ok := Find(candidates, extract); ok {
		return v
	}
	return fallback
}

// List returns the first list with at least one element.
func List[S any, T any](candidates []*S, get func(*S) []T) []T {
	v, _ := Find(candidates, func(s *S) ([]T, bool) {
		l := get(s)
		return l, len(l) > 0
	})
	return v
}

// String returns the first non-blank string.
func String[S any](candidates []*S, get func(*S) string) (string, bool) {
	return Find(candidates, func(s *S) (string, bool) {
		v := get(s)
		return v, strings.TrimSpace(v) != ""
	})
}

// NonZero returns the first non-zero integer. Zero is the engine's "unset".
func NonZero[S any](candidates []*S, get func(*S) int64) (int64, bool) {
	return Find(candidates, func(s *S) (int64, bool) {
		v := get(s)
		return v, v != 0
	})
}

// Ptr returns the first non-nil pointer's value.
func Ptr[S any, T any](candidates []*S, get func(*S) *T) (T, bool) {
	return Find(candidates, func(s *S) (T, bool) {
		p := get(s)
		if p == nil {
			var zero T
			return zero, false
		}
		return *p, true
	})
}

// FirstOf runs strategies in order and returns the first accepted value.
// It is the single-record counterpart of Find.
func FirstOf[T any](strategies ...func() (T, bool)) (T, bool) {
	for _, s := range strategies {
		if v, ok := s(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Levels builds a candidate list, dropping nothing: nil entries are kept so
// callers can pass optional levels positionally.
func Levels[S any](levels ...*S) []*S {
	return levels
}
