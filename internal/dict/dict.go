// Package dict provides the word-membership oracle used to validate
// submissions.
package dict

// Dict answers whether a word belongs to the game dictionary. Lookups are
// expected in lowercase, accent-free form; implementations must be safe for
// concurrent use once built.
type Dict interface {
	Contains(word string) bool
}

// Set is a trivial in-memory Dict, handy as a test fixture.
type Set map[string]struct{}

// NewSet builds a Set from the given words, normalizing each entry the same
// way the file-backed dictionary does.
func NewSet(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s[normalize(w)] = struct{}{}
	}
	return s
}

func (s Set) Contains(word string) bool {
	_, ok := s[word]
	return ok
}
