package sites

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
)

// Resolver maps the full text of a document to a site name.
type Resolver interface {
	Resolve(text string) (site string, ok bool)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(text string) (string, bool)

// Resolve calls f(text).
func (f ResolverFunc) Resolve(text string) (string, bool) {
	return f(text)
}

// MatchMode selects how strictly an address must appear in the text.
type MatchMode int

const (
	// MatchLenient accepts an entry when the street name appears at a word
	// boundary and either the house number occurs anywhere in the text or the
	// complete address appears as a whole word.
	MatchLenient MatchMode = iota

	// MatchStrict accepts an entry only when the complete address appears as
	// a whole word.
	MatchStrict
)

// ParseMatchMode converts a configuration value into a MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return MatchLenient, nil
	case "strict":
		return MatchStrict, nil
	default:
		return MatchLenient, fmt.Errorf("unknown site matching mode %q (valid: lenient, strict)", s)
	}
}

func (m MatchMode) String() string {
	if m == MatchStrict {
		return "strict"
	}
	return "lenient"
}

// CatalogResolver resolves sites against a Catalog. The first entry in
// catalog order that satisfies the match mode wins.
type CatalogResolver struct {
	entries []Entry
	mode    MatchMode

	// streetIdx[i] is the index into streets for entries[i].
	streets   []string
	streetIdx []int

	mu      sync.Mutex
	matcher *ahocorasick.Matcher
}

// NewCatalogResolver builds a resolver for the given catalog.
func NewCatalogResolver(c *Catalog, mode MatchMode) *CatalogResolver {
	r := &CatalogResolver{
		entries: c.Entries(),
		mode:    mode,
	}

	// Several addresses can share a street ("Bildungscampus 4" and
	// "Bildungscampus 23"), so the automaton gets each street once.
	index := make(map[string]int)
	r.streetIdx = make([]int, len(r.entries))
	for i, e := range r.entries {
		street := strings.Fields(e.Address)[0]
		idx, ok := index[street]
		if !ok {
			idx = len(r.streets)
			index[street] = idx
			r.streets = append(r.streets, street)
		}
		r.streetIdx[i] = idx
	}

	if len(r.streets) > 0 {
		patterns := make([][]byte, len(r.streets))
		for i, s := range r.streets {
			patterns[i] = []byte(s)
		}
		r.matcher = ahocorasick.NewMatcher(patterns)
	}

	return r
}

// Mode returns the configured match mode.
func (r *CatalogResolver) Mode() MatchMode {
	return r.mode
}

// Resolve returns the site of the first matching catalog entry.
func (r *CatalogResolver) Resolve(text string) (string, bool) {
	if text == "" || r.matcher == nil {
		return "", false
	}

	present := r.streetsIn(text)
	if len(present) == 0 {
		return "", false
	}

	for i, e := range r.entries {
		if !present[r.streetIdx[i]] {
			continue
		}
		if r.entryMatches(text, e.Address) {
			return e.Site, true
		}
	}

	return "", false
}

// streetsIn returns the street indices occurring anywhere in text.
func (r *CatalogResolver) streetsIn(text string) map[int]bool {
	r.mu.Lock()
	hits := r.matcher.Match([]byte(text))
	r.mu.Unlock()

	present := make(map[int]bool, len(hits))
	for _, h := range hits {
		present[h] = true
	}
	return present
}

func (r *CatalogResolver) entryMatches(text, address string) bool {
	tokens := strings.Fields(address)

	if r.mode == MatchStrict {
		return containsWord(text, address)
	}

	if !containsPrefixWord(text, tokens[0]) {
		return false
	}
	if len(tokens) == 1 {
		return true
	}
	return strings.Contains(text, tokens[1]) || containsWord(text, address)
}

// containsPrefixWord reports whether word occurs in text with a word
// boundary in front of it.
func containsPrefixWord(text, word string) bool {
	return indexWord(text, word, false) >= 0
}

// containsWord reports whether word occurs in text with word boundaries on
// both sides.
func containsWord(text, word string) bool {
	return indexWord(text, word, true) >= 0
}

func indexWord(text, word string, bothSides bool) int {
	if word == "" {
		return -1
	}
	offset := 0
	for {
		i := strings.Index(text[offset:], word)
		if i < 0 {
			return -1
		}
		start := offset + i
		end := start + len(word)
		if atBoundary(text, start) && (!bothSides || atBoundary(text, end)) {
			return start
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
}

// atBoundary reports whether byte offset i of s sits between a word and a
// non-word character. Word characters are Unicode letters, digits and '_'.
func atBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
