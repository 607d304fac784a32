package cities

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Method describes how a city string was resolved.
type Method string

const (
	// MethodAlias means the raw city was found in the alias map.
	MethodAlias Method = "alias"
	// MethodFuzzy means the raw city matched a canonical city within the
	// edit-distance threshold.
	MethodFuzzy Method = "fuzzy"
	// MethodHint means a canonical city was found inside the address line.
	MethodHint Method = "hint"
	// MethodNone means no match was found and the raw value is returned.
	MethodNone Method = "none"
)

// minRatio is the minimum similarity ratio for a fuzzy match.
const minRatio = 0.85

// Normalizer resolves free-text city strings to canonical city names.
// It is immutable after construction and safe for concurrent use.
type Normalizer struct {
	aliases   map[string]string
	canonical []string
}

// NewNormalizer builds a normalizer from an alias map and an ordered
// canonical city list. Alias keys and canonical entries are lowercased;
// the canonical slice order is preserved so hint scans and fuzzy
// tie-breaks are deterministic (first in corpus order wins).
func NewNormalizer(aliases map[string]string, canonical []string) *Normalizer {
	n := &Normalizer{
		aliases:   make(map[string]string, len(aliases)),
		canonical: make([]string, 0, len(canonical)),
	}
	for raw, canon := range aliases {
		n.aliases[strings.ToLower(strings.TrimSpace(raw))] = canon
	}
	for _, c := range canonical {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			n.canonical = append(n.canonical, c)
		}
	}
	return n
}

// Normalize resolves a raw city string to a canonical value.
//
// Precedence: alias lookup, then fuzzy match against the canonical list,
// then substring scan of the address hint. When nothing matches the raw
// string is returned unchanged with matched=false.
func (n *Normalizer) Normalize(rawCity, addressHint string) (string, bool, Method) {
	city := strings.ToLower(strings.TrimSpace(rawCity))

	if city != "" {
		if canon, ok := n.aliases[city]; ok {
			return canon, true, MethodAlias
		}

		if best, ok := n.fuzzyMatch(city); ok {
			return titleCase(best), true, MethodFuzzy
		}
	}

	if hint := strings.ToLower(addressHint); hint != "" {
		for _, c := range n.canonical {
			if strings.Contains(hint, c) {
				return titleCase(c), true, MethodHint
			}
		}
	}

	return rawCity, false, MethodNone
}

// fuzzyMatch returns the best-scoring canonical city clearing minRatio.
// Equal scores keep the earlier corpus entry.
func (n *Normalizer) fuzzyMatch(city string) (string, bool) {
	var (
		best      string
		bestRatio float64
	)
	for _, c := range n.canonical {
		r := similarity(city, c)
		if r >= minRatio && r > bestRatio {
			best = c
			bestRatio = r
		}
	}
	return best, best != ""
}

// similarity is the normalized edit-distance ratio between two strings,
// 1.0 meaning identical.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
