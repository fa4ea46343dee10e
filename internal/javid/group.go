package javid

import (
	"sort"
	"strings"
)

// Grouping maps each parsed identifier to the items that produced it.
type Grouping[T any] struct {
	Groups map[Identifier][]T
	// Unparsed counts items with no identifier in their key.
	Unparsed int
	// Suppressed counts items whose identifier matched a noisy prefix.
	Suppressed int
}

// Filter decides which parsed identifiers are plausible.
type Filter struct {
	noisyPrefixes []string
}

// NewFilter builds a filter that rejects identifiers whose producer code
// starts with any of the given prefixes (case-insensitive). The list is known
// to be incomplete; add prefixes as new false positives turn up.
func NewFilter(noisyPrefixes []string) Filter {
	prefixes := make([]string, 0, len(noisyPrefixes))
	for _, p := range noisyPrefixes {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return Filter{noisyPrefixes: prefixes}
}

// Suppressed reports whether id looks like a false positive.
func (f Filter) Suppressed(id Identifier) bool {
	code := strings.ToLower(id.ProducerCode())
	for _, prefix := range f.noisyPrefixes {
		if strings.HasPrefix(code, prefix) {
			return true
		}
	}
	return false
}

// Group parses key(item) for every item and groups items sharing an
// identifier. Unparseable and suppressed items are counted, not returned.
func Group[T any](items []T, key func(T) string, filter Filter) Grouping[T] {
	out := Grouping[T]{Groups: make(map[Identifier][]T)}
	for _, item := range items {
		id, err := Parse(key(item))
		if err != nil {
			out.Unparsed++
			continue
		}
		if filter.Suppressed(id) {
			out.Suppressed++
			continue
		}
		out.Groups[id] = append(out.Groups[id], item)
	}
	return out
}

// Identifiers returns the grouped identifiers sorted by DVD form so output is
// stable between runs.
func (g Grouping[T]) Identifiers() []Identifier {
	ids := make([]Identifier, 0, len(g.Groups))
	for id := range g.Groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].DVDID() < ids[j].DVDID() })
	return ids
}

// ItemCount returns the number of grouped items across all identifiers.
func (g Grouping[T]) ItemCount() int {
	total := 0
	for _, items := range g.Groups {
		total += len(items)
	}
	return total
}
