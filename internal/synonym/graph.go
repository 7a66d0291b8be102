// Package synonym builds a bidirectional drug-name synonym graph so that
// matching a generic by any of its known aliases reaches the same
// candidates, without the O(|E|) reverse scan the matcher's name-variant
// lookup would otherwise need per call.
package synonym

import (
	"sort"

	"github.com/carlosresu/drg-esoa-matcher/internal/units"
)

// Graph is a precomputed forward+reverse adjacency map over canonical
// (upper-trimmed) generic names. Building it once and querying Variants
// afterward keeps per-row lookups O(1) amortized instead of O(|edges|).
type Graph struct {
	adjacency map[string]map[string]bool
}

// New builds a Graph seeded from the static cross-reference table
// (units.AllDrugSynonyms) merged with any generics-master synonym pairs
// supplied by the caller. Both directions of every pair are added so
// Variants never needs to scan the table.
func New(extraPairs ...[2]string) *Graph {
	g := &Graph{adjacency: make(map[string]map[string]bool)}
	for a, b := range units.AllDrugSynonyms {
		g.addEdge(a, b)
	}
	for _, pair := range extraPairs {
		g.addEdge(pair[0], pair[1])
	}
	return g
}

func (g *Graph) addEdge(a, b string) {
	if a == "" || b == "" || a == b {
		return
	}
	if g.adjacency[a] == nil {
		g.adjacency[a] = make(map[string]bool)
	}
	if g.adjacency[b] == nil {
		g.adjacency[b] = make(map[string]bool)
	}
	g.adjacency[a][b] = true
	g.adjacency[b][a] = true
}

// AddSynonymPairs augments the graph after construction, e.g. with rows
// loaded from a generics_master table.
func (g *Graph) AddSynonymPairs(pairs [][2]string) {
	for _, pair := range pairs {
		g.addEdge(pair[0], pair[1])
	}
}

// Variants returns name plus every direct synonym of name (one hop), as the
// reference matcher's get_all_name_variants does — it does not transitively
// follow chains of synonyms. Synonyms are sorted so that callers folding
// Variants into a dedup-by-first-seen order (candidate.Lookup) get the same
// result on every run, not whatever order Go's map iteration happens to pick.
func (g *Graph) Variants(name string) []string {
	syns := make([]string, 0, len(g.adjacency[name]))
	for syn := range g.adjacency[name] {
		syns = append(syns, syn)
	}
	sort.Strings(syns)

	variants := make([]string, 0, len(syns)+1)
	variants = append(variants, name)
	variants = append(variants, syns...)
	return variants
}
