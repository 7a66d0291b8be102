// Package candidate builds and queries the Annex F candidate index: the
// generic-name -> drug-code lookup the matcher drives every ESOA row
// through.
package candidate

import (
	"regexp"
	"strings"

	"github.com/carlosresu/drg-esoa-matcher/internal/dose"
	"github.com/carlosresu/drg-esoa-matcher/internal/normalize"
	"github.com/carlosresu/drg-esoa-matcher/internal/synonym"
	"github.com/carlosresu/drg-esoa-matcher/internal/units"
)

// Annex is one row of the Annex F reference table, already column-projected
// out of whatever storage loaded it.
type Annex struct {
	DrugCode           string
	ATCCode            string
	DrugbankID         string
	MatchedGenericName string
	GenericName        string
	Description        string
	Form               string
	Route              string
	Dose               dose.Input
}

// Candidate is the indexed, match-ready projection of an Annex row: its dose
// key is pre-parsed once at index-build time, never per ESOA row.
type Candidate struct {
	DrugCode    string
	ATCCode     string
	DrugbankID  string
	GenericName string
	DoseKey     dose.Key
	Form        string
	Route       string
	Description string
}

// Index is the generic-name -> []Candidate lookup built once per matcher
// run and read concurrently by every worker thereafter.
type Index struct {
	byGeneric map[string][]Candidate
}

var rePureDoseGeneric = regexp.MustCompile(`(?i)^\d+(\.\d+)?\s*(MG|ML|MCG|G|IU|%|CC|L)$`)

// Build indexes every Annex row under its generic name, its parenthetical-
// stripped base name, and both names' static synonyms, so a lookup by any
// variant reaches the same candidates. Rows with no drug code or no usable
// generic name are skipped.
func Build(rows []Annex) *Index {
	idx := &Index{byGeneric: make(map[string][]Candidate)}
	for _, row := range rows {
		if row.DrugCode == "" {
			continue
		}
		generics := cleanAnnexGenerics(row.MatchedGenericName, row.GenericName)
		if len(generics) == 0 {
			continue
		}

		cand := Candidate{
			DrugCode:    row.DrugCode,
			ATCCode:     normalize.ForMatch(row.ATCCode),
			DrugbankID:  strings.TrimSpace(row.DrugbankID),
			GenericName: generics[0],
			DoseKey:     dose.BuildKey(row.Dose),
			Form:        normalize.ForMatch(row.Form),
			Route:       normalize.ForMatch(row.Route),
			Description: row.Description,
		}

		for _, generic := range generics {
			idx.add(generic, cand)

			base := normalize.StripParenthetical(generic)
			if base != "" && base != generic {
				idx.add(base, cand)
			}

			if syn, ok := units.AllDrugSynonyms[generic]; ok {
				idx.add(syn, cand)
			}
			if base != "" {
				if syn, ok := units.AllDrugSynonyms[base]; ok {
					idx.add(syn, cand)
				}
			}
		}
	}
	return idx
}

func (idx *Index) add(generic string, cand Candidate) {
	idx.byGeneric[generic] = append(idx.byGeneric[generic], cand)
}

// Lookup returns every candidate reachable through any of the given graph's
// variants of generic, deduplicated by drug code and in first-seen order.
func Lookup(idx *Index, graph *synonym.Graph, generics []string) []Candidate {
	var all []Candidate
	for _, generic := range generics {
		for _, variant := range graph.Variants(generic) {
			all = append(all, idx.byGeneric[variant]...)
		}
	}
	return dedupeByDrugCode(all)
}

func dedupeByDrugCode(cands []Candidate) []Candidate {
	seen := make(map[string]bool, len(cands))
	var out []Candidate
	for _, c := range cands {
		if seen[c.DrugCode] {
			continue
		}
		seen[c.DrugCode] = true
		out = append(out, c)
	}
	return out
}

// cleanAnnexGenerics mirrors the Annex F side of the reference index build:
// split on '|', drop garbage tokens, short fragments, pure dose fragments
// and bare numbers.
func cleanAnnexGenerics(matchedGenericName, genericName string) []string {
	raw := matchedGenericName
	if strings.TrimSpace(raw) == "" {
		raw = genericName
	}
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, "|") {
		p := normalize.ForMatch(part)
		if p == "" || units.GarbageTokens[p] || len(p) <= 2 {
			continue
		}
		if rePureDoseGeneric.MatchString(p) {
			continue
		}
		if isAllDigitsOrDot(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isAllDigitsOrDot(s string) bool {
	stripped := strings.ReplaceAll(s, ".", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
