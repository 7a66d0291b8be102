// Package normalize extracts and cleans generic drug names out of the
// pipe-separated "matched_generic_name" column and, failing that, out of the
// free-text drug description, the way the matcher's lookup keys are built.
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/carlosresu/drg-esoa-matcher/internal/units"
)

var (
	rePureDoseToken = regexp.MustCompile(`(?i)^\d+(\.\d+)?\s*(MG|ML|MCG|G|IU|%|CC|L)$`)
	reDescSplit     = regexp.MustCompile(`[+/]|\s+AND\s+|\s+\+\s+`)
	reDescLead      = regexp.MustCompile(`^([A-Z][A-Z\s\-]+?)(?:\s*\d|\s*\(|$)`)
	reSpaces        = regexp.MustCompile(`\s+`)
)

// ForMatch upper-cases, diacritic-folds, and trims s, treating an
// empty/whitespace-only string as the canonical empty value used throughout
// the matcher's comparisons, e.g. "Paracétamol " -> "PARACETAMOL".
func ForMatch(s string) string {
	return strings.ToUpper(strings.TrimSpace(StripDiacritics(s)))
}

// ExtractCleanGenerics splits a pipe-separated generic-name string,
// filtering out garbage tokens, pure dose fragments, bare numbers, and
// anything two characters or shorter, and deduplicates while preserving
// first-seen order.
func ExtractCleanGenerics(genericStr string) []string {
	if strings.TrimSpace(genericStr) == "" {
		return nil
	}
	seen := make(map[string]bool)
	var clean []string
	for _, raw := range strings.Split(genericStr, "|") {
		p := ForMatch(raw)
		if p == "" || units.GarbageTokens[p] || seen[p] || len(p) <= 2 {
			continue
		}
		if rePureDoseToken.MatchString(p) {
			continue
		}
		if isAllDigits(strings.ReplaceAll(p, ".", "")) {
			continue
		}
		seen[p] = true
		clean = append(clean, p)
	}
	return clean
}

// ExtractGenericsFromDescription is the fallback used when the structured
// generic-name column is empty: it pulls the leading alphabetic run out of
// each "+"/"/"/"AND"-separated segment of a free-text drug description.
func ExtractGenericsFromDescription(desc string) []string {
	if strings.TrimSpace(desc) == "" {
		return nil
	}
	upper := strings.ToUpper(StripDiacritics(desc))
	var generics []string
	for _, part := range reDescSplit.Split(upper, -1) {
		m := reDescLead.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		generic := reSpaces.ReplaceAllString(strings.TrimSpace(m[1]), " ")
		if generic != "" && len(generic) > 2 && !units.GarbageTokens[generic] {
			generics = append(generics, generic)
		}
	}
	return generics
}

// ApplyComponentSynonymFixes corrects known upstream-tagger mistakes in a
// raw generic-name string before extraction (e.g. ALBUTEROL tagged where the
// Annex F side always says SALBUTAMOL). Replacements are applied in a fixed
// (sorted) key order so the result stays deterministic if the table grows
// entries whose "wrong" substrings overlap.
func ApplyComponentSynonymFixes(genericRaw string) string {
	upper := strings.ToUpper(StripDiacritics(genericRaw))

	wrongs := make([]string, 0, len(units.DrugbankComponentSynonyms))
	for wrong := range units.DrugbankComponentSynonyms {
		wrongs = append(wrongs, wrong)
	}
	sort.Strings(wrongs)

	for _, wrong := range wrongs {
		if strings.Contains(upper, wrong) {
			upper = strings.ReplaceAll(upper, wrong, units.DrugbankComponentSynonyms[wrong])
		}
	}
	return upper
}

// StripDiacritics removes combining marks via Unicode NFD decomposition,
// e.g. "PARACÉTAMOL" -> "PARACETAMOL".
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// StripParenthetical removes every parenthesized qualifier (and any
// unclosed trailing one) from a generic name, used to additionally index Annex F
// candidates under their base name (e.g. "ASCORBIC ACID (VITAMIN C)" also
// indexes as "ASCORBIC ACID").
func StripParenthetical(generic string) string {
	var b strings.Builder
	depth := 0
	for _, r := range generic {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(reSpaces.ReplaceAllString(b.String(), " "))
}
