// Package match implements the matching driver (C8): given an ESOA claim
// row and the Annex F candidate index, decide either a single matched
// drug_code or a specific reason why none was found, with generic + dose +
// form/route all required to agree and salt free to vary.
package match

import (
	"sort"
	"strings"

	"github.com/carlosresu/drg-esoa-matcher/internal/candidate"
	"github.com/carlosresu/drg-esoa-matcher/internal/dose"
	"github.com/carlosresu/drg-esoa-matcher/internal/form"
	"github.com/carlosresu/drg-esoa-matcher/internal/normalize"
	"github.com/carlosresu/drg-esoa-matcher/internal/synonym"
)

// EsoaRow is a single claim line awaiting a drug-code decision.
type EsoaRow struct {
	MatchedGenericName string     `json:"matched_generic_name,omitempty"`
	GenericName        string     `json:"generic_name,omitempty"`
	Description        string     `json:"description,omitempty"`
	Form               string     `json:"form,omitempty"`
	Route              string     `json:"route,omitempty"`
	Dose               dose.Input `json:"dose,omitempty"`

	ReleaseDetails    string `json:"release_details,omitempty"`
	TypeDetails       string `json:"type_details,omitempty"`
	FormDetails       string `json:"form_details,omitempty"`
	IndicationDetails string `json:"indication_details,omitempty"`
	SaltDetails       string `json:"salt_details,omitempty"`
	AliasDetails      string `json:"alias_details,omitempty"`
	IVDiluentAmount   string `json:"iv_diluent_amount,omitempty"`
}

// Result is the outcome of driving one EsoaRow through the index: either a
// resolved drug code with reason "matched_perfect", or a nil code with one
// of the "no_perfect_match:..." / "no_generic" / "generic_not_in_annex"
// reasons.
type Result struct {
	DrugCode *string
	Reason   string
}

const (
	ReasonNoGeneric          = "no_generic"
	ReasonGenericNotInAnnex  = "generic_not_in_annex"
	ReasonNoDoseInEsoa       = "no_perfect_match:no_dose_in_esoa"
	ReasonDoseMismatch       = "no_perfect_match:dose_mismatch"
	ReasonFormMismatch       = "no_perfect_match:form_mismatch"
	ReasonRouteMismatch      = "no_perfect_match:route_mismatch"
	ReasonCombinedMismatch   = "no_perfect_match:combined_mismatch"
	ReasonMatchedPerfect     = "matched_perfect"
)

// Drive runs the full matching decision for one row: extract generics,
// look up candidates across every synonym variant, filter to candidates
// whose dose/form/route all agree, and tie-break any surviving duplicates.
func Drive(row EsoaRow, idx *candidate.Index, graph *synonym.Graph) Result {
	genericRaw := row.MatchedGenericName
	if strings.TrimSpace(genericRaw) == "" {
		genericRaw = row.GenericName
	}
	genericRaw = normalize.ApplyComponentSynonymFixes(genericRaw)

	generics := normalize.ExtractCleanGenerics(genericRaw)
	if len(generics) == 0 {
		generics = normalize.ExtractGenericsFromDescription(row.Description)
	}
	if len(generics) == 0 {
		return Result{Reason: ReasonNoGeneric}
	}

	esoaDoseKey := dose.BuildKey(row.Dose)
	esoaForm := normalize.ForMatch(row.Form)
	esoaRoute := normalize.ForMatch(row.Route)

	// no_dose_in_esoa is checked before the candidate lookup, so a row with
	// no usable dose reports that reason even when its generic is also
	// absent from the index.
	if esoaDoseKey == nil {
		return Result{Reason: ReasonNoDoseInEsoa}
	}

	candidates := candidate.Lookup(idx, graph, generics)
	if len(candidates) == 0 {
		return Result{Reason: ReasonGenericNotInAnnex}
	}

	var doseMatchCount, formMatchCount, routeMatchCount int
	var perfect []candidate.Candidate
	for _, c := range candidates {
		doseOK := dose.Match(c.DoseKey, esoaDoseKey)
		formOK := form.Compatible(c.Form, esoaForm, c.Route, esoaRoute)
		routeOK := form.RouteMatches(c.Route, esoaRoute)

		if doseOK {
			doseMatchCount++
		}
		if formOK {
			formMatchCount++
		}
		if routeOK {
			routeMatchCount++
		}
		if doseOK && formOK && routeOK {
			perfect = append(perfect, c)
		}
	}

	if len(perfect) > 0 {
		if len(perfect) > 1 {
			sort.SliceStable(perfect, func(i, j int) bool {
				return rank(perfect[i], row) < rank(perfect[j], row)
			})
		}
		code := perfect[0].DrugCode
		return Result{DrugCode: &code, Reason: ReasonMatchedPerfect}
	}

	switch {
	case doseMatchCount == 0:
		return Result{Reason: ReasonDoseMismatch}
	case formMatchCount == 0:
		return Result{Reason: ReasonFormMismatch}
	case routeMatchCount == 0:
		return Result{Reason: ReasonRouteMismatch}
	default:
		return Result{Reason: ReasonCombinedMismatch}
	}
}

// rank scores a candidate for tie-breaking using the *_details qualifier
// columns: lower is better. Mirrors rank_candidate_for_drug_code's fixed
// point weights exactly.
func rank(c candidate.Candidate, row EsoaRow) int {
	score := 0
	desc := strings.ToUpper(c.Description)

	if d := strings.ToUpper(strings.TrimSpace(row.ReleaseDetails)); d != "" && strings.Contains(desc, d) {
		score -= 10
	}
	if d := strings.ToUpper(strings.TrimSpace(row.TypeDetails)); d != "" && strings.Contains(desc, d) {
		score -= 5
	}
	if d := strings.ToUpper(strings.TrimSpace(row.FormDetails)); d != "" && strings.Contains(desc, d) {
		score -= 5
	}
	if d := strings.ToUpper(strings.TrimSpace(row.IndicationDetails)); d != "" && strings.Contains(desc, d) {
		score -= 5
	}
	if d := strings.ToUpper(strings.TrimSpace(row.SaltDetails)); d != "" && strings.Contains(desc, d) {
		score -= 3
	}
	if d := strings.ToUpper(strings.TrimSpace(row.AliasDetails)); d != "" && strings.Contains(desc, d) {
		score -= 2
	}
	if d := strings.ToUpper(strings.TrimSpace(row.Dose.IVDiluentType)); d != "" && strings.Contains(desc, d) {
		score -= 5
	}
	if d := strings.ToUpper(strings.TrimSpace(row.IVDiluentAmount)); d != "" && strings.Contains(desc, d) {
		score -= 3
	}
	return score
}
