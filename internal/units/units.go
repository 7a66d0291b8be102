// Package units holds the static conversion and classification tables that
// the dose parser and form/route oracle treat as closed data: weight/volume
// unit factors, diluent aliases, form equivalence sets, form-to-route maps,
// and route synonym groups.
package units

import "strings"

// WeightToMg maps a weight unit token to its conversion factor into mg.
var WeightToMg = map[string]float64{
	"MG":        1,
	"G":         1000,
	"GM":        1000,
	"GRAM":      1000,
	"MCG":       0.001,
	"UG":        0.001,
	"MICROGRAM": 0.001,
	"KG":        1_000_000,
}

// VolumeToMl maps a volume unit token to its conversion factor into mL.
var VolumeToMl = map[string]float64{
	"ML": 1,
	"CC": 1,
	"L":  1000,
}

// DiluentClass is the closed clinical equivalence class of an IV diluent.
// Distinct classes never compare equal, including Water vs NormalSaline and
// LactatedRingers vs AcetatedRingers.
type DiluentClass int

const (
	DiluentUnknown DiluentClass = iota
	DiluentWater
	DiluentNormalSaline
	DiluentHalfSaline
	DiluentLactatedRingers
	DiluentAcetatedRingers
	DiluentOther
)

// Diluent pairs the closed class with the original string, which is only
// meaningful (and only compared) when Class == DiluentOther.
type Diluent struct {
	Class DiluentClass
	Raw   string
}

// Equal implements the clinical rule: distinct classes never match, and two
// DiluentOther values match only if their raw strings match.
func (d Diluent) Equal(o Diluent) bool {
	if d.Class != o.Class {
		return false
	}
	if d.Class == DiluentOther {
		return d.Raw == o.Raw
	}
	return true
}

var diluentAliases = map[string]DiluentClass{
	"WATER":                    DiluentWater,
	"WATER FOR INJECTION":      DiluentWater,
	"STERILE WATER":            DiluentWater,
	"WFI":                      DiluentWater,
	"SODIUM CHLORIDE":          DiluentNormalSaline,
	"NORMAL SALINE":            DiluentNormalSaline,
	"NS":                       DiluentNormalSaline,
	"0.9% SODIUM CHLORIDE":     DiluentNormalSaline,
	"0.9% NACL":                DiluentNormalSaline,
	"0.45% SODIUM CHLORIDE":    DiluentHalfSaline,
	"0.45% NACL":               DiluentHalfSaline,
	"HALF NORMAL SALINE":       DiluentHalfSaline,
	"LACTATED RINGER'S":        DiluentLactatedRingers,
	"LACTATED RINGERS":         DiluentLactatedRingers,
	"LR":                       DiluentLactatedRingers,
	"RL":                       DiluentLactatedRingers,
	"ACETATED RINGER'S":        DiluentAcetatedRingers,
	"ACETATED RINGERS":         DiluentAcetatedRingers,
	"AR":                       DiluentAcetatedRingers,
}

// NormalizeDiluent maps a raw diluent string to its canonical class, falling
// through to DiluentOther (carrying the upper-trimmed raw string) for any
// name not in the exhaustive alias table.
func NormalizeDiluent(raw string) Diluent {
	d := strings.ToUpper(strings.TrimSpace(raw))
	if d == "" {
		return Diluent{Class: DiluentUnknown}
	}
	if class, ok := diluentAliases[d]; ok {
		return Diluent{Class: class}
	}
	return Diluent{Class: DiluentOther, Raw: d}
}

// FormEquivalents is a symmetric equivalence table over dosage forms: if B is
// in FormEquivalents[A], A is also treated as being in FormEquivalents[B].
var FormEquivalents = map[string]map[string]bool{
	"TABLET":     {"CAPLET": true, "CAPSULE": true},
	"CAPLET":     {"TABLET": true, "CAPSULE": true},
	"CAPSULE":    {"TABLET": true, "CAPLET": true},
	"AMPULE":     {"AMPOULE": true, "VIAL": true},
	"AMPOULE":    {"AMPULE": true, "VIAL": true},
	"VIAL":       {"AMPULE": true, "AMPOULE": true},
	"SYRUP":      {"SUSPENSION": true, "SOLUTION": true, "ELIXIR": true},
	"SUSPENSION": {"SYRUP": true, "SOLUTION": true, "ELIXIR": true},
	"SOLUTION":   {"SYRUP": true, "SUSPENSION": true, "ELIXIR": true},
	"ELIXIR":     {"SYRUP": true, "SUSPENSION": true, "SOLUTION": true},
	"CREAM":      {"OINTMENT": true},
	"OINTMENT":   {"CREAM": true},
}

// FormToRoutes maps a dosage form to the routes it can plausibly be
// administered by.
var FormToRoutes = map[string][]string{
	"TABLET":      {"ORAL"},
	"CAPSULE":     {"ORAL"},
	"CAPLET":      {"ORAL"},
	"SYRUP":       {"ORAL"},
	"SUSPENSION":  {"ORAL"},
	"SOLUTION":    {"ORAL", "INTRAVENOUS", "TOPICAL"},
	"ELIXIR":      {"ORAL"},
	"DROPS":       {"ORAL", "OPHTHALMIC", "OTIC", "NASAL"},
	"AMPULE":      {"INTRAVENOUS", "INTRAMUSCULAR", "SUBCUTANEOUS"},
	"AMPOULE":     {"INTRAVENOUS", "INTRAMUSCULAR", "SUBCUTANEOUS"},
	"VIAL":        {"INTRAVENOUS", "INTRAMUSCULAR", "SUBCUTANEOUS"},
	"INJECTION":   {"INTRAVENOUS", "INTRAMUSCULAR", "SUBCUTANEOUS"},
	"BOTTLE":      {"INTRAVENOUS"},
	"NEBULE":      {"INHALATION"},
	"NEBULIZER":   {"INHALATION"},
	"INHALER":     {"INHALATION"},
	"AEROSOL":     {"INHALATION"},
	"MDI":         {"INHALATION"},
	"DPI":         {"INHALATION"},
	"CREAM":       {"TOPICAL"},
	"OINTMENT":    {"TOPICAL"},
	"GEL":         {"TOPICAL"},
	"LOTION":      {"TOPICAL"},
	"GRANULE":     {"ORAL"},
	"POWDER":      {"ORAL"},
	"SACHET":      {"ORAL"},
	"SUPPOSITORY": {"RECTAL", "VAGINAL"},
}

// RouteSynonymGroups are the closed route-equivalence groups used by both
// the form/route oracle and the standalone route comparison. A route is
// transitively compatible with every other route in any group it appears in.
var RouteSynonymGroups = []map[string]bool{
	{"ORAL": true, "PO": true, "BY MOUTH": true},
	{"PARENTERAL": true, "INTRAVENOUS": true, "IV": true, "INTRAMUSCULAR": true, "IM": true, "SUBCUTANEOUS": true, "SC": true, "SQ": true},
	{"INTRAVENOUS": true, "IV": true, "PARENTERAL": true},
	{"INTRAMUSCULAR": true, "IM": true, "PARENTERAL": true},
	{"SUBCUTANEOUS": true, "SC": true, "SQ": true, "PARENTERAL": true},
	{"INHALATION": true, "RESPIRATORY": true, "INHALED": true, "NEBULIZATION": true},
	{"TOPICAL": true, "EXTERNAL": true, "CUTANEOUS": true},
	{"OPHTHALMIC": true, "EYE": true, "OCULAR": true},
	{"OTIC": true, "EAR": true, "AURAL": true},
	{"NASAL": true, "INTRANASAL": true},
	{"RECTAL": true, "PR": true},
	{"VAGINAL": true, "PV": true},
}

// FormCompatibleGroups is the fallback "clearly compatible regardless of
// route" grouping used when either form's route set is empty (no known
// routes, or none left after narrowing by a supplied route).
var FormCompatibleGroups = []map[string]bool{
	{"AMPULE": true, "AMPOULE": true, "VIAL": true, "INJECTION": true, "BOTTLE": true},
	{"SYRUP": true, "SUSPENSION": true, "SOLUTION": true, "ELIXIR": true, "LIQUID": true, "DROPS": true},
	{"TABLET": true, "CAPSULE": true, "CAPLET": true},
	{"NEBULE": true, "NEBULIZER": true, "INHALER": true, "AEROSOL": true, "MDI": true, "DPI": true},
	{"CREAM": true, "OINTMENT": true, "GEL": true, "LOTION": true},
	{"GRANULE": true, "POWDER": true, "SACHET": true},
}

// GarbageTokens are generic-string fragments that never represent an actual
// generic name and are dropped during extraction.
var GarbageTokens = map[string]bool{
	"GENERIC": true, "UNSPECIFIED": true, "N/A": true, "NA": true, "NONE": true,
	"UNKNOWN": true, "TBD": true, "VARIOUS": true, "MISC": true, "MISCELLANEOUS": true,
	"OTHERS": true, "OTHER": true, "-": true, "--": true, "BRAND": true, "GENERIC DRUG": true,
}

// DrugbankComponentSynonyms is a substring replace table correcting known
// upstream-tagger errors in generic strings before extraction.
var DrugbankComponentSynonyms = map[string]string{
	"HYDROCHLOROTHIAZIDE HCTZ": "HYDROCHLOROTHIAZIDE",
	"ACETAMINOPHEN":            "PARACETAMOL",
	"EPINEPHRINE HCL":          "EPINEPHRINE",
	"SALBUTAMOL SULFATE":       "SALBUTAMOL",
	"ALBUTEROL":                "SALBUTAMOL",
}

// AllDrugSynonyms seeds the bidirectional synonym graph (C3). Keys and
// values are both canonical upper-trimmed generic names.
var AllDrugSynonyms = map[string]string{
	"PARACETAMOL":        "ACETAMINOPHEN",
	"ACETAMINOPHEN":       "PARACETAMOL",
	"SALBUTAMOL":          "ALBUTEROL",
	"ALBUTEROL":           "SALBUTAMOL",
	"ADRENALINE":          "EPINEPHRINE",
	"EPINEPHRINE":         "ADRENALINE",
	"FRUSEMIDE":           "FUROSEMIDE",
	"FUROSEMIDE":          "FRUSEMIDE",
	"GLYCERYL TRINITRATE": "NITROGLYCERIN",
	"NITROGLYCERIN":       "GLYCERYL TRINITRATE",
	"MEROPENEM":           "MEROPENEM TRIHYDRATE",
	"VITAMIN C":           "ASCORBIC ACID",
	"ASCORBIC ACID":       "VITAMIN C",
	"VITAMIN B1":          "THIAMINE",
	"THIAMINE":            "VITAMIN B1",
	"VITAMIN B6":          "PYRIDOXINE",
	"PYRIDOXINE":          "VITAMIN B6",
	"VITAMIN B12":         "CYANOCOBALAMIN",
	"CYANOCOBALAMIN":      "VITAMIN B12",
}
