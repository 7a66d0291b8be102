package normalize

import "testing"

func TestForMatchTrimsAndUppercases(t *testing.T) {
	if got := ForMatch("  paracetamol  "); got != "PARACETAMOL" {
		t.Fatalf("expected PARACETAMOL, got %q", got)
	}
	if got := ForMatch(""); got != "" {
		t.Fatalf("expected empty string to stay empty, got %q", got)
	}
}

func TestExtractCleanGenericsFiltersGarbageAndDose(t *testing.T) {
	got := ExtractCleanGenerics("PARACETAMOL|500MG|GENERIC|NA|PARACETAMOL")
	if len(got) != 1 || got[0] != "PARACETAMOL" {
		t.Fatalf("expected only PARACETAMOL to survive, got %v", got)
	}
}

func TestExtractCleanGenericsDropsShortAndNumericTokens(t *testing.T) {
	got := ExtractCleanGenerics("AB|123|45.6|IBUPROFEN")
	if len(got) != 1 || got[0] != "IBUPROFEN" {
		t.Fatalf("expected only IBUPROFEN to survive, got %v", got)
	}
}

func TestExtractCleanGenericsEmptyInput(t *testing.T) {
	if got := ExtractCleanGenerics("   "); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}

func TestExtractGenericsFromDescriptionSplitsOnPlusAndAnd(t *testing.T) {
	got := ExtractGenericsFromDescription("AMOXICILLIN 500MG + CLAVULANIC ACID 125MG")
	if len(got) != 2 || got[0] != "AMOXICILLIN" || got[1] != "CLAVULANIC ACID" {
		t.Fatalf("expected [AMOXICILLIN CLAVULANIC ACID], got %v", got)
	}
}

func TestExtractGenericsFromDescriptionAndSeparator(t *testing.T) {
	got := ExtractGenericsFromDescription("PARACETAMOL AND CAFFEINE TABLET")
	if len(got) != 2 || got[0] != "PARACETAMOL" || got[1] != "CAFFEINE TABLET" {
		t.Fatalf("expected two segments split on AND, got %v", got)
	}
}

func TestApplyComponentSynonymFixesAlbuterolToSalbutamol(t *testing.T) {
	got := ApplyComponentSynonymFixes("albuterol sulfate inhaler")
	if got != "SALBUTAMOL INHALER" {
		t.Fatalf("expected ALBUTEROL to be rewritten to SALBUTAMOL, got %q", got)
	}
}

func TestStripDiacriticsRemovesCombiningMarks(t *testing.T) {
	got := StripDiacritics("PARACÉTAMOL")
	if got != "PARACETAMOL" {
		t.Fatalf("expected diacritics stripped, got %q", got)
	}
}

func TestStripParentheticalRemovesQualifier(t *testing.T) {
	got := StripParenthetical("ASCORBIC ACID (VITAMIN C)")
	if got != "ASCORBIC ACID" {
		t.Fatalf("expected parenthetical qualifier removed, got %q", got)
	}
}

func TestStripParentheticalNoParenthesesIsUnchanged(t *testing.T) {
	got := StripParenthetical("METFORMIN")
	if got != "METFORMIN" {
		t.Fatalf("expected unchanged string, got %q", got)
	}
}

func TestStripParentheticalUnbalancedDoesNotPanic(t *testing.T) {
	got := StripParenthetical("METFORMIN (HCL")
	if got != "METFORMIN" {
		t.Fatalf("expected trailing unbalanced paren content dropped, got %q", got)
	}
}
