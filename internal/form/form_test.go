package form

import "testing"

func TestCompatibleMissingFormAlwaysCompatible(t *testing.T) {
	if !Compatible("", "TABLET", "", "") {
		t.Fatal("a missing candidate form should always be compatible")
	}
	if !Compatible("TABLET", "", "", "") {
		t.Fatal("a missing esoa form should always be compatible")
	}
}

func TestCompatibleExactMatch(t *testing.T) {
	if !Compatible("TABLET", "tablet", "", "") {
		t.Fatal("identical forms (case-insensitive) should be compatible")
	}
}

func TestCompatibleFormEquivalents(t *testing.T) {
	if !Compatible("TABLET", "CAPSULE", "", "") {
		t.Fatal("TABLET and CAPSULE are declared equivalent forms")
	}
	if !Compatible("AMPULE", "VIAL", "", "") {
		t.Fatal("AMPULE and VIAL are declared equivalent forms")
	}
}

func TestCompatibleIsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"TABLET", "CAPSULE"},
		{"SYRUP", "SOLUTION"},
		{"VIAL", "NEBULE"},
		{"CREAM", "TABLET"},
	}
	for _, p := range pairs {
		forward := Compatible(p[0], p[1], "", "")
		backward := Compatible(p[1], p[0], "", "")
		if forward != backward {
			t.Fatalf("Compatible not symmetric for %v: %v vs %v", p, forward, backward)
		}
	}
}

func TestCompatibleByRouteIntersection(t *testing.T) {
	if !Compatible("VIAL", "AMPULE", "IV", "INTRAVENOUS") {
		t.Fatal("VIAL and AMPULE already equivalent, but also share a route via synonym groups")
	}
	if !Compatible("SOLUTION", "DROPS", "ORAL", "ORAL") {
		t.Fatal("both forms admit an oral route in common, should be compatible")
	}
}

func TestCompatibleRouteMismatchRejectsDistinctForms(t *testing.T) {
	if Compatible("NEBULE", "SUPPOSITORY", "", "") {
		t.Fatal("inhalation-only and rectal/vaginal-only forms share no route and no equivalence group")
	}
}

func TestCompatibleFallsBackToFormCompatibleGroups(t *testing.T) {
	if !Compatible("LIQUID", "SYRUP", "", "") {
		t.Fatal("LIQUID has no known routes, so it must fall back to the FormCompatibleGroups grouping with SYRUP")
	}
}

func TestRouteMatchesMissingRouteAlwaysCompatible(t *testing.T) {
	if !RouteMatches("", "IV") {
		t.Fatal("a missing candidate route should always be compatible")
	}
	if !RouteMatches("ORAL", "") {
		t.Fatal("a missing esoa route should always be compatible")
	}
}

func TestRouteMatchesExact(t *testing.T) {
	if !RouteMatches("oral", "ORAL") {
		t.Fatal("identical routes (case-insensitive) should match")
	}
}

func TestRouteMatchesSynonymGroup(t *testing.T) {
	if !RouteMatches("IV", "INTRAVENOUS") {
		t.Fatal("IV and INTRAVENOUS are in the same synonym group")
	}
	if !RouteMatches("PO", "ORAL") {
		t.Fatal("PO and ORAL are in the same synonym group")
	}
}

func TestRouteMatchesIsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"IV", "INTRAVENOUS"},
		{"SC", "SQ"},
		{"ORAL", "IV"},
		{"NASAL", "OTIC"},
	}
	for _, p := range pairs {
		forward := RouteMatches(p[0], p[1])
		backward := RouteMatches(p[1], p[0])
		if forward != backward {
			t.Fatalf("RouteMatches not symmetric for %v: %v vs %v", p, forward, backward)
		}
	}
}

func TestRouteMatchesDistinctGroupsDoNotMatch(t *testing.T) {
	if RouteMatches("ORAL", "RECTAL") {
		t.Fatal("ORAL and RECTAL are in disjoint route groups")
	}
}
