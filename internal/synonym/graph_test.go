package synonym

import "testing"

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestVariantsIncludesSelf(t *testing.T) {
	g := New()
	got := g.Variants("METFORMIN")
	if len(got) != 1 || got[0] != "METFORMIN" {
		t.Fatalf("expected a name with no synonyms to return only itself, got %v", got)
	}
}

func TestVariantsIsBidirectional(t *testing.T) {
	g := New()
	forward := g.Variants("PARACETAMOL")
	if !contains(forward, "ACETAMINOPHEN") {
		t.Fatalf("expected PARACETAMOL to reach ACETAMINOPHEN, got %v", forward)
	}
	backward := g.Variants("ACETAMINOPHEN")
	if !contains(backward, "PARACETAMOL") {
		t.Fatalf("expected ACETAMINOPHEN to reach PARACETAMOL, got %v", backward)
	}
}

func TestAddSynonymPairsExtendsGraph(t *testing.T) {
	g := New()
	g.AddSynonymPairs([][2]string{{"AMOXICILLIN", "AMOXYCILLIN"}})
	if !contains(g.Variants("AMOXICILLIN"), "AMOXYCILLIN") {
		t.Fatal("expected runtime-added pair to be reachable")
	}
	if !contains(g.Variants("AMOXYCILLIN"), "AMOXICILLIN") {
		t.Fatal("expected runtime-added pair to be reachable in reverse")
	}
}

func TestAddEdgeIgnoresEmptyAndSelfPairs(t *testing.T) {
	g := New()
	g.AddSynonymPairs([][2]string{{"", "SOMETHING"}, {"SOMETHING", ""}, {"SAME", "SAME"}})
	if len(g.Variants("SOMETHING")) != 1 {
		t.Fatalf("expected empty-string edges to be ignored, got %v", g.Variants("SOMETHING"))
	}
	if len(g.Variants("SAME")) != 1 {
		t.Fatalf("expected self-edge to be ignored, got %v", g.Variants("SAME"))
	}
}

func TestVariantsIsOneHopOnly(t *testing.T) {
	g := New()
	g.AddSynonymPairs([][2]string{{"A", "B"}, {"B", "C"}})
	got := g.Variants("A")
	if contains(got, "C") {
		t.Fatalf("expected Variants to stay one-hop and not transitively reach C, got %v", got)
	}
	if !contains(got, "B") {
		t.Fatalf("expected A to directly reach B, got %v", got)
	}
}
