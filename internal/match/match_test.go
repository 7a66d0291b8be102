package match

import (
	"testing"

	"github.com/carlosresu/drg-esoa-matcher/internal/candidate"
	"github.com/carlosresu/drg-esoa-matcher/internal/dose"
	"github.com/carlosresu/drg-esoa-matcher/internal/synonym"
)

func mg(v float64) *float64 { return &v }

func buildIndex(rows []candidate.Annex) (*candidate.Index, *synonym.Graph) {
	return candidate.Build(rows), synonym.New()
}

func TestDriveNoGenericWhenColumnsEmpty(t *testing.T) {
	idx, g := buildIndex(nil)
	res := Drive(EsoaRow{}, idx, g)
	if res.Reason != ReasonNoGeneric {
		t.Fatalf("expected %s, got %s", ReasonNoGeneric, res.Reason)
	}
}

func TestDriveGenericNotInAnnex(t *testing.T) {
	idx, g := buildIndex([]candidate.Annex{
		{DrugCode: "D001", GenericName: "PARACETAMOL", Dose: dose.Input{DrugAmountMg: mg(500)}},
	})
	res := Drive(EsoaRow{GenericName: "IBUPROFEN", Dose: dose.Input{DrugAmountMg: mg(500)}}, idx, g)
	if res.Reason != ReasonGenericNotInAnnex {
		t.Fatalf("expected %s, got %s", ReasonGenericNotInAnnex, res.Reason)
	}
}

func TestDriveNoDoseInEsoa(t *testing.T) {
	idx, g := buildIndex([]candidate.Annex{
		{DrugCode: "D001", GenericName: "PARACETAMOL", Dose: dose.Input{DrugAmountMg: mg(500)}},
	})
	res := Drive(EsoaRow{GenericName: "PARACETAMOL"}, idx, g)
	if res.Reason != ReasonNoDoseInEsoa {
		t.Fatalf("expected %s, got %s", ReasonNoDoseInEsoa, res.Reason)
	}
}

func TestDriveMatchedPerfect(t *testing.T) {
	idx, g := buildIndex([]candidate.Annex{
		{DrugCode: "D001", GenericName: "PARACETAMOL", Form: "TABLET", Route: "ORAL", Dose: dose.Input{DrugAmountMg: mg(500)}},
	})
	res := Drive(EsoaRow{
		GenericName: "PARACETAMOL",
		Form:        "TABLET",
		Route:       "ORAL",
		Dose:        dose.Input{DrugAmountMg: mg(500)},
	}, idx, g)
	if res.Reason != ReasonMatchedPerfect {
		t.Fatalf("expected %s, got %s", ReasonMatchedPerfect, res.Reason)
	}
	if res.DrugCode == nil || *res.DrugCode != "D001" {
		t.Fatalf("expected drug code D001, got %+v", res.DrugCode)
	}
}

func TestDriveDoseMismatch(t *testing.T) {
	idx, g := buildIndex([]candidate.Annex{
		{DrugCode: "D001", GenericName: "PARACETAMOL", Form: "TABLET", Route: "ORAL", Dose: dose.Input{DrugAmountMg: mg(500)}},
	})
	res := Drive(EsoaRow{
		GenericName: "PARACETAMOL",
		Form:        "TABLET",
		Route:       "ORAL",
		Dose:        dose.Input{DrugAmountMg: mg(250)},
	}, idx, g)
	if res.Reason != ReasonDoseMismatch {
		t.Fatalf("expected %s, got %s", ReasonDoseMismatch, res.Reason)
	}
}

func TestDriveFormMismatch(t *testing.T) {
	idx, g := buildIndex([]candidate.Annex{
		{DrugCode: "D001", GenericName: "PARACETAMOL", Form: "SUPPOSITORY", Route: "RECTAL", Dose: dose.Input{DrugAmountMg: mg(500)}},
	})
	res := Drive(EsoaRow{
		GenericName: "PARACETAMOL",
		Form:        "NEBULE",
		Route:       "INHALATION",
		Dose:        dose.Input{DrugAmountMg: mg(500)},
	}, idx, g)
	if res.Reason != ReasonFormMismatch {
		t.Fatalf("expected %s, got %s", ReasonFormMismatch, res.Reason)
	}
}

func TestDriveSaltFreeToVary(t *testing.T) {
	idx, g := buildIndex([]candidate.Annex{
		{DrugCode: "D001", GenericName: "AMOXICILLIN SODIUM", Form: "TABLET", Route: "ORAL", Dose: dose.Input{DrugAmountMg: mg(500)}},
	})
	res := Drive(EsoaRow{
		GenericName: "AMOXICILLIN SODIUM",
		Form:        "TABLET",
		Route:       "ORAL",
		Dose:        dose.Input{DrugAmountMg: mg(500)},
		SaltDetails: "TRIHYDRATE",
	}, idx, g)
	if res.Reason != ReasonMatchedPerfect {
		t.Fatalf("salt details should never block a match, expected %s, got %s", ReasonMatchedPerfect, res.Reason)
	}
}

func TestDriveTieBreaksByDetailsRank(t *testing.T) {
	idx, g := buildIndex([]candidate.Annex{
		{DrugCode: "D001", GenericName: "PARACETAMOL", Form: "TABLET", Route: "ORAL", Description: "PARACETAMOL TABLET", Dose: dose.Input{DrugAmountMg: mg(500)}},
		{DrugCode: "D002", GenericName: "PARACETAMOL", Form: "TABLET", Route: "ORAL", Description: "PARACETAMOL TABLET EXTENDED RELEASE", Dose: dose.Input{DrugAmountMg: mg(500)}},
	})
	res := Drive(EsoaRow{
		GenericName:    "PARACETAMOL",
		Form:           "TABLET",
		Route:          "ORAL",
		Dose:           dose.Input{DrugAmountMg: mg(500)},
		ReleaseDetails: "EXTENDED RELEASE",
	}, idx, g)
	if res.Reason != ReasonMatchedPerfect {
		t.Fatalf("expected %s, got %s", ReasonMatchedPerfect, res.Reason)
	}
	if res.DrugCode == nil || *res.DrugCode != "D002" {
		t.Fatalf("expected the candidate whose description matches release_details to rank first, got %+v", res.DrugCode)
	}
}
