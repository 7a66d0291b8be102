package dose

import (
	"regexp"
	"strings"

	"github.com/carlosresu/drg-esoa-matcher/internal/units"
)

// Input bundles the structured dose columns and free-text fallbacks that
// BuildKey needs, mirroring the fields get_dose_key reads off an ESOA/Annex F
// row.
type Input struct {
	DrugAmountMg         *float64 `json:"drug_amount_mg,omitempty"`
	ConcentrationMgPerML *float64 `json:"concentration_mg_per_ml,omitempty"`
	IVDiluentType        string   `json:"iv_diluent_type,omitempty"`
	TotalVolumeML        *float64 `json:"total_volume_ml,omitempty"`
	Dose                 string   `json:"dose,omitempty"`
	Description          string   `json:"description,omitempty"`
	MatchedGenericName   string   `json:"matched_generic_name,omitempty"`
}

var (
	reD5  = regexp.MustCompile(`\bD5\b`)
	reD10 = regexp.MustCompile(`\bD10\b`)
)

// BuildKey reduces a row's dose-related columns to a Key, falling back to
// parsing Dose text and finally to description-based NSS/D5/D10 inference
// when only a bare volume is known. Returns nil when no dose information can
// be recovered at all.
func BuildKey(in Input) Key {
	if in.IVDiluentType != "" {
		return IVKey{
			ConcentrationMgPerML: in.ConcentrationMgPerML,
			Diluent:              units.NormalizeDiluent(in.IVDiluentType),
			TotalVolumeML:        in.TotalVolumeML,
		}
	}

	if in.DrugAmountMg != nil {
		if in.ConcentrationMgPerML != nil {
			return ConcKey{
				ConcentrationPerML: *in.ConcentrationMgPerML,
				VolumeML:           in.TotalVolumeML,
				Unit:               ConcUnitMg,
			}
		}
		return MgKey{TotalMg: *in.DrugAmountMg}
	}

	parsed := ParseDoseString(in.Dose)

	if parsed.ConcentrationPerML != nil {
		return ConcKey{
			ConcentrationPerML: *parsed.ConcentrationPerML,
			VolumeML:           parsed.VolumeML,
			Unit:               ConcUnit(parsed.UnitType),
		}
	}

	if parsed.TotalDoseMg != nil {
		if parsed.UnitType == "iu" {
			return IUKey{TotalIU: *parsed.TotalDoseMg}
		}
		if parsed.UnitType == "combo" {
			return ComboKey{TotalMg: *parsed.TotalDoseMg}
		}
		return MgKey{TotalMg: *parsed.TotalDoseMg}
	}

	if parsed.VolumeML != nil && *parsed.VolumeML > 0 {
		desc := strings.ToUpper(in.Description)
		generic := strings.ToUpper(in.MatchedGenericName)
		hasPercent := strings.Contains(strings.ToUpper(in.Dose), "%")

		isNSS := containsAny(desc, "PNSS", "NSS", "PLAIN NSS", "NORMAL SALINE", "N/S") ||
			(strings.Contains(generic, "SODIUM CHLORIDE") && !strings.Contains(generic, "DEXTROSE"))
		if isNSS && !hasPercent {
			return ConcKey{ConcentrationPerML: 9.0, VolumeML: parsed.VolumeML, Unit: ConcUnitPct}
		}

		isD5 := reD5.MatchString(desc) || strings.Contains(desc, "5% DEXTROSE")
		if isD5 && strings.Contains(generic, "DEXTROSE") && !hasPercent {
			return ConcKey{ConcentrationPerML: 50.0, VolumeML: parsed.VolumeML, Unit: ConcUnitPct}
		}

		isD10 := reD10.MatchString(desc) || strings.Contains(desc, "10% DEXTROSE")
		if isD10 && strings.Contains(generic, "DEXTROSE") && !hasPercent {
			return ConcKey{ConcentrationPerML: 100.0, VolumeML: parsed.VolumeML, Unit: ConcUnitPct}
		}
	}

	return nil
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
