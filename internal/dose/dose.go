// Package dose parses ESOA/Annex F dose strings into a small tagged-variant
// Key type and compares two keys with the zero-tolerance matching rules the
// drug-code matcher depends on.
package dose

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/carlosresu/drg-esoa-matcher/internal/units"
)

// Key is the tagged variant a dose string or structured dose columns reduce
// to. A nil Key means "no dose information available" — callers must treat
// that the same way the zero value of any interface is treated: no match.
type Key interface {
	doseTag() string
}

// IVKey represents an IV solution: concentration + diluent class + total
// volume. Distinct diluent classes never match, including Water vs Saline.
type IVKey struct {
	ConcentrationMgPerML *float64
	Diluent              units.Diluent
	TotalVolumeML        *float64
}

func (IVKey) doseTag() string { return "iv" }

// ConcUnit is the unit family a concentration was expressed in.
type ConcUnit string

const (
	ConcUnitMg  ConcUnit = "mg"
	ConcUnitIU  ConcUnit = "iu"
	ConcUnitPct ConcUnit = "pct"
)

// ConcKey represents a concentration (amount per volume). Volume is
// packaging information only and is never required to match.
type ConcKey struct {
	ConcentrationPerML float64
	VolumeML           *float64
	Unit               ConcUnit
}

func (ConcKey) doseTag() string { return "conc" }

// MgKey is a simple weight-based total dose.
type MgKey struct {
	TotalMg float64
}

func (MgKey) doseTag() string { return "mg" }

// IUKey is a simple international-unit total dose.
type IUKey struct {
	TotalIU float64
}

func (IUKey) doseTag() string { return "iu" }

// ComboKey is a combination-product total dose (sum of component weights).
type ComboKey struct {
	TotalMg float64
}

func (ComboKey) doseTag() string { return "combo" }

var (
	reConcentrationLike = regexp.MustCompile(`\d+\s*(MG|G|MCG)?\s*/\s*\d*M?L\b`)
	rePlusCombo         = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(MG|G|MCG)\s*\+\s*(\d+(?:\.\d+)?)\s*(MG|G|MCG)?`)
	reSlashCombo        = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(MG|G|MCG)\s*/\s*(\d+(?:\.\d+)?)\s*(MG|G|MCG)$`)
	rePipeNumber        = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

	reIUConc       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*I\.?U\.?\s*/\s*(ML|L)`)
	reIUDoseVol    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*I\.?U\.?\s*/\s*(\d+(?:\.\d+)?)\s*(ML|L)`)
	reIUSimple     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*I\.?U\.?\b`)
	reConc         = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(MG|G|MCG|UG)/\s*(ML|L)`)
	reDoseVol      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(MG|G|MCG|UG)\s*/\s*(\d+(?:\.\d+)?)\s*(ML|L)`)
	reBottleVol    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(ML|L)\b`)
	reSimpleDose   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(MG|G|GM|GRAM|MCG|UG|MICROGRAM)\b`)
	reAnnexUnit    = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s+(MG|G|MCG|UG)\s*$`)
	reBareNumber   = regexp.MustCompile(`^(\d+(?:\.\d+)?)(?:$|[^A-Z0-9]|TAB|CAP|TABLET|CAPSULE)`)
	reVolumeAny    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(ML|L|CC)\b`)
	rePercent      = regexp.MustCompile(`(\d*\.?\d+)\s*%`)
	reMultiSpace   = regexp.MustCompile(`\s+`)
	reDigitSpace   = regexp.MustCompile(`(\d)\s+(\d)`)
)

// bareNumberMin/Max bound the "assume mg" heuristic for an otherwise unitless
// numeric dose string. No authoritative source fixes this range; it is kept
// as a named constant per the matcher's own open question on the subject.
const (
	bareNumberMin = 0.1
	bareNumberMax = 10000
)

// ParsedDose is the intermediate result of parsing a free-text dose string,
// mirroring the four-tuple parse_dose_to_mg returns in the reference
// implementation before it collapses into a Key.
type ParsedDose struct {
	TotalDoseMg          *float64
	ConcentrationPerML   *float64
	VolumeML             *float64
	UnitType             string // "mg", "iu", "pct", "combo", or "" when nothing matched
}

// ParseComboDose recognizes combination-product dose strings ("500MG+125MG",
// "500MG/125MG", Annex F's pipe-separated "400|MG|57|ML|35") and returns the
// per-component mg values, their sum, and an optional bottle volume. ok is
// false when dose does not look like a combo at all.
func ParseComboDose(dose string) (components []float64, total float64, bottleVolumeML *float64, ok bool) {
	d := strings.ToUpper(strings.TrimSpace(dose))
	if d == "" {
		return nil, 0, nil, false
	}
	if reConcentrationLike.MatchString(d) {
		return nil, 0, nil, false
	}

	if matches := rePlusCombo.FindAllStringSubmatch(d, -1); len(matches) > 0 {
		var comps []float64
		for _, m := range matches {
			val1, _ := strconv.ParseFloat(m[1], 64)
			unit1 := m[2]
			val2, _ := strconv.ParseFloat(m[3], 64)
			unit2 := m[4]
			if unit2 == "" {
				unit2 = unit1
			}
			comps = append(comps, val1*units.WeightToMg[unit1], val2*units.WeightToMg[unit2])
		}
		if len(comps) > 0 {
			return comps, sum(comps), nil, true
		}
	}

	if m := reSlashCombo.FindStringSubmatch(d); m != nil {
		val1, _ := strconv.ParseFloat(m[1], 64)
		val2, _ := strconv.ParseFloat(m[3], 64)
		mg1 := val1 * units.WeightToMg[m[2]]
		mg2 := val2 * units.WeightToMg[m[4]]
		return []float64{mg1, mg2}, mg1 + mg2, nil, true
	}

	parts := strings.Split(strings.ReplaceAll(d, " ", ""), "|")
	var doses []float64
	var bottleVol *float64
	lastWasDose := false
	lastUnit := ""

	i := 0
	for i < len(parts) {
		part := parts[i]
		if !rePipeNumber.MatchString(part) {
			lastWasDose = false
			lastUnit = ""
			i++
			continue
		}
		num, _ := strconv.ParseFloat(part, 64)
		if i+1 < len(parts) {
			next := parts[i+1]
			if next == "MG" || next == "G" || next == "MCG" {
				if lastUnit == "MG" && next == "G" && num <= 10 {
					i += 2
					continue
				}
				doses = append(doses, num*units.WeightToMg[next])
				lastWasDose = true
				lastUnit = next
				i += 2
				continue
			}
			if next == "ML" {
				if lastWasDose && num < 1000 {
					doses = append(doses, num)
					lastWasDose = true
					i += 2
					continue
				}
				v := num
				bottleVol = &v
				lastWasDose = false
				i += 2
				continue
			}
		}
		if i > 0 && (parts[i-1] == "MG" || parts[i-1] == "G" || parts[i-1] == "MCG") {
			if i+1 < len(parts) && parts[i+1] == "G" {
				i += 2
				continue
			}
			doses = append(doses, num)
			lastWasDose = true
			i++
			continue
		}
		i++
	}

	if len(doses) >= 2 {
		return doses, sum(doses), bottleVol, true
	}
	return nil, 0, nil, false
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

// ParseDoseString parses a free-text dose string into its structured
// components, porting parse_dose_to_mg's pattern cascade exactly, including
// pattern precedence (a combo match short-circuits everything else; once a
// total dose or concentration is found, later patterns only fill gaps).
func ParseDoseString(dose string) ParsedDose {
	d := strings.ToUpper(strings.TrimSpace(dose))
	if d == "" {
		return ParsedDose{}
	}

	if _, total, bottleVol, ok := ParseComboDose(d); ok {
		t := total
		return ParsedDose{TotalDoseMg: &t, VolumeML: bottleVol, UnitType: "combo"}
	}

	d = strings.ReplaceAll(d, "|", " ")
	d = reMultiSpace.ReplaceAllString(d, " ")
	d = reDigitSpace.ReplaceAllString(d, "$1$2")

	var totalDose, concentration, volumeML *float64
	unitType := ""

	if m := reIUConc.FindStringSubmatch(d); m != nil {
		val, _ := strconv.ParseFloat(m[1], 64)
		c := val
		if m[2] == "L" {
			c = val / 1000.0
		}
		concentration = &c
		unitType = "iu"
	}

	if m := reIUDoseVol.FindStringSubmatch(d); m != nil {
		doseVal, _ := strconv.ParseFloat(m[1], 64)
		volVal, _ := strconv.ParseFloat(m[2], 64)
		td := doseVal
		totalDose = &td
		v := volVal
		if m[3] == "L" {
			v = volVal * 1000.0
		}
		volumeML = &v
		if *volumeML > 0 {
			c := *totalDose / *volumeML
			concentration = &c
		}
		unitType = "iu"
	}

	if unitType == "" {
		if m := reIUSimple.FindStringSubmatch(d); m != nil {
			val, _ := strconv.ParseFloat(m[1], 64)
			totalDose = &val
			unitType = "iu"
		}
	}

	if unitType == "" {
		if m := reConc.FindStringSubmatch(d); m != nil {
			val, _ := strconv.ParseFloat(m[1], 64)
			mgVal := val * units.WeightToMg[m[2]]
			c := mgVal
			if m[3] == "L" {
				c = mgVal / 1000.0
			}
			concentration = &c
			unitType = "mg"
		}
	}

	if unitType == "" || unitType == "mg" {
		if m := reDoseVol.FindStringSubmatch(d); m != nil {
			doseVal, _ := strconv.ParseFloat(m[1], 64)
			volVal, _ := strconv.ParseFloat(m[3], 64)
			td := doseVal * units.WeightToMg[m[2]]
			totalDose = &td
			denomVol := volVal
			if m[4] == "L" {
				denomVol = volVal * 1000.0
			}
			if denomVol > 0 {
				c := td / denomVol
				concentration = &c
			}
			unitType = "mg"

			loc := reDoseVol.FindStringSubmatchIndex(d)
			after := d[loc[1]:]
			if bm := reBottleVol.FindStringSubmatch(after); bm != nil {
				bv, _ := strconv.ParseFloat(bm[1], 64)
				vol := bv
				if bm[2] == "L" {
					vol = bv * 1000.0
				}
				volumeML = &vol
			} else {
				vol := denomVol
				volumeML = &vol
			}
		}
	}

	if totalDose == nil && concentration == nil && unitType == "" {
		if m := reSimpleDose.FindStringSubmatch(d); m != nil {
			val, _ := strconv.ParseFloat(m[1], 64)
			td := val * units.WeightToMg[m[2]]
			totalDose = &td
			unitType = "mg"
		}
	}

	if totalDose == nil && concentration == nil && unitType == "" {
		if m := reAnnexUnit.FindStringSubmatch(d); m != nil {
			val, _ := strconv.ParseFloat(m[1], 64)
			td := val * units.WeightToMg[m[2]]
			totalDose = &td
			unitType = "mg"
		}
	}

	// A string carrying a percentage is left to the percentage parser below.
	if totalDose == nil && concentration == nil && unitType == "" && !rePercent.MatchString(d) {
		if m := reBareNumber.FindStringSubmatch(d); m != nil {
			val, _ := strconv.ParseFloat(m[1], 64)
			if val >= bareNumberMin && val <= bareNumberMax {
				td := val
				totalDose = &td
				unitType = "mg"
			}
		}
	}

	if volumeML == nil {
		if ms := reVolumeAny.FindAllStringSubmatch(d, -1); len(ms) > 0 {
			last := ms[len(ms)-1]
			val, _ := strconv.ParseFloat(last[1], 64)
			v := val
			switch last[2] {
			case "L":
				v = val * 1000.0
			case "CC":
				v = val
			}
			volumeML = &v
		}
	}

	if totalDose == nil && concentration == nil && unitType == "" {
		if m := rePercent.FindStringSubmatch(d); m != nil {
			pct, _ := strconv.ParseFloat(m[1], 64)
			if pct == 9 {
				pct = 0.9
			}
			c := pct * 10.0
			concentration = &c
			unitType = "pct"
		}
	}

	return ParsedDose{
		TotalDoseMg:        totalDose,
		ConcentrationPerML: concentration,
		VolumeML:           volumeML,
		UnitType:           unitType,
	}
}
