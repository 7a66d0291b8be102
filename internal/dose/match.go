package dose

import "math"

const (
	mgAbsTolerance    = 0.5
	mgRelTolerance    = 0.01
	concAbsTolerance  = 0.1
	concRelTolerance  = 0.01
	comboTolerance    = 0.01
	crossTolerance    = 0.01
)

// Match compares two dose keys with zero tolerance for a genuine dose
// difference, applying the cross-type equivalences (mg vs conc, iu vs conc,
// combo vs mg) the matcher relies on. A nil key on either side never
// matches.
func Match(annex, esoa Key) bool {
	if annex == nil || esoa == nil {
		return false
	}

	annexIV, annexIsIV := annex.(IVKey)
	esoaIV, esoaIsIV := esoa.(IVKey)
	if annexIsIV || esoaIsIV {
		if annexIsIV != esoaIsIV {
			return false
		}
		return ivEqual(annexIV, esoaIV)
	}

	annexIU, annexIsIU := annex.(IUKey)
	esoaIU, esoaIsIU := esoa.(IUKey)
	if annexIsIU && esoaIsIU {
		return annexIU.TotalIU == esoaIU.TotalIU
	}

	annexMg, annexIsMg := annex.(MgKey)
	esoaMg, esoaIsMg := esoa.(MgKey)
	if annexIsMg && esoaIsMg {
		return mgEqual(annexMg.TotalMg, esoaMg.TotalMg)
	}

	annexCombo, annexIsCombo := annex.(ComboKey)
	esoaCombo, esoaIsCombo := esoa.(ComboKey)
	if annexIsCombo || esoaIsCombo {
		aVal, aOk := comboOperand(annex, annexCombo, annexIsCombo, annexMg, annexIsMg)
		eVal, eOk := comboOperand(esoa, esoaCombo, esoaIsCombo, esoaMg, esoaIsMg)
		if aOk && eOk {
			return math.Abs(aVal-eVal) < comboTolerance
		}
		return false
	}

	annexConc, annexIsConc := annex.(ConcKey)
	esoaConc, esoaIsConc := esoa.(ConcKey)
	if annexIsConc && esoaIsConc {
		return concEqual(annexConc, esoaConc)
	}

	if (annexIsMg && esoaIsConc) || (annexIsConc && esoaIsMg) {
		var mgVal float64
		var conc ConcKey
		if annexIsMg {
			mgVal, conc = annexMg.TotalMg, esoaConc
		} else {
			mgVal, conc = esoaMg.TotalMg, annexConc
		}
		return mgConcCross(mgVal, conc)
	}

	if (annexIsIU && esoaIsConc) || (annexIsConc && esoaIsIU) {
		var iuVal float64
		var conc ConcKey
		if annexIsIU {
			iuVal, conc = annexIU.TotalIU, esoaConc
		} else {
			iuVal, conc = esoaIU.TotalIU, annexConc
		}
		return iuConcCross(iuVal, conc)
	}

	return false
}

func comboOperand(k Key, combo ComboKey, isCombo bool, mg MgKey, isMg bool) (float64, bool) {
	if isCombo {
		return combo.TotalMg, true
	}
	if isMg {
		return mg.TotalMg, true
	}
	return 0, false
}

func ivEqual(a, e IVKey) bool {
	if !floatPtrEqual(a.ConcentrationMgPerML, e.ConcentrationMgPerML) {
		return false
	}
	if !a.Diluent.Equal(e.Diluent) {
		return false
	}
	if a.TotalVolumeML != nil && e.TotalVolumeML != nil && *a.TotalVolumeML != *e.TotalVolumeML {
		return false
	}
	return true
}

func mgEqual(a, e float64) bool {
	diff := math.Abs(a - e)
	rel := diff / math.Max(math.Max(a, e), 1.0)
	return diff <= mgAbsTolerance || rel <= mgRelTolerance
}

func concEqual(a, e ConcKey) bool {
	aUnit, eUnit := a.Unit, e.Unit
	if aUnit == "" {
		aUnit = ConcUnitMg
	}
	if eUnit == "" {
		eUnit = ConcUnitMg
	}
	if aUnit == ConcUnitIU && eUnit != ConcUnitIU {
		return false
	}
	if eUnit == ConcUnitIU && aUnit != ConcUnitIU {
		return false
	}
	diff := math.Abs(a.ConcentrationPerML - e.ConcentrationPerML)
	rel := diff / math.Max(math.Max(a.ConcentrationPerML, e.ConcentrationPerML), 1.0)
	if diff > concAbsTolerance && rel > concRelTolerance {
		return false
	}
	return true
}

func mgConcCross(mgVal float64, conc ConcKey) bool {
	unit := conc.Unit
	if unit == "" {
		unit = ConcUnitMg
	}
	if unit == ConcUnitIU {
		return false
	}
	if conc.VolumeML != nil && *conc.VolumeML > 0 {
		total := conc.ConcentrationPerML * *conc.VolumeML
		if math.Abs(total-mgVal) < crossTolerance {
			return true
		}
	}
	return math.Abs(conc.ConcentrationPerML-mgVal) < crossTolerance
}

func iuConcCross(iuVal float64, conc ConcKey) bool {
	if conc.Unit != ConcUnitIU {
		return false
	}
	if conc.VolumeML != nil && *conc.VolumeML > 0 {
		total := conc.ConcentrationPerML * *conc.VolumeML
		if math.Abs(total-iuVal) < crossTolerance {
			return true
		}
	}
	return math.Abs(conc.ConcentrationPerML-iuVal) < crossTolerance
}

// floatPtrEqual mirrors Python's None == None → True semantics: two nil
// pointers are equal, a nil and a non-nil are never equal, two non-nil
// pointers compare their pointees.
func floatPtrEqual(a, e *float64) bool {
	if a == nil || e == nil {
		return a == e
	}
	return *a == *e
}
