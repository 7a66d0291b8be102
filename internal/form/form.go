// Package form implements the dosage-form and route compatibility oracle:
// two forms (or routes) are compatible if they're identical, directly
// equivalent, or share an administration route once route synonyms are
// expanded.
package form

import (
	"strings"

	"github.com/carlosresu/drg-esoa-matcher/internal/units"
)

// Compatible reports whether candFormRaw and esoaFormRaw can be treated as
// the same dosage form for matching purposes. A missing form on either side
// is always compatible — absence of information is never a mismatch.
func Compatible(candFormRaw, esoaFormRaw, candRouteRaw, esoaRouteRaw string) bool {
	candForm := strings.ToUpper(strings.TrimSpace(candFormRaw))
	esoaForm := strings.ToUpper(strings.TrimSpace(esoaFormRaw))
	if candForm == "" || esoaForm == "" {
		return true
	}
	if candForm == esoaForm {
		return true
	}
	if units.FormEquivalents[candForm][esoaForm] || units.FormEquivalents[esoaForm][candForm] {
		return true
	}

	candRoutes := routeSetFor(candForm)
	esoaRoutes := routeSetFor(esoaForm)

	if candRoute := strings.ToUpper(strings.TrimSpace(candRouteRaw)); candRoute != "" {
		candRoutes = intersectOrSingleton(candRoutes, candRoute)
	}
	if esoaRoute := strings.ToUpper(strings.TrimSpace(esoaRouteRaw)); esoaRoute != "" {
		esoaRoutes = intersectOrSingleton(esoaRoutes, esoaRoute)
	}

	if len(candRoutes) > 0 && len(esoaRoutes) > 0 {
		expandedCand := expandRoutes(candRoutes)
		expandedEsoa := expandRoutes(esoaRoutes)
		return setsIntersect(expandedCand, expandedEsoa)
	}

	for _, group := range units.FormCompatibleGroups {
		if group[candForm] && group[esoaForm] {
			return true
		}
	}
	return false
}

// RouteMatches reports whether two route strings denote the same or
// synonymous administration route. A missing route on either side is always
// compatible.
func RouteMatches(candRouteRaw, esoaRouteRaw string) bool {
	candRoute := strings.ToUpper(strings.TrimSpace(candRouteRaw))
	esoaRoute := strings.ToUpper(strings.TrimSpace(esoaRouteRaw))
	if candRoute == "" || esoaRoute == "" {
		return true
	}
	if candRoute == esoaRoute {
		return true
	}

	candGroups := make(map[string]bool)
	esoaGroups := make(map[string]bool)
	for _, group := range units.RouteSynonymGroups {
		if group[candRoute] {
			for r := range group {
				candGroups[r] = true
			}
		}
		if group[esoaRoute] {
			for r := range group {
				esoaGroups[r] = true
			}
		}
	}
	if len(candGroups) == 0 || len(esoaGroups) == 0 {
		return false
	}
	return setsIntersect(candGroups, esoaGroups)
}

func routeSetFor(formUpper string) map[string]bool {
	set := make(map[string]bool)
	if routes, ok := units.FormToRoutes[formUpper]; ok {
		for _, r := range routes {
			set[r] = true
		}
		return set
	}
	for key, routes := range units.FormToRoutes {
		if strings.Contains(key, formUpper) || strings.Contains(formUpper, key) {
			for _, r := range routes {
				set[r] = true
			}
			break
		}
	}
	return set
}

func intersectOrSingleton(set map[string]bool, route string) map[string]bool {
	if len(set) == 0 {
		return map[string]bool{route: true}
	}
	if set[route] {
		return map[string]bool{route: true}
	}
	return map[string]bool{}
}

func expandRoutes(set map[string]bool) map[string]bool {
	expanded := make(map[string]bool)
	for r := range set {
		expanded[r] = true
		for _, group := range units.RouteSynonymGroups {
			if group[r] {
				for syn := range group {
					expanded[syn] = true
				}
			}
		}
	}
	return expanded
}

func setsIntersect(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}
