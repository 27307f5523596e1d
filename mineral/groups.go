// Package mineral maps the free-text mineral_groups attribute of a borehole
// onto the fixed set of groups shown in the map legend.
package mineral

import (
	"regexp"
	"strings"
)

// Groups is the legend order. Matching walks it in this order.
var Groups = []string{
	"Base Metals",
	"Base Metals & Precious Metals",
	"Base, Precious, Dimension & Industrial",
	"Fossil Fuels",
	"Industrial Minerals",
	"Nuclear Fuels",
	"Precious Stones",
	"Precious Metals",
}

var (
	spaceRe     = regexp.MustCompile(`\s+`)
	ampersandRe = regexp.MustCompile(`\s*&\s*`)
	commaRe     = regexp.MustCompile(`\s*,\s*`)
	dashRe      = regexp.MustCompile(`\s*-\s*`)

	normalizedGroups = func() []string {
		out := make([]string, len(Groups))
		for i, g := range Groups {
			out[i] = Normalize(g)
		}
		return out
	}()
)

// Normalize lower-cases name and canonicalises spacing around '&', ',' and '-'.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = spaceRe.ReplaceAllString(s, " ")
	s = ampersandRe.ReplaceAllString(s, " & ")
	s = commaRe.ReplaceAllString(s, ", ")
	s = dashRe.ReplaceAllString(s, "-")
	return s
}

// Standard returns the legend group for a raw attribute value, or "" and
// false when nothing matches. An exact normalised match wins; otherwise the
// first group where one normalised string contains the other. A value that
// is blank after normalisation matches no group, so empty attributes are
// counted as unmatched instead of falling into the first group.
func Standard(raw string) (string, bool) {
	in := Normalize(raw)
	if in == "" {
		return "", false
	}
	for i, g := range normalizedGroups {
		if g == in {
			return Groups[i], true
		}
	}
	for i, g := range normalizedGroups {
		if strings.Contains(in, g) || strings.Contains(g, in) {
			return Groups[i], true
		}
	}
	return "", false
}

// IsGroup reports whether name is one of Groups after normalisation.
func IsGroup(name string) bool {
	n := Normalize(name)
	for _, g := range normalizedGroups {
		if g == n {
			return true
		}
	}
	return false
}
