// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package script reports which writing systems appear in a source text.
package script

import (
	"unicode"

	"golang.org/x/text/unicode/bidi"
)

// ContainsRTL reports whether s holds any strong right-to-left character
// (Hebrew, Arabic, Syriac, Thaana, N'Ko and their presentation forms).
func ContainsRTL(s string) bool {
	for _, r := range s {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.R, bidi.AL:
			return true
		}
	}
	return false
}

// known lists the scripts Detect looks for, in reporting order.
var known = []struct {
	name  string
	table *unicode.RangeTable
}{
	{"Latin", unicode.Latin},
	{"Greek", unicode.Greek},
	{"Coptic", unicode.Coptic},
	{"Hebrew", unicode.Hebrew},
	{"Arabic", unicode.Arabic},
	{"Syriac", unicode.Syriac},
	{"Armenian", unicode.Armenian},
}

// Detect returns the names of the known scripts present in s.
func Detect(s string) []string {
	seen := make([]bool, len(known))
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		for i, k := range known {
			if !seen[i] && unicode.Is(k.table, r) {
				seen[i] = true
				break
			}
		}
	}
	var names []string
	for i, ok := range seen {
		if ok {
			names = append(names, known[i].name)
		}
	}
	return names
}
