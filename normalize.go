// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe     = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)
	openBracketRe    = regexp.MustCompile(`\(\s+`)
	closeBracketRe   = regexp.MustCompile(`\s+\)`)
	trailingJunkRe   = regexp.MustCompile(`[\s:\-]+$`)
	oddDegreeRe      = regexp.MustCompile(`(\d+)[^\w\s°](C|F)`)
	serialTokenRe    = regexp.MustCompile(`^\d+(\.\d+)?$`)
	parentSerialRe   = regexp.MustCompile(`^\d+$`)
	trailingNumberRe = regexp.MustCompile(`\d+$`)
)

// collapse replaces every whitespace run with one space and trims.
func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Normalize cleans a table field: whitespace runs collapse, padding
// inside brackets goes, and a trailing run of spaces, colons and
// dashes is cut. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	t := whitespaceRe.ReplaceAllString(s, " ")
	t = openBracketRe.ReplaceAllString(t, "(")
	t = closeBracketRe.ReplaceAllString(t, ")")
	t = trailingJunkRe.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

// NormalizeStorageCondition repairs temperature units in a storage
// condition: compatibility forms such as ℃ are decomposed and a stray
// glyph between the number and the unit becomes a degree sign.
// "25C/60%RH" is left as it is.
func NormalizeStorageCondition(s string) string {
	t := norm.NFKC.String(strings.TrimSpace(s))
	return oddDegreeRe.ReplaceAllString(t, "${1}°${2}")
}

// appendText joins add onto base with a single space.
func appendText(base, add string) string {
	a := strings.TrimSpace(add)
	if a == "" {
		return base
	}
	if base == "" {
		return a
	}
	return base + " " + a
}

// splitSerial picks the first serial-number token out of the serial
// column text. Tokens after it are returned as rest; tokens before it
// are dropped.
func splitSerial(raw string) (serial, rest string) {
	parts := strings.Fields(raw)
	for i, p := range parts {
		if serialTokenRe.MatchString(p) {
			return p, strings.Join(parts[i+1:], " ")
		}
	}
	return "", ""
}
