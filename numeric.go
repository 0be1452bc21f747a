// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"regexp"
	"strconv"
)

var nonNumericRe = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumeric pulls a number out of a result string such as
// "98.7 %" or "NMT 0.5". Everything except digits, '.' and '-' is
// dropped before parsing; ok is false when nothing parseable is left.
func ParseNumeric(s string) (value float64, ok bool) {
	cleaned := nonNumericRe.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
